package models

// Instance represents a configured acquisition-target instance
// (a Radarr or Sonarr deployment) that router rules can route to.
//
// The routing engine never talks to the instance itself; it only passes
// instance IDs through on routing decisions. Quality-profile and root-folder
// defaults live here so rules can omit them and fall back.
type Instance struct {
	BaseModel

	// Name is a human-readable name for this instance.
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`

	// Type is the kind of acquisition target this instance is.
	Type TargetType `gorm:"size:20;not null;index" json:"type"`

	// BaseURL is the instance's API base URL.
	BaseURL string `gorm:"size:512;not null" json:"base_url"`

	// APIKey authenticates against the instance API.
	// Tagged for redaction so it never appears in structured logs.
	APIKey string `gorm:"size:255" json:"api_key,omitempty" masq:"secret"`

	// QualityProfile is the default quality profile for rules that omit one.
	QualityProfile string `gorm:"size:255" json:"quality_profile,omitempty"`

	// RootFolder is the default root folder for rules that omit one.
	RootFolder string `gorm:"size:512" json:"root_folder,omitempty"`

	// Enabled determines if the instance can receive routed content.
	Enabled *bool `gorm:"default:true" json:"enabled"`
}

// TableName returns the table name for the Instance model.
func (Instance) TableName() string {
	return "instances"
}

// IsEnabled reports whether the instance can receive routed content.
func (i *Instance) IsEnabled() bool {
	return BoolVal(i.Enabled)
}

// Validate checks if the instance configuration is valid.
func (i *Instance) Validate() error {
	if i.Name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if !i.Type.Valid() {
		return ValidationError{Field: "type", Message: "type must be 'radarr' or 'sonarr'"}
	}
	if i.BaseURL == "" {
		return ValidationError{Field: "base_url", Message: "base_url is required"}
	}
	return nil
}
