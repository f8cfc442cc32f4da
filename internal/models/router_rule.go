package models

import "encoding/json"

// TargetType identifies the kind of acquisition target a rule routes to.
type TargetType string

const (
	// TargetTypeRadarr routes movies to a Radarr instance.
	TargetTypeRadarr TargetType = "radarr"

	// TargetTypeSonarr routes shows to a Sonarr instance.
	TargetTypeSonarr TargetType = "sonarr"
)

// Valid reports whether the target type is a known kind.
func (t TargetType) Valid() bool {
	return t == TargetTypeRadarr || t == TargetTypeSonarr
}

// String returns the string representation of the target type.
func (t TargetType) String() string {
	return string(t)
}

// RouterRule represents a persisted, user-authored content routing rule.
//
// A rule matches content either through a Condition tree (the generic path)
// or through a flat Criteria map (the legacy per-evaluator path, e.g.
// {"genre": ["Anime"]}). The two are mutually exclusive by construction in
// the authoring UI; storage does not enforce exclusivity, and when both are
// present the condition tree takes precedence during resolution.
//
// Both Condition and Criteria are stored as JSON text so that historic rules
// round-trip unchanged; the routing engine decodes and validates the
// condition tree when building its rule snapshot, not at query time.
type RouterRule struct {
	BaseModel

	// Name is a human-readable name for this rule.
	Name string `gorm:"size:255;not null" json:"name"`

	// TargetType selects which kind of acquisition target this rule feeds.
	TargetType TargetType `gorm:"size:20;not null;index" json:"target_type"`

	// TargetInstanceID references the Instance that receives matched content.
	TargetInstanceID ULID `gorm:"type:varchar(26);not null;index" json:"target_instance_id"`

	// Condition is the serialized condition tree (generic path).
	Condition json.RawMessage `gorm:"type:text" json:"condition,omitempty"`

	// Criteria is the serialized flat criteria map (legacy path).
	Criteria json.RawMessage `gorm:"type:text" json:"criteria,omitempty"`

	// RootFolder is the storage location passed through to the target.
	RootFolder string `gorm:"size:512" json:"root_folder,omitempty"`

	// QualityProfile is the quality profile passed through to the target.
	QualityProfile string `gorm:"size:255" json:"quality_profile,omitempty"`

	// Order is the rule weight; higher values rank earlier in routing results.
	Order int `gorm:"column:rule_order;default:0;not null;index" json:"order"`

	// Enabled determines if the rule participates in routing.
	// Pointer distinguishes "not set" (nil, defaults true) from explicit false.
	Enabled *bool `gorm:"default:true" json:"enabled"`

	// SearchOnAdd asks the target to search immediately after adding.
	// Opaque to the routing engine; passed through on decisions.
	SearchOnAdd *bool `json:"search_on_add,omitempty"`

	// SeasonMonitoring is the season-monitoring policy for show targets.
	// Opaque to the routing engine; passed through on decisions.
	SeasonMonitoring string `gorm:"size:32" json:"season_monitoring,omitempty"`
}

// TableName returns the table name for the RouterRule model.
func (RouterRule) TableName() string {
	return "router_rules"
}

// IsEnabled reports whether the rule participates in routing.
func (r *RouterRule) IsEnabled() bool {
	return BoolVal(r.Enabled)
}

// HasCondition reports whether the rule carries a condition tree.
func (r *RouterRule) HasCondition() bool {
	return len(r.Condition) > 0 && string(r.Condition) != "null"
}

// HasCriteria reports whether the rule carries a legacy criteria map.
func (r *RouterRule) HasCriteria() bool {
	return len(r.Criteria) > 0 && string(r.Criteria) != "null"
}

// CriteriaMap decodes the legacy criteria map. Returns an empty map when the
// rule has no criteria or the stored JSON is not an object.
func (r *RouterRule) CriteriaMap() map[string]json.RawMessage {
	if !r.HasCriteria() {
		return map[string]json.RawMessage{}
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(r.Criteria, &m); err != nil {
		return map[string]json.RawMessage{}
	}
	return m
}

// Validate checks if the rule configuration is valid.
func (r *RouterRule) Validate() error {
	if r.Name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if !r.TargetType.Valid() {
		return ValidationError{Field: "target_type", Message: "target_type must be 'radarr' or 'sonarr'"}
	}
	if r.TargetInstanceID.IsZero() {
		return ValidationError{Field: "target_instance_id", Message: "target_instance_id is required"}
	}
	return nil
}
