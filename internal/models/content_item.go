package models

// ContentType identifies the kind of content being routed.
type ContentType string

const (
	// ContentTypeMovie is a movie watchlist item.
	ContentTypeMovie ContentType = "movie"

	// ContentTypeShow is a TV show watchlist item.
	ContentTypeShow ContentType = "show"
)

// Valid reports whether the content type is a known kind.
func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeShow
}

// TargetType returns the acquisition-target kind that handles this content.
func (t ContentType) TargetType() TargetType {
	if t == ContentTypeShow {
		return TargetTypeSonarr
	}
	return TargetTypeRadarr
}

// ContentItem is a watchlist item being routed. It is never persisted by the
// routing engine; upstream metadata lookups populate it per request.
//
// Field evaluators read the typed fields they own; anything else lives in
// the Metadata bag, which the engine treats as an opaque key/value view.
type ContentItem struct {
	// Title is the display title of the content.
	Title string `json:"title"`

	// Type is movie or show.
	Type ContentType `json:"type"`

	// Genres holds the genre labels from metadata lookup.
	Genres []string `json:"genres,omitempty"`

	// Certification is the content rating (e.g. "PG-13", "TV-MA").
	Certification string `json:"certification,omitempty"`

	// Language is the original language of the content.
	Language string `json:"language,omitempty"`

	// Year is the release year, zero when unknown.
	Year int `json:"year,omitempty"`

	// Metadata carries additional evaluator-specific attributes.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// MetadataValue returns a metadata attribute by key.
func (c *ContentItem) MetadataValue(key string) (string, bool) {
	if c == nil || c.Metadata == nil {
		return "", false
	}
	v, ok := c.Metadata[key]
	return v, ok
}
