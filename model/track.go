package model

// Track types recognised by the library.
const (
	TypeMusic    = "music"
	TypeAmbience = "ambience"
	TypeSFX      = "sfx"
)

// Track represents an audio file discovered under the assets root.
// ID is the forward-slash relative path and doubles as the metadata key.
type Track struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Filename    string  `json:"filename"`
	Type        string  `json:"type"`
	Frame       *string `json:"frame"` // nil for the Global frame
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Icon        string  `json:"icon"`
}

// TrackMetadata is the record stored per track path. Only "icon" is written
// by the service; other keys are preserved untouched.
type TrackMetadata map[string]string

// Icon returns the stored icon, or "" when none is set.
func (m TrackMetadata) Icon() string {
	return m["icon"]
}

// Merge copies every field of partial into m, creating m when nil.
func (m TrackMetadata) Merge(partial TrackMetadata) TrackMetadata {
	if m == nil {
		m = make(TrackMetadata, len(partial))
	}
	for k, v := range partial {
		m[k] = v
	}
	return m
}
