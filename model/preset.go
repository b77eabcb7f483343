package model

import "encoding/json"

// Preset is a named, ordered group of track references tied to a frame.
// Tracks are kept as raw JSON so clients may store ids or full track objects.
type Preset struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Frame  string            `json:"frame"`
	Tracks []json.RawMessage `json:"tracks"`
}

// Orders maps a caller-defined key to an ordered list of track ids.
type Orders map[string][]string

// Settings is the freeform user settings document.
type Settings map[string]any

// Structure is the taxonomy tree: frame -> type -> category -> subcategories.
type Structure map[string]map[string]map[string][]string
