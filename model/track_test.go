package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackMetadataMerge(t *testing.T) {
	var empty TrackMetadata
	merged := empty.Merge(TrackMetadata{"icon": "Sword"})
	assert.Equal(t, "Sword", merged.Icon())

	existing := TrackMetadata{"icon": "Music", "color": "red"}
	existing = existing.Merge(TrackMetadata{"icon": "Drum"})
	assert.Equal(t, TrackMetadata{"icon": "Drum", "color": "red"}, existing)
}
