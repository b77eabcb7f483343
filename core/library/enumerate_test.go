package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiodeck/model"
)

func TestTracks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "Fantasy/music/Battle/General/epic_theme.mp3", "Sword")
	f.put(t, "Global/ambience/Storm/heavy-rain.WAV", "")
	f.put(t, "mocks/sfx/Hits/punch.ogg", "")
	f.put(t, "Global/weird/Stuff/beep.mp3", "")
	f.put(t, "Fantasy/music/Battle/cover.png", "")

	tracks, err := f.lib.ListTracks(ctx, "http://localhost:5000")
	require.NoError(t, err)
	require.Len(t, tracks, 4)

	byID := map[string]model.Track{}
	for _, tr := range tracks {
		byID[tr.ID] = tr
	}

	epic := byID["Fantasy/music/Battle/General/epic_theme.mp3"]
	assert.Equal(t, "Epic Theme", epic.Name)
	require.NotNil(t, epic.Frame)
	assert.Equal(t, "Fantasy", *epic.Frame)
	assert.Equal(t, "music", epic.Type)
	assert.Equal(t, "Battle", epic.Category)
	assert.Equal(t, "General", epic.Subcategory)
	assert.Equal(t, "Sword", epic.Icon)
	assert.Equal(t, "http://localhost:5000/assets/Fantasy/music/Battle/General/epic_theme.mp3", epic.URL)
	assert.Equal(t, epic.ID, epic.Filename)

	rain := byID["Global/ambience/Storm/heavy-rain.WAV"]
	assert.Nil(t, rain.Frame, "Global is reported as no frame")
	assert.Equal(t, "CloudRain", rain.Icon)
	assert.Equal(t, "", rain.Subcategory)
	assert.Equal(t, "Heavy Rain", rain.Name)

	punch := byID["mocks/sfx/Hits/punch.ogg"]
	assert.Nil(t, punch.Frame)
	assert.Equal(t, "Music", punch.Icon)

	assert.Equal(t, "sfx", byID["Global/weird/Stuff/beep.mp3"].Type)
}

func TestTracksReflectDisk(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seq := f.lib.Tracks(ctx, "")

	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}

	assert.Zero(t, count(), "missing root yields nothing")
	f.put(t, "Global/sfx/Hits/a.mp3", "")
	assert.Equal(t, 1, count())
	f.put(t, "Global/sfx/Hits/b.mp3", "")
	assert.Equal(t, 2, count(), "each iteration walks the tree again")
}

func TestTracksEarlyStop(t *testing.T) {
	f := newFixture(t)
	f.put(t, "Global/sfx/Hits/a.mp3", "")
	f.put(t, "Global/sfx/Hits/b.mp3", "")

	n := 0
	for range f.lib.Tracks(context.Background(), "") {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestTracksCancelled(t *testing.T) {
	f := newFixture(t)
	f.put(t, "Global/sfx/Hits/a.mp3", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.lib.ListTracks(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "Global/sfx/Hits/keep.wav", "Fist")
	f.put(t, "Global/sfx/Hits/gone.wav", "Bell")
	require.NoError(t, f.meta.Save(ctx, "../escape.mp3", model.TrackMetadata{"icon": "X"}))
	require.NoError(t, os.Remove(filepath.Join(f.root, "Global", "sfx", "Hits", "gone.wav")))

	res, err := f.lib.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Checked)
	assert.Equal(t, []string{"../escape.mp3", "Global/sfx/Hits/gone.wav"}, res.Removed)
	first := f.metadata(t)
	assert.Equal(t, map[string]model.TrackMetadata{"Global/sfx/Hits/keep.wav": {"icon": "Fist"}}, first)

	res, err = f.lib.Prune(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
	assert.Equal(t, first, f.metadata(t), "pruning twice equals pruning once")
}

func TestPruneKeyBelowFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.put(t, "Global/sfx/Hits/a.mp3", "Bell")
	f.put(t, "Global/sfx/Hits/gone.mp3", "Bell")
	changed, err := f.lib.UpdateIcon(ctx, "Global/sfx/Hits/a.mp3/ghost.mp3", "Star")
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, os.Remove(filepath.Join(f.root, "Global", "sfx", "Hits", "gone.mp3")))

	res, err := f.lib.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Checked)
	assert.Equal(t, []string{"Global/sfx/Hits/a.mp3/ghost.mp3", "Global/sfx/Hits/gone.mp3"}, res.Removed)
	assert.Equal(t, map[string]model.TrackMetadata{"Global/sfx/Hits/a.mp3": {"icon": "Bell"}}, f.metadata(t))
}
