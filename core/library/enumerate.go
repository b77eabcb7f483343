package library

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"net/url"
	"os"
	"path/filepath"

	"audiodeck/core/taxonomy"
	"audiodeck/model"
)

// Tracks walks the assets root on every iteration and yields each audio file
// joined with its metadata. baseURL prefixes the /assets/ link of each track.
// The first error ends the sequence.
func (l *Library) Tracks(ctx context.Context, baseURL string) iter.Seq2[model.Track, error] {
	return func(yield func(model.Track, error) bool) {
		meta, err := l.metadata.GetAll(ctx)
		if err != nil {
			yield(model.Track{}, err)
			return
		}
		if err := os.MkdirAll(l.root, 0o755); err != nil {
			yield(model.Track{}, fmt.Errorf("failed to create assets directory: %w", err))
			return
		}

		stopped := false
		walkErr := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || !taxonomy.IsAudio(d.Name()) {
				return nil
			}
			rel, err := filepath.Rel(l.root, p)
			if err != nil {
				return err
			}
			if !yield(buildTrack(filepath.ToSlash(rel), meta, baseURL), nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if walkErr != nil && !stopped {
			yield(model.Track{}, fmt.Errorf("failed to walk assets: %w", walkErr))
		}
	}
}

// ListTracks collects Tracks into a slice.
func (l *Library) ListTracks(ctx context.Context, baseURL string) ([]model.Track, error) {
	tracks := make([]model.Track, 0)
	for t, err := range l.Tracks(ctx, baseURL) {
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

func buildTrack(rel string, meta map[string]model.TrackMetadata, baseURL string) model.Track {
	f := taxonomy.Parse(rel)

	icon := meta[rel].Icon()
	if icon == "" {
		icon = taxonomy.DefaultIcon(f.Type)
	}

	var frame *string
	if f.Frame != taxonomy.GlobalFrame {
		frame = &f.Frame
	}

	return model.Track{
		ID:          rel,
		Name:        taxonomy.DisplayName(filepath.Base(rel)),
		URL:         baseURL + "/assets/" + (&url.URL{Path: rel}).EscapedPath(),
		Filename:    rel,
		Type:        f.Type,
		Frame:       frame,
		Category:    f.Category,
		Subcategory: f.Subcategory,
		Icon:        icon,
	}
}
