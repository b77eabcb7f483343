package library

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"audiodeck/core/taxonomy"
	"audiodeck/logger"
	"audiodeck/model"
)

// UploadRequest describes a new track. Empty fields take the taxonomy defaults.
type UploadRequest struct {
	Content     io.Reader
	Frame       string
	Type        string
	Category    string
	Subcategory string
	Name        string // basename without extension
	Ext         string // extension including the dot, may be empty
	Icon        string
}

// MoveTarget is the destination of a move. The filename is always kept.
type MoveTarget struct {
	Frame       string
	Type        string
	Category    string
	Subcategory string
}

// Upload writes the content to frame/type/category[/subcategory]/name+ext,
// silently replacing any existing file, and records its icon.
func (l *Library) Upload(ctx context.Context, req UploadRequest) (string, error) {
	if req.Content == nil {
		return "", missingField("file")
	}

	frame := taxonomy.CanonicalFrame(taxonomy.SafeSegment(req.Frame))
	trackType := taxonomy.SafeSegment(req.Type)
	if trackType == "" {
		trackType = model.TypeSFX
	}
	category := taxonomy.SafeSegment(req.Category)
	if category == "" {
		category = taxonomy.DefaultCategory
	}
	subcategory := taxonomy.NormalizeSubcategory(trackType, taxonomy.SafeSegment(req.Subcategory))
	name := taxonomy.SafeSegment(req.Name)
	if name == "" {
		name = "track"
	}
	ext := cleanExt(req.Ext)

	rel := taxonomy.Build(frame, trackType, category, subcategory, name+ext)
	dest, err := l.abs(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := writeFile(dest, req.Content); err != nil {
		return "", err
	}

	icon := req.Icon
	if icon == "" {
		icon = taxonomy.DefaultIcon(trackType)
	}
	if err := l.metadata.Save(ctx, rel, model.TrackMetadata{"icon": icon}); err != nil {
		return rel, &PartialError{NewPath: rel, Err: err}
	}

	logger.Info("track uploaded", logger.String("id", rel), logger.String("icon", icon))
	return rel, nil
}

// Move relocates a track to another taxonomy node and rewrites its metadata key.
func (l *Library) Move(ctx context.Context, oldRel string, target MoveTarget) (string, error) {
	if oldRel == "" {
		return "", missingField("trackId")
	}
	category := taxonomy.SafeSegment(target.Category)
	if category == "" {
		return "", missingField("newCategory")
	}

	src, err := l.statFile(oldRel)
	if err != nil {
		return "", err
	}

	frame := taxonomy.CanonicalFrame(taxonomy.SafeSegment(target.Frame))
	trackType := taxonomy.SafeSegment(target.Type)
	if trackType == "" {
		trackType = model.TypeMusic
	}
	subcategory := taxonomy.NormalizeSubcategory(trackType, taxonomy.SafeSegment(target.Subcategory))

	newRel := taxonomy.Build(frame, trackType, category, subcategory, path.Base(oldRel))
	if newRel == oldRel {
		return newRel, nil
	}
	dest, err := l.abs(newRel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", newRel, err)
	}
	if err := os.Rename(src, dest); err != nil {
		return "", fmt.Errorf("failed to move %s: %w", oldRel, err)
	}

	if err := l.metadata.UpdateID(ctx, oldRel, newRel); err != nil {
		logger.Error("track moved but metadata not updated",
			logger.String("from", oldRel), logger.String("to", newRel), logger.ErrorField(err))
		return newRel, &PartialError{OldPath: oldRel, NewPath: newRel, Err: err}
	}

	logger.Info("track moved", logger.String("from", oldRel), logger.String("to", newRel))
	return newRel, nil
}

// Rename gives a track a new basename, keeping its directory and extension.
func (l *Library) Rename(ctx context.Context, oldRel, newName string) (string, error) {
	if oldRel == "" {
		return "", missingField("trackId")
	}
	base := taxonomy.SafeSegment(newName)
	if base == "" {
		return "", missingField("newName")
	}

	src, err := l.statFile(oldRel)
	if err != nil {
		return "", err
	}

	newRel := path.Join(path.Dir(oldRel), base+path.Ext(oldRel))
	if newRel == oldRel {
		return newRel, nil
	}
	dest, err := l.abs(newRel)
	if err != nil {
		return "", err
	}
	if err := os.Rename(src, dest); err != nil {
		return "", fmt.Errorf("failed to rename %s: %w", oldRel, err)
	}

	if err := l.metadata.UpdateID(ctx, oldRel, newRel); err != nil {
		logger.Error("track renamed but metadata not updated",
			logger.String("from", oldRel), logger.String("to", newRel), logger.ErrorField(err))
		return newRel, &PartialError{OldPath: oldRel, NewPath: newRel, Err: err}
	}

	logger.Info("track renamed", logger.String("from", oldRel), logger.String("to", newRel))
	return newRel, nil
}

// Delete removes a single track file. Its metadata is left for Prune.
func (l *Library) Delete(_ context.Context, rel string) error {
	if rel == "" {
		return missingField("id")
	}
	p, err := l.statFile(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	logger.Info("track deleted", logger.String("id", rel))
	return nil
}

// UpdateIcon stores a new icon for a track. An empty icon changes nothing and
// reports false.
func (l *Library) UpdateIcon(ctx context.Context, rel, icon string) (bool, error) {
	if rel == "" {
		return false, missingField("trackId")
	}
	if icon == "" {
		return false, nil
	}
	if err := l.metadata.Save(ctx, rel, model.TrackMetadata{"icon": icon}); err != nil {
		return false, err
	}
	return true, nil
}

func cleanExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	ext = path.Base(strings.ReplaceAll(ext, "\\", "/"))
	if ext == "." || ext == "/" || ext == ".." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func writeFile(dest string, content io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dest, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		return fmt.Errorf("failed to copy uploaded file to %s: %w", dest, err)
	}
	return f.Close()
}
