package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"audiodeck/core/taxonomy"
	"audiodeck/logger"
	"audiodeck/model"
)

// CategoryRef names a category (Parent empty) or a subcategory of Parent.
type CategoryRef struct {
	Frame  string
	Type   string
	Name   string
	Parent string
}

// normalize sanitises every segment and applies the frame/type defaults.
// The legacy mocks frame is written as Global.
func (c CategoryRef) normalize() (CategoryRef, error) {
	out := CategoryRef{
		Frame:  taxonomy.CanonicalFrame(taxonomy.SafeSegment(c.Frame)),
		Type:   taxonomy.SafeSegment(c.Type),
		Name:   taxonomy.SafeSegment(c.Name),
		Parent: taxonomy.SafeSegment(c.Parent),
	}
	if out.Type == "" {
		out.Type = model.TypeMusic
	}
	if out.Name == "" {
		return out, missingField("name")
	}
	return out, nil
}

func (c CategoryRef) dir() string {
	return taxonomy.CategoryDir(c.Frame, c.Type, c.Parent, c.Name)
}

// CreateCategory creates the node. A top-level music category also gets a
// General subcategory.
func (l *Library) CreateCategory(_ context.Context, ref CategoryRef) error {
	ref, err := ref.normalize()
	if err != nil {
		return err
	}
	p, err := l.abs(ref.dir())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p, 0o755); err != nil {
		return fmt.Errorf("failed to create category %s: %w", ref.dir(), err)
	}
	if ref.Type == model.TypeMusic && ref.Parent == "" {
		if err := os.MkdirAll(filepath.Join(p, taxonomy.MusicSubcategory), 0o755); err != nil {
			return fmt.Errorf("failed to create default subcategory in %s: %w", ref.dir(), err)
		}
	}
	logger.Info("category created", logger.String("path", ref.dir()))
	return nil
}

// DeleteCategory removes the node and everything beneath it. Metadata of the
// removed tracks is left for Prune.
func (l *Library) DeleteCategory(_ context.Context, ref CategoryRef) error {
	ref, err := ref.normalize()
	if err != nil {
		return err
	}
	p, err := l.statDir(ref.dir())
	if err != nil {
		return err
	}
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", ref.dir(), err)
	}
	logger.Info("category deleted", logger.String("path", ref.dir()))
	return nil
}

// RenameCategory renames the node and rewrites every metadata key beneath it.
func (l *Library) RenameCategory(ctx context.Context, ref CategoryRef, newName string) error {
	ref, err := ref.normalize()
	if err != nil {
		return missingField("oldName")
	}
	newName = taxonomy.SafeSegment(newName)
	if newName == "" {
		return missingField("newName")
	}

	src, err := l.statDir(ref.dir())
	if err != nil {
		return err
	}
	if newName == ref.Name {
		return nil
	}
	renamed := ref
	renamed.Name = newName
	dst, err := l.abs(renamed.dir())
	if err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to rename category %s: %w", ref.dir(), err)
	}

	oldPrefix := taxonomy.CategoryPrefix(ref.Frame, ref.Type, ref.Parent, ref.Name)
	newPrefix := taxonomy.CategoryPrefix(ref.Frame, ref.Type, ref.Parent, newName)
	n, err := l.metadata.RewritePrefix(ctx, oldPrefix, newPrefix)
	if err != nil {
		logger.Error("category renamed but metadata not updated",
			logger.String("from", oldPrefix), logger.String("to", newPrefix), logger.ErrorField(err))
		return &PartialError{OldPath: oldPrefix, NewPath: newPrefix, Err: err}
	}

	logger.Info("category renamed",
		logger.String("from", ref.dir()), logger.String("to", renamed.dir()), logger.Int("tracks", n))
	return nil
}
