package library

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"syscall"

	"audiodeck/logger"
)

// PruneResult summarises a Prune run.
type PruneResult struct {
	Checked int      `json:"checked"`
	Removed []string `json:"removed"`
}

// Prune drops metadata whose file no longer exists under the root. Presets and
// orders are not touched.
func (l *Library) Prune(ctx context.Context) (PruneResult, error) {
	meta, err := l.metadata.GetAll(ctx)
	if err != nil {
		return PruneResult{}, err
	}

	result := PruneResult{Checked: len(meta), Removed: []string{}}
	for key := range meta {
		p, err := l.abs(key)
		if err != nil {
			result.Removed = append(result.Removed, key)
			continue
		}
		if _, err := os.Stat(p); err != nil {
			// ENOTDIR: the key sits below a regular file.
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
				result.Removed = append(result.Removed, key)
				continue
			}
			logger.Warn("prune skipped key", logger.String("id", key), logger.ErrorField(err))
		}
	}
	sort.Strings(result.Removed)

	if len(result.Removed) > 0 {
		if _, err := l.metadata.Delete(ctx, result.Removed...); err != nil {
			return PruneResult{}, err
		}
	}

	logger.Info("metadata pruned", logger.Int("checked", result.Checked), logger.Int("removed", len(result.Removed)))
	return result, nil
}

// SyncRequest repeats the metadata phase of a move/rename (OldID -> NewID) or
// of a category rename (OldPrefix -> NewPrefix).
type SyncRequest struct {
	OldID     string `json:"oldId"`
	NewID     string `json:"newId"`
	OldPrefix string `json:"oldPrefix"`
	NewPrefix string `json:"newPrefix"`
}

// Resync applies a SyncRequest and reports how many keys were rewritten.
// Repeating a completed request changes nothing.
func (l *Library) Resync(ctx context.Context, req SyncRequest) (int, error) {
	switch {
	case req.OldPrefix != "" || req.NewPrefix != "":
		if req.OldPrefix == "" || req.NewPrefix == "" {
			return 0, missingField("oldPrefix/newPrefix")
		}
		return l.metadata.RewritePrefix(ctx, withSlash(req.OldPrefix), withSlash(req.NewPrefix))
	case req.OldID != "" || req.NewID != "":
		if req.OldID == "" || req.NewID == "" {
			return 0, missingField("oldId/newId")
		}
		meta, err := l.metadata.GetAll(ctx)
		if err != nil {
			return 0, err
		}
		if _, ok := meta[req.OldID]; !ok || req.OldID == req.NewID {
			return 0, nil
		}
		if err := l.metadata.UpdateID(ctx, req.OldID, req.NewID); err != nil {
			return 0, err
		}
		return 1, nil
	default:
		return 0, missingField("oldId or oldPrefix")
	}
}

func withSlash(prefix string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
