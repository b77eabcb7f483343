// Package library performs the filesystem side of every mutation on the
// assets tree and propagates the resulting path changes into the metadata
// store. It also enumerates tracks and prunes stale metadata.
//
// Mutations run in two phases: the filesystem change, then the metadata
// rewrite. Nothing is rolled back when the second phase fails; the caller
// gets a *PartialError and can repeat the rewrite with Resync.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"audiodeck/repository"
)

// Library operates on the tree rooted at Root.
type Library struct {
	root     string
	metadata repository.MetadataRepository
}

// New returns a Library for root.
func New(root string, metadata repository.MetadataRepository) *Library {
	return &Library{root: root, metadata: metadata}
}

// Root returns the assets root directory.
func (l *Library) Root() string {
	return l.root
}

// abs resolves a forward-slash relative path under the root. Paths that
// would escape the root are reported as not found.
func (l *Library) abs(rel string) (string, error) {
	local := filepath.FromSlash(rel)
	if rel == "" || !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	return filepath.Join(l.root, local), nil
}

// statFile resolves rel and checks that it names an existing regular file.
func (l *Library) statFile(rel string) (string, error) {
	p, err := l.abs(rel)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, rel)
	}
	return p, nil
}

// statDir resolves rel and checks that it names an existing directory.
func (l *Library) statDir(rel string) (string, error) {
	p, err := l.abs(rel)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrNotFound, rel)
	}
	return p, nil
}
