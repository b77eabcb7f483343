package taxonomy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"audiodeck/model"
)

// ReadStructure lists frame -> type -> category -> subcategories beneath root.
// The legacy mocks frame and non-directory entries are skipped; a missing
// root yields an empty structure.
func ReadStructure(root string) (model.Structure, error) {
	structure := model.Structure{}

	frames, err := subdirs(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return structure, nil
		}
		return nil, err
	}

	for _, frame := range frames {
		if frame == mockFrame {
			continue
		}
		framePath := filepath.Join(root, frame)
		types, err := subdirs(framePath)
		if err != nil {
			return nil, err
		}

		structure[frame] = map[string]map[string][]string{}
		for _, t := range types {
			typePath := filepath.Join(framePath, t)
			categories, err := subdirs(typePath)
			if err != nil {
				return nil, err
			}

			structure[frame][t] = map[string][]string{}
			for _, cat := range categories {
				subs, err := subdirs(filepath.Join(typePath, cat))
				if err != nil {
					return nil, err
				}
				structure[frame][t][cat] = subs
			}
		}
	}
	return structure, nil
}

// subdirs returns the names of directories directly under dir, never nil.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
