// Package taxonomy maps relative asset paths to frame/type/category/subcategory
// fields and back. Every coercion rule used by the read and write paths lives here.
package taxonomy

import (
	"path"
	"strings"
	"unicode"

	"audiodeck/model"
)

const (
	GlobalFrame     = "Global"
	DefaultCategory = "General"
	// MusicSubcategory is used when a music track has no subcategory.
	MusicSubcategory = "General"

	// mockFrame is a legacy directory name read back as the Global frame.
	mockFrame = "mocks"
)

var audioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".ogg": true,
}

// Fields are the taxonomy coordinates of a track.
type Fields struct {
	Frame       string
	Type        string
	Category    string
	Subcategory string
}

// Parse splits a forward-slash relative path into taxonomy fields, applying
// read-side defaults. A bare filename yields all defaults.
func Parse(rel string) Fields {
	f := Fields{
		Frame:    GlobalFrame,
		Type:     model.TypeSFX,
		Category: DefaultCategory,
	}

	parts := strings.Split(rel, "/")
	filename := parts[len(parts)-1]
	dirs := parts[:len(parts)-1]

	if len(dirs) > 0 {
		f.Frame = CanonicalFrame(dirs[0])
	}
	if len(dirs) > 1 {
		f.Type = CoerceType(dirs[1])
	}
	if len(dirs) > 2 {
		f.Category = dirs[2]
	}
	if len(dirs) > 3 && dirs[3] != filename {
		f.Subcategory = dirs[3]
	}
	return f
}

// Build joins the non-empty segments into a relative path. An empty
// subcategory puts the file one level shallower.
func Build(frame, trackType, category, subcategory, filename string) string {
	segments := make([]string, 0, 5)
	for _, s := range []string{frame, trackType, category, subcategory, filename} {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, "/")
}

// CanonicalFrame maps the legacy "mocks" directory and the empty string to Global.
func CanonicalFrame(frame string) string {
	if frame == "" || frame == mockFrame {
		return GlobalFrame
	}
	return frame
}

// CoerceType maps unknown types to sfx. Only applied on read.
func CoerceType(t string) string {
	switch t {
	case model.TypeMusic, model.TypeAmbience, model.TypeSFX:
		return t
	default:
		return model.TypeSFX
	}
}

// NormalizeSubcategory gives music tracks a General subcategory when none is set.
func NormalizeSubcategory(trackType, subcategory string) string {
	if trackType == model.TypeMusic && subcategory == "" {
		return MusicSubcategory
	}
	return subcategory
}

// DefaultIcon is used when no icon is stored for a track.
func DefaultIcon(trackType string) string {
	if trackType == model.TypeAmbience {
		return "CloudRain"
	}
	return "Music"
}

// IsAudio reports whether filename has a supported audio extension.
func IsAudio(filename string) bool {
	return audioExtensions[strings.ToLower(path.Ext(filename))]
}

// DisplayName strips the extension, turns '_' and '-' into spaces and title-cases words.
func DisplayName(filename string) string {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return titleCase(base)
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "rain2drop" becomes "Rain2Drop".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// SafeSegment reduces user input to a single trimmed path segment.
func SafeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\\", "/")
	base := path.Base(s)
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return strings.TrimSpace(base)
}

// CategoryDir is the relative directory of a taxonomy node. parent may be empty.
func CategoryDir(frame, trackType, parent, name string) string {
	return Build(frame, trackType, parent, "", name)
}

// CategoryPrefix is the metadata key prefix for everything beneath a node.
func CategoryPrefix(frame, trackType, parent, name string) string {
	return CategoryDir(frame, trackType, parent, name) + "/"
}
