package initializer

import (
	"fmt"
	"strings"
)

// Mode selects how the initial center and translation are derived.
type Mode int

const (
	// Geometry superimposes the geometric centers of both images.
	Geometry Mode = iota

	// Moments superimposes the intensity centroids of both images.
	Moments

	// Origins superimposes the physical origins of both images.
	Origins

	// GeometryTop superimposes the per-axis minimum corners of both images.
	GeometryTop
)

var modeNames = map[Mode]string{
	Geometry:    "geometry",
	Moments:     "moments",
	Origins:     "origins",
	GeometryTop: "geometrytop",
}

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names returned by String, case-insensitively,
// plus a few common spellings ("centerofmass", "geometry-top").
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "geometry", "geometricalcenter", "geometrical":
		return Geometry, nil
	case "moments", "centerofgravity", "centerofmass":
		return Moments, nil
	case "origins", "origin":
		return Origins, nil
	case "geometrytop", "top":
		return GeometryTop, nil
	}
	return Geometry, fmt.Errorf("unknown initialization mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("invalid initialization mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
