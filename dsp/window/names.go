package window

import (
	"fmt"
	"strings"
)

type entry struct {
	name string
	typ  Type
}

var registry = []entry{
	{"rectangular", TypeRectangular},
	{"hann", TypeHann},
	{"hamming", TypeHamming},
	{"blackman", TypeBlackman},
	{"blackman-harris-4t", TypeBlackmanHarris4Term},
	{"flat-top", TypeFlatTop},
	{"kaiser", TypeKaiser},
	{"tukey", TypeTukey},
}

// aliases accepted by ParseType in addition to the canonical names.
var aliases = map[string]Type{
	"rect":            TypeRectangular,
	"none":            TypeRectangular,
	"boxcar":          TypeRectangular,
	"hanning":         TypeHann,
	"flattop":         TypeFlatTop,
	"bh4":             TypeBlackmanHarris4Term,
	"blackman-harris": TypeBlackmanHarris4Term,
}

// Names returns the canonical window names in registry order.
func Names() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.name
	}
	return out
}

// Types returns all registered window types in registry order.
func Types() []Type {
	out := make([]Type, len(registry))
	for i, e := range registry {
		out[i] = e.typ
	}
	return out
}

// ParseType resolves a window name, case-insensitively. Canonical names and
// a few common aliases ("hanning", "flattop", "rect") are accepted.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, e := range registry {
		if e.name == key {
			return e.typ, nil
		}
	}
	if t, ok := aliases[key]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// String returns the canonical name of t.
func (t Type) String() string {
	for _, e := range registry {
		if e.typ == t {
			return e.name
		}
	}
	return fmt.Sprintf("window(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
