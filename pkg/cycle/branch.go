package cycle

import (
	"fmt"
	"strings"
)

// Branch selects one of the three candidate targets.
type Branch int

// Branches in top-to-bottom order.
const (
	Top Branch = iota
	Middle
	Bottom
)

// DefaultBranch is the hot branch when none is configured.
const DefaultBranch = Middle

var branchNames = [...]string{"top", "middle", "bottom"}

// String returns the lowercase branch name.
func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("branch(%d)", int(b))
	}
	return branchNames[b]
}

// Valid reports whether b is one of Top, Middle or Bottom.
func (b Branch) Valid() bool { return b >= Top && b <= Bottom }

// Index returns b as a connector index, falling back to DefaultBranch.
func (b Branch) Index() int {
	if !b.Valid() {
		return int(DefaultBranch)
	}
	return int(b)
}

// ParseBranch parses "top", "middle" or "bottom" (case-insensitive).
func ParseBranch(s string) (Branch, bool) {
	for i, name := range branchNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Branch(i), true
		}
	}
	return DefaultBranch, false
}

// MarshalText implements encoding.TextMarshaler.
func (b Branch) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid branch %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Branch) UnmarshalText(text []byte) error {
	v, ok := ParseBranch(string(text))
	if !ok {
		return fmt.Errorf("unknown branch %q (want top, middle or bottom)", text)
	}
	*b = v
	return nil
}
