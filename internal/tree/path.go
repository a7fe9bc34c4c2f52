package tree

import (
	"slices"
	"strings"
)

// PathSeparator joins path segments in the string form of a Path.
const PathSeparator = "/"

// Path is the sequence of node names from a root down to a node.
// The root itself has an empty path.
type Path []string

// ParsePath splits a slash separated path. An empty string is the root path.
func ParsePath(s string) Path {
	s = strings.Trim(s, PathSeparator)
	if s == "" {
		return nil
	}

	return Path(strings.Split(s, PathSeparator))
}

// String returns the slash separated form of the path.
func (p Path) String() string {
	return strings.Join(p, PathSeparator)
}

// IsRoot reports whether the path addresses the root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Base returns the last segment, or "" for the root path.
func (p Path) Base() string {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1]
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}

	return slices.Clone(p[:len(p)-1])
}

// Child returns a new path extended by name.
func (p Path) Child(name string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)

	return append(out, name)
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}
