// Package fieldpath parses the bracket-path convention used by the remote
// purchase form's field names, e.g.
//
//	root[quotes][0][breakdowns][2][passenger][first_name]
//
// The grouping, filtering and label-inference logic all consume the structured
// segment list produced here instead of re-deriving it with ad hoc regexes.
package fieldpath

import (
	"strconv"
	"strings"
)

// Path is a parsed field name: the leading bare token followed by every
// bracketed segment, in order.
type Path struct {
	Segments []string
}

// Parse splits a field name into its path segments. A name without brackets
// yields a single-segment path. Malformed trailing brackets keep whatever was
// parsed up to that point.
func Parse(name string) Path {
	var segs []string

	head, rest, found := strings.Cut(name, "[")
	if head != "" {
		segs = append(segs, head)
	}
	if !found {
		return Path{Segments: segs}
	}

	for rest != "" {
		seg, tail, closed := strings.Cut(rest, "]")
		if !closed {
			break
		}
		segs = append(segs, seg)
		rest = strings.TrimPrefix(tail, "[")
		if tail == rest && tail != "" {
			// Junk between segments, stop at the grammar violation.
			break
		}
	}

	return Path{Segments: segs}
}

// IsEmpty reports whether the path has no segments
func (p Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Last returns the final segment, or "" for an empty path
func (p Path) Last() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

// Contains reports whether any segment equals seg (case-insensitive)
func (p Path) Contains(seg string) bool {
	for _, s := range p.Segments {
		if strings.EqualFold(s, seg) {
			return true
		}
	}
	return false
}

// IndexAfter returns the integer segment immediately following the first
// occurrence of marker, e.g. IndexAfter("breakdowns") on
// root[quotes][0][breakdowns][2][...] returns 2. The second return is false
// when the marker is absent or not followed by an integer.
func (p Path) IndexAfter(marker string) (int, bool) {
	for i, s := range p.Segments {
		if strings.EqualFold(s, marker) && i+1 < len(p.Segments) {
			n, err := strconv.Atoi(p.Segments[i+1])
			if err == nil {
				return n, true
			}
			return 0, false
		}
	}
	return 0, false
}
