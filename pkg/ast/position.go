package ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPosition is returned when a point or range string cannot be decoded.
var ErrMalformedPosition = errors.New("malformed position")

const rangeSeparator = " to "

// Point is a position in source text. Lines start at 1, columns at 0.
type Point struct {
	Line   int
	Column int
}

// Compare returns -1, 0 or 1 depending on the order of p and other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// Before reports whether p strictly precedes other.
func (p Point) Before(other Point) bool { return p.Compare(other) < 0 }

// String renders the point as "L<line>:<col>".
func (p Point) String() string {
	return "L" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// ParsePoint decodes the "L<line>:<col>" form.
func ParsePoint(s string) (Point, error) {
	rest, ok := strings.CutPrefix(s, "L")
	if !ok {
		return Point{}, fmt.Errorf("%w: point %q lacks L prefix", ErrMalformedPosition, s)
	}

	lineStr, colStr, ok := strings.Cut(rest, ":")
	if !ok {
		return Point{}, fmt.Errorf("%w: point %q lacks column", ErrMalformedPosition, s)
	}

	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Point{}, fmt.Errorf("%w: point %q: %w", ErrMalformedPosition, s, err)
	}

	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Point{}, fmt.Errorf("%w: point %q: %w", ErrMalformedPosition, s, err)
	}

	return Point{Line: line, Column: col}, nil
}

// Range is a closed-open interval of source text.
type Range struct {
	Start Point
	End   Point
}

// NewRange builds a range from line and column pairs.
func NewRange(startLine, startCol, endLine, endCol int) *Range {
	return &Range{
		Start: Point{Line: startLine, Column: startCol},
		End:   Point{Line: endLine, Column: endCol},
	}
}

// Contains reports whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return r.Start.Compare(other.Start) <= 0 && other.End.Compare(r.End) <= 0
}

// ContainsPoint reports whether p lies within r, bounds included.
func (r Range) ContainsPoint(p Point) bool {
	return r.Start.Compare(p) <= 0 && p.Compare(r.End) <= 0
}

// Overlaps reports whether r and other share at least one point.
func (r Range) Overlaps(other Range) bool {
	return r.ContainsPoint(other.Start) || r.ContainsPoint(other.End) ||
		other.ContainsPoint(r.Start) || other.ContainsPoint(r.End)
}

// String renders the range as "<start> to <end>".
func (r Range) String() string {
	return r.Start.String() + rangeSeparator + r.End.String()
}

// ParseRange decodes the "<start> to <end>" form.
func ParseRange(s string) (Range, error) {
	startStr, endStr, ok := strings.Cut(s, rangeSeparator)
	if !ok {
		return Range{}, fmt.Errorf("%w: range %q lacks separator", ErrMalformedPosition, s)
	}

	start, err := ParsePoint(startStr)
	if err != nil {
		return Range{}, err
	}

	end, err := ParsePoint(endStr)
	if err != nil {
		return Range{}, err
	}

	return Range{Start: start, End: end}, nil
}

// Contains reports whether the resolved range of n contains r.
// A node without a range contains nothing.
func Contains(n Node, r Range) bool {
	own := n.Range()
	if own == nil {
		return false
	}

	return own.Contains(r)
}

// Overlaps reports whether the resolved range of n overlaps r.
func Overlaps(n Node, r Range) bool {
	own := n.Range()
	if own == nil {
		return false
	}

	return own.Overlaps(r)
}
