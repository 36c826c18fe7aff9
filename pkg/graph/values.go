package graph

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

// Color is an RGBA color.
type Color [4]uint8

// Size is a (width, height, depth) triple.
type Size [3]float32

// Coord is an (x, y, z) point. Planar points use z = 0.
type Coord [3]float32

func (c Color) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", c[0], c[1], c[2], c[3])
}

func (s Size) String() string { return formatTriple(s) }

func (c Coord) String() string { return formatTriple(c) }

func formatTriple[T ~[3]float32](v T) string {
	parts := make([]string, 3)
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// tuple splits "(a,b,c)" into its n fields.
func tuple(s string, n int) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "%q is not a parenthesized tuple", s)
	}
	fields := strings.Split(s[1:len(s)-1], ",")
	if len(fields) != n {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "%q has %d fields, want %d", s, len(fields), n)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

// ParseColor parses "(r,g,b,a)".
func ParseColor(s string) (Color, error) {
	fields, err := tuple(s, 4)
	if err != nil {
		return Color{}, err
	}
	var c Color
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return Color{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "color component %q", f)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

func parseTriple(s string) ([3]float32, error) {
	fields, err := tuple(s, 3)
	if err != nil {
		return [3]float32{}, err
	}
	var v [3]float32
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return [3]float32{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "component %q", f)
		}
		v[i] = float32(x)
	}
	return v, nil
}

// ParseSize parses "(w,h,d)".
func ParseSize(s string) (Size, error) {
	v, err := parseTriple(s)
	return Size(v), err
}

// ParseCoord parses "(x,y,z)".
func ParseCoord(s string) (Coord, error) {
	v, err := parseTriple(s)
	return Coord(v), err
}
