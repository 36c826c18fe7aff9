package graph

import (
	"cmp"
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph/ids"
)

// Kind names the value type of a property.
type Kind string

// Property kinds.
const (
	KindBool       Kind = "bool"
	KindInt        Kind = "int"
	KindDouble     Kind = "double"
	KindString     Kind = "string"
	KindColor      Kind = "color"
	KindSize       Kind = "size"
	KindCoord      Kind = "coord"
	KindCoordList  Kind = "coordlist"
	KindGraphRef   Kind = "graph"
	KindBoolList   Kind = "boollist"
	KindIntList    Kind = "intlist"
	KindDoubleList Kind = "doublelist"
	KindStringList Kind = "stringlist"
	KindColorList  Kind = "colorlist"
	KindSizeList   Kind = "sizelist"
)

// Kinds lists every supported kind.
var Kinds = []Kind{
	KindBool, KindInt, KindDouble, KindString, KindColor, KindSize, KindCoord,
	KindCoordList, KindGraphRef, KindBoolList, KindIntList, KindDoubleList,
	KindStringList, KindColorList, KindSizeList,
}

// ValueType describes how values of one kind are compared, formatted,
// parsed and converted to numbers. The set of descriptors is closed; use
// the package-level variables.
type ValueType[T any] struct {
	kind    Kind
	zero    T
	equal   func(a, b T) bool
	compare func(a, b T) int
	format  func(T) string
	parse   func(string) (T, error)
	double  func(T) (float64, bool)
	clone   func(T) T
}

// Kind returns the kind of the descriptor.
func (v ValueType[T]) Kind() Kind { return v.kind }

// Zero returns the default value for new properties of this kind.
func (v ValueType[T]) Zero() T { return v.clone(v.zero) }

// Format renders x in the kind's string form.
func (v ValueType[T]) Format(x T) string { return v.format(x) }

// Parse reads the kind's string form.
func (v ValueType[T]) Parse(s string) (T, error) { return v.parse(s) }

// Equal reports whether a and b are the same value.
func (v ValueType[T]) Equal(a, b T) bool { return v.equal(a, b) }

func same[T comparable](a, b T) bool { return a == b }
func ident[T any](x T) T             { return x }
func notNumeric[T any](T) (float64, bool) {
	return 0, false
}

func byString[T any](format func(T) string) func(a, b T) int {
	return func(a, b T) int { return strings.Compare(format(a), format(b)) }
}

// listType builds the descriptor of a list kind. Lists use their JSON
// encoding as string form.
func listType[E comparable](kind Kind) ValueType[[]E] {
	format := func(x []E) string {
		if x == nil {
			x = []E{}
		}
		b, _ := json.Marshal(x)
		return string(b)
	}
	return ValueType[[]E]{
		kind:    kind,
		equal:   slices.Equal[[]E],
		compare: func(a, b []E) int { return cmp.Compare(len(a), len(b)) },
		format:  format,
		parse: func(s string) ([]E, error) {
			var out []E
			if err := json.Unmarshal([]byte(s), &out); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse %s value", kind)
			}
			return out, nil
		},
		double: notNumeric[[]E],
		clone:  slices.Clone[[]E],
	}
}

// Value type descriptors.
var (
	Bool = ValueType[bool]{
		kind:    KindBool,
		equal:   same[bool],
		compare: func(a, b bool) int { return cmp.Compare(b2i(a), b2i(b)) },
		format:  strconv.FormatBool,
		parse: func(s string) (bool, error) {
			v, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return false, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse bool")
			}
			return v, nil
		},
		double: func(x bool) (float64, bool) { return float64(b2i(x)), true },
		clone:  ident[bool],
	}

	Int = ValueType[int64]{
		kind:    KindInt,
		equal:   same[int64],
		compare: cmp.Compare[int64],
		format:  func(x int64) string { return strconv.FormatInt(x, 10) },
		parse: func(s string) (int64, error) {
			v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return 0, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse int")
			}
			return v, nil
		},
		double: func(x int64) (float64, bool) { return float64(x), true },
		clone:  ident[int64],
	}

	Double = ValueType[float64]{
		kind:    KindDouble,
		equal:   same[float64],
		compare: cmp.Compare[float64],
		format:  func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) },
		parse: func(s string) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return 0, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse double")
			}
			return v, nil
		},
		double: func(x float64) (float64, bool) { return x, true },
		clone:  ident[float64],
	}

	String = ValueType[string]{
		kind:    KindString,
		equal:   same[string],
		compare: strings.Compare,
		format:  ident[string],
		parse:   func(s string) (string, error) { return s, nil },
		double:  notNumeric[string],
		clone:   ident[string],
	}

	ColorType = ValueType[Color]{
		kind:    KindColor,
		equal:   same[Color],
		compare: byString(Color.String),
		format:  Color.String,
		parse:   ParseColor,
		double:  notNumeric[Color],
		clone:   ident[Color],
	}

	SizeType = ValueType[Size]{
		kind:    KindSize,
		equal:   same[Size],
		compare: byString(Size.String),
		format:  Size.String,
		parse:   ParseSize,
		double:  notNumeric[Size],
		clone:   ident[Size],
	}

	CoordType = ValueType[Coord]{
		kind:    KindCoord,
		equal:   same[Coord],
		compare: byString(Coord.String),
		format:  Coord.String,
		parse:   ParseCoord,
		double:  notNumeric[Coord],
		clone:   ident[Coord],
	}

	// GraphRef holds the id of a graph of the same tree, making the
	// element a meta-node or meta-edge. ids.Invalid means no graph.
	GraphRef = ValueType[uint32]{
		kind:    KindGraphRef,
		zero:    ids.Invalid,
		equal:   same[uint32],
		compare: cmp.Compare[uint32],
		format: func(x uint32) string {
			if x == ids.Invalid {
				return ""
			}
			return strconv.FormatUint(uint64(x), 10)
		},
		parse: func(s string) (uint32, error) {
			s = strings.TrimSpace(s)
			if s == "" {
				return ids.Invalid, nil
			}
			v, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return 0, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse graph id")
			}
			return uint32(v), nil
		},
		double: notNumeric[uint32],
		clone:  ident[uint32],
	}

	CoordList  = listType[Coord](KindCoordList)
	BoolList   = listType[bool](KindBoolList)
	IntList    = listType[int64](KindIntList)
	DoubleList = listType[float64](KindDoubleList)
	StringList = listType[string](KindStringList)
	ColorList  = listType[Color](KindColorList)
	SizeList   = listType[Size](KindSizeList)
)

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LocalPropertyOfKind is [LocalProperty] selected by a kind name, for
// callers that only know the kind at run time (decoders, the CLI).
func LocalPropertyOfKind(g *Graph, name string, kind Kind) (PropertyInterface, error) {
	switch kind {
	case KindBool:
		return erase(LocalProperty(g, name, Bool))
	case KindInt:
		return erase(LocalProperty(g, name, Int))
	case KindDouble:
		return erase(LocalProperty(g, name, Double))
	case KindString:
		return erase(LocalProperty(g, name, String))
	case KindColor:
		return erase(LocalProperty(g, name, ColorType))
	case KindSize:
		return erase(LocalProperty(g, name, SizeType))
	case KindCoord:
		return erase(LocalProperty(g, name, CoordType))
	case KindCoordList:
		return erase(LocalProperty(g, name, CoordList))
	case KindGraphRef:
		return erase(LocalProperty(g, name, GraphRef))
	case KindBoolList:
		return erase(LocalProperty(g, name, BoolList))
	case KindIntList:
		return erase(LocalProperty(g, name, IntList))
	case KindDoubleList:
		return erase(LocalProperty(g, name, DoubleList))
	case KindStringList:
		return erase(LocalProperty(g, name, StringList))
	case KindColorList:
		return erase(LocalProperty(g, name, ColorList))
	case KindSizeList:
		return erase(LocalProperty(g, name, SizeList))
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "unknown property kind %q", kind)
}

func erase[T any](p *Property[T], err error) (PropertyInterface, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
