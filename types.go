package typeshape

import (
	"fmt"
	"strings"
)

// Type is the interface implemented by every node of a type tree.
type Type interface {
	// Abstract reports whether the type is missing concrete layout
	// information.  Abstract types cannot serve as a dtype for
	// offset attachment.
	Abstract() bool

	// String renders the type in the textual syntax it was parsed
	// from.
	String() string
}

// Concrete is the negation of Abstract for any type node.
func Concrete(t Type) bool { return !t.Abstract() }

// PrimitiveKind enumerates the fixed-layout scalar types.
type PrimitiveKind int

const (
	Bool PrimitiveKind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	Complex64
	Complex128
	String
	Bytes
)

var primitiveNames = map[PrimitiveKind]string{
	Bool:       "bool",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Uint8:      "uint8",
	Uint16:     "uint16",
	Uint32:     "uint32",
	Uint64:     "uint64",
	Float16:    "float16",
	Float32:    "float32",
	Float64:    "float64",
	Complex64:  "complex64",
	Complex128: "complex128",
	String:     "string",
	Bytes:      "bytes",
}

// primitiveKinds maps the textual name of every scalar back to its
// kind.  The grammar consults it to classify lowercase identifiers.
var primitiveKinds = func() map[string]PrimitiveKind {
	m := make(map[string]PrimitiveKind, len(primitiveNames))
	for k, name := range primitiveNames {
		m[name] = k
	}
	return m
}()

// Node Type: Primitive

type PrimitiveType struct {
	Kind PrimitiveKind
}

func NewPrimitiveType(kind PrimitiveKind) *PrimitiveType {
	return &PrimitiveType{Kind: kind}
}

func (t *PrimitiveType) Abstract() bool { return false }
func (t *PrimitiveType) String() string { return primitiveNames[t.Kind] }

// Node Type: Any

// AnyType is the maximally underspecified type.
type AnyType struct{}

func NewAnyType() *AnyType { return &AnyType{} }

func (t *AnyType) Abstract() bool { return true }
func (t *AnyType) String() string { return "Any" }

// Node Type: TypeVar

// TypeVar is a named type variable, e.g. the T in "T" or "2 * T".
type TypeVar struct {
	Name string
}

func NewTypeVar(name string) *TypeVar { return &TypeVar{Name: name} }

func (t *TypeVar) Abstract() bool { return true }
func (t *TypeVar) String() string { return t.Name }

// Node Type: Tuple

type TupleType struct {
	Fields []Type
}

func NewTupleType(fields []Type) *TupleType {
	return &TupleType{Fields: fields}
}

func (t *TupleType) Abstract() bool {
	for _, f := range t.Fields {
		if f.Abstract() {
			return true
		}
	}
	return false
}

func (t *TupleType) String() string {
	items := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		items[i] = f.String()
	}
	return "(" + strings.Join(items, ", ") + ")"
}

// Node Type: Record

type RecordField struct {
	Name string
	Type Type
}

type RecordType struct {
	Fields []RecordField
}

func NewRecordType(fields []RecordField) *RecordType {
	return &RecordType{Fields: fields}
}

func (t *RecordType) Abstract() bool {
	for _, f := range t.Fields {
		if f.Type.Abstract() {
			return true
		}
	}
	return false
}

func (t *RecordType) String() string {
	items := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		items[i] = fmt.Sprintf("%s : %s", f.Name, f.Type)
	}
	return "{" + strings.Join(items, ", ") + "}"
}

// Node Type: FixedDim

// FixedDimType is an array dimension with a fixed extent.
type FixedDimType struct {
	Size int64
	Elem Type
}

func NewFixedDimType(size int64, elem Type) *FixedDimType {
	return &FixedDimType{Size: size, Elem: elem}
}

func (t *FixedDimType) Abstract() bool { return t.Elem.Abstract() }
func (t *FixedDimType) String() string {
	return fmt.Sprintf("%d * %s", t.Size, t.Elem)
}

// Node Type: SymbolicDim

// SymbolicDimType is an array dimension whose extent is a variable,
// e.g. the N in "N * int32".
type SymbolicDimType struct {
	Name string
	Elem Type
}

func NewSymbolicDimType(name string, elem Type) *SymbolicDimType {
	return &SymbolicDimType{Name: name, Elem: elem}
}

func (t *SymbolicDimType) Abstract() bool { return true }
func (t *SymbolicDimType) String() string {
	return fmt.Sprintf("%s * %s", t.Name, t.Elem)
}

// Node Type: VarDim

// OffsetSource says where a variable dimension's offsets came from.
type OffsetSource int

const (
	// NoOffsets marks a var dimension whose shape is not yet known.
	NoOffsets OffsetSource = iota

	// ExternalOffsets marks a var dimension shaped by a
	// caller-supplied offset table.
	ExternalOffsets
)

// VarDimType is an array dimension with per-element extents.  Once
// constructed with ExternalOffsets it owns its offset slice; callers
// must not mutate the array afterwards.
type VarDimType struct {
	Elem    Type
	Source  OffsetSource
	Offsets []int32
}

// NewVarDimType wraps elem in a variable dimension shaped by the
// given offset table.  The table invariants are enforced here, at
// construction: at least two entries, a zero first entry, and
// nondecreasing values.  On violation it reports ValueError through
// ctx and returns nil.
func NewVarDimType(elem Type, offsets []int32, ctx *Context) Type {
	if len(offsets) < 2 {
		ctx.report(ValueError, "offset array must contain at least two entries")
		return nil
	}
	if offsets[0] != 0 {
		ctx.report(ValueError, "offset array must start at 0")
		return nil
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			ctx.report(ValueError, "offset array must be nondecreasing")
			return nil
		}
	}
	return &VarDimType{Elem: elem, Source: ExternalOffsets, Offsets: offsets}
}

// newVarDimNoOffsets builds the abstract form of a var dimension, as
// produced by parsing "var * t" without dimension metadata.
func newVarDimNoOffsets(elem Type) Type {
	return &VarDimType{Elem: elem, Source: NoOffsets}
}

// NumOffsets returns the entry count of the owned offset table.
func (t *VarDimType) NumOffsets() int { return len(t.Offsets) }

func (t *VarDimType) Abstract() bool {
	return t.Source == NoOffsets || t.Elem.Abstract()
}

func (t *VarDimType) String() string {
	if t.Source == NoOffsets {
		return fmt.Sprintf("var * %s", t.Elem)
	}
	items := make([]string, len(t.Offsets))
	for i, off := range t.Offsets {
		items[i] = fmt.Sprintf("%d", off)
	}
	return fmt.Sprintf("var(offsets=[%s]) * %s", strings.Join(items, ", "), t.Elem)
}
