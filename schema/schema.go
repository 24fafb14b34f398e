// Package schema implements the Avro schema model: parsing the JSON schema
// grammar into a canonical tree of typed nodes (component C1 of the codec
// core), honoring Avro's namespace and named-type reference rules, and
// answering whether a value could be encoded under a given schema
// (component C2, the value validator, in validate.go).
package schema

import "github.com/avroc/avroc/value"

// Kind tags the variant of Avro type a Schema node represents.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBytes
	KindString
	KindRecord
	KindEnum
	KindFixed
	KindArray
	KindMap
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindFixed:
		return "fixed"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindUnion:
		return "union"
	}
	return "unknown"
}

// Schema is a tagged variant over the Avro type set (spec §3.1).
type Schema interface {
	Kind() Kind
	Logical() *LogicalType
}

// Named is implemented by the three named composite kinds: record, enum,
// and fixed.
type Named interface {
	Schema
	FullName() string
	Aliases() []string
}

// base carries the logical-type annotation shared by every concrete schema
// node, since a LogicalType may wrap any base schema (spec §3.1).
type base struct {
	logical *LogicalType
}

func (b *base) Logical() *LogicalType { return b.logical }

// Primitive is one of the eight Avro primitive types.
type Primitive struct {
	base
	kind Kind
}

func NewPrimitive(k Kind, logical *LogicalType) *Primitive {
	return &Primitive{base: base{logical}, kind: k}
}

func (p *Primitive) Kind() Kind { return p.kind }

// Field carries a single record field: name, position, type, optional
// default, aliases, doc, and the order hint (ignored by the codec).
type Field struct {
	Name       string
	Pos        int
	Type       Schema
	HasDefault bool
	Default    value.Value
	Aliases    []string
	Doc        string
	Order      string
}

// NameMatches reports whether name equals the field's name or one of its
// aliases, used by the resolver to match reader/writer fields (spec §4.5).
func (f *Field) NameMatches(name string) bool {
	if f.Name == name {
		return true
	}
	for _, a := range f.Aliases {
		if a == name {
			return true
		}
	}
	return false
}

// Record is a named composite of fields in declaration order.
type Record struct {
	base
	fullname string
	aliases  []string
	fields   []*Field
	doc      string
}

func NewRecord(fullname string, aliases []string, fields []*Field, doc string) *Record {
	return &Record{fullname: fullname, aliases: aliases, fields: fields, doc: doc}
}

func (r *Record) Kind() Kind         { return KindRecord }
func (r *Record) FullName() string   { return r.fullname }
func (r *Record) Aliases() []string  { return r.aliases }
func (r *Record) Fields() []*Field   { return r.fields }
func (r *Record) Doc() string        { return r.doc }

// FieldByName returns the field whose name or alias set contains name.
func (r *Record) FieldByName(name string) *Field {
	for _, f := range r.fields {
		if f.NameMatches(name) {
			return f
		}
	}
	return nil
}

// Enum is a named composite of distinct symbol strings with an optional
// default symbol used during schema resolution (spec §3.1, §4.5).
type Enum struct {
	base
	fullname   string
	aliases    []string
	symbols    []string
	hasDefault bool
	def        string
	doc        string
}

func NewEnum(fullname string, aliases, symbols []string, hasDefault bool, def, doc string) *Enum {
	return &Enum{fullname: fullname, aliases: aliases, symbols: symbols, hasDefault: hasDefault, def: def, doc: doc}
}

func (e *Enum) Kind() Kind        { return KindEnum }
func (e *Enum) FullName() string  { return e.fullname }
func (e *Enum) Aliases() []string { return e.aliases }
func (e *Enum) Symbols() []string { return e.symbols }
func (e *Enum) Doc() string       { return e.doc }
func (e *Enum) HasDefault() bool  { return e.hasDefault }
func (e *Enum) Default() string   { return e.def }

// IndexOf returns the index of symbol in the symbol list, or -1.
func (e *Enum) IndexOf(symbol string) int {
	for i, s := range e.symbols {
		if s == symbol {
			return i
		}
	}
	return -1
}

// Fixed is a named composite of exactly Size raw bytes.
type Fixed struct {
	base
	fullname string
	aliases  []string
	size     int
}

func NewFixed(fullname string, aliases []string, size int) *Fixed {
	return &Fixed{fullname: fullname, aliases: aliases, size: size}
}

func (f *Fixed) Kind() Kind        { return KindFixed }
func (f *Fixed) FullName() string  { return f.fullname }
func (f *Fixed) Aliases() []string { return f.aliases }
func (f *Fixed) Size() int         { return f.size }

// Array is an unnamed composite of a single item schema.
type Array struct {
	base
	Items Schema
}

func NewArray(items Schema) *Array { return &Array{Items: items} }
func (a *Array) Kind() Kind        { return KindArray }

// Map is an unnamed composite of string-keyed values of a single schema.
type Map struct {
	base
	Values Schema
}

func NewMap(values Schema) *Map { return &Map{Values: values} }
func (m *Map) Kind() Kind       { return KindMap }

// Union is an unnamed composite of distinct branch schemas.
type Union struct {
	base
	Branches []Schema
}

func NewUnion(branches []Schema) *Union { return &Union{Branches: branches} }
func (u *Union) Kind() Kind             { return KindUnion }

// NullIndex returns the index of the null branch, or -1 if the union has
// none. The encoder's permissive null-default deviation does not call it;
// it checks the compiled Program instead (vm's hasNullBranch).
func (u *Union) NullIndex() int {
	for i, b := range u.Branches {
		if b.Kind() == KindNull {
			return i
		}
	}
	return -1
}

// Reference is a resolved link to a previously defined named type,
// produced when the parser encounters a fullname string where a schema is
// expected (spec §3.1). It is transparent: Kind/Logical delegate to the
// referenced type, so callers rarely need to special-case it — except the
// compiler and resolver, which must special-case it anyway to break cycles
// through recursive named types (spec §9 "Recursive named types").
type Reference struct {
	fullname string
	Target   Named
}

func (r *Reference) Kind() Kind             { return r.Target.Kind() }
func (r *Reference) Logical() *LogicalType  { return r.Target.Logical() }
func (r *Reference) FullName() string       { return r.fullname }
func (r *Reference) ResolvedTarget() Named  { return r.Target }
