package vm

import "github.com/avroc/avroc/value"

// Op tags the operation a Program node performs. It is deliberately
// tree-shaped rather than a flat linear bytecode: the compiler emits one
// Program node per schema node exactly once, and Exec/ExecDecode walk the
// tree once per message, so all schema dispatch is still hoisted out of
// the per-message path (spec §4.4, §9 design note (c)) without the extra
// bookkeeping a jump-based linear instruction stream would need to stay
// correct without ever compiling and running it.
type Op int

const (
	OpNull Op = iota
	OpBoolean
	OpInt
	OpLong
	OpFloat
	OpDouble
	OpBytes
	OpString
	OpFixed
	OpEnum
	OpArray
	OpMap
	OpRecord
	OpUnion
	OpDecimalBytes
	OpDecimalFixed
	OpUUID
	OpDate
	OpTimeMillis
	OpTimeMicros
	OpTimestampMillis
	OpTimestampMicros

	// Resolution-only ops, emitted solely by the resolver package into
	// decode-side Programs (spec §4.5). vm.Exec never encounters these:
	// this codec only ever resolves a decoder, never an encoder.
	OpSkip    // decode and discard Inner, producing no field value
	OpDefault // produce Const without touching the wire
	OpEnumRemap
	OpPromoteIntToLong
	OpPromoteIntToFloat
	OpPromoteIntToDouble
	OpPromoteLongToFloat
	OpPromoteLongToDouble
	OpPromoteFloatToDouble
	OpPromoteStringToBytes
	OpPromoteBytesToString
)

// FieldOp is one record field within a Program of Op OpRecord. For a
// decode Program, Fields is in the writer's wire order; for an encode
// Program, Fields is in the (single) schema's declared order.
type FieldOp struct {
	Name       string
	Prog       *Program
	HasDefault bool        // used by the union-branch matcher, accept.go, and encode default-fill
	Default    value.Value // the field's default, valid only when HasDefault
}

// Program is one compiled node of an encode or decode plan (component
// C4). Only the fields relevant to Op are populated.
type Program struct {
	Op Op

	FullName string // record/enum/fixed identity, for error messages
	Size     int    // fixed byte width

	// Symbols is the enum's symbol table for OpEnum (index -> symbol,
	// same list on both sides). For OpEnumRemap it is instead indexed by
	// the *writer's* symbol position and holds the *reader's* symbol
	// name at each index, or "" if the writer's symbol has no reader
	// counterpart (in which case EnumDefault/HasEnumDefault decide the
	// outcome at decode time).
	Symbols        []string
	EnumDefault    string
	HasEnumDefault bool

	Item *Program // OpArray items / OpMap values

	Fields []FieldOp // OpRecord

	// FieldOrder, when set on a decode OpRecord Program, gives the
	// output field names in the reader's declared order (spec §4.5): the
	// wire must still be read in Fields order (the writer's byte
	// layout), but the materialized record is re-keyed into this order
	// afterward. Nil means "use insertion order", which is already
	// correct for a Program compiled straight from a single schema.
	FieldOrder []string

	Branches []*Program // OpUnion, in wire order

	Precision int // OpDecimalBytes / OpDecimalFixed
	Scale     int

	Inner *Program    // OpSkip / promotion ops: the underlying read program
	Const value.Value // OpDefault
}
