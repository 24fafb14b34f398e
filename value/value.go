// Package value defines the language-neutral value model that flows through
// the codec: a single tagged-union Value type standing in for the dynamic
// duck-typed values a reflection-driven Avro implementation would otherwise
// pass around as interface{}.
package value

import (
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind tags the variant a Value currently holds.
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
	KindFixed
	KindEnum
	KindArray
	KindMap
	KindRecord
	KindDecimal
	KindUUID
	KindDate
	KindTimeOfDay
	KindTimestamp
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
	case KindFixed:
		return "fixed"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	case KindDecimal:
		return "decimal"
	case KindUUID:
		return "uuid"
	case KindDate:
		return "date"
	case KindTimeOfDay:
		return "time"
	case KindTimestamp:
		return "timestamp"
	}
	return "unknown"
}

// TimeUnit distinguishes millisecond- from microsecond-precision logical
// time values (time-millis/time-micros, timestamp-millis/timestamp-micros).
type TimeUnit int

const (
	Millis TimeUnit = iota
	Micros
)

// Value is a tagged union over every shape the codec can encode or decode.
// Only the fields relevant to Kind are meaningful; the zero Value is Null.
type Value struct {
	Kind Kind

	Bool    bool
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64

	// Bytes backs both Bytes and Fixed. Str backs both String and Enum
	// (the enum symbol name).
	Bytes []byte
	Str   string

	Array  []Value
	Map    *OrderedMap
	Record *OrderedMap

	Decimal decimal.Decimal
	UUID    uuid.UUID

	// Date is days since the Unix epoch.
	Date int32

	// TimeUnit/TimeCount back both TimeOfDay and Timestamp: for TimeOfDay,
	// TimeCount is the count of TimeUnit units since midnight; for
	// Timestamp, it is the count of TimeUnit units since the Unix epoch.
	TimeUnit  TimeUnit
	TimeCount int64
}

func Null() Value                { return Value{Kind: KindNull} }
func Bool(b bool) Value          { return Value{Kind: KindBoolean, Bool: b} }
func Int(i int32) Value          { return Value{Kind: KindInt, Int32: i} }
func Long(i int64) Value         { return Value{Kind: KindLong, Int64: i} }
func Float(f float32) Value      { return Value{Kind: KindFloat, Float32: f} }
func Double(f float64) Value     { return Value{Kind: KindDouble, Float64: f} }
func Bytes(b []byte) Value       { return Value{Kind: KindBytes, Bytes: b} }
func String(s string) Value      { return Value{Kind: KindString, Str: s} }
func Fixed(b []byte) Value       { return Value{Kind: KindFixed, Bytes: b} }
func Enum(symbol string) Value   { return Value{Kind: KindEnum, Str: symbol} }
func ArrayOf(items []Value) Value {
	return Value{Kind: KindArray, Array: items}
}
func MapOf(m *OrderedMap) Value    { return Value{Kind: KindMap, Map: m} }
func RecordOf(m *OrderedMap) Value { return Value{Kind: KindRecord, Record: m} }

func DecimalValue(unscaled *big.Int, scale int) Value {
	return Value{Kind: KindDecimal, Decimal: decimal.NewFromBigInt(unscaled, int32(-scale))}
}

func UUIDValue(u uuid.UUID) Value { return Value{Kind: KindUUID, UUID: u} }

func DateValue(daysSinceEpoch int32) Value {
	return Value{Kind: KindDate, Date: daysSinceEpoch}
}

func TimeOfDayValue(unit TimeUnit, count int64) Value {
	return Value{Kind: KindTimeOfDay, TimeUnit: unit, TimeCount: count}
}

func TimestampValue(unit TimeUnit, count int64) Value {
	return Value{Kind: KindTimestamp, TimeUnit: unit, TimeCount: count}
}

// IsNull reports whether v holds the null sentinel.
func (v Value) IsNull() bool { return v.Kind == KindNull }
