package vm

import "github.com/avroc/avroc/value"

// accepts is the encoder's shallow, Op-level analog of the schema
// package's value validator: it picks which union branch a runtime value
// belongs to without re-deriving schema information the compiler already
// baked into the Program (spec §4.4). It intentionally does not recurse
// into composite element/field types the way schema.Accepts does — a
// mismatched nested value surfaces as an *EncodeError from the recursive
// exec call once the branch has been chosen.
func accepts(p *Program, v value.Value) bool {
	switch p.Op {
	case OpNull:
		return v.Kind == value.KindNull
	case OpBoolean:
		return v.Kind == value.KindBoolean
	case OpInt:
		return v.Kind == value.KindInt
	case OpLong:
		return v.Kind == value.KindLong
	case OpFloat:
		return v.Kind == value.KindFloat || v.Kind == value.KindInt || v.Kind == value.KindLong
	case OpDouble:
		return v.Kind == value.KindDouble || v.Kind == value.KindInt || v.Kind == value.KindLong
	case OpBytes:
		return v.Kind == value.KindBytes
	case OpString:
		return v.Kind == value.KindString
	case OpFixed:
		return v.Kind == value.KindFixed && len(v.Bytes) == p.Size
	case OpEnum:
		return v.Kind == value.KindEnum && indexOfSymbol(p.Symbols, v.Str) >= 0
	case OpArray:
		return v.Kind == value.KindArray
	case OpMap:
		return v.Kind == value.KindMap
	case OpRecord:
		return v.Kind == value.KindRecord && v.Record != nil && recordShapeMatches(p, v)
	case OpDecimalBytes, OpDecimalFixed:
		return v.Kind == value.KindDecimal
	case OpUUID:
		return v.Kind == value.KindUUID
	case OpDate:
		return v.Kind == value.KindDate
	case OpTimeMillis, OpTimeMicros:
		return v.Kind == value.KindTimeOfDay
	case OpTimestampMillis, OpTimestampMicros:
		return v.Kind == value.KindTimestamp
	}
	return false
}

// recordShapeMatches mirrors schema.Accepts's KindRecord case at the
// compiled-Op level: match by field-name set only, never by nested field
// type (spec §9 "Union branch selection by shape"). Kept as a second,
// independent implementation of the same policy so vm never imports
// schema.
func recordShapeMatches(p *Program, v value.Value) bool {
	for _, k := range v.Record.Keys() {
		if fieldOpByName(p.Fields, k) == nil {
			return false
		}
	}
	for _, f := range p.Fields {
		if !v.Record.Has(f.Name) && !f.HasDefault {
			return false
		}
	}
	return true
}

func fieldOpByName(fields []FieldOp, name string) *FieldOp {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

// hasNullBranch reports whether p is a union carrying a null branch, the
// condition that permits the missing-field null exception (spec §4.4).
func hasNullBranch(p *Program) bool {
	if p.Op != OpUnion {
		return false
	}
	for _, b := range p.Branches {
		if b.Op == OpNull {
			return true
		}
	}
	return false
}

func indexOfSymbol(symbols []string, s string) int {
	for i, sym := range symbols {
		if sym == s {
			return i
		}
	}
	return -1
}
