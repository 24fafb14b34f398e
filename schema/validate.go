package schema

import "github.com/avroc/avroc/value"

// Accepts reports whether v could be encoded under s: a shallow,
// structural check of value kind against schema kind, recursing into
// composite shapes but never re-deriving values (component C2, spec
// §4.2). The encoder does not call it: union branch selection at encode
// time uses vm's accepts, which applies the same policy to compiled
// Programs.
func Accepts(s Schema, v value.Value) bool {
	if ref, ok := s.(*Reference); ok {
		return Accepts(ref.Target, v)
	}

	if lt := s.Logical(); lt != nil && acceptsLogical(lt, v) {
		return true
	}

	switch s.Kind() {
	case KindNull:
		return v.Kind == value.KindNull
	case KindBoolean:
		return v.Kind == value.KindBoolean
	case KindInt:
		return v.Kind == value.KindInt
	case KindLong:
		return v.Kind == value.KindLong
	case KindFloat:
		return v.Kind == value.KindFloat || v.Kind == value.KindInt || v.Kind == value.KindLong
	case KindDouble:
		return v.Kind == value.KindDouble || v.Kind == value.KindInt || v.Kind == value.KindLong
	case KindBytes:
		return v.Kind == value.KindBytes
	case KindString:
		return v.Kind == value.KindString
	case KindFixed:
		if v.Kind != value.KindFixed {
			return false
		}
		return len(v.Bytes) == s.(*Fixed).Size()
	case KindEnum:
		if v.Kind != value.KindEnum {
			return false
		}
		return s.(*Enum).IndexOf(v.Str) >= 0
	case KindArray:
		if v.Kind != value.KindArray {
			return false
		}
		items := s.(*Array).Items
		for _, e := range v.Array {
			if !Accepts(items, e) {
				return false
			}
		}
		return true
	case KindMap:
		if v.Kind != value.KindMap {
			return false
		}
		values := s.(*Map).Values
		if v.Map == nil {
			return true
		}
		for _, k := range v.Map.Keys() {
			e, _ := v.Map.Get(k)
			if !Accepts(values, e) {
				return false
			}
		}
		return true
	case KindRecord:
		// Structural, not deep: match by field-name set only, the same
		// policy the union-branch disambiguation design note requires
		// (spec §9 "Union branch selection by shape"). A value carrying
		// an unknown key, or missing a field with no default, does not
		// match this record shape; field *types* are not inspected here
		// — a type mismatch inside a field surfaces later, as an
		// *EncodeError from the compiled program that actually walks
		// into the field.
		if v.Kind != value.KindRecord || v.Record == nil {
			return false
		}
		rec := s.(*Record)
		for _, k := range v.Record.Keys() {
			if rec.FieldByName(k) == nil {
				return false
			}
		}
		for _, f := range rec.Fields() {
			if !v.Record.Has(f.Name) && !f.HasDefault {
				return false
			}
		}
		return true
	case KindUnion:
		for _, branch := range s.(*Union).Branches {
			if Accepts(branch, v) {
				return true
			}
		}
		return false
	}
	return false
}

func acceptsLogical(lt *LogicalType, v value.Value) bool {
	switch lt.Kind {
	case LogicalDecimal:
		return v.Kind == value.KindDecimal
	case LogicalUUID:
		return v.Kind == value.KindUUID
	case LogicalDate:
		return v.Kind == value.KindDate
	case LogicalTimeMillis, LogicalTimeMicros:
		return v.Kind == value.KindTimeOfDay
	case LogicalTimestampMillis, LogicalTimestampMicros:
		return v.Kind == value.KindTimestamp
	}
	return false
}
