package value

// Equal reports whether a and b represent the same Avro value, used by the
// round-trip property tests (spec §8.1). Decimal comparison uses the
// decimal package's own Equal, which compares numeric value rather than
// representation (matching Avro's "same unscaled*10^-scale" semantics).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.Bool == b.Bool
	case KindInt:
		return a.Int32 == b.Int32
	case KindLong:
		return a.Int64 == b.Int64
	case KindFloat:
		return a.Float32 == b.Float32
	case KindDouble:
		return a.Float64 == b.Float64
	case KindBytes, KindFixed:
		return bytesEqual(a.Bytes, b.Bytes)
	case KindString:
		return a.Str == b.Str
	case KindEnum:
		return a.Str == b.Str
	case KindArray:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !Equal(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return orderedMapEqual(a.Map, b.Map, true)
	case KindRecord:
		return orderedMapEqual(a.Record, b.Record, false)
	case KindDecimal:
		return a.Decimal.Equal(b.Decimal)
	case KindUUID:
		return a.UUID == b.UUID
	case KindDate:
		return a.Date == b.Date
	case KindTimeOfDay, KindTimestamp:
		return a.TimeUnit == b.TimeUnit && a.TimeCount == b.TimeCount
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// orderedMapEqual compares two ordered maps. For map values, key order is
// insignificant; for record values, field order is part of the map's
// declared shape but not of equality (two records are equal if their
// fields are, regardless of encounter order).
func orderedMapEqual(a, b *OrderedMap, _ bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}
