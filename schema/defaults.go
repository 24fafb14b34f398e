package schema

import (
	"fmt"
	"math/big"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/avroc/avroc/value"
)

// typedDefault converts a raw JSON-decoded default value into a typed
// value.Value validated against s, following the Avro JSON-encoding
// conventions for default values (spec §3.1, §4.1):
//
//   - bytes and fixed defaults are JSON strings whose UTF-16 code units
//     0-255 give the raw byte values (the same convention as Avro JSON
//     data encoding);
//   - record defaults are JSON objects, applied field by field, falling
//     back to that field's own default when the JSON object omits it;
//   - union defaults are validated against the branches in order, and — per
//     the relaxed rule this codec adopts (see the Open Question decision in
//     DESIGN.md) — a default value need not match only the first branch, it
//     may match any branch.
func typedDefault(s Schema, raw interface{}, strictUnion bool) (value.Value, error) {
	if ref, ok := s.(*Reference); ok {
		return typedDefault(ref.Target, raw, strictUnion)
	}

	if lt := s.Logical(); lt != nil {
		if v, ok := typedLogicalDefault(lt, s.Kind(), raw); ok {
			return v, nil
		}
		// Fall through: an unconvertible logical default degrades to a
		// plain value of the base type.
	}

	switch s.Kind() {
	case KindNull:
		if raw != nil {
			return value.Value{}, fmt.Errorf("expected null, got %T", raw)
		}
		return value.Null(), nil

	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return value.Value{}, fmt.Errorf("expected boolean, got %T", raw)
		}
		return value.Bool(b), nil

	case KindInt:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, err
		}
		return value.Int(int32(n)), nil

	case KindLong:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, err
		}
		return value.Long(int64(n)), nil

	case KindFloat:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(float32(n)), nil

	case KindDouble:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, err
		}
		return value.Double(n), nil

	case KindBytes:
		str, ok := raw.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("expected string-encoded bytes, got %T", raw)
		}
		return value.Bytes(bytesFromLatin1(str)), nil

	case KindString:
		str, ok := raw.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("expected string, got %T", raw)
		}
		return value.String(str), nil

	case KindFixed:
		str, ok := raw.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("expected string-encoded fixed, got %T", raw)
		}
		b := bytesFromLatin1(str)
		fx := s.(*Fixed)
		if len(b) != fx.Size() {
			return value.Value{}, fmt.Errorf("fixed default has %d bytes, want %d", len(b), fx.Size())
		}
		return value.Fixed(b), nil

	case KindEnum:
		str, ok := raw.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("expected enum symbol, got %T", raw)
		}
		en := s.(*Enum)
		if en.IndexOf(str) < 0 {
			return value.Value{}, fmt.Errorf("%q is not a symbol of enum %q", str, en.FullName())
		}
		return value.Enum(str), nil

	case KindArray:
		arr, ok := raw.([]interface{})
		if !ok {
			return value.Value{}, fmt.Errorf("expected array, got %T", raw)
		}
		ar := s.(*Array)
		items := make([]value.Value, 0, len(arr))
		for i, e := range arr {
			v, err := typedDefault(ar.Items, e, strictUnion)
			if err != nil {
				return value.Value{}, fmt.Errorf("array element %d: %w", i, err)
			}
			items = append(items, v)
		}
		return value.ArrayOf(items), nil

	case KindMap:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return value.Value{}, fmt.Errorf("expected map object, got %T", raw)
		}
		mp := s.(*Map)
		om := value.NewOrderedMap()
		for k, e := range obj {
			v, err := typedDefault(mp.Values, e, strictUnion)
			if err != nil {
				return value.Value{}, fmt.Errorf("map key %q: %w", k, err)
			}
			om.Set(k, v)
		}
		return value.MapOf(om), nil

	case KindRecord:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return value.Value{}, fmt.Errorf("expected record object, got %T", raw)
		}
		rec := s.(*Record)
		om := value.NewOrderedMap()
		for _, f := range rec.Fields() {
			fv, present := obj[f.Name]
			if !present {
				if !f.HasDefault {
					return value.Value{}, fmt.Errorf("record default is missing field %q", f.Name)
				}
				om.Set(f.Name, f.Default)
				continue
			}
			v, err := typedDefault(f.Type, fv, strictUnion)
			if err != nil {
				return value.Value{}, fmt.Errorf("field %q: %w", f.Name, err)
			}
			om.Set(f.Name, v)
		}
		return value.RecordOf(om), nil

	case KindUnion:
		un := s.(*Union)
		if len(un.Branches) == 0 {
			return value.Value{}, fmt.Errorf("union has no branches")
		}
		if strictUnion {
			return typedDefault(un.Branches[0], raw, strictUnion)
		}
		var lastErr error
		for _, branch := range un.Branches {
			v, err := typedDefault(branch, raw, strictUnion)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		return value.Value{}, fmt.Errorf("default matches no union branch: %w", lastErr)
	}
	return value.Value{}, fmt.Errorf("unsupported schema kind %q", s.Kind())
}

// typedLogicalDefault attempts to interpret raw as the JSON encoding of a
// logical-type default. It returns ok=false to signal "fall back to a
// plain value of the base type" rather than erroring, matching the
// codec's general silent-degradation posture for logical types.
func typedLogicalDefault(lt *LogicalType, base Kind, raw interface{}) (value.Value, bool) {
	switch lt.Kind {
	case LogicalDecimal:
		str, ok := raw.(string)
		if !ok {
			return value.Value{}, false
		}
		unscaled := new(big.Int).SetBytes(bytesFromLatin1(str))
		return value.DecimalValue(unscaled, lt.Scale), true
	case LogicalUUID:
		str, ok := raw.(string)
		if !ok {
			return value.Value{}, false
		}
		u, err := uuid.Parse(str)
		if err != nil {
			return value.Value{}, false
		}
		return value.UUIDValue(u), true
	case LogicalDate:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, false
		}
		return value.DateValue(int32(n)), true
	case LogicalTimeMillis:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, false
		}
		return value.TimeOfDayValue(value.Millis, int64(n)), true
	case LogicalTimeMicros:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, false
		}
		return value.TimeOfDayValue(value.Micros, int64(n)), true
	case LogicalTimestampMillis:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, false
		}
		return value.TimestampValue(value.Millis, int64(n)), true
	case LogicalTimestampMicros:
		n, err := numberOf(raw)
		if err != nil {
			return value.Value{}, false
		}
		return value.TimestampValue(value.Micros, int64(n)), true
	}
	_ = base
	return value.Value{}, false
}

func numberOf(raw interface{}) (float64, error) {
	switch n := raw.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", raw)
}

// bytesFromLatin1 undoes the Avro convention of encoding raw byte values
// 0-255 as a JSON string of the equivalent Latin-1 (ISO-8859-1) code
// points, one byte per rune.
func bytesFromLatin1(s string) []byte {
	r := []rune(s)
	b := make([]byte, len(r))
	for i, c := range r {
		b[i] = byte(c)
	}
	return b
}
