package vm

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/avroc/avroc/value"
)

// Exec runs an encode Program against v, writing the Avro binary encoding
// to w (spec §4.4). It recovers a panic from adversarial or malformed
// Program/value combinations into an *EncodeError rather than letting it
// escape.
func Exec(w io.Writer, p *Program, v value.Value, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = encodeErrorf("", "panic during encode: %v", r)
		}
	}()
	return exec(w, p, v, "", opts)
}

func exec(w io.Writer, p *Program, v value.Value, path string, opts Options) error {
	switch p.Op {
	case OpNull:
		if v.Kind != value.KindNull {
			return encodeErrorf(path, "expected null, got %s", v.Kind)
		}
		return nil
	case OpBoolean:
		if v.Kind != value.KindBoolean {
			return encodeErrorf(path, "expected boolean, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteBool(w, v.Bool))
	case OpInt:
		if v.Kind != value.KindInt {
			return encodeErrorf(path, "expected int, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteInt(w, v.Int32))
	case OpLong:
		if v.Kind != value.KindLong {
			return encodeErrorf(path, "expected long, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteLong(w, v.Int64))
	case OpFloat:
		f, ok := floatValue(v)
		if !ok {
			return encodeErrorf(path, "expected float, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteFloat(w, f))
	case OpDouble:
		f, ok := doubleValue(v)
		if !ok {
			return encodeErrorf(path, "expected double, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteDouble(w, f))
	case OpBytes:
		if v.Kind != value.KindBytes {
			return encodeErrorf(path, "expected bytes, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteBytes(w, v.Bytes))
	case OpString:
		if v.Kind != value.KindString {
			return encodeErrorf(path, "expected string, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteString(w, v.Str))
	case OpFixed:
		if v.Kind != value.KindFixed {
			return encodeErrorf(path, "expected fixed, got %s", v.Kind)
		}
		if len(v.Bytes) != p.Size {
			return encodeErrorf(path, "fixed %q wants %d bytes, got %d", p.FullName, p.Size, len(v.Bytes))
		}
		return wrapEncodeError(path, WriteFixed(w, v.Bytes))
	case OpEnum:
		if v.Kind != value.KindEnum {
			return encodeErrorf(path, "expected enum, got %s", v.Kind)
		}
		idx := indexOfSymbol(p.Symbols, v.Str)
		if idx < 0 {
			return encodeErrorf(path, "%q is not a symbol of enum %q", v.Str, p.FullName)
		}
		return wrapEncodeError(path, WriteInt(w, int32(idx)))
	case OpArray:
		if v.Kind != value.KindArray {
			return encodeErrorf(path, "expected array, got %s", v.Kind)
		}
		if len(v.Array) > 0 {
			if err := WriteBlockHeader(w, int64(len(v.Array))); err != nil {
				return wrapEncodeError(path, err)
			}
			for i, e := range v.Array {
				if err := exec(w, p.Item, e, fmt.Sprintf("%s[%d]", path, i), opts); err != nil {
					return err
				}
			}
		}
		return wrapEncodeError(path, WriteBlockEnd(w))
	case OpMap:
		if v.Kind != value.KindMap {
			return encodeErrorf(path, "expected map, got %s", v.Kind)
		}
		if v.Map != nil && v.Map.Len() > 0 {
			if err := WriteBlockHeader(w, int64(v.Map.Len())); err != nil {
				return wrapEncodeError(path, err)
			}
			for _, k := range v.Map.Keys() {
				if err := WriteString(w, k); err != nil {
					return wrapEncodeError(path, err)
				}
				e, _ := v.Map.Get(k)
				if err := exec(w, p.Item, e, path+"."+k, opts); err != nil {
					return err
				}
			}
		}
		return wrapEncodeError(path, WriteBlockEnd(w))
	case OpRecord:
		if v.Kind != value.KindRecord || v.Record == nil {
			return encodeErrorf(path, "expected record %q, got %s", p.FullName, v.Kind)
		}
		for _, fo := range p.Fields {
			fv, ok := v.Record.Get(fo.Name)
			if !ok {
				switch {
				case fo.HasDefault:
					fv = fo.Default
				case !opts.StrictUnionMatch && hasNullBranch(fo.Prog):
					fv = value.Null()
				default:
					return encodeErrorf(path, "record %q is missing field %q", p.FullName, fo.Name)
				}
			}
			if err := exec(w, fo.Prog, fv, path+"."+fo.Name, opts); err != nil {
				return err
			}
		}
		return nil
	case OpUnion:
		for i, branch := range p.Branches {
			if accepts(branch, v) {
				if err := WriteInt(w, int32(i)); err != nil {
					return wrapEncodeError(path, err)
				}
				return exec(w, branch, v, path, opts)
			}
		}
		return encodeErrorf(path, "value of kind %s matches no union branch", v.Kind)
	case OpDecimalBytes:
		if v.Kind != value.KindDecimal {
			return encodeErrorf(path, "expected decimal, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteBytes(w, bigIntToTwosComplement(decimalCoefficient(v.Decimal, p.Scale))))
	case OpDecimalFixed:
		if v.Kind != value.KindDecimal {
			return encodeErrorf(path, "expected decimal, got %s", v.Kind)
		}
		raw := bigIntToTwosComplement(decimalCoefficient(v.Decimal, p.Scale))
		return wrapEncodeError(path, WriteFixed(w, padTwosComplement(raw, p.Size)))
	case OpUUID:
		if v.Kind != value.KindUUID {
			return encodeErrorf(path, "expected uuid, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteString(w, v.UUID.String()))
	case OpDate:
		if v.Kind != value.KindDate {
			return encodeErrorf(path, "expected date, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteInt(w, v.Date))
	case OpTimeMillis:
		if v.Kind != value.KindTimeOfDay {
			return encodeErrorf(path, "expected time-of-day, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteInt(w, int32(v.TimeCount)))
	case OpTimeMicros:
		if v.Kind != value.KindTimeOfDay {
			return encodeErrorf(path, "expected time-of-day, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteLong(w, v.TimeCount))
	case OpTimestampMillis, OpTimestampMicros:
		if v.Kind != value.KindTimestamp {
			return encodeErrorf(path, "expected timestamp, got %s", v.Kind)
		}
		return wrapEncodeError(path, WriteLong(w, v.TimeCount))
	}
	return encodeErrorf(path, "unhandled op %v", p.Op)
}

// ExecDecode runs a decode (or resolved-decode) Program against r,
// producing a value.Value tree (spec §4.4, §4.5). It recovers a panic
// into a *DecodeError rather than letting it escape.
func ExecDecode(r io.Reader, p *Program, opts Options) (v value.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, err = value.Value{}, decodeErrorf("", "panic during decode: %v", rec)
		}
	}()
	return execDecode(r, p, "", opts)
}

func execDecode(r io.Reader, p *Program, path string, opts Options) (value.Value, error) {
	switch p.Op {
	case OpNull:
		return value.Null(), nil
	case OpBoolean:
		b, err := ReadBool(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.Bool(b), nil
	case OpInt:
		n, err := ReadInt(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.Int(n), nil
	case OpLong:
		n, err := ReadLong(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.Long(n), nil
	case OpFloat:
		f, err := ReadFloat(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.Float(f), nil
	case OpDouble:
		f, err := ReadDouble(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.Double(f), nil
	case OpBytes:
		b, err := ReadBytes(r, opts.MaxBlockBytes)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.Bytes(b), nil
	case OpString:
		s, err := ReadString(r, opts.MaxBlockBytes)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.String(s), nil
	case OpFixed:
		b, err := ReadFixed(r, p.Size)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.Fixed(b), nil
	case OpEnum:
		idx, err := ReadInt(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		if idx < 0 || int(idx) >= len(p.Symbols) {
			return value.Value{}, decodeErrorf(path, "enum %q symbol index %d out of range", p.FullName, idx)
		}
		return value.Enum(p.Symbols[idx]), nil
	case OpArray:
		items := []value.Value{}
		for {
			n, err := ReadBlockCount(r, opts.MaxBlockBytes)
			if err != nil {
				return value.Value{}, wrapDecodeError(path, err)
			}
			if n == 0 {
				break
			}
			for i := int64(0); i < n; i++ {
				v, err := execDecode(r, p.Item, fmt.Sprintf("%s[%d]", path, len(items)), opts)
				if err != nil {
					return value.Value{}, err
				}
				items = append(items, v)
			}
		}
		return value.ArrayOf(items), nil
	case OpMap:
		m := value.NewOrderedMap()
		for {
			n, err := ReadBlockCount(r, opts.MaxBlockBytes)
			if err != nil {
				return value.Value{}, wrapDecodeError(path, err)
			}
			if n == 0 {
				break
			}
			for i := int64(0); i < n; i++ {
				k, err := ReadString(r, opts.MaxBlockBytes)
				if err != nil {
					return value.Value{}, wrapDecodeError(path, err)
				}
				v, err := execDecode(r, p.Item, path+"."+k, opts)
				if err != nil {
					return value.Value{}, err
				}
				m.Set(k, v)
			}
		}
		return value.MapOf(m), nil
	case OpRecord:
		rec := value.NewOrderedMap()
		for _, fo := range p.Fields {
			v, err := execDecode(r, fo.Prog, path+"."+fo.Name, opts)
			if err != nil {
				return value.Value{}, err
			}
			if fo.Prog.Op == OpSkip {
				continue
			}
			rec.Set(fo.Name, v)
		}
		if p.FieldOrder != nil {
			rec = reorderRecord(rec, p.FieldOrder)
		}
		return value.RecordOf(rec), nil
	case OpUnion:
		idx, err := ReadInt(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		if idx < 0 || int(idx) >= len(p.Branches) {
			return value.Value{}, decodeErrorf(path, "union branch index %d out of range", idx)
		}
		return execDecode(r, p.Branches[idx], path, opts)
	case OpDecimalBytes:
		b, err := ReadBytes(r, opts.MaxBlockBytes)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.DecimalValue(bigIntFromTwosComplement(b), p.Scale), nil
	case OpDecimalFixed:
		b, err := ReadFixed(r, p.Size)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.DecimalValue(bigIntFromTwosComplement(b), p.Scale), nil
	case OpUUID:
		s, err := ReadString(r, opts.MaxBlockBytes)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		u, err := uuid.Parse(s)
		if err != nil {
			if opts.LogicalTypeFallback {
				return value.String(s), nil
			}
			return value.Value{}, decodeErrorf(path, "invalid uuid %q: %v", s, err)
		}
		return value.UUIDValue(u), nil
	case OpDate:
		n, err := ReadInt(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.DateValue(n), nil
	case OpTimeMillis:
		n, err := ReadInt(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.TimeOfDayValue(value.Millis, int64(n)), nil
	case OpTimeMicros:
		n, err := ReadLong(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.TimeOfDayValue(value.Micros, n), nil
	case OpTimestampMillis:
		n, err := ReadLong(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.TimestampValue(value.Millis, n), nil
	case OpTimestampMicros:
		n, err := ReadLong(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		return value.TimestampValue(value.Micros, n), nil

	case OpEnumRemap:
		idx, err := ReadInt(r)
		if err != nil {
			return value.Value{}, wrapDecodeError(path, err)
		}
		if idx < 0 || int(idx) >= len(p.Symbols) {
			return value.Value{}, decodeErrorf(path, "enum %q symbol index %d out of range", p.FullName, idx)
		}
		if sym := p.Symbols[idx]; sym != "" {
			return value.Enum(sym), nil
		}
		if p.HasEnumDefault {
			return value.Enum(p.EnumDefault), nil
		}
		return value.Value{}, decodeErrorf(path, "writer symbol at index %d has no reader counterpart and enum %q has no default", idx, p.FullName)

	case OpSkip:
		_, err := execDecode(r, p.Inner, path, opts)
		return value.Null(), err
	case OpDefault:
		return p.Const, nil
	case OpPromoteIntToLong:
		v, err := execDecode(r, p.Inner, path, opts)
		if err != nil {
			return value.Value{}, err
		}
		return value.Long(int64(v.Int32)), nil
	case OpPromoteIntToFloat:
		v, err := execDecode(r, p.Inner, path, opts)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(float32(v.Int32)), nil
	case OpPromoteIntToDouble:
		v, err := execDecode(r, p.Inner, path, opts)
		if err != nil {
			return value.Value{}, err
		}
		return value.Double(float64(v.Int32)), nil
	case OpPromoteLongToFloat:
		v, err := execDecode(r, p.Inner, path, opts)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(float32(v.Int64)), nil
	case OpPromoteLongToDouble:
		v, err := execDecode(r, p.Inner, path, opts)
		if err != nil {
			return value.Value{}, err
		}
		return value.Double(float64(v.Int64)), nil
	case OpPromoteFloatToDouble:
		v, err := execDecode(r, p.Inner, path, opts)
		if err != nil {
			return value.Value{}, err
		}
		return value.Double(float64(v.Float32)), nil
	case OpPromoteStringToBytes:
		v, err := execDecode(r, p.Inner, path, opts)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bytes([]byte(v.Str)), nil
	case OpPromoteBytesToString:
		v, err := execDecode(r, p.Inner, path, opts)
		if err != nil {
			return value.Value{}, err
		}
		return value.String(string(v.Bytes)), nil
	}
	return value.Value{}, decodeErrorf(path, "unhandled op %v", p.Op)
}

// floatValue and doubleValue implement §4.2's "a floating-point value or
// an integer convertible to one" acceptance rule at the point of writing,
// matching the same widened acceptance accepts() (accept.go) and
// schema.Accepts use for branch selection.
func floatValue(v value.Value) (float32, bool) {
	switch v.Kind {
	case value.KindFloat:
		return v.Float32, true
	case value.KindInt:
		return float32(v.Int32), true
	case value.KindLong:
		return float32(v.Int64), true
	}
	return 0, false
}

func doubleValue(v value.Value) (float64, bool) {
	switch v.Kind {
	case value.KindDouble:
		return v.Float64, true
	case value.KindInt:
		return float64(v.Int32), true
	case value.KindLong:
		return float64(v.Int64), true
	}
	return 0, false
}

// reorderRecord re-keys rec into order, dropping nothing: every name
// execDecode's OpRecord loop can have Set is one of the reader's own
// fields, so order (the reader's declared field names) always covers it.
func reorderRecord(rec *value.OrderedMap, order []string) *value.OrderedMap {
	out := value.NewOrderedMap()
	for _, name := range order {
		if v, ok := rec.Get(name); ok {
			out.Set(name, v)
		}
	}
	return out
}
