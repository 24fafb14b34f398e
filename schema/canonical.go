package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// CanonicalJSON renders s as a normalized JSON string: primitive names are
// written bare, named types are written with fully qualified names and no
// aliases/docs/defaults, and field order is preserved. This is a
// convenience for schema fingerprinting and logging, not a byte-for-byte
// implementation of Avro's Parsing Canonical Form (spec §4.1 "(new)" —
// this codec does not attempt to replicate the upstream Rabin-fingerprint
// scheme, see Fingerprint below).
func CanonicalJSON(s Schema) string {
	var b strings.Builder
	writeCanonical(&b, s, make(map[string]bool))
	return b.String()
}

func writeCanonical(b *strings.Builder, s Schema, seen map[string]bool) {
	if ref, ok := s.(*Reference); ok {
		b.WriteByte('"')
		b.WriteString(ref.FullName())
		b.WriteByte('"')
		return
	}
	switch s.Kind() {
	case KindNull, KindBoolean, KindInt, KindLong, KindFloat, KindDouble, KindBytes, KindString:
		b.WriteByte('"')
		b.WriteString(s.Kind().String())
		b.WriteByte('"')
	case KindArray:
		b.WriteString(`{"type":"array","items":`)
		writeCanonical(b, s.(*Array).Items, seen)
		b.WriteByte('}')
	case KindMap:
		b.WriteString(`{"type":"map","values":`)
		writeCanonical(b, s.(*Map).Values, seen)
		b.WriteByte('}')
	case KindUnion:
		b.WriteByte('[')
		for i, branch := range s.(*Union).Branches {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, branch, seen)
		}
		b.WriteByte(']')
	case KindFixed:
		fx := s.(*Fixed)
		if seen[fx.FullName()] {
			b.WriteByte('"')
			b.WriteString(fx.FullName())
			b.WriteByte('"')
			return
		}
		seen[fx.FullName()] = true
		b.WriteString(`{"type":"fixed","name":"`)
		b.WriteString(fx.FullName())
		b.WriteString(`","size":`)
		b.WriteString(strconv.Itoa(fx.Size()))
		b.WriteByte('}')
	case KindEnum:
		en := s.(*Enum)
		if seen[en.FullName()] {
			b.WriteByte('"')
			b.WriteString(en.FullName())
			b.WriteByte('"')
			return
		}
		seen[en.FullName()] = true
		b.WriteString(`{"type":"enum","name":"`)
		b.WriteString(en.FullName())
		b.WriteString(`","symbols":[`)
		for i, sym := range en.Symbols() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(sym)
			b.WriteByte('"')
		}
		b.WriteString(`]}`)
	case KindRecord:
		rec := s.(*Record)
		if seen[rec.FullName()] {
			b.WriteByte('"')
			b.WriteString(rec.FullName())
			b.WriteByte('"')
			return
		}
		seen[rec.FullName()] = true
		b.WriteString(`{"type":"record","name":"`)
		b.WriteString(rec.FullName())
		b.WriteString(`","fields":[`)
		for i, f := range rec.Fields() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(`{"name":"`)
			b.WriteString(f.Name)
			b.WriteString(`","type":`)
			writeCanonical(b, f.Type, seen)
			b.WriteByte('}')
		}
		b.WriteString(`]}`)
	}
}

// Fingerprint returns a SHA-256 digest of s's canonical form, hex encoded.
// It is a stable, collision-resistant identifier for schema-registry style
// lookups; it is deliberately not the CRC-64-AVRO Rabin fingerprint the
// upstream Avro specification defines, since nothing in this codec's
// resolution logic depends on interoperating with that exact algorithm.
func Fingerprint(s Schema) string {
	sum := sha256.Sum256([]byte(CanonicalJSON(s)))
	return hex.EncodeToString(sum[:])
}
