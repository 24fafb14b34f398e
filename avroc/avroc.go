// Package avroc is the public facade over the codec core: parse a schema,
// compile an encoder or decoder against it, and optionally compile a
// resolved decoder between a writer and a reader schema (spec §6.1).
package avroc

import (
	"io"

	"github.com/avroc/avroc/compiler"
	"github.com/avroc/avroc/resolver"
	"github.com/avroc/avroc/schema"
	"github.com/avroc/avroc/value"
	"github.com/avroc/avroc/vm"
)

// ParseSchema parses a JSON Avro schema document. opts may be nil, in
// which case the codec's defaults apply.
func ParseSchema(data []byte, opts *Options) (schema.Schema, error) {
	if opts != nil && opts.StrictUnionMatch {
		return schema.Parse(data, schema.StrictUnionDefaults())
	}
	return schema.Parse(data)
}

// Encoder writes value.Value trees shaped like a single compiled schema.
type Encoder struct {
	prog *vm.Program
	opts vm.Options
}

// Encode writes v's Avro binary encoding to w.
func (e *Encoder) Encode(w io.Writer, v value.Value) error {
	return vm.Exec(w, e.prog, v, e.opts)
}

// Decoder reads value.Value trees off the wire, either against a single
// schema or a resolved (writer, reader) pair.
type Decoder struct {
	prog *vm.Program
	opts vm.Options
}

// Decode reads one Avro-encoded value from r.
func (d *Decoder) Decode(r io.Reader) (value.Value, error) {
	return vm.ExecDecode(r, d.prog, d.opts)
}

// CompileEncoder compiles s into an Encoder.
func CompileEncoder(s schema.Schema, opts *Options) (*Encoder, error) {
	prog, err := compiler.CompileEncodeProgram(s)
	if err != nil {
		return nil, err
	}
	opts.trace("compiled encoder for %s", schema.Fingerprint(s))
	return &Encoder{prog: prog, opts: opts.vmOptions()}, nil
}

// CompileDecoder compiles s into a Decoder.
func CompileDecoder(s schema.Schema, opts *Options) (*Decoder, error) {
	prog, err := compiler.CompileDecodeProgram(s)
	if err != nil {
		return nil, err
	}
	opts.trace("compiled decoder for %s", schema.Fingerprint(s))
	return &Decoder{prog: prog, opts: opts.vmOptions()}, nil
}

// CompileResolvedDecoder compiles a Decoder that reads data written under
// writer and produces values shaped like reader, applying schema
// resolution (spec §4.5).
func CompileResolvedDecoder(writer, reader schema.Schema, opts *Options) (*Decoder, error) {
	plan, err := resolver.Plan(writer, reader)
	if err != nil {
		return nil, err
	}
	opts.trace("compiled resolved decoder for %s -> %s", schema.Fingerprint(writer), schema.Fingerprint(reader))
	return &Decoder{prog: plan.Program(), opts: opts.vmOptions()}, nil
}
