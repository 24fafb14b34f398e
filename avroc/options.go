package avroc

import "github.com/avroc/avroc/vm"

// Options configures a compiled Encoder/Decoder (spec §6, ambient stack).
// The zero value is not ready to use; call NewOptions.
type Options struct {
	// MaxBlockBytes bounds any length this codec reads off the wire
	// before allocating for it (spec §5). Defaults to 1 GiB.
	MaxBlockBytes int64

	// StrictUnionMatch restores the strict "a union-typed field's
	// default value must validate against the union's first branch"
	// rule at schema-parse time, rather than this codec's default
	// looser behavior of accepting a default that matches any branch
	// (see DESIGN.md, Open Question 1). It also, at encode time,
	// disables the permissive "missing null-inclusive union field
	// encodes as null" deviation, requiring an explicit default instead
	// (spec §4.4 "Exception", §6.3).
	StrictUnionMatch bool

	// LogicalTypeFallback, if true (the default), makes a decode-time
	// logical type lift failure fall back to the base value instead of
	// raising an error (spec §6.3 logical_type_fallback).
	LogicalTypeFallback bool

	// Trace, if non-nil, is called once per schema compilation (never
	// from the per-message encode/decode path) with a short description
	// of what was compiled. Mirrors the opt-in, off-hot-path logging
	// style of the confluent-kafka-go client's own LogEvent channel:
	// nothing is logged unless a caller asks for it.
	Trace func(format string, args ...any)
}

// NewOptions returns an Options with sane defaults.
func NewOptions() *Options {
	return &Options{MaxBlockBytes: vm.DefaultMaxBlockBytes, LogicalTypeFallback: true}
}

func (o *Options) vmOptions() vm.Options {
	if o == nil {
		return vm.DefaultOptions()
	}
	maxBlockBytes := o.MaxBlockBytes
	if maxBlockBytes == 0 {
		maxBlockBytes = vm.DefaultMaxBlockBytes
	}
	return vm.Options{
		MaxBlockBytes:       maxBlockBytes,
		StrictUnionMatch:    o.StrictUnionMatch,
		LogicalTypeFallback: o.LogicalTypeFallback,
	}
}

func (o *Options) trace(format string, args ...any) {
	if o != nil && o.Trace != nil {
		o.Trace(format, args...)
	}
}
