package vm

// Options tunes limits and behavior shared by every Program execution.
// The zero value is not ready to use; call DefaultOptions.
type Options struct {
	// MaxBlockBytes bounds any length this codec reads off the wire
	// before allocating for it: bytes/string lengths and array/map block
	// counts (spec §5).
	MaxBlockBytes int64

	// StrictUnionMatch, if true, disables the permissive "missing
	// null-inclusive union field encodes as null" deviation and instead
	// raises EncodeError::MissingField like a field with no default
	// would (spec §4.4 "Exception", §6.3 strict_union_match).
	StrictUnionMatch bool

	// LogicalTypeFallback, if true (the default), makes a decode-time
	// logical type lift failure (e.g. an invalid uuid string) fall back
	// to the base value instead of raising a *DecodeError (spec §4.4,
	// §6.3 logical_type_fallback).
	LogicalTypeFallback bool
}

// DefaultOptions returns the codec's default resource limits.
func DefaultOptions() Options {
	return Options{MaxBlockBytes: DefaultMaxBlockBytes, LogicalTypeFallback: true}
}
