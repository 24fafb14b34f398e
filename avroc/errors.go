package avroc

import (
	"github.com/avroc/avroc/resolver"
	"github.com/avroc/avroc/schema"
	"github.com/avroc/avroc/vm"
)

// Re-exported so callers of this package's facade never need to import
// the sub-packages directly just to type-switch on an error.
type (
	SchemaError  = schema.SchemaError
	Incompatible = resolver.Incompatible
	EncodeError  = vm.EncodeError
	DecodeError  = vm.DecodeError
)
