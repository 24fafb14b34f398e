package schema

import "github.com/pkg/errors"

// SchemaError describes the first defect the parser found while walking a
// JSON schema document (spec §4.1, §7). Path is a best-effort breadcrumb
// (e.g. "record User -> field \"age\"") for diagnosing where in the
// document the defect was found.
type SchemaError struct {
	Path string
	msg  string
	err  error
}

func newSchemaError(path, msg string) *SchemaError {
	return &SchemaError{Path: path, msg: msg}
}

func wrapSchemaError(path string, err error) *SchemaError {
	return &SchemaError{Path: path, msg: err.Error(), err: err}
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.msg
	}
	return e.Path + ": " + e.msg
}

func (e *SchemaError) Unwrap() error { return e.err }

// IsSchemaError reports whether err is (or wraps) a *SchemaError.
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}
