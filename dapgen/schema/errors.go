package schema

import "github.com/cockroachdb/errors"

var (
	// ErrMalformedSchema marks input that does not have the shape the
	// translator expects: missing fixed-name fields, untyped nodes,
	// non-object definitions tables.
	ErrMalformedSchema = errors.New("malformed schema")

	// ErrUnresolvableRef marks a $ref that names no definition, uses an
	// unsupported pointer form, or loops back on itself.
	ErrUnresolvableRef = errors.New("unresolvable reference")
)

// malformed wraps ErrMalformedSchema with a location.
func malformed(path, format string, args ...any) error {
	return errors.Wrapf(ErrMalformedSchema, "%s: "+format, append([]any{path}, args...)...)
}
