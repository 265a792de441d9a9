package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches a field name to err. It returns nil when err is nil, so it
// can wrap the result of a Validate call directly.
//
// Field names follow Go naming, eg. SellPrice. Nested fields are joined with
// a dot, eg. Patch.Owner, and list elements use their index, eg.
// Signatures.0.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{name: fieldName, note: description, err: err}
}

// AppendField adds the field error, if any, to the errors collected so far.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	name string
	note string
	err  error
}

func (e *fieldError) Error() string {
	msg := fmt.Sprintf("field %q: ", e.name)
	if e.note != "" {
		msg += e.note + ": "
	}
	return msg + e.err.Error()
}

func (e *fieldError) Cause() error  { return e.err }
func (e *fieldError) Field() string { return e.name }

// FieldErrors returns the outermost errors created for given field name.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	walkFields(err, func(name string, fe error) bool {
		if name != fieldName {
			return true
		}
		res = append(res, fe)
		return false
	})
	return res
}

// Fields returns the names of all fields with an error, in the order they
// were appended. Nested field errors are not reported separately.
func Fields(err error) []string {
	var names []string
	walkFields(err, func(name string, _ error) bool {
		names = append(names, name)
		return false
	})
	return names
}

// walkFields calls fn for every field error found in err. Unpacking of a
// group visits every member. fn returns false to stop descending into the
// visited field error.
func walkFields(err error, fn func(name string, fieldErr error) bool) {
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok {
			if !fn(f.Field(), err) {
				return
			}
		}
		// A group exposes all its children through Unpack, Cause is
		// not consulted.
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				walkFields(e, fn)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

type fielder interface {
	Field() string
}
