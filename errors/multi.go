package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none of the provided errors is non-nil, this function returns nil.
// Returned error has the ABCI code of the first non-nil error, so that the
// response code of a multi validation matches the fail-fast approach.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten so that Is and FieldErrors can inspect every error.
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}

	if len(res) == 0 {
		return nil
	}
	return res
}

type multiErr []error

func (errs multiErr) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}

	points := make([]string, len(errs))
	for i, err := range errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(errs), strings.Join(points, "\n\t"))
}

// Unpack returns all the errors contained in this group.
func (errs multiErr) Unpack() []error {
	return errs
}

// ABCICode returns the code of the first error.
func (errs multiErr) ABCICode() uint32 {
	return abciCode(errs[0])
}

type unpacker interface {
	Unpack() []error
}
