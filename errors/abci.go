package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the ABCI response code of a successful call.
	SuccessABCICode = 0

	// Errors that do not carry a registered code are reported as internal
	// errors. Their message may contain system details and is hidden
	// unless running in debug mode.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the response code and log of err for an ABCI response.
// Errors wrapping a registered root error expose their message; any other
// error is reported as an internal error with code 1 and, outside of debug
// mode, a generic log. Debug mode also prints the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the cause chain that
// declares one.
func abciCode(err error) uint32 {
	for !isNilErr(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	if isNilErr(err) {
		return SuccessABCICode
	}
	return internalABCICode
}

// Redact hides the details of internal errors and recovered panics before
// they leave the application. It returns err unchanged in debug mode.
func Redact(err error, debug bool) error {
	if debug || isNilErr(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
