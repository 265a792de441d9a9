package orm

import (
	"github.com/iov-one/bazaar/errors"
)

// Codes 100 to 109 belong to the orm package.
var (
	// ErrInvalidIndex is returned by an index asked to do something its
	// configuration does not allow.
	ErrInvalidIndex = errors.Register(100, "invalid index")
)
