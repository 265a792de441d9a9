package sigs

import "github.com/iov-one/bazaar/errors"

// ErrInvalidSequence is returned when the signature nonce does not match the
// one stored for the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
