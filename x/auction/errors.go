package auction

import "github.com/iov-one/bazaar/errors"

var (
	// ErrIdentityMismatch is returned when an address given with a message
	// does not match the one stored in the auction.
	ErrIdentityMismatch = errors.Register(300, "identity mismatch")

	// ErrPriceOrdering is returned when a bid does not exceed the current
	// price or a buy-now price is not the one declared by the exhibitor.
	ErrPriceOrdering = errors.Register(301, "price ordering")

	// ErrDuplicateBidder is returned when the highest bidder bids again.
	ErrDuplicateBidder = errors.Register(302, "duplicate bidder")

	// ErrTimeWindow is returned when an operation is not allowed at the
	// current block time.
	ErrTimeWindow = errors.Register(303, "outside of the time window")

	// ErrLifecycle is returned for operations on an auction that does not
	// exist or is not in a state allowing the operation.
	ErrLifecycle = errors.Register(304, "invalid auction lifecycle")
)
