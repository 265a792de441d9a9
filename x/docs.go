/*
Package x contains the extensions of bazaar.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct the application.

Note that types in exported code will be prefixed by the package,
so follow standard go naming conventions and avoid stutter.
Use eg. `auction.BidMsg` in place of `auction.AuctionBidMsg`.
*/
package x

// Validater is any struct that can be validated.
// Not the same as a Validator, which votes on the blocks.
type Validater interface {
	Validate() error
}
