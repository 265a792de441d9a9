/*
Package cash implements the native currency of the chain.

Every address can hold a wallet with a single balance. The controller exposes
the payment primitive used by other extensions to move currency between
addresses. A payment either fully succeeds or returns an error without
modifying any wallet.
*/
package cash
