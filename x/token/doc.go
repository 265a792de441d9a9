/*
Package token implements asset holdings.

A holding keeps a balance of a single asset and is controlled by exactly one
authority address. Only the authority can move the balance, hand the
authority over to another address or close the holding. Opening a holding
requires a native currency deposit that is returned when the holding is
closed.
*/
package token
