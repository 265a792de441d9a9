/*
Package auction implements a custodial single asset auction.

An exhibitor deposits exactly one unit of an asset into a custody holding.
The authority over that holding is handed to a custodian identity that is
derived from a fixed seed and the configured protocol address. No secret key
exists for the custodian, so only this extension can move or close the
custody holding, and only while processing one of its own messages.

Bidders compete either with strictly increasing bids that can be settled once
the auction expired, or by registering a buy-now intent at the fixed sell
price that can be settled at any time. Settlement pays the exhibitor in the
native currency, hands the asset to the winner and tears down the custody
holding. Each operation either applies all of its effects or none.
*/
package auction
