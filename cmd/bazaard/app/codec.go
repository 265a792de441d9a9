package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x/auction"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/iov-one/bazaar/x/token"
	amino "github.com/tendermint/go-amino"
)

// cdc encodes the transaction envelope. Every message the application
// routes must be registered here.
var cdc = amino.NewCodec()

func init() {
	RegisterAmino(cdc)
	cdc.Seal()
}

// RegisterAmino registers the message interface and all concrete messages
// with given codec.
func RegisterAmino(cdc *amino.Codec) {
	cdc.RegisterInterface((*bazaar.Msg)(nil), nil)

	cdc.RegisterConcrete(&sigs.BumpSequenceMsg{}, "bazaar/sigs/bump_sequence", nil)

	cdc.RegisterConcrete(&cash.SendMsg{}, "bazaar/cash/send", nil)

	cdc.RegisterConcrete(&token.CreateHoldingMsg{}, "bazaar/token/create_holding", nil)
	cdc.RegisterConcrete(&token.TransferMsg{}, "bazaar/token/transfer", nil)
	cdc.RegisterConcrete(&token.DelegateMsg{}, "bazaar/token/delegate", nil)
	cdc.RegisterConcrete(&token.CloseHoldingMsg{}, "bazaar/token/close_holding", nil)
	cdc.RegisterConcrete(&token.UpdateConfigurationMsg{}, "bazaar/token/update_configuration", nil)

	cdc.RegisterConcrete(&auction.CreateMsg{}, "bazaar/auction/create", nil)
	cdc.RegisterConcrete(&auction.CancelMsg{}, "bazaar/auction/cancel", nil)
	cdc.RegisterConcrete(&auction.BidMsg{}, "bazaar/auction/bid", nil)
	cdc.RegisterConcrete(&auction.BuyNowMsg{}, "bazaar/auction/buy_now", nil)
	cdc.RegisterConcrete(&auction.CloseMsg{}, "bazaar/auction/close", nil)
	cdc.RegisterConcrete(&auction.CloseBuyNowMsg{}, "bazaar/auction/close_buy_now", nil)
	cdc.RegisterConcrete(&auction.UpdateConfigurationMsg{}, "bazaar/auction/update_configuration", nil)
}
