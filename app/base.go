package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a complete ABCI application: StoreApp provides the state,
// queries and block lifecycle, BaseApp decodes transactions and passes them
// to the handler.
type BaseApp struct {
	*StoreApp
	decoder bazaar.TxDecoder
	handler bazaar.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application running handler for every decoded
// transaction. Debug exposes full error details in responses.
func NewBaseApp(store *StoreApp, decoder bazaar.TxDecoder, handler bazaar.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, ctx, err := b.prepare("deliver_tx", txBytes)
	if err != nil {
		return bazaar.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return bazaar.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, ctx, err := b.prepare("check_tx", txBytes)
	if err != nil {
		return bazaar.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return bazaar.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and returns the block context annotated
// for logging.
func (b BaseApp) prepare(call string, txBytes []byte) (bazaar.Tx, bazaar.Context, error) {
	tx, err := b.decode(txBytes)
	if err != nil {
		return nil, nil, err
	}
	ctx := bazaar.WithLogInfo(b.BlockContext(), "call", call, "path", bazaar.GetPath(tx))
	return tx, ctx, nil
}

// decode recovers from a decoder panic, as decoders run on untrusted
// input.
func (b BaseApp) decode(txBytes []byte) (tx bazaar.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
