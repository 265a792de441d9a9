package sigs

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/weavetest"
)

// StdTx is a signed transaction used in tests.
type StdTx struct {
	weavetest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Tx: weavetest.Tx{Msg: &weavetest.Msg{Serialized: payload, RoutePath: "test/payload"}}}
}

func NewStdTxWithMsg(msg bazaar.Msg) *StdTx {
	return &StdTx{Tx: weavetest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}
