package app

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest/assert"
	"github.com/iov-one/bazaar/x/auction"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/iov-one/bazaar/x/token"
)

func TestTxRoundTrip(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	bidder := key.PublicKey().Address()

	cases := map[string]struct {
		msg bazaar.Msg
	}{
		"auction bid": {
			msg: &auction.BidMsg{
				Metadata:  &bazaar.Metadata{Schema: 1},
				AuctionID: []byte{0, 0, 0, 0, 0, 0, 0, 1},
				Bidder:    bidder,
				Price:     42,
			},
		},
		"buy now settlement": {
			msg: &auction.CloseBuyNowMsg{CloseMsg: auction.CloseMsg{
				Metadata:  &bazaar.Metadata{Schema: 1},
				AuctionID: []byte{0, 0, 0, 0, 0, 0, 0, 2},
				Winner:    bidder,
			}},
		},
		"token holding": {
			msg: &token.CreateHoldingMsg{
				Metadata: &bazaar.Metadata{Schema: 1},
				Owner:    bidder,
				Asset:    "NFT",
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			tx := &Tx{Msg: tc.msg}
			sig, err := sigs.SignTx(key, tx, "test-chain", 3)
			assert.Nil(t, err)
			tx.Signatures = []*sigs.StdSignature{sig}

			raw, err := tx.Marshal()
			assert.Nil(t, err)
			decoded, err := TxDecoder(raw)
			assert.Nil(t, err)

			msg, err := decoded.GetMsg()
			assert.Nil(t, err)
			assert.Equal(t, tc.msg, msg)
			assert.Equal(t, tc.msg.Path(), bazaar.GetPath(decoded))

			signed := decoded.(sigs.SignedTx)
			assert.Equal(t, 1, len(signed.GetSignatures()))
			assert.Equal(t, int64(3), signed.GetSignatures()[0].Sequence)
		})
	}
}

func TestSignBytesIgnoreSignatures(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	tx := &Tx{Msg: &auction.BidMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		AuctionID: []byte{0, 0, 0, 0, 0, 0, 0, 1},
		Bidder:    key.PublicKey().Address(),
		Price:     7,
	}}
	unsigned, err := tx.GetSignBytes()
	assert.Nil(t, err)

	sig, err := sigs.SignTx(key, tx, "test-chain", 0)
	assert.Nil(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	signed, err := tx.GetSignBytes()
	assert.Nil(t, err)
	assert.Equal(t, unsigned, signed)
	// Signatures are restored.
	assert.Equal(t, 1, len(tx.Signatures))
}

func TestTxDecodeErrors(t *testing.T) {
	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"empty": {
			raw:     nil,
			wantErr: errors.ErrInput,
		},
		"garbage": {
			raw:     []byte{0xff, 0xff, 0xff},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := TxDecoder(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestGetMsgWithoutMessage(t *testing.T) {
	var tx Tx
	_, err := tx.GetMsg()
	assert.IsErr(t, errors.ErrMsg, err)
	assert.Equal(t, "(missing)", bazaar.GetPath(&tx))
}
