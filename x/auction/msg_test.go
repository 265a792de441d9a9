package auction

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestCreateMsgDurationOverflow(t *testing.T) {
	msg := &CreateMsg{
		Metadata:       &bazaar.Metadata{Schema: 1},
		Exhibitor:      weavetest.NewCondition().Address(),
		SourceHolding:  weavetest.NewCondition().Address(),
		CustodyHolding: weavetest.NewCondition().Address(),
		InitialPrice:   100,
		Duration:       duration,
		SellPrice:      500,
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	var decoded CreateMsg
	assert.Nil(t, decoded.Unmarshal(raw))
	assert.Equal(t, duration, decoded.Duration)

	// A duration of 2^32+5 must not wrap around to 5 seconds.
	var e bazaar.Encoder
	e.Uvarint(6, 1<<32+5)
	overflow := append(raw, e.Bytes()...)
	assert.IsErr(t, errors.ErrInput, decoded.Unmarshal(overflow))
}

func TestAuctionCustodianBumpOverflow(t *testing.T) {
	var e bazaar.Encoder
	e.Uvarint(9, 256)
	var a Auction
	assert.IsErr(t, errors.ErrInput, a.Unmarshal(e.Bytes()))
}
