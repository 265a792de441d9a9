package auction

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestAuctionValidate(t *testing.T) {
	exhibitor := weavetest.NewCondition().Address()
	custody := weavetest.NewCondition().Address()
	protocol := weavetest.NewCondition().Address()

	cases := map[string]struct {
		Model     *Auction
		WantField string
		WantErr   *errors.Error
	}{
		"valid": {
			Model: &Auction{
				Metadata:       &bazaar.Metadata{Schema: 1},
				Exhibitor:      exhibitor,
				CustodyHolding: custody,
				Price:          100,
				EndAt:          3600,
				HighestBidder:  exhibitor,
				SellPrice:      500,
				Protocol:       protocol,
				CustodianBump:  254,
			},
		},
		"missing metadata": {
			Model: &Auction{
				Exhibitor:      exhibitor,
				CustodyHolding: custody,
				HighestBidder:  exhibitor,
			},
			WantField: "Metadata",
			WantErr:   errors.ErrMetadata,
		},
		"missing custody": {
			Model: &Auction{
				Metadata:      &bazaar.Metadata{Schema: 1},
				Exhibitor:     exhibitor,
				HighestBidder: exhibitor,
			},
			WantField: "CustodyHolding",
			WantErr:   errors.ErrInput,
		},
		"missing protocol": {
			Model: &Auction{
				Metadata:       &bazaar.Metadata{Schema: 1},
				Exhibitor:      exhibitor,
				CustodyHolding: custody,
				HighestBidder:  exhibitor,
			},
			WantField: "Protocol",
			WantErr:   errors.ErrInput,
		},
		"negative end": {
			Model: &Auction{
				Metadata:       &bazaar.Metadata{Schema: 1},
				Exhibitor:      exhibitor,
				CustodyHolding: custody,
				HighestBidder:  exhibitor,
				EndAt:          -1,
			},
			WantField: "EndAt",
			WantErr:   errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.Model.Validate()
			if tc.WantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.WantField, tc.WantErr)
		})
	}
}

func TestAuctionBucket(t *testing.T) {
	exhibitor := weavetest.NewCondition().Address()
	bidder := weavetest.NewCondition().Address()

	db := store.MemStore()
	b := NewBucket()

	a := &Auction{
		Metadata:       &bazaar.Metadata{Schema: 1},
		Exhibitor:      exhibitor,
		CustodyHolding: weavetest.NewCondition().Address(),
		Price:          100,
		EndAt:          3600,
		HighestBidder:  exhibitor,
		SellPrice:      500,
		Protocol:       weavetest.NewCondition().Address(),
		CustodianBump:  255,
	}
	id, err := b.Put(db, nil, a)
	assert.Nil(t, err)
	assert.Equal(t, weavetest.SequenceID(1), id)

	updated := a.Copy()
	updated.HighestBidder = bidder
	updated.Price = 150
	_, err = b.Put(db, id, updated)
	assert.Nil(t, err)
	// The copy must not share memory with the original.
	assert.Equal(t, uint64(100), a.Price)
	assert.Equal(t, exhibitor, a.HighestBidder)

	var byBidder []*Auction
	keys, err := b.ByIndex(db, "highest_bidder", bidder, &byBidder)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{id}, keys)
	assert.Equal(t, []*Auction{updated}, byBidder)

	var byExhibitor []Auction
	_, err = b.ByIndex(db, "exhibitor", exhibitor, &byExhibitor)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(byExhibitor))
	if !byExhibitor[0].IsContested() {
		t.Fatal("auction with a bid must be contested")
	}
}
