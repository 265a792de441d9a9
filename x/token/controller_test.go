package token

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
	"github.com/iov-one/bazaar/x/cash"
)

func TestTransfer(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	cases := map[string]struct {
		Signers    []bazaar.Condition
		FromAsset  string
		ToAsset    string
		Amount     uint64
		SameTarget bool
		WantErr    *errors.Error
		WantFrom   uint64
		WantTo     uint64
	}{
		"success": {
			Signers:   []bazaar.Condition{alice},
			FromAsset: "NFT",
			ToAsset:   "NFT",
			Amount:    1,
			WantFrom:  0,
			WantTo:    1,
		},
		"authority must sign": {
			Signers:   []bazaar.Condition{bob},
			FromAsset: "NFT",
			ToAsset:   "NFT",
			Amount:    1,
			WantErr:   errors.ErrUnauthorized,
			WantFrom:  1,
		},
		"asset mismatch": {
			Signers:   []bazaar.Condition{alice},
			FromAsset: "NFT",
			ToAsset:   "GOLD",
			Amount:    1,
			WantErr:   errors.ErrInput,
			WantFrom:  1,
		},
		"insufficient balance": {
			Signers:   []bazaar.Condition{alice},
			FromAsset: "NFT",
			ToAsset:   "NFT",
			Amount:    2,
			WantErr:   errors.ErrInsufficientAmount,
			WantFrom:  1,
		},
		"zero amount": {
			Signers:   []bazaar.Condition{alice},
			FromAsset: "NFT",
			ToAsset:   "NFT",
			WantErr:   errors.ErrAmount,
			WantFrom:  1,
		},
		"self transfer": {
			Signers:    []bazaar.Condition{alice},
			FromAsset:  "NFT",
			ToAsset:    "NFT",
			Amount:     1,
			SameTarget: true,
			WantErr:    errors.ErrInput,
			WantFrom:   1,
			WantTo:     1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(cash.NewController())

			from, err := ctrl.create(db, alice.Address(), tc.FromAsset, 1, false)
			assert.Nil(t, err)
			to, err := ctrl.create(db, bob.Address(), tc.ToAsset, 0, false)
			assert.Nil(t, err)
			if tc.SameTarget {
				to = from
			}

			auth := &weavetest.Auth{Signers: tc.Signers}
			err = ctrl.Transfer(context.Background(), auth, db, from, to, tc.Amount)
			assert.IsErr(t, tc.WantErr, err)

			src, err := ctrl.Holding(db, from)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantFrom, src.Amount)
			dst, err := ctrl.Holding(db, to)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantTo, dst.Amount)
		})
	}
}

func TestHoldingLifecycle(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	ctx := context.Background()

	db := store.MemStore()
	cashctrl := cash.NewController()
	ctrl := NewController(cashctrl)

	// Holdings cannot be opened before the deposit is configured.
	_, err := ctrl.Open(db, alice.Address(), "NFT")
	assert.IsErr(t, errors.ErrNotFound, err)

	conf := Configuration{Metadata: &bazaar.Metadata{Schema: 1}, HoldingDeposit: 7}
	assert.Nil(t, gconf.Save(db, packageName, &conf))
	assert.Nil(t, cashctrl.Issue(db, alice.Address(), 10))

	addr, err := ctrl.Open(db, alice.Address(), "NFT")
	assert.Nil(t, err)
	assert.Equal(t, Condition(weavetest.SequenceID(1)).Address(), addr)

	deposit, err := cashctrl.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), deposit)

	// Not enough currency left for a second deposit.
	_, err = ctrl.Open(db, alice.Address(), "NFT")
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	aliceAuth := &weavetest.Auth{Signer: alice}
	bobAuth := &weavetest.Auth{Signer: bob}

	err = ctrl.DelegateAuthority(ctx, bobAuth, db, addr, bob.Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Nil(t, ctrl.DelegateAuthority(ctx, aliceAuth, db, addr, bob.Address()))

	var byAuthority []Holding
	_, err = NewBucket().ByIndex(db, "authority", bob.Address(), &byAuthority)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(byAuthority))

	err = ctrl.CloseAccount(ctx, aliceAuth, db, addr, alice.Address())
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Nil(t, ctrl.CloseAccount(ctx, bobAuth, db, addr, bob.Address()))

	_, err = ctrl.Holding(db, addr)
	assert.IsErr(t, errors.ErrNotFound, err)
	refund, err := cashctrl.Balance(db, bob.Address())
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), refund)
}

func TestCloseNonEmptyHolding(t *testing.T) {
	alice := weavetest.NewCondition()
	db := store.MemStore()
	ctrl := NewController(cash.NewController())

	addr, err := ctrl.create(db, alice.Address(), "NFT", 1, false)
	assert.Nil(t, err)

	err = ctrl.CloseAccount(context.Background(), &weavetest.Auth{Signer: alice}, db, addr, alice.Address())
	assert.IsErr(t, errors.ErrState, err)
}

func TestOpenFailureLeavesNoTrace(t *testing.T) {
	alice := weavetest.NewCondition()

	cases := map[string]struct {
		conf    *Configuration
		funds   uint64
		asset   string
		wantErr *errors.Error
	}{
		"no configuration": {
			funds:   100,
			asset:   "NFT",
			wantErr: errors.ErrNotFound,
		},
		"deposit not covered": {
			conf:    &Configuration{Metadata: &bazaar.Metadata{Schema: 1}, HoldingDeposit: 50},
			funds:   49,
			asset:   "NFT",
			wantErr: errors.ErrInsufficientAmount,
		},
		"invalid asset": {
			conf:    &Configuration{Metadata: &bazaar.Metadata{Schema: 1}, HoldingDeposit: 5},
			funds:   100,
			asset:   "not an asset",
			wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			cashctrl := cash.NewController()
			ctrl := NewController(cashctrl)
			if tc.conf != nil {
				assert.Nil(t, gconf.Save(db, packageName, tc.conf))
			}
			assert.Nil(t, cashctrl.Issue(db, alice.Address(), tc.funds))

			_, err := ctrl.Open(db, alice.Address(), tc.asset)
			assert.IsErr(t, tc.wantErr, err)

			latest, _, err := holdingSeq.Latest(db)
			assert.Nil(t, err)
			assert.Equal(t, int64(0), latest)
			_, err = ctrl.Holding(db, Condition(weavetest.SequenceID(1)).Address())
			assert.IsErr(t, errors.ErrNotFound, err)
			balance, err := cashctrl.Balance(db, alice.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.funds, balance)
		})
	}
}
