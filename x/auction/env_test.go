package auction

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/token"
)

const holdingDeposit = 10

var (
	// Start of every test auction.
	createdAt = time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC)
	// One hour auction window.
	duration uint32 = 3600
)

type testRouter map[string]bazaar.Handler

func (r testRouter) Handle(path string, h bazaar.Handler) {
	r[path] = h
}

// testEnv is a ledger with an exhibitor owning a single NFT unit and two
// funded bidders, each with an empty NFT holding.
type testEnv struct {
	db     store.CacheableKVStore
	auth   *weavetest.CtxAuth
	router testRouter
	cash   cash.Controller
	tokens token.Controller

	protocol  bazaar.Address
	exhibitor bazaar.Condition
	bidder1   bazaar.Condition
	bidder2   bazaar.Condition

	source    bazaar.Address
	custody   bazaar.Address
	receiving map[string]bazaar.Address
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()

	env := &testEnv{
		db:        store.MemStore(),
		auth:      &weavetest.CtxAuth{Key: "auth"},
		router:    make(testRouter),
		cash:      cash.NewController(),
		protocol:  weavetest.DeriveCondition(t, 100).Address(),
		exhibitor: weavetest.DeriveCondition(t, 1),
		bidder1:   weavetest.DeriveCondition(t, 2),
		bidder2:   weavetest.DeriveCondition(t, 3),
		receiving: make(map[string]bazaar.Address),
	}
	tokens := token.NewController(env.cash)
	env.tokens = tokens

	assert.Nil(t, gconf.Save(env.db, "auction", &Configuration{
		Metadata: &bazaar.Metadata{Schema: 1},
		Protocol: env.protocol,
	}))
	assert.Nil(t, gconf.Save(env.db, "token", &token.Configuration{
		Metadata:       &bazaar.Metadata{Schema: 1},
		HoldingDeposit: holdingDeposit,
	}))

	raw, err := json.Marshal([]token.GenesisHolding{
		{Asset: "NFT", Authority: env.exhibitor.Address(), Amount: 1},
	})
	assert.Nil(t, err)
	err = token.Initializer{}.FromGenesis(bazaar.Options{"token": raw}, bazaar.GenesisParams{}, env.db)
	assert.Nil(t, err)
	env.source = token.Condition(weavetest.SequenceID(1)).Address()

	assert.Nil(t, env.cash.Issue(env.db, env.exhibitor.Address(), 100))
	assert.Nil(t, env.cash.Issue(env.db, env.bidder1.Address(), 1000))
	assert.Nil(t, env.cash.Issue(env.db, env.bidder2.Address(), 1000))

	env.custody, err = tokens.Open(env.db, env.exhibitor.Address(), "NFT")
	assert.Nil(t, err)
	for name, c := range map[string]bazaar.Condition{"bidder1": env.bidder1, "bidder2": env.bidder2} {
		addr, err := tokens.Open(env.db, c.Address(), "NFT")
		assert.Nil(t, err)
		env.receiving[name] = addr
	}

	RegisterRoutes(env.router, env.auth, env.cash, env.tokens)
	return env
}

// exec runs the message through check and deliver. Writes of a failed
// deliver are discarded.
func (env *testEnv) exec(signer bazaar.Condition, now time.Time, msg bazaar.Msg) (*bazaar.DeliverResult, error) {
	ctx := bazaar.WithBlockTime(context.Background(), now)
	ctx = env.auth.SetConditions(ctx, signer)
	h := env.router[msg.Path()]
	tx := &weavetest.Tx{Msg: msg}

	check := env.db.CacheWrap()
	_, err := h.Check(ctx, check, tx)
	check.Discard()
	if err != nil {
		return nil, err
	}

	deliver := env.db.CacheWrap()
	res, err := h.Deliver(ctx, deliver, tx)
	if err != nil {
		deliver.Discard()
		return nil, err
	}
	return res, deliver.Write()
}

func (env *testEnv) createMsg() *CreateMsg {
	return &CreateMsg{
		Metadata:       &bazaar.Metadata{Schema: 1},
		Exhibitor:      env.exhibitor.Address(),
		SourceHolding:  env.source,
		CustodyHolding: env.custody,
		InitialPrice:   100,
		Duration:       duration,
		SellPrice:      500,
	}
}

// create opens the default auction and returns its id.
func (env *testEnv) create(t testing.TB) []byte {
	t.Helper()
	res, err := env.exec(env.exhibitor, createdAt, env.createMsg())
	assert.Nil(t, err)
	return res.Data
}

func (env *testEnv) bid(id []byte, bidder bazaar.Condition, price uint64) *BidMsg {
	return &BidMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		AuctionID: id,
		Bidder:    bidder.Address(),
		Price:     price,
	}
}

func (env *testEnv) buyNow(id []byte, bidder bazaar.Condition, price uint64) *BuyNowMsg {
	return &BuyNowMsg{
		Metadata:  &bazaar.Metadata{Schema: 1},
		AuctionID: id,
		Bidder:    bidder.Address(),
		SellPrice: price,
	}
}

func (env *testEnv) cancel(id []byte) *CancelMsg {
	return &CancelMsg{
		Metadata:       &bazaar.Metadata{Schema: 1},
		AuctionID:      id,
		Exhibitor:      env.exhibitor.Address(),
		CustodyHolding: env.custody,
		Destination:    env.source,
	}
}

func (env *testEnv) closeMsg(id []byte, winner string) CloseMsg {
	var cond bazaar.Condition
	switch winner {
	case "bidder1":
		cond = env.bidder1
	case "bidder2":
		cond = env.bidder2
	}
	return CloseMsg{
		Metadata:       &bazaar.Metadata{Schema: 1},
		AuctionID:      id,
		Winner:         cond.Address(),
		Exhibitor:      env.exhibitor.Address(),
		CustodyHolding: env.custody,
		Receiving:      env.receiving[winner],
	}
}

func (env *testEnv) balance(t testing.TB, c bazaar.Condition) uint64 {
	t.Helper()
	b, err := env.cash.Balance(env.db, c.Address())
	assert.Nil(t, err)
	return b
}

func (env *testEnv) units(t testing.TB, holding bazaar.Address) uint64 {
	t.Helper()
	h, err := env.tokens.Holding(env.db, holding)
	assert.Nil(t, err)
	return h.Amount
}

func (env *testEnv) auction(t testing.TB, id []byte) *Auction {
	t.Helper()
	var a Auction
	assert.Nil(t, NewBucket().One(env.db, id, &a))
	return &a
}
