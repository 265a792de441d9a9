package app

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/store/iavl"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const genesisKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts bazaar.Options, params bazaar.GenesisParams, kv bazaar.KVStore) error {
	var value string
	if err := opts.ReadOptions(genesisKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(genesisKey), []byte(value))
}

// blockTimeHandler stores the block time it was called with.
type blockTimeHandler struct {
	seen time.Time
}

func (h *blockTimeHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	return &bazaar.CheckResult{}, nil
}

func (h *blockTimeHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	now, err := bazaar.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	h.seen = now
	return &bazaar.DeliverResult{}, nil
}

func decodePath(raw []byte) (bazaar.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty transaction")
	}
	if string(raw) == "panic" {
		panic("decoder failure")
	}
	return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: string(raw)}}, nil
}

func newTestApp(t *testing.T, db bazaar.CommitKVStore, handlers map[string]bazaar.Handler) BaseApp {
	t.Helper()

	qr := bazaar.NewQueryRouter()
	orm.RegisterQuery(qr)

	r := NewRouter()
	for path, h := range handlers {
		r.Handle(path, h)
	}
	stack := ChainDecorators(
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(r)

	store := NewStoreApp("bazaar-test", db, qr, context.Background()).WithInit(ChainInitializers(dummyInit{}))
	return NewBaseApp(store, decodePath, stack, false)
}

func TestBaseAppLifecycle(t *testing.T) {
	db := iavl.NewMemCommitStore()
	writer := &weavetest.Handler{WriteKey: []byte("custody"), WriteValue: []byte("1")}
	failing := &weavetest.Handler{
		WriteKey:   []byte("leak"),
		WriteValue: []byte("1"),
		DeliverErr: errors.ErrAmount,
	}
	clock := &blockTimeHandler{}
	app := newTestApp(t, db, map[string]bazaar.Handler{
		"auction/bid":    writer,
		"auction/cancel": failing,
		"auction/close":  clock,
	})

	app.InitChain(abci.RequestInitChain{
		ChainId:       "bazaar-chain",
		AppStateBytes: []byte(`{"dummy": "genesis value"}`),
	})
	assert.Equal(t, "bazaar-chain", app.GetChainID())

	blockTime := time.Date(2020, time.March, 1, 12, 0, 0, 0, time.UTC)
	app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: 1, Time: blockTime},
	})

	cres := app.CheckTx([]byte("auction/bid"))
	assert.Equal(t, uint32(0), cres.Code, cres.Log)

	dres := app.DeliverTx([]byte("auction/bid"))
	assert.Equal(t, uint32(0), dres.Code, dres.Log)

	dres = app.DeliverTx([]byte("auction/cancel"))
	assert.Equal(t, errors.ErrAmount.ABCICode(), dres.Code)

	dres = app.DeliverTx([]byte("auction/close"))
	assert.Equal(t, uint32(0), dres.Code, dres.Log)
	assert.Equal(t, blockTime, clock.seen)

	dres = app.DeliverTx([]byte("auction/settle"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), dres.Code)

	dres = app.DeliverTx(nil)
	assert.Equal(t, errors.ErrInput.ABCICode(), dres.Code)

	dres = app.DeliverTx([]byte("panic"))
	assert.Equal(t, errors.ErrPanic.ABCICode(), dres.Code)

	// nothing is visible before the commit
	q := app.Query(abci.RequestQuery{Path: "/", Data: []byte("custody")})
	require.Equal(t, uint32(0), q.Code, q.Log)
	var values ResultSet
	require.NoError(t, values.Unmarshal(q.Value))
	assert.Empty(t, values.Results)

	commit := app.Commit()
	assert.NotEmpty(t, commit.Data)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)
	assert.Equal(t, "bazaar-test", info.Data)

	abciStore := NewABCIStore(app)
	v, err := abciStore.Get([]byte("custody"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	v, err = abciStore.Get([]byte(genesisKey))
	require.NoError(t, err)
	assert.Equal(t, []byte("genesis value"), v)

	// failed delivery left no trace
	ok, err := abciStore.Has([]byte("leak"))
	require.NoError(t, err)
	assert.False(t, ok)

	q = app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), q.Code)

	q = app.Query(abci.RequestQuery{Path: "/", Data: []byte("custody"), Height: 7})
	assert.Equal(t, errors.ErrInput.ABCICode(), q.Code)
}

func TestABCIStoreIterator(t *testing.T) {
	db := iavl.NewMemCommitStore()
	writer := &weavetest.Handler{}
	app := newTestApp(t, db, map[string]bazaar.Handler{"auction/bid": writer})
	app.InitChain(abci.RequestInitChain{
		ChainId:       "bazaar-chain",
		AppStateBytes: []byte(`{}`),
	})

	for _, key := range []string{"auction:1", "auction:2", "auction:3", "token:1"} {
		writer.WriteKey = []byte(key)
		writer.WriteValue = []byte("v")
		dres := app.DeliverTx([]byte("auction/bid"))
		require.Equal(t, uint32(0), dres.Code, dres.Log)
	}
	app.Commit()

	abciStore := NewABCIStore(app)

	it, err := abciStore.Iterator([]byte("auction:1"), []byte("auction:3"))
	require.NoError(t, err)
	models, err := readAll(it)
	require.NoError(t, err)
	assert.Equal(t, []string{"auction:1", "auction:2"}, keys(models))

	it, err = abciStore.ReverseIterator([]byte("auction:"), []byte("auction;"))
	require.NoError(t, err)
	models, err = readAll(it)
	require.NoError(t, err)
	assert.Equal(t, []string{"auction:3", "auction:2", "auction:1"}, keys(models))
}

func TestRestartKeepsChainID(t *testing.T) {
	db := iavl.NewMemCommitStore()
	app := newTestApp(t, db, nil)
	app.InitChain(abci.RequestInitChain{
		ChainId:       "bazaar-chain",
		AppStateBytes: []byte(`{"dummy": "x"}`),
	})
	app.Commit()

	restarted := newTestApp(t, db, nil)
	assert.Equal(t, "bazaar-chain", restarted.GetChainID())

	// genesis can be loaded only once
	assert.Panics(t, func() {
		restarted.InitChain(abci.RequestInitChain{
			ChainId:       "bazaar-chain",
			AppStateBytes: []byte(`{"dummy": "x"}`),
		})
	})
}

func TestInitChainRequiresAppState(t *testing.T) {
	app := newTestApp(t, iavl.NewMemCommitStore(), nil)
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "bazaar-chain"})
	})
}

func readAll(it bazaar.Iterator) ([]bazaar.Model, error) {
	defer it.Release()
	var res []bazaar.Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, bazaar.Pair(k, v))
	}
}

func keys(models []bazaar.Model) []string {
	res := make([]string, len(models))
	for i, m := range models {
		res[i] = string(m.Key)
	}
	return res
}
