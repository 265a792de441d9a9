package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state related half of abci.Application: genesis,
// block boundaries, commits and queries. BaseApp embeds it and adds
// transaction processing.
//
// Info, InitChain, Commit and the block calls carry no user input, so a
// failure there means the node cannot continue and they panic.
type StoreApp struct {
	name        string
	store       *CommitStore
	queryRouter bazaar.QueryRouter
	initializer bazaar.Initializer
	logger      log.Logger
	debug       bool

	// chainID is persisted by InitChain and reloaded on restart.
	chainID string

	// appCtx lives as long as the process, blockCtx is replaced on every
	// BeginBlock.
	appCtx   bazaar.Context
	blockCtx bazaar.Context
}

// NewStoreApp loads the latest committed state from store. It panics when
// the state cannot be read.
func NewStoreApp(name string, store bazaar.CommitKVStore, queryRouter bazaar.QueryRouter, ctx bazaar.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		appCtx:      ctx,
	}
	s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.appCtx = bazaar.WithChainID(s.appCtx, s.chainID)
	}
	s.blockCtx = bazaar.WithHeight(s.appCtx, s.mustCommitInfo().Version)
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis initializer used by InitChain.
func (s *StoreApp) WithInit(init bazaar.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithDebug exposes full error details in responses.
func (s *StoreApp) WithDebug(debug bool) *StoreApp {
	s.debug = debug
	return s
}

// WithLogger sets the application logger, which also becomes the default
// logger of every transaction context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.appCtx = bazaar.WithLogger(s.appCtx, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the context of the block being processed.
func (s *StoreApp) BlockContext() bazaar.Context {
	return s.blockCtx
}

func (s *StoreApp) DeliverStore() bazaar.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() bazaar.CacheableKVStore {
	return s.store.CheckStore()
}

func (s *StoreApp) mustCommitInfo() bazaar.CommitID {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	return info
}

// loadGenesis writes the chain id and runs the initializer over the
// app_state document. It fails for a chain that was already initialized.
func (s *StoreApp) loadGenesis(appState []byte, params bazaar.GenesisParams) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "genesis app_state, run init first")
	}
	var opts bazaar.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := saveChainID(s.DeliverStore(), params.ChainID); err != nil {
		return err
	}
	s.chainID = params.ChainID
	s.appCtx = bazaar.WithChainID(s.appCtx, s.chainID)
	return s.initializer.FromGenesis(opts, params, s.DeliverStore())
}

func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info := s.mustCommitInfo()
	s.logger.Info("info", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          bazaar.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if s.initializer == nil {
		panic(errors.Wrap(errors.ErrHuman, "no initializer set"))
	}
	if err := s.loadGenesis(req.AppStateBytes, bazaar.GenesisParams{ChainID: req.ChainId}); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock starts a new block context carrying the header height and
// time.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := bazaar.WithHeight(s.appCtx, req.Header.GetHeight())
	s.blockCtx = bazaar.WithBlockTime(ctx, req.Header.GetTime().UTC())
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("commit", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads committed state only. The path selects a registered handler
// and may end in "?<mod>", for example "/auctions?prefix". Key and Value
// of the response are always ResultSets of equal length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	handler := s.queryRouter.Handler(path)
	if handler == nil {
		return s.queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return s.queryError(err)
	}
	if req.Height != 0 && req.Height != info.Version {
		return s.queryError(errors.Wrapf(errors.ErrInput, "only the latest height %d can be queried", info.Version))
	}

	view := s.store.committed.CacheWrap()
	defer view.Discard()
	models, err := handler.Query(view, mod, req.Data)
	if err != nil {
		return s.queryError(err)
	}

	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return s.queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return s.queryError(err)
	}
	return abci.ResponseQuery{Height: info.Version, Key: keys, Value: values}
}

// splitPath separates a query path from its modifier.
func splitPath(full string) (path, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func (s *StoreApp) queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, s.debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
