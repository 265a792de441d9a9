// Package app assembles the bazaar daemon: the decorator chain, message
// routes, queries and genesis initializers of every extension, on top of
// an iavl backed store.
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/store/iavl"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/auction"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/iov-one/bazaar/x/token"
	"github.com/iov-one/bazaar/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// appName is reported by Info and names the database directory.
const appName = "bazaar"

// GenerateApp creates the application persisting its state under home.
// An empty home keeps the state in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	return NewAppGenerator(nil)(home, logger, debug)
}

// NewAppGenerator returns an application constructor whose decorator
// chain records transaction metrics in reg. A nil reg disables metrics.
func NewAppGenerator(reg prometheus.Registerer) func(string, log.Logger, bool) (abci.Application, error) {
	return func(home string, logger log.Logger, debug bool) (abci.Application, error) {
		var dbPath string
		if home != "" {
			dbPath = filepath.Join(home, appName+".db")
		}
		kv, err := openStore(dbPath)
		if err != nil {
			return nil, errors.Wrap(err, "open database")
		}

		store := app.NewStoreApp(appName, kv, queries(), context.Background()).
			WithInit(Initializers()).
			WithLogger(logger)
		handler := decorators(reg).WithHandler(routes(authenticator()))
		return app.NewBaseApp(store, TxDecoder, handler, debug), nil
	}
}

// authenticator accepts ed25519 signatures and the auction custodian.
// The custodian is only ever granted by the auction handlers themselves,
// no transaction can carry it.
func authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, auction.Authenticate{})
}

// decorators wraps every message handler. The check savepoint discards
// all writes of a rejected CheckTx. The deliver savepoint sits after the
// signature decorator so a failing message still consumes its nonce.
func decorators(reg prometheus.Registerer) app.Decorators {
	var metrics bazaar.Decorator
	if reg != nil {
		metrics = utils.NewMetrics(reg)
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	)
}

func routes(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	wallets := cash.NewController()
	holdings := token.NewController(wallets)

	sigs.RegisterRoutes(r, auth)
	cash.RegisterRoutes(r, auth, wallets)
	token.RegisterRoutes(r, auth, holdings)
	auction.RegisterRoutes(r, auth, wallets, holdings)
	return r
}

// queries exposes /wallets, /holdings, /auctions, /custodian, /auth and
// the raw store under /.
func queries() bazaar.QueryRouter {
	r := bazaar.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		token.RegisterQuery,
		auction.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers loads the genesis of every extension. Wallets and holdings
// must exist before the auction configuration refers to them.
func Initializers() bazaar.Initializer {
	return app.ChainInitializers(
		&cash.Initializer{},
		&token.Initializer{},
		&auction.Initializer{},
	)
}

// openStore opens the iavl database at dbPath. An empty path gives an in
// memory store. A trailing extension such as ".db" is dropped since the
// backend appends its own.
func openStore(dbPath string) (bazaar.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "invalid database path %q", dbPath)
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
