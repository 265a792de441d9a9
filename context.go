package bazaar

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/iov-one/bazaar/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context carries the block information every handler relies on: height,
// chain id, block time and a logger.
type Context = context.Context

type ctxKey uint8

const (
	heightKey ctxKey = iota + 1
	chainIDKey
	blockTimeKey
	loggerKey
)

var (
	// DefaultLogger is returned by GetLogger when the context has none.
	DefaultLogger = log.NewNopLogger()

	chainIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`)

	// IsValidChainID accepts 6 to 20 letters, digits, dashes or
	// underscores.
	IsValidChainID = chainIDPattern.MatchString
)

// WithHeight returns a context at the given block height. A height is set
// once per block, setting it again panics.
func WithHeight(ctx Context, height int64) Context {
	if _, ok := GetHeight(ctx); ok {
		panic("block height already set")
	}
	return context.WithValue(ctx, heightKey, height)
}

// GetHeight returns the block height and whether it was set.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(heightKey).(int64)
	return h, ok
}

// WithChainID binds the chain id. It panics when the id is already bound
// or does not pass IsValidChainID.
func WithChainID(ctx Context, chainID string) Context {
	if _, ok := ctx.Value(chainIDKey).(string); ok {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("invalid chain id: %q", chainID))
	}
	return context.WithValue(ctx, chainIDKey, chainID)
}

// GetChainID panics when no chain id is bound. Every transaction context
// has one.
func GetChainID(ctx Context) string {
	id, ok := ctx.Value(chainIDKey).(string)
	if !ok {
		panic("chain id not set")
	}
	return id
}

// WithBlockTime sets the time of the block being processed. Auction
// deadlines are compared against it.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, blockTimeKey, t)
}

// BlockTime returns ErrHuman when the block time is missing.
func BlockTime(ctx Context) (time.Time, error) {
	t, ok := ctx.Value(blockTimeKey).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not set")
	}
	return t, nil
}

// IsExpired reports whether deadline is at or before the block time. It
// panics when the block time is missing.
func IsExpired(ctx Context, deadline UnixTime) bool {
	now, err := BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return deadline <= AsUnixTime(now)
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithLogInfo returns a context whose logger carries keyvals.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

// GetLogger falls back to DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}
