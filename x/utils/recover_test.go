package utils

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	h := weavetest.Decorate(&weavetest.Handler{Panic: "custody ledger corrupted"}, NewRecovery())
	db := store.MemStore()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "auction/close"}}

	_, err := h.Check(context.Background(), db, tx)
	require.True(t, errors.ErrPanic.Is(err))
	require.Contains(t, err.Error(), "custody ledger corrupted")

	_, err = h.Deliver(context.Background(), db, tx)
	require.True(t, errors.ErrPanic.Is(err))

	// Panic details must never reach a client.
	code, log := errors.ABCIInfo(errors.Redact(err, false), false)
	require.Equal(t, uint32(1), code)
	require.NotContains(t, log, "custody ledger corrupted")
}

func TestRecoveryPassesResult(t *testing.T) {
	handler := &weavetest.Handler{
		DeliverResult: weavetest.DeliverData([]byte{0, 0, 0, 0, 0, 0, 0, 1}),
	}
	h := weavetest.Decorate(handler, NewRecovery())

	res, err := h.Deliver(context.Background(), store.MemStore(), &weavetest.Tx{})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, res.Data)
	require.Equal(t, 1, handler.DeliverCallCount())
}
