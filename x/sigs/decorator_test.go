package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signersHandler records the signers found in the context.
type signersHandler struct {
	weavetest.Handler
	signers []bazaar.Condition
}

func (h *signersHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return h.Handler.Check(ctx, db, tx)
}

func (h *signersHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return h.Handler.Deliver(ctx, db, tx)
}

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	chainID := "deco-rate"
	ctx := bazaar.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	perm := priv.PublicKey().Condition()

	tx := NewStdTx([]byte("completely different"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	h := &signersHandler{}
	d := NewDecorator()

	// a transaction without signatures is rejected
	_, err = d.Check(ctx, kv, tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = d.Deliver(ctx, kv, tx, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 0, h.CallCount())

	// unsigned transactions are rejected as well
	_, err = d.Deliver(ctx, kv, &weavetest.Tx{}, h)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// unless explicitly allowed
	_, err = d.AllowMissingSigs().Check(ctx, kv, tx, h)
	require.NoError(t, err)
	assert.Empty(t, h.signers)

	tx.Signatures = []*StdSignature{sig}
	res, err := d.Check(ctx, kv, tx, h)
	require.NoError(t, err)
	assert.Equal(t, []bazaar.Condition{perm}, h.signers)
	assert.Equal(t, int64(verifyGas), res.GasPayment)

	// the nonce was consumed
	_, err = d.Deliver(ctx, kv, tx, h)
	assert.True(t, ErrInvalidSequence.Is(err))

	tx.Signatures = []*StdSignature{sig1}
	_, err = d.Deliver(ctx, kv, tx, h)
	require.NoError(t, err)
	assert.Equal(t, []bazaar.Condition{perm}, h.signers)

	auth := Authenticate{}
	ctx = withSigners(ctx, []bazaar.Condition{perm})
	assert.True(t, auth.HasAddress(ctx, perm.Address()))
	assert.False(t, auth.HasAddress(ctx, weavetest.NewCondition().Address()))
}
