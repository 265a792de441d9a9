package app

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	var (
		c1 = &weavetest.Decorator{}
		c2 = &weavetest.Decorator{}
		c3 = &weavetest.Decorator{}
		h  = &weavetest.Handler{}
	)

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		c2,
		nil,
		c3,
	).WithHandler(h)

	bg := context.Background()
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "auction/bid"}}

	_, err := stack.Check(bg, nil, tx)
	assert.NoError(t, err)
	_, err = stack.Deliver(bg, nil, tx)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// a failing decorator stops the chain
	c2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(bg, nil, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainRecoversPanic(t *testing.T) {
	h := &weavetest.Handler{Panic: "boom"}
	outer := &weavetest.Decorator{}
	stack := ChainDecorators(outer, utils.NewRecovery()).WithHandler(h)

	_, err := stack.Deliver(context.Background(), nil, &weavetest.Tx{})
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Equal(t, 1, outer.DeliverCallCount())
}

func TestChainNilDecorators(t *testing.T) {
	var typedNil *weavetest.Decorator
	d := ChainDecorators(nil, typedNil, &weavetest.Decorator{}, nil)
	assert.Len(t, d.chain, 1)

	d = d.Chain(nil, &weavetest.Decorator{})
	assert.Len(t, d.chain, 2)
}
