package app

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()

	var (
		bid      = &weavetest.Msg{RoutePath: "auction/bid"}
		closeMsg = &weavetest.Msg{RoutePath: "auction/close"}

		bidHandler   = &weavetest.Handler{}
		closeHandler = &weavetest.Handler{}
	)

	r.Handle(bid.Path(), bidHandler)
	r.Handle(closeMsg.Path(), closeHandler)

	_, err := r.Deliver(context.TODO(), nil, &weavetest.Tx{Msg: bid})
	assert.Nil(t, err)
	_, err = r.Check(context.TODO(), nil, &weavetest.Tx{Msg: bid})
	assert.Nil(t, err)
	_, err = r.Deliver(context.TODO(), nil, &weavetest.Tx{Msg: closeMsg})
	assert.Nil(t, err)

	assert.Equal(t, 2, bidHandler.CallCount())
	assert.Equal(t, 1, closeHandler.CallCount())
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()

	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "auction/settle"}}

	_, err := r.Check(context.TODO(), nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(context.TODO(), nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(context.TODO(), nil, &weavetest.Tx{Err: errors.ErrInput})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("auction/bid", &weavetest.Handler{})

	assert.Panics(t, func() { r.Handle("auction/bid", &weavetest.Handler{}) })
	assert.Panics(t, func() { r.Handle("auction bid", &weavetest.Handler{}) })
}
