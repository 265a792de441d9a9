package utils

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestSavepoint(t *testing.T) {
	var (
		key   = []byte("custody")
		value = []byte("one unit")
	)

	cases := map[string]struct {
		decorator bazaar.Decorator
		check     bool
		handler   *weavetest.Handler
		wantErr   *errors.Error
		wantSaved bool
	}{
		"check success is written": {
			decorator: NewSavepoint().OnCheck(),
			check:     true,
			handler:   &weavetest.Handler{WriteKey: key, WriteValue: value},
			wantSaved: true,
		},
		"check failure is rolled back": {
			decorator: NewSavepoint().OnCheck(),
			check:     true,
			handler:   &weavetest.Handler{WriteKey: key, WriteValue: value, CheckErr: errors.ErrAmount},
			wantErr:   errors.ErrAmount,
		},
		"check failure without savepoint leaks the write": {
			decorator: NewSavepoint().OnDeliver(),
			check:     true,
			handler:   &weavetest.Handler{WriteKey: key, WriteValue: value, CheckErr: errors.ErrAmount},
			wantErr:   errors.ErrAmount,
			wantSaved: true,
		},
		"deliver success is written": {
			decorator: NewSavepoint().OnDeliver(),
			handler:   &weavetest.Handler{WriteKey: key, WriteValue: value},
			wantSaved: true,
		},
		"deliver failure is rolled back": {
			decorator: NewSavepoint().OnDeliver(),
			handler:   &weavetest.Handler{WriteKey: key, WriteValue: value, DeliverErr: errors.ErrState},
			wantErr:   errors.ErrState,
		},
		"deliver failure without savepoint leaks the write": {
			decorator: NewSavepoint().OnCheck(),
			handler:   &weavetest.Handler{WriteKey: key, WriteValue: value, DeliverErr: errors.ErrState},
			wantErr:   errors.ErrState,
			wantSaved: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := weavetest.Decorate(tc.handler, tc.decorator)
			tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "auction/bid"}}

			var err error
			if tc.check {
				_, err = h.Check(context.Background(), db, tx)
			} else {
				_, err = h.Deliver(context.Background(), db, tx)
			}
			assert.IsErr(t, tc.wantErr, err)

			got, err := db.Get(key)
			assert.Nil(t, err)
			if tc.wantSaved {
				assert.Equal(t, value, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}
