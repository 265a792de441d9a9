package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		check    bool
		handler  *weavetest.Handler
		wantLine []string
		wantErr  bool
	}{
		"check success is debug": {
			check:    true,
			handler:  &weavetest.Handler{CheckResult: bazaar.CheckResult{Log: "bid accepted"}},
			wantLine: []string{"D[", "bid accepted", "path=auction/bid"},
		},
		"deliver success is info": {
			handler:  &weavetest.Handler{DeliverResult: bazaar.DeliverResult{Log: "bid placed"}},
			wantLine: []string{"I[", "bid placed", "path=auction/bid"},
		},
		"deliver failure is error": {
			handler:  &weavetest.Handler{DeliverErr: errors.ErrAmount.New("price too low")},
			wantLine: []string{"E[", "path=auction/bid", "price too low"},
			wantErr:  true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := bazaar.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
			h := weavetest.Decorate(tc.handler, NewLogging())
			tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "auction/bid"}}

			var err error
			if tc.check {
				_, err = h.Check(ctx, store.MemStore(), tx)
			} else {
				_, err = h.Deliver(ctx, store.MemStore(), tx)
			}
			assert.Equal(t, tc.wantErr, err != nil)
			for _, want := range tc.wantLine {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
