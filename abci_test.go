package bazaar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/bazaar/errors"
	pkerr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/common"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantLog  string
		wantCode uint32
	}{
		"stdlib error is redacted": {
			err:      fmt.Errorf("base"),
			wantLog:  "internal error",
			wantCode: 1,
		},
		"stdlib error in debug mode": {
			err:      pkerr.New("dave"),
			debug:    true,
			wantLog:  "dave",
			wantCode: 1,
		},
		"registered error": {
			err:      errors.Wrap(errors.ErrUnauthorized, "exhibitor"),
			wantLog:  "exhibitor: unauthorized",
			wantCode: errors.ErrUnauthorized.ABCICode(),
		},
		"registered error in debug mode": {
			err:      errors.ErrAmount.New("price too low"),
			debug:    true,
			wantLog:  "price too low: invalid amount",
			wantCode: errors.ErrAmount.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := DeliverTxError(tc.err, tc.debug)
			assert.True(t, dres.IsErr())
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx: "+tc.wantLog), dres.Log)
			assert.Equal(t, tc.wantCode, dres.Code)

			cres := CheckTxError(tc.err, tc.debug)
			assert.True(t, cres.IsErr())
			assert.Contains(t, cres.Log, tc.wantLog)
			assert.Equal(t, tc.wantCode, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	tags := []common.KVPair{{Key: []byte("action"), Value: []byte("auction/bid")}}
	dres := DeliverResult{Data: d, Log: msg, Tags: tags}
	ad := DeliverOrError(&dres, nil, false)
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Equal(t, tags, ad.Tags)

	c, gas := "aok", int64(12345)
	cres := NewCheck(gas, c)
	ac := CheckOrError(cres, nil, false)
	assert.Equal(t, c, ac.Log)
	assert.Equal(t, gas, ac.GasWanted)
	assert.Empty(t, ac.Data)

	ae := CheckOrError(nil, errors.ErrState, false)
	assert.True(t, ae.IsErr())
}

func TestEmptyResults(t *testing.T) {
	assert.False(t, DeliverOrError(nil, nil, false).IsErr())
	assert.False(t, CheckOrError(nil, nil, true).IsErr())

	var res DeliverResult
	res.AddTag("action", "auction/close")
	res.AddTag("auction", "0000000000000001")
	assert.Equal(t, []common.KVPair{
		{Key: []byte("action"), Value: []byte("auction/close")},
		{Key: []byte("auction"), Value: []byte("0000000000000001")},
	}, res.Tags)
}
