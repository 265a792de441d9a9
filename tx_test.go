package bazaar

import (
	"testing"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest/assert"
)

type bidMock struct {
	Price uint64
	Err   error
}

func (bidMock) Path() string               { return "auction/bid" }
func (m bidMock) Validate() error          { return m.Err }
func (bidMock) Marshal() ([]byte, error)   { return nil, nil }
func (*bidMock) Unmarshal(bz []byte) error { return nil }

type cancelMock struct{}

func (cancelMock) Path() string               { return "auction/cancel" }
func (cancelMock) Validate() error            { return nil }
func (cancelMock) Marshal() ([]byte, error)   { return nil, nil }
func (*cancelMock) Unmarshal(bz []byte) error { return nil }

type txMock struct {
	msg Msg
	err error
}

func (tx *txMock) GetMsg() (Msg, error)     { return tx.msg, tx.err }
func (tx *txMock) Marshal() ([]byte, error) { return nil, nil }
func (tx *txMock) Unmarshal([]byte) error   { return nil }

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      Tx
		dest    interface{}
		wantMsg interface{}
		wantErr *errors.Error
	}{
		"success, value destination": {
			tx:      &txMock{msg: &bidMock{Price: 11}},
			dest:    &bidMock{},
			wantMsg: &bidMock{Price: 11},
		},
		"success, pointer destination": {
			tx:      &txMock{msg: &bidMock{Price: 12}},
			dest:    new(*bidMock),
			wantMsg: func() **bidMock { m := &bidMock{Price: 12}; return &m }(),
		},
		"transaction contains a nil message": {
			tx:      &txMock{msg: nil},
			dest:    &bidMock{},
			wantErr: errors.ErrMsg,
		},
		"transaction cannot provide a message": {
			tx:      &txMock{err: errors.ErrInput},
			dest:    &bidMock{},
			wantErr: errors.ErrInput,
		},
		"destination not a pointer": {
			tx:      &txMock{msg: &bidMock{}},
			dest:    bidMock{},
			wantErr: errors.ErrHuman,
		},
		"destination is a nil pointer": {
			tx:      &txMock{msg: &bidMock{}},
			dest:    (*bidMock)(nil),
			wantErr: errors.ErrHuman,
		},
		"destination of a different message type": {
			tx:      &txMock{msg: &bidMock{}},
			dest:    &cancelMock{},
			wantErr: errors.ErrType,
		},
		"message failing validation": {
			tx:      &txMock{msg: &bidMock{Err: errors.ErrAmount}},
			dest:    &bidMock{},
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := LoadMsg(tc.tx, tc.dest)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantMsg, tc.dest)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "auction/bid", GetPath(&txMock{msg: &bidMock{}}))
	assert.Equal(t, "(missing)", GetPath(&txMock{}))
	assert.Equal(t, "(missing)", GetPath(&txMock{err: errors.ErrInput}))
}

func TestIsValidPath(t *testing.T) {
	cases := map[string]bool{
		"auction/bid":           true,
		"auction/close_buy_now": true,
		"token":                 true,
		"":                      false,
		"/auction":              false,
		"auction/":              false,
		"auction bid":           false,
	}
	for path, want := range cases {
		if got := IsValidPath(path); got != want {
			t.Errorf("%q: want %v, got %v", path, want, got)
		}
	}
}
