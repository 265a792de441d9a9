package bazaar_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressString(t *testing.T) {
	raw := []byte("exhibitor-wallet-key")
	assert.Equal(t, fmt.Sprintf("%X", raw), bazaar.Address(raw).String())
	assert.Equal(t, "(nil)", bazaar.Address(nil).String())
}

func TestParseAddress(t *testing.T) {
	// 20 bytes spelled out in ascii
	const hexAddr = "6865782d616464722d6f662d32302d6279746573"
	custody := bazaar.NewCondition("auction", "custody", []byte("lot-7"))
	bidder := bazaar.NewCondition("sigs", "ed25519", []byte("bidder")).Address()
	bech, err := bidder.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		input   string
		want    bazaar.Address
		wantErr *errors.Error
	}{
		"bare hex": {
			input: hexAddr,
			want:  bazaar.Address("hex-addr-of-20-bytes"),
		},
		"prefixed hex": {
			input: "hex:" + hexAddr,
			want:  bazaar.Address("hex-addr-of-20-bytes"),
		},
		"condition": {
			input: "cond:" + custody.String(),
			want:  custody.Address(),
		},
		"bech32": {
			input: "bech32:" + bech,
			want:  bidder,
		},
		"empty payload": {
			input: "cond:",
			want:  nil,
		},
		"short hex": {
			input:   "hex:cafe",
			wantErr: errors.ErrInput,
		},
		"broken condition": {
			input:   "cond:auction/636f6e64",
			wantErr: errors.ErrInput,
		},
		"condition data not hex": {
			input:   "cond:auction/custody/zz",
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			input:   "base58:xxx",
			wantErr: errors.ErrType,
		},
		"empty string": {
			input:   "",
			wantErr: errors.ErrEmpty,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := bazaar.ParseAddress(tc.input)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := bazaar.NewCondition("sigs", "ed25519", []byte("exhibitor")).Address()
	raw, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(raw))

	var got bazaar.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	// JSON treats an empty string as unset.
	require.NoError(t, json.Unmarshal([]byte(`""`), &got))
	assert.Nil(t, got)
}

func TestAddressClone(t *testing.T) {
	addr := bazaar.NewAddress([]byte("lot"))
	cpy := addr.Clone()
	cpy[0] ^= 0xff
	assert.False(t, addr.Equals(cpy))
	assert.Nil(t, bazaar.Address(nil).Clone())
}
