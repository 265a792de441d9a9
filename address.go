package bazaar

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/bazaar/crypto/bech32"
	"github.com/iov-one/bazaar/errors"
)

// AddressLength is the size of every address. It may only be changed in
// an init function, before any state is written.
var AddressLength = 20

// Address is the truncated sha256 digest of a Condition. Wallets, holdings
// and auctions are keyed by it.
type Address []byte

// NewAddress derives the address of data. Nil maps to nil.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address of %d bytes, want %d", len(a), AddressLength)
	}
	return nil
}

func (a Address) Equals(o Address) bool {
	return bytes.Equal(a, o)
}

// Clone returns a copy not sharing memory with a.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

// String is the upper case hex form, or "(nil)".
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 encodes the address with the bech32.AddressHRP prefix.
func (a Address) Bech32() (string, error) {
	raw, err := bech32.Encode(bech32.AddressHRP, a)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts "<hex>", "hex:<hex>", "cond:<condition>" and
// "bech32:<bech32>". Any empty payload is a nil address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "address must be a string")
	}
	addr, err := decodeAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress reads any form UnmarshalJSON accepts. Unlike JSON input an
// empty string is an error.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	return decodeAddress(s)
}

func decodeAddress(s string) (Address, error) {
	format, payload := "hex", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		format, payload = s[:i], s[i+1:]
	}
	if payload == "" {
		return nil, nil
	}

	var addr Address
	switch format {
	case "hex":
		raw, err := hex.DecodeString(payload)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "address hex")
		}
		addr = raw
	case "cond":
		c, err := parseCondition(payload)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		addr = c.Address()
	case "bech32":
		_, raw, err := bech32.Decode(payload)
		if err != nil {
			return nil, errors.Wrap(err, "address bech32")
		}
		addr = raw
	default:
		return nil, errors.ErrType.Newf("address format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
