package weavetest

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
)

// NewKey returns a new, random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new, random key.
func NewCondition() bazaar.Condition {
	return NewKey().PublicKey().Condition()
}

var testMasterSeed = bytes.Repeat([]byte("bazaar test seed"), 4)

// DeriveKey returns a key derived from a fixed test seed. The same index
// always returns the same key so that tests failures are reproducible.
func DeriveKey(t testing.TB, index uint32) *crypto.PrivateKey {
	t.Helper()
	path := fmt.Sprintf("m/44'/234'/%d'", index)
	key, err := crypto.DeriveEd25519(path, testMasterSeed)
	if err != nil {
		t.Fatalf("cannot derive key %q: %s", path, err)
	}
	return key
}

// DeriveCondition returns the signature condition of a derived key.
func DeriveCondition(t testing.TB, index uint32) bazaar.Condition {
	t.Helper()
	return DeriveKey(t, index).PublicKey().Condition()
}
