package sigs

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName holds one UserData per signing key.
const BucketName = "sigs"

// RegisterQuery exposes the nonces under /auth.
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// UserData tracks the next nonce of a public key. The key is stored once it
// signed a transaction.
type UserData struct {
	Metadata *bazaar.Metadata
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	errs := errors.AppendField(nil, "Metadata", u.Metadata.Validate())
	switch {
	case u.Sequence < 0:
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	case u.Sequence > 0 && u.Pubkey == nil:
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "nonce without a key"))
	}
	if u.Pubkey != nil {
		errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Validate())
	}
	return errs
}

func (u *UserData) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if u.Metadata != nil {
		if err := e.Message(1, u.Metadata); err != nil {
			return nil, err
		}
	}
	if u.Pubkey != nil {
		if err := e.Message(2, u.Pubkey); err != nil {
			return nil, err
		}
	}
	e.Varint(3, u.Sequence)
	return e.Bytes(), nil
}

func (u *UserData) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			u.Metadata = &bazaar.Metadata{}
			return d.Message(u.Metadata)
		case 2:
			u.Pubkey = &crypto.PublicKey{}
			return d.Message(u.Pubkey)
		case 3:
			u.Sequence = d.Int64()
		}
		return nil
	})
}

// maxSequence is the largest nonce a javascript client represents exactly,
// Number.MAX_SAFE_INTEGER.
const maxSequence = 1<<53 - 1

// CheckAndIncrementSequence consumes nonce expected. It fails with
// ErrInvalidSequence when expected is not the current nonce and with
// ErrOverflow when the nonces are exhausted.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if expected != u.Sequence {
		return errors.Wrapf(ErrInvalidSequence, "want nonce %d, got %d", u.Sequence, expected)
	}
	if u.Sequence < 0 || u.Sequence >= maxSequence {
		return errors.Wrapf(errors.ErrOverflow, "nonce %d", u.Sequence)
	}
	u.Sequence++
	return nil
}

// NewBucket returns the bucket holding the nonce of every signer, keyed by
// the public key address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// loadUser returns a fresh UserData at nonce zero for a key that never
// signed.
func loadUser(db bazaar.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &bazaar.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, errors.Wrap(err, "load user")
	}
}
