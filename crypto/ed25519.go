package crypto

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// PrivateKey is an ed25519 private key. It is never persisted on chain.
type PrivateKey struct {
	Ed25519 []byte `json:"ed25519"`
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `json:"ed25519"`
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil {
		return false
	}
	if len(p.Ed25519) != ed25519.PublicKeySize || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a bazaar condition
//
//    p.Condition().Address()
// will return an Address if needed.
func (p *PublicKey) Condition() bazaar.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return bazaar.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the address of the public key condition.
func (p *PublicKey) Address() bazaar.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Validate checks the key length.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInput, "invalid ed25519 public key")
	}
	return nil
}

func (p *PublicKey) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	e.RawBytes(1, p.Ed25519)
	return e.Bytes(), nil
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		if field == 1 {
			p.Ed25519 = d.Bytes()
		}
		return nil
	})
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid ed25519 private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (s *Signature) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	e.RawBytes(1, s.Ed25519)
	return e.Bytes(), nil
}

func (s *Signature) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		if field == 1 {
			s.Ed25519 = d.Bytes()
		}
		return nil
	})
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}

// DeriveEd25519 derives a private key from a master seed using SLIP-0010
// hardened path, for example "m/44'/234'/0'".
func DeriveEd25519(path string, seed []byte) (*PrivateKey, error) {
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derivation path %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
