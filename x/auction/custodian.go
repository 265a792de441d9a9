package auction

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

// CustodianSeed is the seed every custodian identity is derived from.
const CustodianSeed = "escrow"

// custodianMarker separates custodian digests from any other sha256 usage.
const custodianMarker = "bazaar/custodian"

// Custodian is the authority over all custody holdings.
type Custodian struct {
	Condition bazaar.Condition
	// Bump is the discriminant that moved the digest off the ed25519
	// curve.
	Bump uint8
	// Protocol is the address the identity was derived for.
	Protocol bazaar.Address
}

// Address returns the address the custody holding authority is set to.
func (c Custodian) Address() bazaar.Address {
	return c.Condition.Address()
}

// DeriveCustodian returns the custodian identity for given seed and protocol
// address. Bump values are tried from 255 downward and the first digest that
// is not a valid ed25519 point is used. Such digest cannot be a public key, so
// nobody can sign for it.
func DeriveCustodian(seed string, protocol bazaar.Address) (Custodian, error) {
	if err := protocol.Validate(); err != nil {
		return Custodian{}, errors.Wrap(err, "protocol")
	}
	for bump := 255; bump >= 0; bump-- {
		digest := custodianDigest(seed, protocol, uint8(bump))
		if isOnCurve(digest) {
			continue
		}
		return Custodian{
			Condition: bazaar.NewCondition("auction", "custody", digest),
			Bump:      uint8(bump),
			Protocol:  protocol.Clone(),
		}, nil
	}
	return Custodian{}, errors.Wrap(errors.ErrState, "no custodian bump found")
}

// VerifyCustodian recomputes the custodian condition using given bump. It
// fails if the bump does not produce an off curve digest.
func VerifyCustodian(seed string, protocol bazaar.Address, bump uint8) (bazaar.Condition, error) {
	if err := protocol.Validate(); err != nil {
		return nil, errors.Wrap(err, "protocol")
	}
	digest := custodianDigest(seed, protocol, bump)
	if isOnCurve(digest) {
		return nil, errors.Wrapf(errors.ErrInput, "bump %d results in a valid public key", bump)
	}
	return bazaar.NewCondition("auction", "custody", digest), nil
}

func custodianDigest(seed string, protocol bazaar.Address, bump uint8) []byte {
	h := sha256.New()
	h.Write([]byte(seed))
	h.Write(protocol)
	h.Write([]byte{bump})
	h.Write([]byte(custodianMarker))
	return h.Sum(nil)
}

func isOnCurve(digest []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(digest)
	return err == nil
}

// LoadCustodian returns the custodian of the configured protocol. New
// auctions delegate their custody to it. An open auction keeps the
// custodian it was created with, see Auction.Custodian.
func LoadCustodian(db gconf.ReadStore) (Custodian, error) {
	conf, err := loadConf(db)
	if err != nil {
		return Custodian{}, err
	}
	c, err := DeriveCustodian(CustodianSeed, conf.Protocol)
	if err != nil {
		return Custodian{}, errors.Wrap(err, "derive custodian")
	}
	// The proof must be reproducible with the found bump.
	if _, err := VerifyCustodian(CustodianSeed, conf.Protocol, c.Bump); err != nil {
		return Custodian{}, errors.Wrap(err, "verify custodian")
	}
	return c, nil
}
