package token

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

const packageName = "token"

// Configuration of the token extension.
type Configuration struct {
	Metadata *bazaar.Metadata `json:"metadata"`
	// Owner can update the configuration.
	Owner bazaar.Address `json:"owner"`
	// HoldingDeposit is the native currency amount locked by every open
	// holding. It is returned when the holding is closed.
	HoldingDeposit uint64 `json:"holding_deposit"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() bazaar.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if c.Owner != nil {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if c.Metadata != nil {
		if err := e.Message(1, c.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, c.Owner)
	e.Uvarint(3, c.HoldingDeposit)
	return e.Bytes(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			c.Metadata = &bazaar.Metadata{}
			return d.Message(c.Metadata)
		case 2:
			c.Owner = d.Bytes()
		case 3:
			c.HoldingDeposit = d.Uvarint
		}
		return nil
	})
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
