package auction

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

const packageName = "auction"

// Configuration of the auction extension.
type Configuration struct {
	Metadata *bazaar.Metadata `json:"metadata"`
	// Owner can update the configuration.
	Owner bazaar.Address `json:"owner"`
	// Protocol is the identity the custodian is derived from. Changing it
	// moves the custody of new auctions to a different custodian.
	Protocol bazaar.Address `json:"protocol"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() bazaar.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if c.Owner != nil {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	errs = errors.AppendField(errs, "Protocol", c.Protocol.Validate())
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if c.Metadata != nil {
		if err := e.Message(1, c.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, c.Owner)
	e.RawBytes(3, c.Protocol)
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
			c.Protocol = d.Bytes()
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
