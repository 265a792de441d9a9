package auction

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

// Initializer loads the auction configuration from the genesis. The
// configuration is required because the custodian cannot be derived
// without the protocol address.
type Initializer struct{}

var _ bazaar.Initializer = Initializer{}

func (Initializer) FromGenesis(opts bazaar.Options, params bazaar.GenesisParams, kv bazaar.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, packageName, &conf); err != nil {
		return errors.Wrap(err, "init configuration")
	}
	if _, err := DeriveCustodian(CustodianSeed, conf.Protocol); err != nil {
		return errors.Wrap(err, "custodian")
	}
	return nil
}
