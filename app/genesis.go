package app

import (
	"github.com/iov-one/bazaar"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...bazaar.Initializer) bazaar.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []bazaar.Initializer
}

var _ bazaar.Initializer = chainInitializer{}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts bazaar.Options, params bazaar.GenesisParams, kv bazaar.KVStore) error {
	for _, i := range c.inits {
		err := i.FromGenesis(opts, params, kv)
		if err != nil {
			return err
		}
	}
	return nil
}
