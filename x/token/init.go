package token

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/x/cash"
)

const optKey = "token"

// GenesisHolding declares a holding created at chain start. Genesis holdings
// take no deposit.
type GenesisHolding struct {
	Asset     string         `json:"asset"`
	Authority bazaar.Address `json:"authority"`
	Amount    uint64         `json:"amount"`
}

// Initializer creates the genesis holdings and loads the configuration.
type Initializer struct{}

var _ bazaar.Initializer = Initializer{}

func (Initializer) FromGenesis(opts bazaar.Options, params bazaar.GenesisParams, kv bazaar.KVStore) error {
	switch err := gconf.InitConfig(kv, opts, packageName, &Configuration{}); {
	case err == nil, errors.ErrNotFound.Is(err):
		// Configuration is optional.
	default:
		return errors.Wrap(err, "init configuration")
	}

	var holdings []GenesisHolding
	if err := opts.ReadOptions(optKey, &holdings); err != nil {
		return err
	}
	ctrl := NewController(cash.NewController())
	for i, g := range holdings {
		h := Holding{Metadata: &bazaar.Metadata{Schema: 1}, Asset: g.Asset, Authority: g.Authority, Amount: g.Amount}
		if err := h.Validate(); err != nil {
			return errors.Wrapf(err, "holding %d", i)
		}
		if _, err := ctrl.create(kv, g.Authority, g.Asset, g.Amount, false); err != nil {
			return errors.Wrapf(err, "holding %d", i)
		}
	}
	return nil
}
