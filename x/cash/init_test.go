package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	addr := weavetest.NewCondition().Address()

	raw, err := json.Marshal([]GenesisAccount{{Address: addr, Amount: 5000}})
	assert.Nil(t, err)

	db := store.MemStore()
	err = Initializer{}.FromGenesis(bazaar.Options{"cash": raw}, bazaar.GenesisParams{}, db)
	assert.Nil(t, err)

	got, err := NewController().Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5000), got)

	// Missing section is not an error.
	assert.Nil(t, Initializer{}.FromGenesis(bazaar.Options{}, bazaar.GenesisParams{}, db))

	bad := bazaar.Options{"cash": []byte(`[{"address": "", "amount": 1}]`)}
	err = Initializer{}.FromGenesis(bad, bazaar.GenesisParams{}, db)
	assert.IsErr(t, errors.ErrInput, err)
}
