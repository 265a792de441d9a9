package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
)

// DefaultBalance is the native currency amount granted to the dev mode
// account.
const DefaultBalance = 123456789

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// The first argument is the asset name of the genesis holding (default
// "NFT"). The second is the hex or bech32 address that receives the funds,
// the holding authority and the configuration ownership. When no address
// is given, a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	asset := "NFT"
	if len(args) > 0 {
		asset = args[0]
	}

	var addr bazaar.Address
	if len(args) > 1 {
		a, err := bazaar.ParseAddress(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "address")
		}
		addr = a
	} else {
		a, keys, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}
	return genesisState(addr, asset, addr)
}

// genesisState builds the app_state document. The protocol address is the
// identity the auction custodian is derived from.
func genesisState(owner bazaar.Address, asset string, protocol bazaar.Address) (json.RawMessage, error) {
	state := map[string]interface{}{
		"cash": []map[string]interface{}{
			{"address": owner, "amount": DefaultBalance},
		},
		"token": []map[string]interface{}{
			{"asset": asset, "authority": owner, "amount": 1},
		},
		"conf": map[string]interface{}{
			"token": map[string]interface{}{
				"metadata":        bazaar.Metadata{Schema: 1},
				"owner":           owner,
				"holding_deposit": 0,
			},
			"auction": map[string]interface{}{
				"metadata": bazaar.Metadata{Schema: 1},
				"owner":    owner,
				"protocol": protocol,
			},
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateKey returns the address of a new ed25519 key, along with a json
// representation of the key pair.
func GenerateKey() (bazaar.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
