package gconf

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// ReadStore is the part of bazaar.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of bazaar.KVStore needed to save one.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler validates itself before being serialized.
type ValidMarshaler interface {
	bazaar.Marshaller
	Validate() error
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is the state of one extension's configuration singleton.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func configKey(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and writes it as the configuration of pkg.
func Save(db Store, pkg string, src ValidMarshaler) error {
	key := configKey(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "configuration %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal configuration %q", key)
	}
	if err := db.Set(key, raw); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "set %q: %s", key, err)
	}
	return nil
}

// Load reads the configuration of pkg into dst, failing with ErrNotFound
// if it was never saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	key := configKey(pkg)
	raw, err := db.Get(key)
	switch {
	case err != nil:
		return errors.Wrapf(errors.ErrDatabase, "get %q: %s", key, err)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "configuration %q", key)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "unmarshal configuration %q", key)
}

// InitConfig saves the genesis document found at conf.<pkg> as the
// configuration of pkg. A missing document is ErrNotFound.
func InitConfig(db Store, opts bazaar.Options, pkg string, conf Configuration) error {
	var byPackage bazaar.Options
	if err := opts.ReadOptions("conf", &byPackage); err != nil {
		return errors.Wrap(err, "genesis conf")
	}
	if _, ok := byPackage[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no configuration for %q", pkg)
	}
	if err := byPackage.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "configuration of %s", pkg)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save configuration of %s", pkg)
}
