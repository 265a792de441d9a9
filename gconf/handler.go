package gconf

import (
	"reflect"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x"
)

// OwnedConfig is a configuration that names the address allowed to
// change it.
type OwnedConfig interface {
	Configuration
	GetOwner() bazaar.Address
}

// PatchMsg carries a partial configuration. Zero fields of the patch keep
// their current value.
type PatchMsg interface {
	bazaar.Msg
	GetPatch() OwnedConfig
}

// UpdateConfigurationHandler applies configuration patches of one
// extension.
type UpdateConfigurationHandler struct {
	pkg       string
	newConfig func() OwnedConfig
	auth      x.Authenticator
	initAdmin func(bazaar.ReadOnlyKVStore) (bazaar.Address, error)
}

var _ bazaar.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler returns a handler for the configuration of
// pkg. newConfig returns an empty configuration value. A patch must be
// signed by the current owner. When no configuration exists yet,
// initConfAdmin, if set, names who may create it.
func NewUpdateConfigurationHandler(
	pkg string,
	newConfig func() OwnedConfig,
	auth x.Authenticator,
	initConfAdmin func(bazaar.ReadOnlyKVStore) (bazaar.Address, error),
) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		newConfig: newConfig,
		auth:      auth,
		initAdmin: initConfAdmin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.patched(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	conf, err := h.patched(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := Save(db, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save updated config")
	}
	bazaar.GetLogger(ctx).Info("configuration updated", "package", h.pkg)
	return &bazaar.DeliverResult{}, nil
}

// patched authorizes the message and returns the current configuration
// with the patch applied and validated.
func (h UpdateConfigurationHandler) patched(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message")
	}
	pm, ok := msg.(PatchMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T is not a configuration patch", msg)
	}
	if err := pm.Validate(); err != nil {
		return nil, err
	}
	patch := pm.GetPatch()
	if patch == nil {
		return nil, errors.Wrap(errors.ErrState, "patch is required")
	}

	conf := h.newConfig()
	if reflect.TypeOf(conf) != reflect.TypeOf(patch) {
		return nil, errors.Wrapf(errors.ErrType, "patch %T does not match %T", patch, conf)
	}
	if err := h.authorize(ctx, db, conf); err != nil {
		return nil, err
	}

	applyPatch(conf, patch)
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "patched configuration")
	}
	return conf, nil
}

// authorize loads the current configuration into conf and checks the
// signer allowed to change it.
func (h UpdateConfigurationHandler) authorize(ctx bazaar.Context, db bazaar.KVStore, conf OwnedConfig) error {
	err := Load(db, h.pkg, conf)
	switch {
	case err == nil:
		owner := conf.GetOwner()
		if owner == nil {
			return errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
		}
		return x.RequireSigner(ctx, h.auth, owner, "configuration owner")
	case errors.ErrNotFound.Is(err):
		if h.initAdmin == nil {
			return errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
		}
		admin, err := h.initAdmin(db)
		if err != nil {
			return errors.Wrap(err, "get init admin")
		}
		return x.RequireSigner(ctx, h.auth, admin, "initialization admin")
	default:
		return errors.Wrap(err, "load current configuration")
	}
}

// applyPatch copies the non zero fields of patch into conf. Both are
// pointers to the same struct type.
func applyPatch(conf, patch OwnedConfig) {
	dst := reflect.ValueOf(conf).Elem()
	src := reflect.ValueOf(patch).Elem()
	for i := 0; i < dst.NumField(); i++ {
		if f := src.Field(i); !isZero(f) {
			dst.Field(i).Set(f)
		}
	}
}

func isZero(v reflect.Value) bool {
	return reflect.DeepEqual(v.Interface(), reflect.Zero(v.Type()).Interface())
}
