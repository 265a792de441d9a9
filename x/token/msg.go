package token

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

const (
	pathCreateHoldingMsg       = "token/create_holding"
	pathTransferMsg            = "token/transfer"
	pathDelegateMsg            = "token/delegate"
	pathCloseHoldingMsg        = "token/close_holding"
	pathUpdateConfigurationMsg = "token/update_configuration"
)

// CreateHoldingMsg opens an empty holding of an asset controlled by Owner.
type CreateHoldingMsg struct {
	Metadata *bazaar.Metadata
	Owner    bazaar.Address
	Asset    string
}

var _ bazaar.Msg = (*CreateHoldingMsg)(nil)

func (CreateHoldingMsg) Path() string {
	return pathCreateHoldingMsg
}

func (m *CreateHoldingMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if !isAsset(m.Asset) {
		errs = errors.Append(errs, errors.Field("Asset", errors.ErrInput, "invalid asset name"))
	}
	return errs
}

func (m *CreateHoldingMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.Owner)
	e.String(3, m.Asset)
	return e.Bytes(), nil
}

func (m *CreateHoldingMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.Owner = d.Bytes()
		case 3:
			m.Asset = d.String()
		}
		return nil
	})
}

// TransferMsg moves an amount between two holdings of the same asset.
type TransferMsg struct {
	Metadata *bazaar.Metadata
	Src      bazaar.Address
	Dest     bazaar.Address
	Amount   uint64
}

var _ bazaar.Msg = (*TransferMsg)(nil)

func (TransferMsg) Path() string {
	return pathTransferMsg
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Src", m.Src.Validate())
	errs = errors.AppendField(errs, "Dest", m.Dest.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.Src)
	e.RawBytes(3, m.Dest)
	e.Uvarint(4, m.Amount)
	return e.Bytes(), nil
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.Src = d.Bytes()
		case 3:
			m.Dest = d.Bytes()
		case 4:
			m.Amount = d.Uvarint
		}
		return nil
	})
}

// DelegateMsg hands the holding over to a new authority.
type DelegateMsg struct {
	Metadata  *bazaar.Metadata
	Holding   bazaar.Address
	Authority bazaar.Address
}

var _ bazaar.Msg = (*DelegateMsg)(nil)

func (DelegateMsg) Path() string {
	return pathDelegateMsg
}

func (m *DelegateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Holding", m.Holding.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	return errs
}

func (m *DelegateMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.Holding)
	e.RawBytes(3, m.Authority)
	return e.Bytes(), nil
}

func (m *DelegateMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.Holding = d.Bytes()
		case 3:
			m.Authority = d.Bytes()
		}
		return nil
	})
}

// CloseHoldingMsg removes an empty holding and returns its deposit.
type CloseHoldingMsg struct {
	Metadata    *bazaar.Metadata
	Holding     bazaar.Address
	Destination bazaar.Address
}

var _ bazaar.Msg = (*CloseHoldingMsg)(nil)

func (CloseHoldingMsg) Path() string {
	return pathCloseHoldingMsg
}

func (m *CloseHoldingMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Holding", m.Holding.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

func (m *CloseHoldingMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	e.RawBytes(2, m.Holding)
	e.RawBytes(3, m.Destination)
	return e.Bytes(), nil
}

func (m *CloseHoldingMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.Holding = d.Bytes()
		case 3:
			m.Destination = d.Bytes()
		}
		return nil
	})
}

// UpdateConfigurationMsg patches the token configuration.
type UpdateConfigurationMsg struct {
	Metadata *bazaar.Metadata
	Patch    *Configuration
}

var _ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) GetPatch() gconf.OwnedConfig {
	if m.Patch == nil {
		return nil
	}
	return m.Patch
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	if m.Metadata != nil {
		if err := e.Message(1, m.Metadata); err != nil {
			return nil, err
		}
	}
	if m.Patch != nil {
		if err := e.Message(2, m.Patch); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		switch field {
		case 1:
			m.Metadata = &bazaar.Metadata{}
			return d.Message(m.Metadata)
		case 2:
			m.Patch = &Configuration{}
			return d.Message(m.Patch)
		}
		return nil
	})
}
