package bazaar

import "github.com/iov-one/bazaar/errors"

// Metadata is carried by every persisted entity and every message. Schema
// declares the version of the serialization format.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the schema version is not declared.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be greater than zero")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	var e Encoder
	e.Uvarint(1, uint64(m.Schema))
	return e.Bytes(), nil
}

func (m *Metadata) Unmarshal(raw []byte) error {
	return DecodeFields(raw, func(field int, d *Decoded) error {
		switch field {
		case 1:
			schema, err := d.Uint32()
			if err != nil {
				return errors.Wrap(err, "schema")
			}
			m.Schema = schema
		}
		return nil
	})
}
