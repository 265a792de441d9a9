package bazaar

import (
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar/errors"
)

// Protobuf wire types used by the models.
const (
	wireVarint  = 0
	wireFixed64 = 1
	wireBytes   = 2
	wireFixed32 = 5
)

// Encoder writes a protobuf compatible binary representation of a message.
// Zero values are omitted, the same way generated proto3 code does, so that
// the serialized form of a model is deterministic.
type Encoder struct {
	buf []byte
}

func (e *Encoder) key(field, wire int) {
	e.buf = append(e.buf, proto.EncodeVarint(uint64(field<<3|wire))...)
}

// Uvarint writes an unsigned integer field.
func (e *Encoder) Uvarint(field int, v uint64) {
	if v == 0 {
		return
	}
	e.key(field, wireVarint)
	e.buf = append(e.buf, proto.EncodeVarint(v)...)
}

// Varint writes a signed integer field using the int64 encoding.
func (e *Encoder) Varint(field int, v int64) {
	e.Uvarint(field, uint64(v))
}

// Bool writes a boolean field.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uvarint(field, 1)
	}
}

// RawBytes writes a length delimited field.
func (e *Encoder) RawBytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.lengthDelimited(field, b)
}

// String writes a string field.
func (e *Encoder) String(field int, s string) {
	e.RawBytes(field, []byte(s))
}

// RepeatedBytes writes every element, including empty ones, so that the
// length of the collection is preserved.
func (e *Encoder) RepeatedBytes(field int, list [][]byte) {
	for _, b := range list {
		e.lengthDelimited(field, b)
	}
}

// Message writes an embedded message. Callers must not pass a nil pointer.
func (e *Encoder) Message(field int, m Marshaller) error {
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "field %d", field)
	}
	e.lengthDelimited(field, raw)
	return nil
}

func (e *Encoder) lengthDelimited(field int, b []byte) {
	e.key(field, wireBytes)
	e.buf = append(e.buf, proto.EncodeVarint(uint64(len(b)))...)
	e.buf = append(e.buf, b...)
}

// Bytes returns the serialized message.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Decoded holds the value of a single field as read from the wire.
type Decoded struct {
	// Uvarint is set for varint fields.
	Uvarint uint64
	// Raw is set for length delimited fields. It points to the decoded
	// buffer and must be copied before retained.
	Raw []byte
}

// Int64 returns the varint value as a signed integer.
func (d *Decoded) Int64() int64 {
	return int64(d.Uvarint)
}

// Uint32 returns the varint value, rejecting values that do not fit.
func (d *Decoded) Uint32() (uint32, error) {
	if d.Uvarint > math.MaxUint32 {
		return 0, errors.Wrapf(errors.ErrInput, "value %d overflows uint32", d.Uvarint)
	}
	return uint32(d.Uvarint), nil
}

// Bool returns the varint value as a boolean.
func (d *Decoded) Bool() bool {
	return d.Uvarint != 0
}

// Bytes returns a copy of the length delimited value.
func (d *Decoded) Bytes() []byte {
	if len(d.Raw) == 0 {
		return nil
	}
	cpy := make([]byte, len(d.Raw))
	copy(cpy, d.Raw)
	return cpy
}

// String returns the length delimited value as a string.
func (d *Decoded) String() string {
	return string(d.Raw)
}

// Message unmarshals the length delimited value into given model.
func (d *Decoded) Message(m Persistent) error {
	return m.Unmarshal(d.Raw)
}

// DecodeFields reads a protobuf serialized message and calls fn for every
// field found. Unknown fields must be ignored by fn to allow schema
// evolution.
func DecodeFields(raw []byte, fn func(field int, d *Decoded) error) error {
	for len(raw) > 0 {
		key, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "malformed field key")
		}
		raw = raw[n:]
		field, wire := int(key>>3), int(key&0x7)
		if field <= 0 {
			return errors.Wrapf(errors.ErrInput, "illegal field number %d", field)
		}

		var d Decoded
		switch wire {
		case wireVarint:
			v, n := proto.DecodeVarint(raw)
			if n == 0 {
				return errors.Wrapf(errors.ErrInput, "malformed varint of field %d", field)
			}
			d.Uvarint = v
			raw = raw[n:]
		case wireBytes:
			l, n := proto.DecodeVarint(raw)
			if n == 0 || uint64(len(raw)-n) < l {
				return errors.Wrapf(errors.ErrInput, "malformed length of field %d", field)
			}
			d.Raw = raw[n : n+int(l)]
			raw = raw[n+int(l):]
		case wireFixed64:
			if len(raw) < 8 {
				return errors.Wrapf(errors.ErrInput, "truncated field %d", field)
			}
			raw = raw[8:]
			continue
		case wireFixed32:
			if len(raw) < 4 {
				return errors.Wrapf(errors.ErrInput, "truncated field %d", field)
			}
			raw = raw[4:]
			continue
		default:
			return errors.Wrapf(errors.ErrInput, "unsupported wire type %d of field %d", wire, field)
		}

		if err := fn(field, &d); err != nil {
			return errors.Wrapf(err, "field %d", field)
		}
	}
	return nil
}
