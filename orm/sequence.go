package orm

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Sequence is a persistent counter. Its values encode to 8 byte big endian
// keys so that numeric and byte order agree.
type Sequence struct {
	id []byte
}

// NewSequence returns the counter stored under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// NextVal advances the counter and returns the new value encoded.
func (s *Sequence) NextVal(db bazaar.KVStore) ([]byte, error) {
	n, err := s.advance(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

// NextInt advances the counter and returns the new value.
func (s *Sequence) NextInt(db bazaar.KVStore) (int64, error) {
	return s.advance(db)
}

// Latest returns the last value handed out, zero for an unused sequence,
// without advancing the counter.
func (s *Sequence) Latest(db bazaar.KVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, errors.Wrap(err, "load sequence")
	}
	return DecodeSequence(raw), raw, nil
}

func (s *Sequence) advance(db bazaar.KVStore) (int64, error) {
	n, _, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	if n == math.MaxInt64 {
		return 0, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	n++
	if err := db.Set(s.id, EncodeSequence(n)); err != nil {
		return 0, errors.Wrap(err, "save sequence")
	}
	return n, nil
}

// DecodeSequence reads an encoded sequence value. Anything that is not
// exactly 8 bytes decodes as zero, which is never a handed out value.
func DecodeSequence(bz []byte) int64 {
	if len(bz) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(bz))
}

// EncodeSequence returns the 8 byte big endian form of val, the form used
// as a key by model buckets.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
