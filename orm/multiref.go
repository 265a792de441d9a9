package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// MultiRef is the index value of a non unique index: an ordered set of
// primary keys.
type MultiRef struct {
	Refs [][]byte
}

var _ Model = (*MultiRef)(nil)

// NewMultiRef returns a set holding refs. Duplicates are an error.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	var m MultiRef
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// Add inserts ref keeping the set sorted. It fails with ErrDuplicate when
// ref is already present.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.search(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes ref or fails with ErrNotFound.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.search(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// search returns the position of ref, or where it belongs.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(n int) bool {
		return bytes.Compare(m.Refs[n], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

// Validate rejects an empty set.
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}

func (m *MultiRef) Marshal() ([]byte, error) {
	var e bazaar.Encoder
	e.RepeatedBytes(1, m.Refs)
	return e.Bytes(), nil
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	m.Refs = nil
	return bazaar.DecodeFields(raw, func(field int, d *bazaar.Decoded) error {
		if field == 1 {
			m.Refs = append(m.Refs, d.Bytes())
		}
		return nil
	})
}
