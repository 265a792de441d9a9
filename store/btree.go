package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/bazaar/errors"
)

// cacheDegree is the btree degree of every cache layer. A layer lives for
// one transaction or one block.
const cacheDegree = 2

// MemStore returns an empty in-memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	empty := EmptyKVStore{}
	return NewBTreeCacheWrap(empty, empty.NewBatch())
}

// BTreeCacheable gives any KVStore btree backed cache layers.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch())
}

// BTreeCacheWrap buffers writes in a btree over a read only parent. Reads
// see the buffered writes first. Write flushes the buffer through batch.
type BTreeCacheWrap struct {
	pending *btree.BTree
	parent  ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap layers a cache over parent. Every change is also
// recorded in batch, which must write into parent.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch) *BTreeCacheWrap {
	return &BTreeCacheWrap{
		pending: btree.New(cacheDegree),
		parent:  parent,
		batch:   batch,
	}
}

func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch())
}

func (b *BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the pending changes into the parent and empties the
// layer.
func (b *BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return errors.Wrap(err, "write batch")
}

// Discard drops every pending change.
func (b *BTreeCacheWrap) Discard() {
	b.pending = btree.New(cacheDegree)
	if d, ok := b.batch.(discarder); ok {
		d.discard()
	}
}

type discarder interface {
	discard()
}

func (b *BTreeCacheWrap) Set(key, value []byte) error {
	mustKey(key)
	b.pending.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b *BTreeCacheWrap) Delete(key []byte) error {
	mustKey(key)
	b.pending.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	mustKey(key)
	item := b.pending.Get(entry{key: key})
	if item == nil {
		return b.parent.Get(key)
	}
	e := item.(entry)
	if e.deleted {
		return nil, nil
	}
	return e.value, nil
}

func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	value, err := b.Get(key)
	return value != nil, err
}

func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	merged, err := b.merge(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(merged), nil
}

func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	merged, err := b.merge(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(merged)-1; i < j; i, j = i+1, j-1 {
		merged[i], merged[j] = merged[j], merged[i]
	}
	return NewSliceIterator(merged), nil
}

// merge returns the [start, end) range in ascending order with the
// pending changes applied over the parent content.
func (b *BTreeCacheWrap) merge(start, end []byte) ([]Model, error) {
	it, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	parent, err := ReadAll(it)
	if err != nil {
		return nil, err
	}
	var changes []entry
	b.ascend(start, end, func(i btree.Item) bool {
		changes = append(changes, i.(entry))
		return true
	})

	out := make([]Model, 0, len(parent)+len(changes))
	for _, c := range changes {
		// parent entries before the change are kept
		for len(parent) > 0 && bytes.Compare(parent[0].Key, c.key) < 0 {
			out = append(out, parent[0])
			parent = parent[1:]
		}
		// and the one the change replaces is dropped
		if len(parent) > 0 && bytes.Equal(parent[0].Key, c.key) {
			parent = parent[1:]
		}
		if !c.deleted {
			out = append(out, Pair(c.key, c.value))
		}
	}
	return append(out, parent...), nil
}

func (b *BTreeCacheWrap) ascend(start, end []byte, fn btree.ItemIterator) {
	switch {
	case start == nil && end == nil:
		b.pending.Ascend(fn)
	case start == nil:
		b.pending.AscendLessThan(entry{key: end}, fn)
	case end == nil:
		b.pending.AscendGreaterOrEqual(entry{key: start}, fn)
	default:
		b.pending.AscendRange(entry{key: start}, entry{key: end}, fn)
	}
}

func mustKey(key []byte) {
	if key == nil {
		panic("nil key")
	}
}

// entry is a pending change: a new value or a deletion of key.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
