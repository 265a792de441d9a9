package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest/assert"
)

// StoreConstructor returns a fresh, empty store and a function releasing
// its resources.
type StoreConstructor func() (CacheableKVStore, func())

// RunConformance runs the behaviour every CacheableKVStore implementation
// must share as subtests of t.
func RunConformance(t *testing.T, newStore StoreConstructor) {
	t.Run("layered get set", func(t *testing.T) { layeredGetSet(t, newStore) })
	t.Run("cache shadows parent", func(t *testing.T) { cacheShadowsParent(t, newStore) })
	t.Run("merged iteration", func(t *testing.T) { mergedIteration(t, newStore) })
}

func layeredGetSet(t *testing.T, newStore StoreConstructor) {
	base, cleanup := newStore()
	defer cleanup()

	auction, wallet, holding := []byte("auction:1"), []byte("wallet:bidder"), []byte("holding:custody")

	assertEntry(t, base, auction, nil)
	assert.Nil(t, base.Set(auction, []byte("exhibited")))
	assertEntry(t, base, auction, []byte("exhibited"))

	bid := base.CacheWrap()
	assertEntry(t, bid, auction, []byte("exhibited"))
	assert.Nil(t, bid.Set(wallet, []byte("100")))
	assertEntry(t, bid, wallet, []byte("100"))
	assertEntry(t, base, wallet, nil)
	assert.Nil(t, bid.Write())
	assertEntry(t, base, wallet, []byte("100"))

	dropped := base.CacheWrap()
	assert.Nil(t, dropped.Set(holding, []byte("1")))
	dropped.Discard()
	assertEntry(t, base, holding, nil)

	closing := base.CacheWrap()
	assert.Nil(t, closing.Delete(auction))
	assert.Nil(t, closing.Write())
	assertEntry(t, base, auction, nil)
	assertEntry(t, base, wallet, []byte("100"))
}

func cacheShadowsParent(t *testing.T, newStore StoreConstructor) {
	cases := map[string]struct {
		parent []Op
		child  []Op
		// expected values, nil means absent
		before map[string][]byte
		after  map[string][]byte
	}{
		"overwrite delete and insert": {
			parent: []Op{SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("2"))},
			child:  []Op{SetOp([]byte("a"), []byte("10")), DelOp([]byte("b")), SetOp([]byte("c"), []byte("3"))},
			before: map[string][]byte{"a": []byte("1"), "b": []byte("2"), "c": nil},
			after:  map[string][]byte{"a": []byte("10"), "b": nil, "c": []byte("3")},
		},
		"delete then set again": {
			parent: []Op{SetOp([]byte("a"), []byte("1"))},
			child:  []Op{DelOp([]byte("a")), SetOp([]byte("a"), []byte("2"))},
			before: map[string][]byte{"a": []byte("1")},
			after:  map[string][]byte{"a": []byte("2")},
		},
		"delete missing key": {
			child:  []Op{DelOp([]byte("z"))},
			before: map[string][]byte{"z": nil},
			after:  map[string][]byte{"z": nil},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			parent, cleanup := newStore()
			defer cleanup()
			applyOps(t, parent, tc.parent)

			child := parent.CacheWrap()
			applyOps(t, child, tc.child)

			for k, v := range tc.before {
				assertEntry(t, parent, []byte(k), v)
			}
			for k, v := range tc.after {
				assertEntry(t, child, []byte(k), v)
			}
			assert.Nil(t, child.Write())
			for k, v := range tc.after {
				assertEntry(t, parent, []byte(k), v)
			}
		})
	}
}

func mergedIteration(t *testing.T, newStore StoreConstructor) {
	rnd := rand.New(rand.NewSource(42))
	inParent := genModels(rnd, "bid", 30)
	inChild := genModels(rnd, "ask", 30)
	// overwrite a few parent keys and delete a few others from the child
	overwritten := []Model{Pair(inParent[3].Key, []byte("new")), Pair(inParent[7].Key, []byte("new"))}
	deleted := []Model{inParent[0], inParent[12], inParent[29]}

	want := map[string][]byte{}
	for _, m := range inParent {
		want[string(m.Key)] = m.Value
	}
	for _, m := range append(inChild, overwritten...) {
		want[string(m.Key)] = m.Value
	}
	for _, m := range deleted {
		delete(want, string(m.Key))
	}
	all := make([]Model, 0, len(want))
	for k, v := range want {
		all = append(all, Pair([]byte(k), v))
	}
	sort.Slice(all, func(i, j int) bool { return bytes.Compare(all[i].Key, all[j].Key) < 0 })

	base, cleanup := newStore()
	defer cleanup()
	for _, m := range inParent {
		assert.Nil(t, base.Set(m.Key, m.Value))
	}
	child := base.CacheWrap()
	for _, m := range append(inChild, overwritten...) {
		assert.Nil(t, child.Set(m.Key, m.Value))
	}
	for _, m := range deleted {
		assert.Nil(t, child.Delete(m.Key))
	}

	n := len(all)
	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full range":      {want: all},
		"from key":        {start: all[10].Key, want: all[10:]},
		"until key":       {end: all[n-5].Key, want: all[:n-5]},
		"bounded":         {start: all[4].Key, end: all[40].Key, want: all[4:40]},
		"full reverse":    {reverse: true, want: reversed(all)},
		"bounded reverse": {start: all[6].Key, end: all[26].Key, reverse: true, want: reversed(all[6:26])},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			for i, m := range tc.want {
				key, value, err := it.Next()
				assert.Nil(t, err)
				if !bytes.Equal(m.Key, key) {
					t.Fatalf("entry %d: want key %q, got %q", i, m.Key, key)
				}
				assert.Equal(t, m.Value, value)
			}
			if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
				t.Fatalf("want iterator done, got %+v", err)
			}
		})
	}
}

func applyOps(t testing.TB, s SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(s))
	}
}

// assertEntry checks Get and Has agree with want. A nil want means the key
// must be absent.
func assertEntry(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}

func genModels(rnd *rand.Rand, prefix string, count int) []Model {
	models := make([]Model, count)
	for i := range models {
		value := make([]byte, 16)
		rnd.Read(value)
		models[i] = Pair([]byte(fmt.Sprintf("%s:%08x", prefix, rnd.Uint32())), value)
	}
	return models
}

func reversed(models []Model) []Model {
	out := make([]Model, len(models))
	for i, m := range models {
		out[len(models)-1-i] = m
	}
	return out
}
