package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db bazaar.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "bazaar")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	cs, err := iavl.NewCommitStore(dbpath, "db")
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot create a commit store: %s", err)
	}
	return cs, func() {
		cs.Close()
		os.RemoveAll(dbpath)
	}
}
