package app

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestResultSetJoin(t *testing.T) {
	models := []bazaar.Model{
		bazaar.Pair([]byte("auction:1"), []byte("first")),
		bazaar.Pair([]byte("auction:2"), []byte{}),
		bazaar.Pair([]byte("auction:3"), []byte("third")),
	}

	rawKeys, err := ResultsFromKeys(models).Marshal()
	assert.Nil(t, err)
	rawValues, err := ResultsFromValues(models).Marshal()
	assert.Nil(t, err)

	got, err := toModels(rawKeys, rawValues)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(got))
	assert.Equal(t, []byte("auction:1"), got[0].Key)
	assert.Equal(t, []byte("first"), got[0].Value)
	// empty values keep their position
	assert.Equal(t, []byte("auction:3"), got[2].Key)
	assert.Equal(t, []byte("third"), got[2].Value)

	_, err = JoinResults(&ResultSet{Results: [][]byte{{1}}}, &ResultSet{})
	assert.IsErr(t, errors.ErrState, err)
}

func TestUnmarshalOneResult(t *testing.T) {
	raw, err := (&ResultSet{Results: [][]byte{{0x08, 0x01}}}).Marshal()
	assert.Nil(t, err)

	var m bazaar.Metadata
	assert.Nil(t, UnmarshalOneResult(raw, &m))
	assert.Equal(t, uint32(1), m.Schema)

	empty, err := (&ResultSet{}).Marshal()
	assert.Nil(t, err)
	var untouched bazaar.Metadata
	assert.Nil(t, UnmarshalOneResult(empty, &untouched))
	assert.Equal(t, uint32(0), untouched.Schema)
}
