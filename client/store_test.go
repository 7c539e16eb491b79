package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "client.db")
	store, err := OpenStore(path)
	require.NoError(t, err)

	var token string
	found, err := store.Get(tokenKey, &token)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(tokenKey, "abc"))
	require.NoError(t, store.Put(listKey(ResourceRooms), []string{"101", "102"}))
	require.NoError(t, store.Close())

	// values survive reopening
	store, err = OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	found, err = store.Get(tokenKey, &token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc", token)

	var rooms []string
	_, err = store.Get("shms.rooms.v1", &rooms)
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102"}, rooms)

	require.NoError(t, store.Delete(tokenKey, "shms.unknown"))
	found, err = store.Get(tokenKey, &token)
	require.NoError(t, err)
	assert.False(t, found)
}
