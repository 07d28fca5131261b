// ABOUTME: Tests for the key/value client
// ABOUTME: Exercises the local BadgerDB store and connection settings

package charm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSetGetDelete(t *testing.T) {
	c := NewTestClient(t)

	require.NoError(t, c.Set([]byte("fomo_life_data_u1"), []byte(`{"tasks":[]}`)))

	val, err := c.Get([]byte("fomo_life_data_u1"))
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[]}`, string(val))

	require.NoError(t, c.Delete([]byte("fomo_life_data_u1")))
	_, err = c.Get([]byte("fomo_life_data_u1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientGetMissing(t *testing.T) {
	c := NewTestClient(t)

	_, err := c.Get([]byte("nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientDeleteMissingIsNotError(t *testing.T) {
	c := NewTestClient(t)
	assert.NoError(t, c.Delete([]byte("nope")))
}

func TestClientKeysWithPrefix(t *testing.T) {
	c := NewTestClient(t)

	require.NoError(t, c.Set([]byte("fomo_life_data_a"), []byte("1")))
	require.NoError(t, c.Set([]byte("fomo_life_data_b"), []byte("2")))
	require.NoError(t, c.Set([]byte("other"), []byte("3")))

	keys, err := c.KeysWithPrefix([]byte("fomo_life_data_"))
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestClientReset(t *testing.T) {
	c := NewTestClient(t)

	require.NoError(t, c.Set([]byte("k"), []byte("v")))
	require.NoError(t, c.Reset())

	_, err := c.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalClientIsNotSynced(t *testing.T) {
	c := NewTestClient(t)
	assert.False(t, c.Synced())
	assert.NoError(t, c.Sync())

	_, err := c.ID()
	assert.Error(t, err)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("", false)
	assert.Equal(t, DefaultCharmHost, cfg.Host)
	assert.False(t, cfg.AutoSync)
	assert.NotZero(t, cfg.StaleThreshold)

	cfg = NewConfig("  charm.example.com ", true)
	assert.Equal(t, "charm.example.com", cfg.Host)
	assert.True(t, cfg.AutoSync)
}
