package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridgelog-cli/pkg/models"
)

func TestSaveAndLoadSessionRoundTrip(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	viper.SetConfigFile(path)

	sess := models.Session{
		AuthKey:  "key-456",
		BaseURL:  "https://c013.eagleeyenetworks.com",
		Username: "operator@example.com",
	}
	require.NoError(t, SaveSession(sess))

	// Reload from disk to prove the session survived the write.
	viper.Reset()
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	got, ok := LoadSession()
	require.True(t, ok)
	assert.Equal(t, sess, got)
}

func TestLoadSessionMissing(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, ok := LoadSession()
	assert.False(t, ok)
}

func TestLoadSessionIncomplete(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// A config with only one of the two required values is not a session.
	viper.Set("auth_key", "key-456")

	_, ok := LoadSession()
	assert.False(t, ok)
}
