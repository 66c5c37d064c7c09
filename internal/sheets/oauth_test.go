package sheets

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens", "sheets.json")

	require.NoError(t, SaveToken(path, &oauth2.Token{RefreshToken: "refresh-me", TokenType: "Bearer"}))

	token, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh-me", token.RefreshToken)
	assert.Equal(t, "Bearer", token.TokenType)
}

func TestCredentials_ApplyTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, SaveToken(path, &oauth2.Token{RefreshToken: "from-file"}))

	t.Run("fills missing refresh token", func(t *testing.T) {
		c := Credentials{ClientID: "id", ClientSecret: "secret", TokenFile: path}
		require.NoError(t, c.ApplyTokenFile())
		assert.Equal(t, "from-file", c.RefreshToken)
	})

	t.Run("keeps explicit refresh token", func(t *testing.T) {
		c := Credentials{ClientID: "id", ClientSecret: "secret", RefreshToken: "explicit", TokenFile: path}
		require.NoError(t, c.ApplyTokenFile())
		assert.Equal(t, "explicit", c.RefreshToken)
	})

	t.Run("missing file", func(t *testing.T) {
		c := Credentials{ClientID: "id", TokenFile: filepath.Join(t.TempDir(), "nope.json")}
		assert.Error(t, c.ApplyTokenFile())
	})
}
