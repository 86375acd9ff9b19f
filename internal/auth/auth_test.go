package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"todo/internal/config"
)

const testClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func TestClientConfig_Missing(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}

	_, err := ClientConfig(cfg)
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestClientConfig_Valid(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(cfg.OAuthClientPath(), []byte(testClient), 0600))

	oc, err := ClientConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "test", oc.ClientID)
	assert.Equal(t, []string{Scope}, oc.Scopes)
}

func TestLoadToken_Missing(t *testing.T) {
	_, err := LoadToken(&config.Config{Dir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSaveAndLoadToken(t *testing.T) {
	cfg := &config.Config{Dir: filepath.Join(t.TempDir(), "nested")}

	require.NoError(t, SaveToken(cfg, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))

	info, err := os.Stat(cfg.TokenPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	tok, err := LoadToken(cfg)
	require.NoError(t, err)
	assert.Equal(t, "r", tok.RefreshToken)
}

func TestTokenValid_NoRefreshToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(cfg.OAuthClientPath(), []byte(testClient), 0600))
	require.NoError(t, SaveToken(cfg, &oauth2.Token{AccessToken: "expired"}))

	assert.False(t, TokenValid(context.Background(), cfg))
}

func TestHTTPClient_RequiresToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(cfg.OAuthClientPath(), []byte(testClient), 0600))

	_, err := HTTPClient(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrNoToken)
}
