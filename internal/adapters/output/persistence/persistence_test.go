package persistence

import (
	"context"
	"encoding/json"
	"lightbridge/internal/domain/model"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCredentialRepository_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	data := `{
    "identity": "lightbridge-1",
    "psk": "secret",
    "securityCode": "ABCDEFGH12345678",
    "port": 8080
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	repo := NewJSONCredentialRepository(path)
	creds, err := repo.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "lightbridge-1", creds.Identity)
	assert.Equal(t, "secret", creds.PSK)
	assert.Equal(t, "ABCDEFGH12345678", creds.SecurityCode)
	assert.Equal(t, 8080, creds.ListenPort())
}

func TestJSONCredentialRepository_MissingFile(t *testing.T) {
	repo := NewJSONCredentialRepository(filepath.Join(t.TempDir(), "settings.json"))
	creds, err := repo.Get(context.Background())

	require.NoError(t, err)
	assert.Empty(t, creds.Identity)
	assert.Equal(t, model.DefaultPort, creds.ListenPort())
}

func TestJSONCredentialRepository_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"identity":`), 0644))

	_, err := NewJSONCredentialRepository(path).Get(context.Background())
	assert.Error(t, err)
}

func TestJSONCredentialRepository_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	repo := NewJSONCredentialRepository(path)

	creds := &model.Credentials{Identity: "id", PSK: "psk", SecurityCode: "code", Port: 3111}
	require.NoError(t, repo.Save(context.Background(), creds))

	loaded, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)

	// pretty printed, no temp files left behind
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "\n    \"identity\": \"id\""))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJSONCredentialRepository_SaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	repo := NewJSONCredentialRepository(path)

	require.NoError(t, repo.Save(context.Background(), &model.Credentials{Identity: "old", SecurityCode: "code"}))
	require.NoError(t, repo.Save(context.Background(), &model.Credentials{Identity: "new", PSK: "p", SecurityCode: "code"}))

	loaded, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.Identity)
	assert.Equal(t, "code", loaded.SecurityCode)
}

func TestJSONCredentialRepository_SaveKeepsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	data := `{
    "identity": "old",
    "psk": "old-psk",
    "securityCode": "code",
    "port": 8080,
    "gatewayName": "upstairs",
    "ui": {"theme": "dark"}
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	repo := NewJSONCredentialRepository(path)

	require.NoError(t, repo.Save(context.Background(), &model.Credentials{
		Identity: "new", PSK: "new-psk", SecurityCode: "code", Port: 8080,
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var settings map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &settings))
	assert.Equal(t, "new", settings["identity"])
	assert.Equal(t, "new-psk", settings["psk"])
	assert.Equal(t, "upstairs", settings["gatewayName"])
	assert.Equal(t, map[string]interface{}{"theme": "dark"}, settings["ui"])
	assert.True(t, strings.Contains(string(raw), "\n    \"gatewayName\": \"upstairs\""))
}
