package pvctl

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomHex(t *testing.T) {
	key, err := RandomHex(32)
	require.NoError(t, err)
	require.Len(t, key, 64)
	_, err = hex.DecodeString(key)
	require.NoError(t, err)

	pw, err := RandomHex(16)
	require.NoError(t, err)
	require.Len(t, pw, 32)

	other, err := RandomHex(16)
	require.NoError(t, err)
	require.NotEqual(t, pw, other)
}

func TestGenerateSecrets(t *testing.T) {
	cfg, err := GenerateSecrets(Config{})
	require.NoError(t, err)
	require.Len(t, cfg.SecretKey, 64)
	require.Len(t, cfg.PostgresPassword, 32)
	require.Len(t, cfg.RedisPassword, 32)
}

func TestGenerateSecretsKeepsExternalPassword(t *testing.T) {
	in := Config{ExternalDB: true, DB: ExternalDB{Password: "operator-supplied"}}
	cfg, err := GenerateSecrets(in)
	require.NoError(t, err)
	require.Equal(t, "operator-supplied", cfg.PostgresPassword)
	require.Len(t, cfg.SecretKey, 64)
	require.Len(t, cfg.RedisPassword, 32)
}
