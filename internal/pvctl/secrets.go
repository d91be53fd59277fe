package pvctl

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomHex returns n random bytes hex-encoded (2n characters).
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

const (
	secretKeyBytes = 32
	passwordBytes  = 16
)

// GenerateSecrets fills in the generated credentials. The postgres password
// is left alone when the operator already supplied one for an external
// database.
func GenerateSecrets(cfg Config) (Config, error) {
	var err error
	if cfg.SecretKey, err = RandomHex(secretKeyBytes); err != nil {
		return cfg, err
	}
	if cfg.RedisPassword, err = RandomHex(passwordBytes); err != nil {
		return cfg, err
	}
	if cfg.ExternalDB && cfg.DB.Password != "" {
		cfg.PostgresPassword = cfg.DB.Password
		return cfg, nil
	}
	if cfg.PostgresPassword, err = RandomHex(passwordBytes); err != nil {
		return cfg, err
	}
	return cfg, nil
}
