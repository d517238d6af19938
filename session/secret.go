package session

import (
	"fmt"
	"os"
	"strings"
)

// SecretConfig holds the administrator secret, inline or in a file.
type SecretConfig struct {
	Password string `mapstructure:"password"`
	// PasswordFile is read when set and takes precedence over Password.
	// Trailing newlines are stripped, matching files written by echo or
	// mounted as container secrets.
	PasswordFile string `mapstructure:"password_file"`
}

// LoadSecret resolves the administrator secret. An empty result is an error.
func LoadSecret(cfg SecretConfig) (string, error) {
	secret := cfg.Password

	if cfg.PasswordFile != "" {
		data, err := os.ReadFile(cfg.PasswordFile) //nolint:gosec // path comes from operator config
		if err != nil {
			return "", fmt.Errorf("read password file: %w", err)
		}
		secret = strings.TrimRight(string(data), "\r\n")
	}

	if secret == "" {
		return "", fmt.Errorf("administrator password is empty")
	}
	return secret, nil
}
