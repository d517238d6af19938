package clientcli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the default server endpoint URL.
const DefaultEndpoint = "http://localhost:8080"

// Profile holds the connection settings for one server.
type Profile struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	Password string `yaml:"password,omitempty"`
	Default  bool   `yaml:"default,omitempty"`
}

// ConfigFile is the client config file: a list of named server profiles.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// GetProfile returns the profile by name.
// If name is empty, returns the default profile.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	if name == "" {
		for i := range c.Profiles {
			if c.Profiles[i].Default {
				return &c.Profiles[i], nil
			}
		}
		return &c.Profiles[0], nil
	}

	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// PutProfile adds p, or replaces the profile with the same name. When p is
// marked default, every other profile loses the flag.
func (c *ConfigFile) PutProfile(p Profile) {
	if p.Default {
		for i := range c.Profiles {
			c.Profiles[i].Default = false
		}
	}

	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			c.Profiles[i] = p
			return
		}
	}
	c.Profiles = append(c.Profiles, p)
}

// RemoveProfile removes a profile by name.
func (c *ConfigFile) RemoveProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// Save writes the config to the specified path.
// Creates the parent directory if it doesn't exist. The file holds
// passwords, so it is written owner-only.
func (c *ConfigFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// LoadConfigFile loads the config file from the specified path.
func LoadConfigFile(path string) (*ConfigFile, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigPath returns the default config file path (~/.iconbox/config.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".iconbox", "config.yaml")
}

// Config holds resolved client configuration for a single server.
type Config struct {
	Endpoint string
	Password string
}

// WithDefaults returns a copy of the config with default values applied.
// If Endpoint is empty, it defaults to DefaultEndpoint.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// ConfigFromProfile creates a Config from a Profile.
func ConfigFromProfile(p *Profile) *Config {
	if p == nil {
		return &Config{}
	}
	return &Config{
		Endpoint: p.Endpoint,
		Password: p.Password,
	}
}

// ConfigFromEnv loads config from ICONBOX_ENDPOINT and ICONBOX_PASSWORD.
func ConfigFromEnv() *Config {
	return &Config{
		Endpoint: os.Getenv("ICONBOX_ENDPOINT"),
		Password: os.Getenv("ICONBOX_PASSWORD"),
	}
}

// ProfileFromEnv returns the profile name from ICONBOX_PROFILE.
func ProfileFromEnv() string {
	return os.Getenv("ICONBOX_PROFILE")
}

// ConfigPathFromEnv returns the config file path from ICONBOX_CONFIG.
func ConfigPathFromEnv() string {
	return os.Getenv("ICONBOX_CONFIG")
}

// MergeConfig merges multiple configs, with later configs taking precedence.
// Empty strings in later configs do not override non-empty values in earlier configs.
func MergeConfig(configs ...*Config) *Config {
	result := &Config{}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Endpoint != "" {
			result.Endpoint = cfg.Endpoint
		}
		if cfg.Password != "" {
			result.Password = cfg.Password
		}
	}
	return result
}
