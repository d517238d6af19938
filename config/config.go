package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/iconbox/database"
	iconhttp "github.com/sagarc03/iconbox/http"
	"github.com/sagarc03/iconbox/session"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for iconbox.
type Config struct {
	Env      string              `mapstructure:"env" validate:"omitempty,oneof=dev development prod production"`
	Server   ServerConfig        `mapstructure:"server"`
	Service  ServiceConfig       `mapstructure:"service"`
	Database database.Config     `mapstructure:"database"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Auth     AuthConfig          `mapstructure:"auth"`
	CORS     iconhttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig           `mapstructure:"log"`
}

// IsProd reports whether env selects production logging.
func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port          int   `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxUploadSize int64 `mapstructure:"max_upload_size" validate:"min=0"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	CleanupTimeout int `mapstructure:"cleanup_timeout" validate:"min=1"`
}

// CleanupTimeoutDuration returns CleanupTimeout in seconds as a time.Duration.
func (s ServiceConfig) CleanupTimeoutDuration() time.Duration {
	return time.Duration(s.CleanupTimeout) * time.Second
}

// StorageConfig holds blob storage configuration.
type StorageConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=filesystem memory"`
	Path string `mapstructure:"path" validate:"required_if=Type filesystem"`
}

// AuthConfig holds the administrator secret and the session cookie format.
type AuthConfig struct {
	session.SecretConfig `mapstructure:",squash"`
	Session              string `mapstructure:"session" validate:"required,oneof=plain signed"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":         "database.type",
	"db-dsn":          "database.dsn",
	"storage-type":    "storage.type",
	"storage-path":    "storage.path",
	"port":            "server.port",
	"max-upload-size": "server.max_upload_size",
	"session":         "auth.session",
	"password-file":   "auth.password_file",
	"log-level":       "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_size", 0) // 0 means no limit

	v.SetDefault("service.cleanup_timeout", 30) // seconds

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "iconbox.db")
	v.SetDefault("database.tables.objects", "iconbox_objects")
	v.SetDefault("database.tables.icons", "iconbox_icons")

	v.SetDefault("storage.type", "filesystem")
	v.SetDefault("storage.path", "./data")

	v.SetDefault("auth.password", "")
	v.SetDefault("auth.password_file", "")
	v.SetDefault("auth.session", "plain")

	v.SetDefault("cors.enabled", false)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// The administrator password is read from ICONBOX_AUTH_PASSWORD, falling back
// to ADMIN_PASSWORD.
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("ICONBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("auth.password", "ICONBOX_AUTH_PASSWORD", "ADMIN_PASSWORD")

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
