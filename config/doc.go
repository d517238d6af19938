// Package config provides configuration loading and validation for iconbox.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (ICONBOX_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with ICONBOX_ prefix:
//   - server.port → ICONBOX_SERVER_PORT
//   - database.type → ICONBOX_DATABASE_TYPE
//   - auth.session → ICONBOX_AUTH_SESSION
//
// The administrator password (auth.password) is also read from ADMIN_PASSWORD
// when ICONBOX_AUTH_PASSWORD is unset.
//
// # Configuration Structure
//
// The Config struct contains:
//   - Env: dev (colored text logs) or prod (JSON logs)
//   - Server: port and max_upload_size
//   - Service: cleanup_timeout for orphaned blob removal
//   - Database: type (sqlite/postgres/memory), DSN, and table names
//   - Storage: type (filesystem/memory) and path
//   - Auth: password, password_file, and session (plain/signed)
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Storage path is required for filesystem storage
//   - Session must be plain or signed
//   - Log level must be debug, info, warn, or error
//
// Table names are checked with iconbox.Tables.Validate.
package config
