// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration of the document verifier.
// It is assembled from environment variables, command-line flags and an
// optional JSON file, then completed with defaults and validated.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env:       environment variable name of a scalar field.
type StructuredConfig struct {
	// App holds token, encryption and quota settings.
	App App `envPrefix:"APP_"`

	// Storage holds the database and file storage settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listener addresses and timeouts.
	Server Server `envPrefix:"SERVER_"`

	// OCR holds the text recognition service settings.
	OCR OCR `envPrefix:"OCR_"`

	// RateLimit holds the limiter backend and per-route limits.
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`

	// Adapter holds the settings the terminal client uses to reach the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG, flags: -c / -config.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// TokenSignKey signs session tokens and view grants (HS256).
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of a session token.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// EncryptionKey is the passphrase the document number key is derived
	// from. Changing it makes previously stored numbers unreadable.
	// Env: APP_ENCRYPTION_KEY
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	// FailOpenEncryption makes cipher failures return the input instead of
	// an error. Off by default.
	// Env: APP_FAIL_OPEN_ENCRYPTION
	FailOpenEncryption bool `env:"FAIL_OPEN_ENCRYPTION"`

	// ViewQuota is the number of view grants an owner may obtain per
	// document. Administrators are not limited.
	// Env: APP_VIEW_QUOTA
	ViewQuota int `env:"VIEW_QUOTA"`

	// MaxUploadSize is the upload limit in bytes.
	// Env: APP_MAX_UPLOAD_SIZE
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE"`

	// BcryptCost is the password hashing cost.
	// Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// LogLevel is a zerolog level name.
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// PublicURL is the base of the links put into verification and
	// password reset messages.
	// Env: APP_PUBLIC_URL
	PublicURL string `env:"PUBLIC_URL"`
}

// Storage groups the persistence backends.
type Storage struct {
	DB    DB    `envPrefix:"DB_"`
	Files Files `envPrefix:"FILES_"`
	S3    S3    `envPrefix:"S3_"`
}

// DB holds the database connection string. A postgres:// DSN selects
// PostgreSQL, a file: DSN or a *.db path selects SQLite, an empty DSN
// keeps everything in memory.
type DB struct {
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds the local directory for uploaded files. Used when S3 is not configured.
type Files struct {
	// Env: STORAGE_FILES_DIR
	Dir string `env:"DIR"`
}

// S3 holds object storage settings. Uploads go to S3 when Bucket is set.
type S3 struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// Server holds transport settings.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// SecureCookies sets the Secure attribute on the session cookie.
	// Env: SERVER_SECURE_COOKIES
	SecureCookies bool `env:"SECURE_COOKIES"`
}

// OCR holds the text recognition service settings. Without an address the
// upload path relies on the fields typed in by the user.
type OCR struct {
	// Env: OCR_ADDRESS
	Address string `env:"ADDRESS"`

	// Env: OCR_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// RateLimit configures request limiting. With RedisURL empty the limiter
// is kept in process memory.
type RateLimit struct {
	RedisURL     string        `env:"REDIS_URL"`
	AuthLimit    int           `env:"AUTH_LIMIT"`
	AuthWindow   time.Duration `env:"AUTH_WINDOW"`
	UploadLimit  int           `env:"UPLOAD_LIMIT"`
	UploadWindow time.Duration `env:"UPLOAD_WINDOW"`
}

// Adapter holds the client side view of the server.
type Adapter struct {
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds background job settings.
type Workers struct {
	// StatsInterval is how often the pending-review gauge is refreshed.
	// Env: WORKERS_STATS_INTERVAL
	StatsInterval time.Duration `env:"STATS_INTERVAL"`
}

// GetStructuredConfig loads the server configuration. Sources are merged
// field by field, the first non-zero value wins:
//  1. environment variables
//  2. command-line flags
//  3. JSON file (path taken from 1 or 2)
//  4. defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// GetToolConfig loads the configuration for docctl. Only the environment
// and defaults are used; docctl has its own cobra flags.
func GetToolConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withDefaults().
		buildWith((*StructuredConfig).validateStorage)
}
