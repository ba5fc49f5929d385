// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"strings"
)

// validate checks the merged server configuration.
func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.validateApp(),
		cfg.validateStorage(),
		cfg.validateServer(),
		cfg.validateRateLimit(),
	)
}

func (cfg *StructuredConfig) validateApp() error {
	switch {
	case cfg.App.TokenSignKey == "":
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	case cfg.App.EncryptionKey == "":
		return fmt.Errorf("%w: encryption key is required", ErrInvalidAppConfigs)
	case cfg.App.TokenDuration <= 0:
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	case cfg.App.ViewQuota < 1:
		return fmt.Errorf("%w: view quota must be at least 1", ErrInvalidAppConfigs)
	case cfg.App.MaxUploadSize <= 0:
		return fmt.Errorf("%w: max upload size must be positive", ErrInvalidAppConfigs)
	}
	return nil
}

func (cfg *StructuredConfig) validateStorage() error {
	if cfg.Storage.S3.Bucket != "" && cfg.Storage.S3.Region == "" {
		return fmt.Errorf("%w: s3 region is required when a bucket is set", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.S3.Bucket == "" && cfg.Storage.Files.Dir == "" {
		return fmt.Errorf("%w: either s3 bucket or files dir is required", ErrInvalidStorageConfigs)
	}
	return nil
}

func (cfg *StructuredConfig) validateServer() error {
	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.RequestTimeout <= 0 || cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidServerConfigs)
	}
	return nil
}

func (cfg *StructuredConfig) validateRateLimit() error {
	rl := cfg.RateLimit
	if rl.AuthLimit < 1 || rl.UploadLimit < 1 || rl.AuthWindow <= 0 || rl.UploadWindow <= 0 {
		return ErrInvalidRateLimitConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.ServerURL == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://") && !strings.HasPrefix(cfg.ServerURL, "https://") {
		return fmt.Errorf("%w: server url must start with http:// or https://", ErrInvalidAdapterConfigs)
	}
	return nil
}
