// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment using the env and
// envPrefix tags of [StructuredConfig].
func parseEnv(cfg any) error {
	return parseEnvWith(cfg, env.Options{})
}

// parseEnvFrom is parseEnv over an explicit variable set.
func parseEnvFrom(cfg any, environment map[string]string) error {
	return parseEnvWith(cfg, env.Options{Environment: environment})
}

func parseEnvWith(cfg any, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}
