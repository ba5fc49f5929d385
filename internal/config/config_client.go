package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
)

// ClientConfig is the configuration of the terminal client.
type ClientConfig struct {
	// ServerURL is the base URL of the document verifier API.
	ServerURL string
	// RequestTimeout bounds every API call.
	RequestTimeout time.Duration
	// LogFile is created next to the client executable.
	LogFile string
}

// GetClientConfig reads ADAPTER_ADDRESS / ADAPTER_REQUEST_TIMEOUT and the
// -server / -timeout flags. Environment wins over flags, defaults fill the rest.
func GetClientConfig() (*ClientConfig, error) {
	return getClientConfig(os.Args[1:])
}

func getClientConfig(args []string) (*ClientConfig, error) {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	flagCfg := &StructuredConfig{}
	fs.StringVar(&flagCfg.Adapter.HTTPAddress, "server", "", "Server base URL")
	fs.DurationVar(&flagCfg.Adapter.RequestTimeout, "timeout", 0, "Request timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	merged := new(StructuredConfig)
	for _, c := range []*StructuredConfig{envCfg, flagCfg, defaults()} {
		if err := mergo.Merge(merged, c); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	cfg := &ClientConfig{
		ServerURL:      merged.Adapter.HTTPAddress,
		RequestTimeout: merged.Adapter.RequestTimeout,
		LogFile:        "docverifier-client.log",
	}
	return cfg, cfg.validate()
}
