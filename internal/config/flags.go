package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
)

// NetAddress is a host:port pair usable as a flag.Value.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the server flags from args.
//
// Flags:
//
//	-a                 HTTP address host:port
//	-grpc-address      gRPC address host:port
//	-d                 database DSN
//	-f                 upload directory
//	-c, -config        JSON config file
//	-token-sign-key    token signing key
//	-token-issuer      token issuer
//	-token-duration    session token lifetime
//	-encryption-key    document number passphrase
//	-view-quota        view grants per document for owners
//	-request-timeout   request timeout
//	-ocr-address       OCR service base URL
//	-redis-url         rate limiter redis URL
//	-s3-bucket         S3 bucket for uploads
//	-log-level         zerolog level
//	-public-url        base URL of emailed account links
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var httpAddress, grpcAddress NetAddress
	cfg := &StructuredConfig{}

	fs.Var(&httpAddress, "a", "HTTP address host:port")
	fs.Var(&grpcAddress, "grpc-address", "gRPC address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.Files.Dir, "f", "", "Upload directory")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Session token lifetime (e.g. 24h)")
	fs.StringVar(&cfg.App.EncryptionKey, "encryption-key", "", "Document number encryption passphrase")
	fs.IntVar(&cfg.App.ViewQuota, "view-quota", 0, "View grants per document for owners")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.App.PublicURL, "public-url", "", "Base URL of emailed account links")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g. 30s)")
	fs.StringVar(&cfg.OCR.Address, "ocr-address", "", "OCR service base URL")
	fs.StringVar(&cfg.RateLimit.RedisURL, "redis-url", "", "Redis URL for rate limiting")
	fs.StringVar(&cfg.Storage.S3.Bucket, "s3-bucket", "", "S3 bucket for uploads")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Server.HTTPAddress = httpAddress.String()
	cfg.Server.GRPCAddress = grpcAddress.String()

	return cfg, nil
}

// String returns host:port, or an empty string when nothing was set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. The host may be empty, "localhost" or an IP address.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
