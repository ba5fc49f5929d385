package config

import "time"

const (
	DefaultViewQuota     = 3
	DefaultMaxUploadSize = 10 << 20
	DefaultTokenIssuer   = "go-doc-verifier"
	DefaultPublicURL     = "http://localhost:8080"
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: 24 * time.Hour,
			ViewQuota:     DefaultViewQuota,
			MaxUploadSize: DefaultMaxUploadSize,
			BcryptCost:    10,
			LogLevel:      "debug",
			PublicURL:     DefaultPublicURL,
		},
		Storage: Storage{
			Files: Files{Dir: "./uploads"},
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			GRPCAddress:     "localhost:9090",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		OCR: OCR{
			Timeout: 30 * time.Second,
		},
		RateLimit: RateLimit{
			AuthLimit:    10,
			AuthWindow:   20 * time.Minute,
			UploadLimit:  20,
			UploadWindow: time.Hour,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Workers: Workers{
			StatsInterval: time.Minute,
		},
	}
}
