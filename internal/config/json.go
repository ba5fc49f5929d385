package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// jsonConfig mirrors StructuredConfig with snake_case keys and string durations.
type jsonConfig struct {
	App struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		TokenDuration      Duration `json:"token_duration"`
		EncryptionKey      string   `json:"encryption_key"`
		FailOpenEncryption bool     `json:"fail_open_encryption"`
		ViewQuota          int      `json:"view_quota"`
		MaxUploadSize      int64    `json:"max_upload_size"`
		BcryptCost         int      `json:"bcrypt_cost"`
		LogLevel           string   `json:"log_level"`
		PublicURL          string   `json:"public_url"`
	} `json:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db"`
		Files struct {
			Dir string `json:"dir"`
		} `json:"files"`
		S3 S3JSON `json:"s3"`
	} `json:"storage"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		SecureCookies   bool     `json:"secure_cookies"`
	} `json:"server"`

	OCR struct {
		Address string   `json:"address"`
		Timeout Duration `json:"timeout"`
	} `json:"ocr"`

	RateLimit struct {
		RedisURL     string   `json:"redis_url"`
		AuthLimit    int      `json:"auth_limit"`
		AuthWindow   Duration `json:"auth_window"`
		UploadLimit  int      `json:"upload_limit"`
		UploadWindow Duration `json:"upload_window"`
	} `json:"rate_limit"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter"`

	Workers struct {
		StatsInterval Duration `json:"stats_interval"`
	} `json:"workers"`
}

// S3JSON is the JSON form of S3.
type S3JSON struct {
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jc jsonConfig
	if err = json.NewDecoder(jsonFile).Decode(&jc); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:       jc.App.TokenSignKey,
			TokenIssuer:        jc.App.TokenIssuer,
			TokenDuration:      time.Duration(jc.App.TokenDuration),
			EncryptionKey:      jc.App.EncryptionKey,
			FailOpenEncryption: jc.App.FailOpenEncryption,
			ViewQuota:          jc.App.ViewQuota,
			MaxUploadSize:      jc.App.MaxUploadSize,
			BcryptCost:         jc.App.BcryptCost,
			LogLevel:           jc.App.LogLevel,
			PublicURL:          jc.App.PublicURL,
		},
		Storage: Storage{
			DB:    DB{DSN: jc.Storage.DB.DSN},
			Files: Files{Dir: jc.Storage.Files.Dir},
			S3:    S3(jc.Storage.S3),
		},
		Server: Server{
			HTTPAddress:     jc.Server.HTTPAddress,
			GRPCAddress:     jc.Server.GRPCAddress,
			RequestTimeout:  time.Duration(jc.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jc.Server.ShutdownTimeout),
			SecureCookies:   jc.Server.SecureCookies,
		},
		OCR: OCR{
			Address: jc.OCR.Address,
			Timeout: time.Duration(jc.OCR.Timeout),
		},
		RateLimit: RateLimit{
			RedisURL:     jc.RateLimit.RedisURL,
			AuthLimit:    jc.RateLimit.AuthLimit,
			AuthWindow:   time.Duration(jc.RateLimit.AuthWindow),
			UploadLimit:  jc.RateLimit.UploadLimit,
			UploadWindow: time.Duration(jc.RateLimit.UploadWindow),
		},
		Adapter: Adapter{
			HTTPAddress:    jc.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jc.Adapter.RequestTimeout),
		},
		Workers: Workers{
			StatsInterval: time.Duration(jc.Workers.StatsInterval),
		},
	}, nil
}

// Duration is a time.Duration that unmarshals from "30s" style strings or
// from a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
