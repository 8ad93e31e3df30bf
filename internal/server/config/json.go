package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/geoledger/internal/flagx"
	"github.com/dmitrijs2005/geoledger/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Pointer fields distinguish
// "absent" from a zero value, so a partial file only overrides what it
// names. Durations accept "1m" strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr        *string         `json:"http_addr"`
	DatabaseDSN     *string         `json:"database_dsn"`
	APIBearerToken  *string         `json:"api_bearer_token"`
	JWTSecret       *string         `json:"jwt_secret"`
	SeedDemo        *bool           `json:"seed_demo"`
	CORSOrigins     []string        `json:"cors_origins"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	LogFormat       *string         `json:"log_format"`

	RedisAddr  *string         `json:"redis_addr"`
	RateLimit  *int            `json:"rate_limit"`
	RateWindow *timex.Duration `json:"rate_window"`

	S3RootUser       *string  `json:"s3_root_user"`
	S3RootPassword   *string  `json:"s3_root_password"`
	S3Bucket         *string  `json:"s3_bucket"`
	S3Region         *string  `json:"s3_region"`
	S3BaseEndpoint   *string  `json:"s3_base_endpoint"`
	EvidenceGateways []string `json:"evidence_gateways"`

	HorizonURL     *string         `json:"horizon_url"`
	HorizonTimeout *timex.Duration `json:"horizon_timeout"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays the JSON file named by -c or -config onto config.
// It panics when the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.APIBearerToken, c.APIBearerToken)
	set(&config.JWTSecret, c.JWTSecret)
	set(&config.SeedDemo, c.SeedDemo)
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	set(&config.LogFormat, c.LogFormat)

	set(&config.RedisAddr, c.RedisAddr)
	set(&config.RateLimit, c.RateLimit)
	if c.RateWindow != nil {
		config.RateWindow = c.RateWindow.Duration
	}

	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.EvidenceGateways != nil {
		config.EvidenceGateways = c.EvidenceGateways
	}

	set(&config.HorizonURL, c.HorizonURL)
	if c.HorizonTimeout != nil {
		config.HorizonTimeout = c.HorizonTimeout.Duration
	}
}
