// Package config handles configuration for the ledger server: defaults,
// an optional JSON file, environment variables and command-line flags,
// applied in that order.
package config

import "time"

// Config holds runtime settings for the GeoLedger server.
//
// An empty DatabaseDSN selects the in-memory store. An empty APIBearerToken
// leaves mutating routes open, and an empty JWTSecret disables the admin
// routes. Evidence storage is configured when S3BaseEndpoint is set.
type Config struct {
	HTTPAddr        string
	DatabaseDSN     string
	APIBearerToken  string
	JWTSecret       string
	SeedDemo        bool
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	LogFormat       string

	RedisAddr  string
	RateLimit  int
	RateWindow time.Duration

	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	EvidenceGateways []string

	HorizonURL     string
	HorizonTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":4000"
	c.SeedDemo = true
	c.CORSOrigins = []string{"*"}
	c.ShutdownTimeout = 10 * time.Second
	c.LogFormat = "json"
	c.RateLimit = 60
	c.RateWindow = time.Minute
	c.S3Bucket = "evidence"
	c.S3Region = "us-east-1"
	c.HorizonTimeout = 10 * time.Second
}

// EvidenceConfigured reports whether object storage settings are present.
func (c *Config) EvidenceConfigured() bool {
	return c.S3BaseEndpoint != "" && c.S3Bucket != ""
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config, then the environment, then short flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
