package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// parseEnv overlays environment variables onto config. Values that are
// set but malformed cause a panic, like a malformed JSON file.
func parseEnv(config *Config) {
	str := func(name string, dst *string) {
		if v, ok := lookupEnv(name); ok {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		v, ok := lookupEnv(name)
		if !ok {
			return
		}
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*dst = out
	}
	duration := func(name string, dst *time.Duration) {
		if v, ok := lookupEnv(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	if port, ok := lookupEnv("PORT"); ok && port != "" {
		config.HTTPAddr = ":" + port
	}
	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_URL", &config.DatabaseDSN)
	str("API_BEARER_TOKEN", &config.APIBearerToken)
	str("JWT_SECRET", &config.JWTSecret)
	if v, ok := lookupEnv("SEED_DEMO"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.SeedDemo = b
	}
	list("CORS_ORIGINS", &config.CORSOrigins)
	duration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)
	str("LOG_FORMAT", &config.LogFormat)

	str("REDIS_ADDR", &config.RedisAddr)
	if v, ok := lookupEnv("RATE_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.RateLimit = n
	}
	duration("RATE_WINDOW", &config.RateWindow)

	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	list("EVIDENCE_GATEWAYS", &config.EvidenceGateways)

	str("HORIZON_URL", &config.HorizonURL)
	duration("HORIZON_TIMEOUT", &config.HorizonTimeout)
}
