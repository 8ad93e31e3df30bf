package ctl

import (
	"flag"
	"io"
	"os"
	"time"
)

// lookupEnv is a test seam for os.LookupEnv.
var lookupEnv = os.LookupEnv

// Config holds ledgerctl settings shared by every command.
type Config struct {
	ServerURL string
	Token     string
	Timeout   time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:4000"
	c.Timeout = 10 * time.Second
}

// LoadConfig applies defaults, then LEDGER_URL and LEDGER_TOKEN, then the
// global flags in front of the command name. It returns the remaining
// arguments, starting with the command.
func LoadConfig(args []string, stderr io.Writer) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if v, ok := lookupEnv("LEDGER_URL"); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := lookupEnv("LEDGER_TOKEN"); ok {
		cfg.Token = v
	}

	fs := flag.NewFlagSet("ledgerctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.ServerURL, "u", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "admin bearer token")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "request timeout")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}
