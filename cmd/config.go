package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/tradingbook/store"
	"gopkg.in/yaml.v3"
)

const (
	EnvLedgerFile = "TB_LEDGER_FILE"
	EnvBackend    = "TB_BACKEND"
	EnvCurrency   = "TB_CURRENCY"
)

const (
	defaultLedger   = "data/trades.csv"
	defaultCurrency = "USD"
)

// Config is the resolved tb configuration.
type Config struct {
	Ledger   string `yaml:"ledger"`
	Backend  string `yaml:"backend"`
	Currency string `yaml:"currency"`
}

// LoadConfig resolves the configuration from, by order of precedence, the
// global flags, the environment, the configuration file and the defaults.
func LoadConfig() (Config, error) {
	cfg := Config{Ledger: defaultLedger, Backend: store.BackendCSV, Currency: defaultCurrency}

	file, err := readConfigFile(*configFile)
	if err != nil {
		return cfg, err
	}
	cfg.merge(file)
	cfg.merge(Config{
		Ledger:   os.Getenv(EnvLedgerFile),
		Backend:  os.Getenv(EnvBackend),
		Currency: os.Getenv(EnvCurrency),
	})
	cfg.merge(Config{Ledger: *ledgerFile, Backend: *backend, Currency: *currency})
	return cfg, nil
}

// merge overrides cfg with the non empty fields of o.
func (cfg *Config) merge(o Config) {
	if o.Ledger != "" {
		cfg.Ledger = o.Ledger
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.Currency != "" {
		cfg.Currency = o.Currency
	}
}

// Store returns the store configuration.
func (cfg Config) Store() store.Config {
	return store.Config{Backend: cfg.Backend, Path: cfg.Ledger}
}

// readConfigFile decodes the YAML file at path. A missing file is an empty
// configuration.
func readConfigFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not read configuration: %w", err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}
