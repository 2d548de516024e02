package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultNetworkName = "mcash-local"

type Config struct {
	DataDir        string `toml:"DataDir"`
	GenesisFile    string `toml:"GenesisFile"`
	NetworkName    string `toml:"NetworkName"`
	KeystoreDir    string `toml:"KeystoreDir"`
	PassphraseFile string `toml:"PassphraseFile"`

	Log       Log       `toml:"log"`
	Metrics   Metrics   `toml:"metrics"`
	Telemetry Telemetry `toml:"telemetry"`
	Receipts  Receipts  `toml:"receipts"`
}

// Load loads the configuration from the given path. A missing file is
// replaced by a default configuration written to the same path.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	} else if err != nil {
		return nil, err
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = defaultNetworkName
	}
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration written for a fresh node.
func Default() *Config {
	return &Config{
		DataDir:      "./mcash-data",
		GenesisFile:  "genesis.yaml",
		NetworkName:  defaultNetworkName,
		KeystoreDir:  "keystore",
		Log: Log{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Metrics: Metrics{ListenAddress: ""},
		Telemetry: Telemetry{
			Endpoint: "localhost:4318",
			Insecure: true,
		},
		Receipts: Receipts{Path: "receipts.db"},
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// resolvePaths anchors relative file settings to the config directory.
// Receipt and log paths are relative to the data directory. URLs such as a
// postgres receipt DSN are kept as given.
func (c *Config) resolvePaths(base string) {
	anchor := func(p, dir string) string {
		if strings.TrimSpace(p) == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.DataDir = anchor(c.DataDir, base)
	c.GenesisFile = anchor(c.GenesisFile, base)
	c.KeystoreDir = anchor(c.KeystoreDir, base)
	c.PassphraseFile = anchor(c.PassphraseFile, base)
	c.Receipts.Path = anchor(c.Receipts.Path, c.DataDir)
	c.Log.File = anchor(c.Log.File, c.DataDir)
}

// StateDir is the leveldb directory holding the ledger.
func (c *Config) StateDir() string {
	return filepath.Join(c.DataDir, "state")
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
