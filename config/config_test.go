package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.Equal(t, defaultNetworkName, cfg.NetworkName)
	require.Equal(t, filepath.Join(dir, "nested", "mcash-data"), cfg.DataDir)
	require.Equal(t, filepath.Join(cfg.DataDir, "receipts.db"), cfg.Receipts.Path)
	require.Equal(t, filepath.Join(cfg.DataDir, "state"), cfg.StateDir())

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestLoadParsesSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `DataDir = "/var/lib/mcash"
GenesisFile = "/etc/mcash/genesis.yaml"
NetworkName = "testnet"

[log]
Level = "debug"
Format = "text"
File = "node.log"
MaxSizeMB = 10

[metrics]
ListenAddress = "127.0.0.1:9100"

[telemetry]
Endpoint = "otel:4318"
Traces = true
Headers = "x-tenant=ops"
SampleRatio = 0.25

[receipts]
Path = "/var/lib/mcash/receipts.db"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/mcash", cfg.DataDir)
	require.Equal(t, "/etc/mcash/genesis.yaml", cfg.GenesisFile)
	require.Equal(t, "testnet", cfg.NetworkName)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, "/var/lib/mcash/node.log", cfg.Log.File)
	require.Equal(t, 10, cfg.Log.MaxSizeMB)
	require.Equal(t, 5, cfg.Log.MaxBackups)
	require.Equal(t, "127.0.0.1:9100", cfg.Metrics.ListenAddress)
	require.True(t, cfg.Telemetry.Traces)
	require.Equal(t, 0.25, cfg.Telemetry.SampleRatio)
	require.Equal(t, "/var/lib/mcash/receipts.db", cfg.Receipts.Path)
}

func TestLoadKeepsReceiptDSN(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	dsn := "postgres://mcash@db:5432/receipts?sslmode=disable"
	contents := "DataDir = \"data\"\nKeystoreDir = \"keys\"\nPassphraseFile = \"keys/pass\"\n\n[receipts]\nPath = \"" + dsn + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, dsn, cfg.Receipts.Path)
	require.Equal(t, filepath.Join(dir, "keys"), cfg.KeystoreDir)
	require.Equal(t, filepath.Join(dir, "keys", "pass"), cfg.PassphraseFile)
	require.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("DataDir = \"x\"\nRPCAddress = \":8080\"\n"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "RPCAddress")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.DataDir = " "
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Level = "verbose"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Telemetry.SampleRatio = 1.5
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Telemetry.Traces = true
	cfg.Telemetry.Endpoint = ""
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Telemetry.Metrics = true
	cfg.Telemetry.Endpoint = " "
	require.Error(t, cfg.Validate())
}
