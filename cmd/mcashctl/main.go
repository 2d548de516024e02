package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mcashchain/config"
	"mcashchain/observability/logging"
)

const (
	operatorPassEnv = "MCASH_OPERATOR_PASS"
	genesisPathEnv  = "MCASH_GENESIS"
)

// app carries the state shared by every subcommand once the root command
// has loaded the configuration.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "mcashctl",
		Short:         "Operate a local MCASH ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "./config.toml", "Path to the configuration file")

	rootCmd.AddCommand(
		newInitCmd(a),
		newApplyCmd(a),
		newAccountCmd(a),
		newParamsCmd(a),
		newReceiptsCmd(a),
		newKeyCmd(a),
	)
	return rootCmd
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	opts := logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
	a.logger = logging.SetupWriter(logOut, "mcashctl", cfg.NetworkName, opts)
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func genesisPath(flagValue string, cfg *config.Config) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(genesisPathEnv)); p != "" {
		return p
	}
	return cfg.GenesisFile
}
