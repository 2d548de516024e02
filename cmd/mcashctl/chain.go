package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mcashchain/core"
	"mcashchain/core/genesis"
	"mcashchain/core/state"
	"mcashchain/core/types"
	"mcashchain/observability"
	telemetry "mcashchain/observability/otel"
	"mcashchain/receipts"
	"mcashchain/storage"
)

func newInitCmd(a *app) *cobra.Command {
	var genesisFlag string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the genesis state into the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := genesisPath(genesisFlag, a.cfg)
			spec, err := genesis.LoadGenesisSpec(path)
			if err != nil {
				return err
			}
			db, err := storage.NewLevelDB(a.cfg.StateDir())
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer db.Close()

			res, err := genesis.BuildGenesisFromSpec(spec, db)
			if err != nil {
				return err
			}
			a.logger.Info("genesis applied",
				slog.String("genesis", path),
				slog.String("digest", res.Digest.Hex()))
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"timestamp":           res.Header.Timestamp,
				"digest":              res.Digest.Hex(),
				"nextMaintenanceTime": res.Params.NextMaintenanceTime,
			})
		},
	}
	cmd.Flags().StringVar(&genesisFlag, "genesis", "", "Path to the genesis spec (overrides MCASH_GENESIS and config GenesisFile)")
	return cmd
}

// blockOutput is the per-block report printed by apply.
type blockOutput struct {
	Height  uint64          `json:"height"`
	Digest  string          `json:"digest"`
	Results []*types.Result `json:"results"`
	Events  []*types.Event  `json:"events"`
}

func newApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply BLOCK.json [BLOCK.json...]",
		Short: "Apply block files to the ledger in order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := a.startTelemetry(ctx)
			if err != nil {
				return err
			}
			defer shutdown()

			db, err := storage.NewLevelDB(a.cfg.StateDir())
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer db.Close()

			var index *receipts.Store
			if a.cfg.Receipts.Path != "" {
				if index, err = receipts.Open(a.cfg.Receipts.Path); err != nil {
					return err
				}
				defer index.Close()
			}

			processor := core.NewStateProcessor(state.NewManager(db), a.logger)
			for _, path := range args {
				block, err := readBlock(path)
				if err != nil {
					return err
				}
				out, err := processor.ApplyBlock(ctx, block)
				if err != nil {
					return fmt.Errorf("apply %s: %w", path, err)
				}
				if index != nil {
					if err := index.Record(ctx, out.Height, block.Operations, out.Results, out.Events); err != nil {
						return err
					}
				}
				if err := printJSON(cmd.OutOrStdout(), blockOutput{
					Height:  out.Height,
					Digest:  out.Digest.Hex(),
					Results: out.Results,
					Events:  out.Events,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func readBlock(path string) (*types.Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block: %w", err)
	}
	var block types.Block
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, fmt.Errorf("decode block %s: %w", path, err)
	}
	if block.Header == nil {
		return nil, fmt.Errorf("block %s has no header", path)
	}
	return &block, nil
}

// startTelemetry starts the OTLP exporters and metrics listener the config
// asks for. The returned function stops both.
func (a *app) startTelemetry(ctx context.Context) (func(), error) {
	var stops []func()
	stopAll := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	if a.cfg.Telemetry.Traces || a.cfg.Telemetry.Metrics {
		shutdownOtel, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName: "mcashctl",
			Network:     a.cfg.NetworkName,
			Endpoint:    a.cfg.Telemetry.Endpoint,
			Insecure:    a.cfg.Telemetry.Insecure,
			Headers:     telemetry.ParseHeaders(a.cfg.Telemetry.Headers),
			Metrics:     a.cfg.Telemetry.Metrics,
			Traces:      a.cfg.Telemetry.Traces,
			SampleRatio: a.cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
		stops = append(stops, func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(flushCtx); err != nil {
				a.logger.Warn("telemetry shutdown failed", slog.Any("error", err))
			}
		})
	}

	if addr := a.cfg.Metrics.ListenAddress; addr != "" {
		srv := &http.Server{Addr: addr, Handler: observability.Handler("mcashctl"), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics listener stopped", slog.String("address", addr), slog.Any("error", err))
			}
		}()
		a.logger.Info("serving metrics", slog.String("address", addr))
		stops = append(stops, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(closeCtx)
		})
	}
	return stopAll, nil
}
