package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mcashchain/core/state"
	"mcashchain/core/types"
	"mcashchain/crypto"
	"mcashchain/native/params"
	"mcashchain/receipts"
	"mcashchain/storage"
)

// withState opens the ledger read side for the duration of fn.
func (a *app) withState(fn func(*state.Manager) error) error {
	db, err := storage.NewLevelDB(a.cfg.StateDir())
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer db.Close()
	return fn(state.NewManager(db))
}

type accountOutput struct {
	Address string              `json:"address"`
	Account *types.Account      `json:"account"`
	Witness *types.Witness      `json:"witness,omitempty"`
	Stake   *types.StakeAccount `json:"stake,omitempty"`
}

func newAccountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "account ADDRESS",
		Short: "Print an account with its witness and stake records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := crypto.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return a.withState(func(mgr *state.Manager) error {
				acc, err := mgr.GetAccount(addr)
				if err != nil {
					return err
				}
				if acc == nil {
					return fmt.Errorf("account %s does not exist", args[0])
				}
				out := accountOutput{Address: crypto.FromCommon(addr).String(), Account: acc}
				if out.Witness, err = mgr.GetWitness(addr); err != nil {
					return err
				}
				if out.Stake, err = mgr.GetStakeAccount(addr); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
}

type paramOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

func newParamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List the governable chain parameters and their current values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withState(func(mgr *state.Manager) error {
				cp, err := params.NewStore(mgr).Load()
				if err != nil {
					return err
				}
				all := params.All()
				out := make([]paramOutput, 0, len(all))
				for _, p := range all {
					out = append(out, paramOutput{ID: p.ID, Name: p.Name, Value: p.Get(cp)})
				}
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"latestBlockHeaderNumber":    cp.LatestBlockHeaderNumber,
					"latestBlockHeaderTimestamp": cp.LatestBlockHeaderTimestamp,
					"nextMaintenanceTime":        cp.NextMaintenanceTime,
					"parameters":                 out,
				})
			})
		},
	}
}

func newReceiptsCmd(a *app) *cobra.Command {
	var owner string
	var limit int
	cmd := &cobra.Command{
		Use:   "receipts [HEIGHT]",
		Short: "Query the receipt index by block height or owner",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Receipts.Path == "" {
				return fmt.Errorf("receipt index disabled in config")
			}
			if (len(args) == 1) == (owner != "") {
				return fmt.Errorf("pass either a block height or --owner")
			}
			index, err := receipts.Open(a.cfg.Receipts.Path)
			if err != nil {
				return err
			}
			defer index.Close()

			ctx := cmd.Context()
			if owner != "" {
				addr, err := crypto.ParseAddress(owner)
				if err != nil {
					return err
				}
				rows, err := index.ByOwner(ctx, crypto.FromCommon(addr).String(), limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rows)
			}

			height, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid height %q", args[0])
			}
			rows, err := index.ByBlock(ctx, height)
			if err != nil {
				return err
			}
			evts, err := index.EventsByBlock(ctx, height)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"height":   height,
				"receipts": rows,
				"events":   evts,
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "List the newest receipts of this owner instead")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum receipts returned with --owner")
	return cmd
}
