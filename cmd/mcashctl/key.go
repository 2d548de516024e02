package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mcashchain/cmd/internal/passphrase"
	"mcashchain/crypto"
	"mcashchain/observability/logging"
)

// operatorPassphrase reads the operator passphrase from MCASH_OPERATOR_PASS, then
// the configured PassphraseFile, then the terminal.
func (a *app) operatorPassphrase(confirm bool) *passphrase.Source {
	return passphrase.NewSource(passphrase.Options{
		EnvVar:  operatorPassEnv,
		File:    a.cfg.PassphraseFile,
		Confirm: confirm,
	})
}

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage operator keys in the keystore directory",
	}
	cmd.AddCommand(newKeyNewCmd(a), newKeyShowCmd(a))
	return cmd
}

func newKeyNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Generate a key and store it encrypted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pass, err := a.operatorPassphrase(true).Get()
			if err != nil {
				return err
			}
			key, err := crypto.GeneratePrivateKey()
			if err != nil {
				return err
			}
			path, err := crypto.SaveToKeystore(a.cfg.KeystoreDir, key, pass)
			if err != nil {
				return fmt.Errorf("save keystore: %w", err)
			}
			addr := key.PubKey().Address()
			a.logger.Info("operator key created",
				slog.String("address", addr.String()),
				slog.String("keystore", path),
				logging.MaskField("privateKey", hex.EncodeToString(key.Bytes())))
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"address":  addr.String(),
				"hex":      addr.Common().Hex(),
				"keystore": path,
			})
		},
	}
}

func newKeyShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show KEYSTORE_FILE",
		Short: "Decrypt a keystore file and print its address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := a.operatorPassphrase(false).Get()
			if err != nil {
				return err
			}
			key, err := crypto.LoadFromKeystore(args[0], pass)
			if err != nil {
				return fmt.Errorf("unlock keystore: %w", err)
			}
			addr := key.PubKey().Address()
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"address": addr.String(),
				"hex":     addr.Common().Hex(),
			})
		},
	}
}
