package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Luismorlan/utxo_signer/config"
	"github.com/Luismorlan/utxo_signer/network"
	"github.com/Luismorlan/utxo_signer/utils"
	"github.com/Luismorlan/utxo_signer/wallet"
)

var errVerification = errors.New("signature verification failed")

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string
	var submit bool
	cmd := &cobra.Command{
		Use:           "utxo-signer",
		Short:         "Builds, signs and verifies the configured UTXO transaction",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := config.DefaultConfig()
			if configPath != "" {
				var err error
				if c, err = config.LoadConfig(configPath); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return err
				}
			}
			err := run(cmd, c, submit)
			if err != nil && !errors.Is(err, errVerification) {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML config, built-in example transaction when empty")
	cmd.Flags().BoolVar(&submit, "submit", false, "sign the inputs and hand the transaction to an in-process dry-run network")
	return cmd
}

func run(cmd *cobra.Command, c config.AppConfig, submit bool) error {
	level, err := c.Level()
	if err != nil {
		return err
	}
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(level)
	log, err := logConfig.Build()
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	scheme, err := c.SignatureScheme()
	if err != nil {
		return err
	}
	keys, err := utils.DeriveKeyPair(scheme, c.KeyURI)
	if err != nil {
		return err
	}
	pub := keys.Public()
	log.Info("Signer ready", zap.String("scheme", c.Scheme), zap.String("publicKey", utils.BytesToHex(pub[:])))

	tx, err := wallet.BuildFromTemplate(c.Transaction)
	if err != nil {
		return err
	}
	if !tx.HasEconomicEffect() {
		log.Warn("Transaction has no outputs")
	}

	res, err := wallet.NewVerifier(log).Run(tx, keys)
	if err != nil {
		return err
	}
	if !res.IsValid {
		fmt.Fprintf(cmd.OutOrStdout(), "❌ Something went wrong: %s\n", res.Diagnostic)
		return errVerification
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Signature: %s\n", res.SignatureHex)

	if !submit {
		return nil
	}
	net := network.NewDryRun(log)
	sent, err := wallet.NewWallet(keys, net, log).SendTransaction(context.Background(), tx)
	if err != nil {
		return err
	}
	if !sent.IsValid {
		fmt.Fprintf(cmd.OutOrStdout(), "❌ Something went wrong: %s\n", sent.Diagnostic)
		return errVerification
	}
	fmt.Fprintf(cmd.OutOrStdout(), "📤 Submitted: %s\n", net.Submissions()[0].ID)
	return nil
}
