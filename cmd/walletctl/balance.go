package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sigweihq/web3provider/pkg/account"
	"github.com/spf13/cobra"
)

type balanceOutput struct {
	Address    string `json:"address"`
	ChainID    string `json:"chainId"`
	Balance    string `json:"balance"`
	Formatted  string `json:"formatted"`
	Symbol     string `json:"symbol"`
	AddressURL string `json:"addressUrl,omitempty"`
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	var chainID string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the native balance of an address",
		Long: `Query the native coin balance of an address through the RPC provider.

Examples:
  walletctl balance 0x9d5dd0a1c3ed8d4d4ba1d9b5e6e4d9c6b7b8a9f0
  walletctl balance 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin --chain devnet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			s, err := opts.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.useRPC(ctx, chainID); err != nil {
				return err
			}

			endpoint := s.orchestrator.Endpoint()
			if endpoint == nil {
				return fmt.Errorf("no endpoint for chain %s", s.orchestrator.State().ChainID)
			}
			balance, err := endpoint.NativeBalance(ctx, args[0])
			if err != nil {
				return err
			}

			chain := s.orchestrator.State().ChainID
			descriptor := s.registry.Describe(chain)
			out := balanceOutput{
				Address:   args[0],
				ChainID:   chain.String(),
				Balance:   balance.String(),
				Formatted: account.FormatUnits(balance, descriptor.Decimals),
				Symbol:    descriptor.Symbol,
			}
			if url, err := s.orchestrator.AddressURL(args[0]); err == nil {
				out.AddressURL = url
			}

			w := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(w, out)
			}
			writeField(w, "Address", out.Address)
			writeField(w, "Chain", out.ChainID)
			writeField(w, "Balance", out.Formatted+" "+out.Symbol)
			if out.AddressURL != "" {
				writeField(w, "Explorer", out.AddressURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chainID, "chain", "", "chain id to query instead of the default chain")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	return cmd
}
