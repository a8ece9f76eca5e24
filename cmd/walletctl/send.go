package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sigweihq/web3provider/pkg/account"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/transaction"
	"github.com/spf13/cobra"
)

func newSendCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "send <to> <amount>",
		Short: "Send native coins from the connected wallet account",
		Long: `Connect through the wallet bridge and transfer native coins to an address.
The amount is in base units (wei). The wallet signs and broadcasts the
transaction; walletctl then waits for confirmation.

Examples:
  walletctl send 0x9d5dd0a1c3ed8d4d4ba1d9b5e6e4d9c6b7b8a9f0 1000000000000000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok := new(big.Int).SetString(args[1], 10)
			if !ok || value.Sign() < 0 {
				return fmt.Errorf("invalid amount %q: expected a non-negative integer in base units", args[1])
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			s, err := opts.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.useWallet(ctx); err != nil {
				return err
			}

			acct := account.New(s.orchestrator, s.logger)
			submitter := transaction.NewSubmitter(s.orchestrator, s.bus, acct,
				transaction.WithLogger(s.logger),
				transaction.WithConfirmationPolling(
					s.cfg.Transactions.ConfirmationInterval.Or(constants.ConfirmationPollInterval),
					s.cfg.Transactions.ConfirmationAttempts,
				),
			)

			if !submitter.Submit(ctx, transaction.Transfer(args[0], value)) {
				return errors.New("transaction was not completed")
			}

			if balance := acct.NativeBalance(); balance != nil {
				descriptor := s.registry.Describe(s.orchestrator.State().ChainID)
				writeField(cmd.OutOrStdout(), "Balance", account.FormatUnits(balance, descriptor.Decimals)+" "+descriptor.Symbol)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout including confirmation")
	return cmd
}
