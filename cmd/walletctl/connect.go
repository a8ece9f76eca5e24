package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sigweihq/web3provider/pkg/account"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/spf13/cobra"
)

func newConnectCmd(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect a wallet through the wallet bridge",
		Long: `Connect to the wallet bridge, request accounts and move the wallet to the
default chain when its current chain is not available.

With --watch the session stays open and prints every state change until
interrupted.

Examples:
  walletctl connect --wallet ws://127.0.0.1:1248
  walletctl connect --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := opts.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.useWallet(ctx); err != nil {
				return err
			}

			acct := account.New(s.orchestrator, s.logger)
			if err := acct.RefreshNativeBalance(ctx); err != nil {
				s.logger.Warn("native balance unavailable", "error", err)
			}

			w := cmd.OutOrStdout()
			show := func(state types.ConnectionState) error {
				descriptor := s.registry.Describe(state.ChainID)
				out := stateOutput{
					Provider:  s.orchestrator.SelectedKind(),
					State:     state,
					Connected: state.IsConnected(),
					Chain:     descriptor.Name,
					Symbol:    descriptor.Symbol,
				}
				if balance := acct.NativeBalance(); balance != nil {
					out.Balance = account.FormatUnits(balance, descriptor.Decimals)
				}
				if url, err := s.orchestrator.AddressURL(state.SelectedAddress); err == nil && state.SelectedAddress != "" {
					out.AddressURL = url
				}
				if opts.jsonOutput {
					return writeJSON(w, out)
				}
				writeState(w, out)
				fmt.Fprintln(w)
				return nil
			}

			if err := show(s.orchestrator.State()); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			stopWatch := acct.Watch(ctx)
			defer stopWatch()
			unsubscribe := s.orchestrator.Subscribe(func(state types.ConnectionState) {
				if err := show(state); err != nil {
					s.logger.Warn("failed to print state", "error", err)
				}
			})
			defer unsubscribe()

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep the session open and print state changes")
	return cmd
}
