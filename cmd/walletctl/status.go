package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	stateOutput
	ReportedChainID types.ChainID `json:"reportedChainId,omitempty"`
	Endpoints       []string      `json:"endpoints"`
	Error           string        `json:"error,omitempty"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var chainID string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the RPC provider session of a chain",
		Long: `Select the RPC provider on the default chain (or --chain) and show its
state together with the chain id reported by the endpoint.

Examples:
  walletctl status
  walletctl status --chain devnet --json`,
		Args: cobra.NoArgs,
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

			state := s.orchestrator.State()
			descriptor := s.registry.Describe(state.ChainID)
			out := statusOutput{
				stateOutput: stateOutput{
					Provider:  s.orchestrator.SelectedKind(),
					State:     state,
					Connected: s.orchestrator.IsConnected(),
					Chain:     descriptor.Name,
					Symbol:    descriptor.Symbol,
				},
				Endpoints: s.registry.Endpoints(state.ChainID),
			}
			if endpoint := s.orchestrator.Endpoint(); endpoint != nil {
				reported, err := endpoint.ChainID(ctx)
				if err != nil {
					out.Error = err.Error()
				}
				out.ReportedChainID = reported
			}

			w := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(w, out)
			}

			writeState(w, out.stateOutput)
			for _, endpoint := range out.Endpoints {
				writeField(w, "Endpoint", endpoint)
			}
			switch {
			case out.Error != "":
				writeField(w, "Reported", color.RedString(out.Error))
			case out.ReportedChainID != state.ChainID:
				writeField(w, "Reported", color.YellowString("%s (mismatch)", out.ReportedChainID))
			default:
				writeField(w, "Reported", out.ReportedChainID.String())
			}
			fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().StringVar(&chainID, "chain", "", "chain id to select instead of the default chain")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	return cmd
}
