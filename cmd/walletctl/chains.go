package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/spf13/cobra"
)

type chainOutput struct {
	types.ChainDescriptor
	Available bool     `json:"available"`
	Default   bool     `json:"default"`
	Endpoints []string `json:"endpoints"`
}

func newChainsCmd(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "chains",
		Short: "List configured chains",
		Long: `List the chains of the registry with their RPC endpoints.

By default only the available chains are shown, in configuration order;
the first one is the default chain.

Examples:
  walletctl chains
  walletctl chains --all --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			defaultChain, _ := s.registry.DefaultChain()
			var descriptors []types.ChainDescriptor
			if all {
				descriptors = s.registry.All()
			} else {
				for _, id := range s.registry.AvailableChains() {
					descriptors = append(descriptors, s.registry.Describe(id))
				}
			}

			out := make([]chainOutput, 0, len(descriptors))
			for _, d := range descriptors {
				out = append(out, chainOutput{
					ChainDescriptor: d,
					Available:       s.registry.IsAvailable(d.ID),
					Default:         d.ID == defaultChain,
					Endpoints:       s.registry.Endpoints(d.ID),
				})
			}

			w := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(w, out)
			}

			writeHeader(w, "Chains")
			for _, c := range out {
				marker := " "
				if c.Default {
					marker = color.CyanString("*")
				}
				fmt.Fprintf(w, "%s %-10s %-18s %-6s %s\n", marker, c.ID, c.Name, c.Type, availability(c.Available))
				for _, endpoint := range c.Endpoints {
					fmt.Fprintf(w, "    %s\n", endpoint)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include chains that are described but not available")
	return cmd
}
