package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	walletURL  string
	verbose    bool
	noColor    bool
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "walletctl",
		Short: "Inspect chains and drive a wallet session from the terminal",
		Long: `walletctl loads the chain configuration (web3provider.toml, .env and WEB3_*
variables) and runs provider sessions against it.

Read-only commands use the RPC provider of the default chain. Commands that
need an account connect through a wallet bridge (a wallet JSON-RPC endpoint
over ws, http or ipc) configured by [wallet].url, WEB3_WALLET_URL or --wallet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./web3provider.toml)")
	flags.StringVar(&opts.walletURL, "wallet", "", "wallet bridge URL, overrides the configured one")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of text")

	cmd.AddCommand(
		newChainsCmd(opts),
		newStatusCmd(opts),
		newBalanceCmd(opts),
		newConnectCmd(opts),
		newSendCmd(opts),
	)
	return cmd
}
