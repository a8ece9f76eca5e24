package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sigweihq/web3provider/pkg/types"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHeader(w io.Writer, title string) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
	fmt.Fprintln(w, "─────────────────────────────────────────")
}

func writeField(w io.Writer, name, value string) {
	fmt.Fprintf(w, "%-14s %s\n", name+":", value)
}

func availability(available bool) string {
	if available {
		return color.GreenString("available")
	}
	return color.RedString("unavailable")
}

// stateOutput is the JSON form of a provider session state
type stateOutput struct {
	Provider   types.ProviderKind    `json:"provider"`
	State      types.ConnectionState `json:"state"`
	Connected  bool                  `json:"connected"`
	Chain      string                `json:"chain,omitempty"`
	Symbol     string                `json:"symbol,omitempty"`
	Balance    string                `json:"balance,omitempty"`
	AddressURL string                `json:"addressUrl,omitempty"`
}

func writeState(w io.Writer, out stateOutput) {
	writeHeader(w, "Provider Session")
	writeField(w, "Provider", string(out.Provider))
	chain := out.State.ChainID.String()
	if out.Chain != "" {
		chain = fmt.Sprintf("%s (%s)", chain, out.Chain)
	}
	writeField(w, "Chain", chain)
	writeField(w, "Network", availability(out.State.ChainAvailable))
	if out.State.SelectedAddress != "" {
		writeField(w, "Account", out.State.SelectedAddress)
	}
	if out.Balance != "" {
		writeField(w, "Balance", out.Balance+" "+out.Symbol)
	}
	if out.AddressURL != "" {
		writeField(w, "Explorer", out.AddressURL)
	}
	if out.Connected {
		writeField(w, "Status", color.GreenString("connected"))
	} else {
		writeField(w, "Status", color.YellowString("not connected"))
	}
}
