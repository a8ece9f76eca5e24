package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/chains/evm"
	"github.com/sigweihq/web3provider/pkg/chains/svm"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
)

// Config is the file and environment configuration of a provider session
type Config struct {
	AvailableChains []string           `toml:"available_chains"`
	Chains          []ChainConfig      `toml:"chains"`
	Wallet          WalletConfig       `toml:"wallet"`
	Transactions    TransactionsConfig `toml:"transactions"`
	Discovery       DiscoveryConfig    `toml:"discovery"`
	LogLevel        string             `toml:"log_level"`
}

// ChainConfig describes one chain; non-empty fields override the built-in descriptor with the same id
type ChainConfig struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	RPCURLs     []string `toml:"rpc_urls"`
	ExplorerURL string   `toml:"explorer_url"`
	Symbol      string   `toml:"symbol"`
	Decimals    int      `toml:"decimals"`
	Type        string   `toml:"type"`
}

// WalletConfig points at a wallet JSON-RPC endpoint used as the injected provider
type WalletConfig struct {
	URL          string   `toml:"url"`
	PollInterval Duration `toml:"poll_interval"`
}

// TransactionsConfig tunes confirmation polling
type TransactionsConfig struct {
	ConfirmationInterval Duration `toml:"confirmation_interval"`
	ConfirmationAttempts uint     `toml:"confirmation_attempts"` // 0 polls until the context is done
}

// DiscoveryConfig enables chainlist.org failover endpoint discovery for EVM chains
type DiscoveryConfig struct {
	ChainList    bool   `toml:"chainlist"`
	ChainListURL string `toml:"chainlist_url"`
}

// Duration is a time.Duration written as a Go duration string ("2s", "500ms")
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Or returns d, or fallback when d is unset
func (d Duration) Or(fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return time.Duration(d)
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		AvailableChains: []string{constants.ChainPolygonMumbai},
		LogLevel:        "info",
	}
}

// Parse decodes TOML configuration over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Available returns the configured available chains in canonical form, keeping their order
func (c *Config) Available() []types.ChainID {
	out := make([]types.ChainID, 0, len(c.AvailableChains))
	for _, raw := range c.AvailableChains {
		if id := types.CanonicalChainID(strings.TrimSpace(raw)); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Descriptors merges the configured chains over chains.DefaultDescriptors
func (c *Config) Descriptors() []types.ChainDescriptor {
	merged := make(map[types.ChainID]types.ChainDescriptor)
	var order []types.ChainID
	for _, d := range chains.DefaultDescriptors() {
		merged[d.ID] = d
		order = append(order, d.ID)
	}

	for _, cc := range c.Chains {
		id := types.CanonicalChainID(cc.ID)
		d, known := merged[id]
		if !known {
			d = types.ChainDescriptor{ID: id, Type: types.ChainTypeEVM, Decimals: constants.NativeDecimalsEVM}
			order = append(order, id)
		}
		if cc.Name != "" {
			d.Name = cc.Name
		}
		if len(cc.RPCURLs) > 0 {
			d.RPCURL = cc.RPCURLs[0]
		}
		if cc.ExplorerURL != "" {
			d.ExplorerURL = cc.ExplorerURL
		}
		if cc.Symbol != "" {
			d.Symbol = cc.Symbol
		}
		if cc.Decimals > 0 {
			d.Decimals = cc.Decimals
		}
		if cc.Type != "" {
			d.Type = types.ChainType(cc.Type)
		}
		merged[id] = d
	}

	out := make([]types.ChainDescriptor, 0, len(order))
	for _, id := range order {
		out = append(out, merged[id])
	}
	return out
}

// Registry builds the chain registry described by the configuration
// Extra RPC URLs become failover endpoints; Solana networks without any fall back to official endpoints
func (c *Config) Registry(logger *slog.Logger) *chains.Registry {
	registry := chains.NewRegistry(c.Descriptors(), c.Available())

	solana := make(map[string][]string)
	for _, cc := range c.Chains {
		id := types.CanonicalChainID(cc.ID)
		if registry.Describe(id).Type == types.ChainTypeSolana {
			solana[id.String()] = cc.RPCURLs
			continue
		}
		if len(cc.RPCURLs) > 1 {
			registry.SetEndpoints(id, cc.RPCURLs[1:])
		}
	}
	if len(solana) > 0 {
		svm.ConfigureEndpoints(logger, registry, solana)
	}
	return registry
}

// Discover enriches the EVM chains of registry from chainlist.org when discovery is enabled
func (c *Config) Discover(ctx context.Context, logger *slog.Logger, registry *chains.Registry) error {
	if !c.Discovery.ChainList {
		return nil
	}
	provider := evm.NewChainListEndpointProvider(logger, c.Discovery.ChainListURL)
	return evm.EnrichRegistry(ctx, logger, registry, provider)
}

// Level returns the slog level named by LogLevel, info when unset or unknown
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
