package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sigweihq/web3provider/pkg/types"
)

var localHosts = []string{"localhost", "127.0.0.1", "[::1]"}

// ValidateURL checks an RPC or explorer URL
// HTTPS is required; plain HTTP is accepted for local hosts only
func ValidateURL(url string) error {
	if strings.HasPrefix(url, "https://") {
		return nil
	}
	if isLocal(url, "http://") {
		return nil
	}
	return fmt.Errorf("URL must use HTTPS: %q", url)
}

// ValidateWalletURL checks a wallet bridge URL
// Accepts what ValidateURL accepts, wss, ws for local hosts, and absolute IPC socket paths
func ValidateWalletURL(url string) error {
	switch {
	case strings.HasPrefix(url, "wss://"):
		return nil
	case isLocal(url, "ws://"):
		return nil
	case filepath.IsAbs(url) && strings.HasSuffix(url, ".ipc"):
		return nil
	}
	if err := ValidateURL(url); err != nil {
		return fmt.Errorf("wallet URL must be https, wss, local http/ws or an ipc path: %q", url)
	}
	return nil
}

func isLocal(url, scheme string) bool {
	for _, host := range localHosts {
		rest, ok := strings.CutPrefix(url, scheme+host)
		if ok && (rest == "" || rest[0] == ':' || rest[0] == '/') {
			return true
		}
	}
	return false
}

// Validate checks chain definitions, URLs and that every available chain is described
func (c *Config) Validate() error {
	var errs []error

	for i, cc := range c.Chains {
		if strings.TrimSpace(cc.ID) == "" {
			errs = append(errs, fmt.Errorf("chains[%d]: id is required", i))
			continue
		}
		switch types.ChainType(cc.Type) {
		case "", types.ChainTypeEVM, types.ChainTypeSolana:
		default:
			errs = append(errs, fmt.Errorf("chain %s: unknown type %q", cc.ID, cc.Type))
		}
		if cc.Decimals < 0 {
			errs = append(errs, fmt.Errorf("chain %s: decimals must not be negative", cc.ID))
		}
		for _, url := range cc.RPCURLs {
			if err := ValidateURL(url); err != nil {
				errs = append(errs, fmt.Errorf("chain %s rpc: %w", cc.ID, err))
			}
		}
		if cc.ExplorerURL != "" {
			if err := ValidateURL(cc.ExplorerURL); err != nil {
				errs = append(errs, fmt.Errorf("chain %s explorer: %w", cc.ID, err))
			}
		}
	}

	available := c.Available()
	if len(available) == 0 {
		errs = append(errs, errors.New("available_chains must name at least one chain"))
	}
	described := make(map[types.ChainID]bool)
	for _, d := range c.Descriptors() {
		described[d.ID] = !d.IsEmpty()
	}
	for _, id := range available {
		if !described[id] {
			errs = append(errs, fmt.Errorf("available chain %s is not described", id))
		}
	}

	if c.Wallet.URL != "" {
		if err := ValidateWalletURL(c.Wallet.URL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Discovery.ChainListURL != "" {
		if err := ValidateURL(c.Discovery.ChainListURL); err != nil {
			errs = append(errs, fmt.Errorf("chainlist: %w", err))
		}
	}

	return errors.Join(errs...)
}
