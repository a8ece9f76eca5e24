package account

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

// Source is the provider state an Account follows
// *provider.Orchestrator satisfies it
type Source interface {
	State() types.ConnectionState
	Endpoint() chains.Endpoint
	Subscribe(fn func(types.ConnectionState)) (unsubscribe func())
}

// Account tracks the native balance of the selected address on the current chain
type Account struct {
	source Source
	logger *slog.Logger

	mu      sync.RWMutex
	address string
	chainID types.ChainID
	balance *big.Int
}

// New creates an account bound to a provider state source
func New(source Source, logger *slog.Logger) *Account {
	if logger == nil {
		logger = slog.Default()
	}
	return &Account{
		source: source,
		logger: logger,
	}
}

// RefreshNativeBalance reloads the balance of the selected address
// Without a selected address the cached balance is cleared and nothing is fetched
func (a *Account) RefreshNativeBalance(ctx context.Context) error {
	state := a.source.State()
	if state.SelectedAddress == "" {
		a.store(state, nil)
		return nil
	}

	endpoint := a.source.Endpoint()
	if endpoint == nil {
		return fmt.Errorf("%w: no endpoint for native balance", walleterrors.ErrProviderWrapperMethodNotFound)
	}

	balance, err := endpoint.NativeBalance(ctx, state.SelectedAddress)
	if err != nil {
		return fmt.Errorf("failed to refresh native balance of %s: %w", state.SelectedAddress, err)
	}

	a.store(state, balance)
	a.logger.Debug("native balance refreshed", "address", state.SelectedAddress, "chainID", state.ChainID, "balance", balance)
	return nil
}

func (a *Account) store(state types.ConnectionState, balance *big.Int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.address = state.SelectedAddress
	a.chainID = state.ChainID
	a.balance = balance
}

// NativeBalance returns the last loaded balance, nil when none is loaded
func (a *Account) NativeBalance() *big.Int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.balance == nil {
		return nil
	}
	return new(big.Int).Set(a.balance)
}

// Address returns the address the balance belongs to
func (a *Account) Address() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.address
}

// Watch refreshes the balance whenever the selected address or chain changes on an available chain
// Refreshes run on their own goroutine; the returned function stops watching
func (a *Account) Watch(ctx context.Context) func() {
	return a.source.Subscribe(func(state types.ConnectionState) {
		if !a.changed(state) {
			return
		}
		if state.SelectedAddress != "" && !state.ChainAvailable {
			a.store(state, nil)
			return
		}

		go func() {
			if err := a.RefreshNativeBalance(ctx); err != nil {
				a.logger.Warn("native balance refresh failed", "error", err)
			}
		}()
	})
}

func (a *Account) changed(state types.ConnectionState) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.address != state.SelectedAddress || a.chainID != state.ChainID || a.balance == nil
}

// FormatUnits renders an integer amount with the given number of decimals
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	if decimals <= 0 {
		return amount.String()
	}

	value := new(big.Rat).SetFrac(amount, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	formatted := value.FloatString(decimals)
	for len(formatted) > 1 && formatted[len(formatted)-1] == '0' {
		formatted = formatted[:len(formatted)-1]
	}
	if formatted[len(formatted)-1] == '.' {
		formatted = formatted[:len(formatted)-1]
	}
	return formatted
}
