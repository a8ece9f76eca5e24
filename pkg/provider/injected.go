package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/chains/evm"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

// InjectedAdapter drives a wallet that holds the user's keys
// Chain and account changes made in the wallet reach the adapter as events
type InjectedAdapter struct {
	wallet   evm.WalletProvider
	registry *chains.Registry
	logger   *slog.Logger
	state    observable

	mu            sync.Mutex
	unsubscribers []func()
	closed        bool
}

// NewInjectedAdapter creates an adapter for the given wallet
func NewInjectedAdapter(wallet evm.WalletProvider, registry *chains.Registry, logger *slog.Logger) *InjectedAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InjectedAdapter{
		wallet:   wallet,
		registry: registry,
		logger:   logger.With("provider", types.ProviderInjectedWallet),
	}
}

var _ Adapter = (*InjectedAdapter)(nil)

// Kind implements Adapter
func (a *InjectedAdapter) Kind() types.ProviderKind {
	return types.ProviderInjectedWallet
}

// Init implements Adapter
func (a *InjectedAdapter) Init(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return fmt.Errorf("%w: adapter is closed", walleterrors.ErrProviderWrapperMethodNotFound)
	}
	if len(a.unsubscribers) == 0 {
		a.unsubscribers = []func(){
			a.wallet.On(constants.EventAccountsChanged, a.onAccountsChanged),
			a.wallet.On(constants.EventChainChanged, a.onChainChanged),
			a.wallet.On(constants.EventDisconnect, a.onDisconnect),
		}
	}
	a.mu.Unlock()

	return a.Refresh(ctx)
}

// Refresh reads chain id and accounts from the wallet and replaces the state in one step
func (a *InjectedAdapter) Refresh(ctx context.Context) error {
	var chainID hexutil.Big
	if err := a.wallet.CallContext(ctx, &chainID, constants.MethodChainID); err != nil {
		return walleterrors.Normalize(err)
	}

	var accounts []string
	if err := a.wallet.CallContext(ctx, &accounts, constants.MethodAccounts); err != nil {
		return walleterrors.Normalize(err)
	}

	a.state.set(a.newState(types.CanonicalChainID(chainID.ToInt()), firstAccount(accounts)))
	return nil
}

// Connect implements Adapter
func (a *InjectedAdapter) Connect(ctx context.Context) error {
	var accounts []string
	if err := a.wallet.CallContext(ctx, &accounts, constants.MethodRequestAccounts); err != nil {
		return walleterrors.Normalize(err)
	}
	return a.Refresh(ctx)
}

// Disconnect implements Adapter
func (a *InjectedAdapter) Disconnect() {
	a.state.update(func(s types.ConnectionState) types.ConnectionState {
		s.SelectedAddress = ""
		return s
	})
}

// SwitchChain implements Adapter
func (a *InjectedAdapter) SwitchChain(ctx context.Context, chainID types.ChainID) error {
	params, err := evm.NewSwitchChainParams(chainID)
	if err != nil {
		return err
	}

	if err := a.wallet.CallContext(ctx, nil, constants.MethodSwitchChain, params); err != nil {
		a.logger.Warn("wallet refused chain switch", "chainID", chainID, "error", err)
		return walleterrors.Normalize(err)
	}
	return a.Refresh(ctx)
}

// AddChain implements Adapter
func (a *InjectedAdapter) AddChain(ctx context.Context, chainID types.ChainID, name, rpcURL string) error {
	params, err := evm.NewAddChainParams(chainID, name, rpcURL, a.registry.Describe(chainID))
	if err != nil {
		return err
	}

	if err := a.wallet.CallContext(ctx, nil, constants.MethodAddChain, params); err != nil {
		return walleterrors.Normalize(err)
	}
	return nil
}

// State implements Adapter
func (a *InjectedAdapter) State() types.ConnectionState {
	return a.state.get()
}

// Subscribe implements Adapter
func (a *InjectedAdapter) Subscribe(fn func(types.ConnectionState)) func() {
	return a.state.subscribe(fn)
}

// Endpoint implements Adapter
// Reads go through the wallet's own transport
func (a *InjectedAdapter) Endpoint() chains.Endpoint {
	return evm.NewCallerEndpoint(a.wallet)
}

// Signer implements Adapter
func (a *InjectedAdapter) Signer() chains.Signer {
	address := a.state.get().SelectedAddress
	if address == "" {
		return nil
	}
	return evm.NewWalletSigner(a.wallet, address)
}

// Close implements Adapter
func (a *InjectedAdapter) Close() {
	a.mu.Lock()
	unsubscribers := a.unsubscribers
	a.unsubscribers = nil
	a.closed = true
	a.mu.Unlock()

	for _, unsubscribe := range unsubscribers {
		unsubscribe()
	}
	a.state.close()
}

func (a *InjectedAdapter) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

func (a *InjectedAdapter) onAccountsChanged(payload any) {
	if a.isClosed() {
		return
	}

	accounts, ok := payload.([]string)
	if !ok {
		a.refreshInBackground("unexpected accountsChanged payload")
		return
	}

	a.state.update(func(s types.ConnectionState) types.ConnectionState {
		s.SelectedAddress = firstAccount(accounts)
		return s
	})
}

func (a *InjectedAdapter) onChainChanged(payload any) {
	if a.isClosed() {
		return
	}

	chainID := types.CanonicalChainID(payload)
	if chainID == "" {
		a.refreshInBackground("unexpected chainChanged payload")
		return
	}

	// Same chain is a no-op: the state comparison drops the update
	a.state.update(func(s types.ConnectionState) types.ConnectionState {
		return a.newState(chainID, s.SelectedAddress)
	})
}

func (a *InjectedAdapter) onDisconnect(payload any) {
	if a.isClosed() {
		return
	}
	a.logger.Info("wallet disconnected", "reason", payload)
	a.Disconnect()
}

func (a *InjectedAdapter) refreshInBackground(reason string) {
	a.logger.Debug("refreshing wallet state", "reason", reason)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.CallContractTimeout)
		defer cancel()
		if err := a.Refresh(ctx); err != nil {
			a.logger.Warn("wallet state refresh failed", "error", err)
		}
	}()
}

func (a *InjectedAdapter) newState(chainID types.ChainID, address string) types.ConnectionState {
	return types.ConnectionState{
		ChainID:         chainID,
		SelectedAddress: address,
		ChainAvailable:  a.registry.IsAvailable(chainID),
	}
}

func firstAccount(accounts []string) string {
	if len(accounts) == 0 {
		return ""
	}
	return accounts[0]
}
