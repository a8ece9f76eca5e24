package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/chains/evm"
	"github.com/sigweihq/web3provider/pkg/notify"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

// Orchestrator owns the single active provider adapter and republishes its state
//
// Requests are not fenced: when two SwitchChain or Connect calls overlap, the state
// reflects whichever provider refresh resolved last. Subscribers receive states in
// the order they were committed, so the last delivery always matches State().
type Orchestrator struct {
	registry  *chains.Registry
	logger    *slog.Logger
	factory   EndpointFactory
	notifier  notify.Notifier
	localizer *notify.Localizer

	mu          sync.RWMutex
	active      Adapter
	unsubscribe func()
	providers   []types.DesignatedProvider

	// generation identifies the active adapter; callbacks carrying an older value are dropped
	generation atomic.Uint64
	state      observable
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEndpointFactory sets how RPC-only adapters build their read clients
func WithEndpointFactory(factory EndpointFactory) Option {
	return func(o *Orchestrator) {
		if factory != nil {
			o.factory = factory
		}
	}
}

// WithNotifier sets where wallet connection failures are reported
func WithNotifier(notifier notify.Notifier) Option {
	return func(o *Orchestrator) {
		if notifier != nil {
			o.notifier = notifier
		}
	}
}

// WithLocalizer sets the catalog used for user-facing messages
func WithLocalizer(localizer *notify.Localizer) Option {
	return func(o *Orchestrator) {
		if localizer != nil {
			o.localizer = localizer
		}
	}
}

// NewOrchestrator creates an orchestrator with no active adapter
func NewOrchestrator(registry *chains.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:  registry,
		logger:    slog.Default(),
		factory:   DefaultEndpointFactory,
		notifier:  notify.Discard,
		localizer: notify.English(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry returns the chain registry the orchestrator was built with
func (o *Orchestrator) Registry() *chains.Registry {
	return o.registry
}

// SelectAndInit replaces the active adapter with one built for the designated provider
// The previous adapter is torn down before the new one is initialized
func (o *Orchestrator) SelectAndInit(ctx context.Context, designated types.DesignatedProvider) error {
	adapter, err := o.newAdapter(designated)
	if err != nil {
		o.logger.Error("unsupported provider", "kind", designated.Kind, "error", err)
		return err
	}

	o.mu.Lock()
	previous, previousUnsubscribe := o.active, o.unsubscribe
	generation := o.generation.Add(1)
	o.active = adapter
	o.unsubscribe = adapter.Subscribe(func(state types.ConnectionState) {
		o.publish(generation, state)
	})
	o.mu.Unlock()

	if previousUnsubscribe != nil {
		previousUnsubscribe()
	}
	if previous != nil {
		previous.Close()
	}
	o.publish(generation, adapter.State())

	o.logger.Info("provider selected", "kind", designated.Kind)
	err = adapter.Init(ctx)
	o.publish(generation, adapter.State())
	if err != nil {
		return fmt.Errorf("failed to initialize %s provider: %w", designated.Kind, err)
	}
	return nil
}

// newAdapter constructs the adapter variant for the provider kind
func (o *Orchestrator) newAdapter(designated types.DesignatedProvider) (Adapter, error) {
	switch designated.Kind {
	case types.ProviderInjectedWallet:
		wallet, ok := designated.Instance.(evm.WalletProvider)
		if !ok {
			return nil, fmt.Errorf("%w: %s instance %T is not a wallet provider",
				walleterrors.ErrProviderNotSupported, designated.Kind, designated.Instance)
		}
		return NewInjectedAdapter(wallet, o.registry, o.logger), nil
	case types.ProviderRPC:
		factory := o.factory
		if f, ok := designated.Instance.(EndpointFactory); ok && f != nil {
			factory = f
		}
		return NewRPCAdapter(o.registry, factory, o.logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", walleterrors.ErrProviderNotSupported, designated.Kind)
	}
}

// publish forwards a state from the adapter of the given generation
func (o *Orchestrator) publish(generation uint64, state types.ConnectionState) {
	accepted := o.state.setIf(func() bool {
		return o.generation.Load() == generation
	}, state)
	if !accepted {
		o.logger.Debug("dropped state from superseded provider", "generation", generation)
	}
}

func (o *Orchestrator) adapter() (Adapter, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.active == nil {
		return nil, fmt.Errorf("%w: no active provider", walleterrors.ErrProviderWrapperMethodNotFound)
	}
	return o.active, nil
}

// Connect requests account access from the active provider
func (o *Orchestrator) Connect(ctx context.Context) error {
	a, err := o.adapter()
	if err != nil {
		return err
	}
	return a.Connect(ctx)
}

// Disconnect forgets the selected account of the active provider
func (o *Orchestrator) Disconnect() error {
	a, err := o.adapter()
	if err != nil {
		return err
	}
	a.Disconnect()
	return nil
}

// SwitchChain asks the active provider to move to another chain
func (o *Orchestrator) SwitchChain(ctx context.Context, chainID any) error {
	a, err := o.adapter()
	if err != nil {
		return err
	}
	return a.SwitchChain(ctx, types.CanonicalChainID(chainID))
}

// AddChain asks the active provider to register a network
func (o *Orchestrator) AddChain(ctx context.Context, chainID any, name, rpcURL string) error {
	a, err := o.adapter()
	if err != nil {
		return err
	}
	return a.AddChain(ctx, types.CanonicalChainID(chainID), name, rpcURL)
}

// EnsureAvailableChain switches to the default chain when the current one is not available
func (o *Orchestrator) EnsureAvailableChain(ctx context.Context) error {
	a, err := o.adapter()
	if err != nil {
		return err
	}

	state := a.State()
	if state.ChainID != "" && o.registry.IsAvailable(state.ChainID) {
		return nil
	}

	target, ok := o.registry.DefaultChain()
	if !ok {
		return fmt.Errorf("%w: no available chains configured", walleterrors.ErrProviderChainInvalid)
	}

	if err := a.SwitchChain(ctx, target); err != nil {
		return fmt.Errorf("%w: switch to %s: %w", walleterrors.ErrProviderChainInvalid, target, err)
	}
	return nil
}

// TxURL returns the explorer link of a transaction on the current chain
func (o *Orchestrator) TxURL(txHash string) (string, error) {
	explorer, err := o.explorerURL()
	if err != nil {
		return "", err
	}
	return chains.TxURL(explorer, txHash), nil
}

// AddressURL returns the explorer link of an address on the current chain
func (o *Orchestrator) AddressURL(address string) (string, error) {
	explorer, err := o.explorerURL()
	if err != nil {
		return "", err
	}
	return chains.AddressURL(explorer, address), nil
}

func (o *Orchestrator) explorerURL() (string, error) {
	a, err := o.adapter()
	if err != nil {
		return "", err
	}

	chainID := a.State().ChainID
	if chainID == "" {
		return "", fmt.Errorf("%w: no active chain", walleterrors.ErrProviderChainNotFound)
	}

	descriptor := o.registry.Describe(chainID)
	if descriptor.ExplorerURL == "" {
		return "", fmt.Errorf("%w: no explorer URL for chain %s", walleterrors.ErrProviderChainNotFound, chainID)
	}
	return descriptor.ExplorerURL, nil
}

// State returns the state of the active provider
func (o *Orchestrator) State() types.ConnectionState {
	return o.state.get()
}

// Subscribe registers fn for state changes of whichever provider is active
func (o *Orchestrator) Subscribe(fn func(types.ConnectionState)) func() {
	return o.state.subscribe(fn)
}

// IsConnected reports whether an account is selected on an available chain
func (o *Orchestrator) IsConnected() bool {
	return o.State().IsConnected()
}

// IsCurrentChainAvailable reports whether the current chain is one of the available chains
func (o *Orchestrator) IsCurrentChainAvailable() bool {
	return o.State().ChainAvailable
}

// SelectedKind returns the kind of the active provider, empty without one
func (o *Orchestrator) SelectedKind() types.ProviderKind {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.active == nil {
		return ""
	}
	return o.active.Kind()
}

// Endpoint returns the read client of the active provider, nil without one
func (o *Orchestrator) Endpoint() chains.Endpoint {
	a, err := o.adapter()
	if err != nil {
		return nil
	}
	return a.Endpoint()
}

// Signer returns the signer of the active provider, nil without a selected account
func (o *Orchestrator) Signer() chains.Signer {
	a, err := o.adapter()
	if err != nil {
		return nil
	}
	return a.Signer()
}

// Close tears down the active adapter
func (o *Orchestrator) Close() {
	o.mu.Lock()
	active, unsubscribe := o.active, o.unsubscribe
	o.active, o.unsubscribe = nil, nil
	o.generation.Add(1)
	o.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if active != nil {
		active.Close()
	}
	o.state.set(types.ConnectionState{})
}
