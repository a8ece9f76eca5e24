package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/chains/evm"
	"github.com/sigweihq/web3provider/pkg/chains/svm"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

// EndpointFactory builds a read client for a chain from its descriptor and RPC URLs
type EndpointFactory func(descriptor types.ChainDescriptor, urls []string) (chains.Endpoint, error)

// DefaultEndpointFactory picks the client by chain type
func DefaultEndpointFactory(descriptor types.ChainDescriptor, urls []string) (chains.Endpoint, error) {
	switch descriptor.Type {
	case types.ChainTypeEVM:
		return evm.NewRPCClient(descriptor.ID, urls), nil
	case types.ChainTypeSolana:
		return svm.NewRPCClient(descriptor.ID, urls), nil
	default:
		return nil, fmt.Errorf("%w: chain %s has unsupported type %q", walleterrors.ErrProviderChainNotFound, descriptor.ID, descriptor.Type)
	}
}

// RPCAdapter is a read-only provider over plain JSON-RPC endpoints
// It never has an account, so it is never connected
type RPCAdapter struct {
	registry *chains.Registry
	factory  EndpointFactory
	logger   *slog.Logger
	state    observable

	mu       sync.Mutex
	endpoint chains.Endpoint
}

// NewRPCAdapter creates an RPC-only adapter; a nil factory uses DefaultEndpointFactory
func NewRPCAdapter(registry *chains.Registry, factory EndpointFactory, logger *slog.Logger) *RPCAdapter {
	if factory == nil {
		factory = DefaultEndpointFactory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RPCAdapter{
		registry: registry,
		factory:  factory,
		logger:   logger.With("provider", types.ProviderRPC),
	}
}

var _ Adapter = (*RPCAdapter)(nil)

// Kind implements Adapter
func (a *RPCAdapter) Kind() types.ProviderKind {
	return types.ProviderRPC
}

// Init implements Adapter
// The adapter starts on the first configured available chain
func (a *RPCAdapter) Init(ctx context.Context) error {
	chainID, ok := a.registry.DefaultChain()
	if !ok {
		return fmt.Errorf("%w: no available chains configured", walleterrors.ErrProviderChainNotFound)
	}
	a.useChain(chainID)
	return nil
}

// Connect implements Adapter
// There is no account to request; it only guarantees a chain is set
func (a *RPCAdapter) Connect(ctx context.Context) error {
	if a.state.get().ChainID != "" {
		return nil
	}
	return a.Init(ctx)
}

// Disconnect implements Adapter
// The chain is kept so reads keep working
func (a *RPCAdapter) Disconnect() {
	a.state.update(func(s types.ConnectionState) types.ConnectionState {
		s.SelectedAddress = ""
		return s
	})
}

// SwitchChain implements Adapter
// The switch needs no negotiation and always succeeds
func (a *RPCAdapter) SwitchChain(ctx context.Context, chainID types.ChainID) error {
	a.useChain(types.CanonicalChainID(chainID))
	return nil
}

// AddChain implements Adapter
// Plain RPC endpoints cannot register networks
func (a *RPCAdapter) AddChain(ctx context.Context, chainID types.ChainID, name, rpcURL string) error {
	return &walleterrors.ProviderError{
		Kind:    walleterrors.KindMethodNotFound,
		Code:    walleterrors.CodeMethodNotFound,
		Message: "addChain is not supported by the rpc provider",
		Err:     walleterrors.ErrProviderWrapperMethodNotFound,
	}
}

// State implements Adapter
func (a *RPCAdapter) State() types.ConnectionState {
	return a.state.get()
}

// Subscribe implements Adapter
func (a *RPCAdapter) Subscribe(fn func(types.ConnectionState)) func() {
	return a.state.subscribe(fn)
}

// Endpoint implements Adapter
func (a *RPCAdapter) Endpoint() chains.Endpoint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.endpoint
}

// Signer implements Adapter
func (a *RPCAdapter) Signer() chains.Signer {
	return nil
}

// Close implements Adapter
func (a *RPCAdapter) Close() {
	a.mu.Lock()
	endpoint := a.endpoint
	a.endpoint = nil
	a.mu.Unlock()

	if endpoint != nil {
		endpoint.Close()
	}
	a.state.close()
}

// useChain points the adapter at another chain; the previous endpoint is released
// The chain is always committed. Without a descriptor, RPC URLs or a client the
// adapter has no endpoint and readers get nil from Endpoint
func (a *RPCAdapter) useChain(chainID types.ChainID) {
	endpoint, err := a.newEndpoint(chainID)
	if err != nil {
		a.logger.Warn("no rpc endpoint for chain", "chainID", chainID, "error", err)
		endpoint = nil
	}

	a.mu.Lock()
	previous := a.endpoint
	a.endpoint = endpoint
	a.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	a.logger.Debug("rpc provider switched chain", "chainID", chainID, "endpoint", endpoint != nil)
	a.state.set(types.ConnectionState{
		ChainID:        chainID,
		ChainAvailable: a.registry.IsAvailable(chainID),
	})
}

// newEndpoint builds the read client of a chain
func (a *RPCAdapter) newEndpoint(chainID types.ChainID) (chains.Endpoint, error) {
	descriptor := a.registry.Describe(chainID)
	if descriptor.IsEmpty() {
		return nil, fmt.Errorf("%w: unknown chain %q", walleterrors.ErrProviderChainNotFound, chainID)
	}

	urls := a.registry.Endpoints(chainID)
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no RPC URL configured for chain %s", walleterrors.ErrProviderChainNotFound, chainID)
	}
	return a.factory(descriptor, urls)
}
