package provider

import (
	"context"

	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/types"
)

// Adapter is the common surface of every provider kind
// Exactly one adapter is active in an Orchestrator at a time
type Adapter interface {
	// Kind returns the provider kind the adapter was built for
	Kind() types.ProviderKind

	// Init subscribes to provider events and loads the initial state
	Init(ctx context.Context) error

	// Connect requests account access; may block until the user answers in the wallet
	Connect(ctx context.Context) error

	// Disconnect forgets the selected account without revoking wallet permissions
	Disconnect()

	// SwitchChain moves the provider to another chain; on failure the state is unchanged
	SwitchChain(ctx context.Context, chainID types.ChainID) error

	// AddChain asks the wallet to register a new network
	AddChain(ctx context.Context, chainID types.ChainID, name, rpcURL string) error

	// State returns the current connection state
	State() types.ConnectionState

	// Subscribe registers fn for every state change and returns a function that removes it
	Subscribe(fn func(types.ConnectionState)) (unsubscribe func())

	// Endpoint returns a read client for the current chain, nil before Init
	Endpoint() chains.Endpoint

	// Signer returns a signer bound to the selected account, nil without one
	Signer() chains.Signer

	// Close drops all provider event subscriptions; events arriving afterwards are ignored
	Close()
}
