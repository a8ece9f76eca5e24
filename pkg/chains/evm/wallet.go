package evm

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
)

// WalletProvider is an injected wallet: a JSON-RPC transport plus wallet event notifications
// Events are constants.EventAccountsChanged ([]string), EventChainChanged (types.ChainID)
// and EventDisconnect (error)
type WalletProvider interface {
	Caller

	// On registers an event handler and returns a function that removes it
	On(event string, handler func(payload any)) (unsubscribe func())
}

// WalletBridge exposes a wallet reachable over JSON-RPC (ws, http or ipc) as a WalletProvider
// The transport has no push notifications, so account and chain changes are detected by polling
type WalletBridge struct {
	client   *rpc.Client
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	listeners map[string]map[uint64]func(any)
	nextID    uint64
	primed    bool
	chainID   types.ChainID
	accounts  []string
	lost      bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// BridgeOption configures a WalletBridge
type BridgeOption func(*WalletBridge)

// WithPollInterval sets the interval between state polls
func WithPollInterval(interval time.Duration) BridgeOption {
	return func(b *WalletBridge) {
		if interval > 0 {
			b.interval = interval
		}
	}
}

// WithBridgeLogger sets the bridge logger
func WithBridgeLogger(logger *slog.Logger) BridgeOption {
	return func(b *WalletBridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// DialWalletBridge connects to a wallet JSON-RPC endpoint
func DialWalletBridge(ctx context.Context, url string, opts ...BridgeOption) (*WalletBridge, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, &RPCError{Endpoint: url, Err: err}
	}
	return NewWalletBridge(client, opts...), nil
}

// NewWalletBridge wraps an existing rpc client
func NewWalletBridge(client *rpc.Client, opts ...BridgeOption) *WalletBridge {
	b := &WalletBridge{
		client:    client,
		interval:  constants.WalletPollInterval,
		logger:    slog.Default(),
		listeners: make(map[string]map[uint64]func(any)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ WalletProvider = (*WalletBridge)(nil)

// CallContext implements Caller
func (b *WalletBridge) CallContext(ctx context.Context, result any, method string, args ...any) error {
	return b.client.CallContext(ctx, result, method, args...)
}

// On implements WalletProvider
func (b *WalletBridge) On(event string, handler func(payload any)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.listeners[event] == nil {
		b.listeners[event] = make(map[uint64]func(any))
	}
	b.listeners[event][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners[event], id)
	}
}

// Start begins polling the wallet in the background until ctx is done or Close is called
func (b *WalletBridge) Start(ctx context.Context) {
	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})
	b.mu.Unlock()

	go func() {
		defer close(b.done)

		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			b.Poll(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Poll queries chain id and accounts once and emits events for whatever changed
// The first successful poll only records the baseline
func (b *WalletBridge) Poll(ctx context.Context) {
	var chainID hexutil.Big
	var accounts []common.Address

	batch := []rpc.BatchElem{
		{Method: constants.MethodChainID, Result: &chainID},
		{Method: constants.MethodAccounts, Result: &accounts},
	}
	err := b.client.BatchCallContext(ctx, batch)
	if err == nil {
		err = batch[0].Error
	}
	if err == nil {
		err = batch[1].Error
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		b.markLost(err)
		return
	}

	current := types.CanonicalChainID(chainID.ToInt())
	addresses := make([]string, len(accounts))
	for i, a := range accounts {
		addresses[i] = a.Hex()
	}

	b.mu.Lock()
	primed := b.primed
	chainChanged := primed && current != b.chainID
	accountsChanged := primed && !slices.EqualFunc(addresses, b.accounts, strings.EqualFold)
	b.primed = true
	b.lost = false
	b.chainID = current
	b.accounts = addresses
	b.mu.Unlock()

	if chainChanged {
		b.emit(constants.EventChainChanged, current)
	}
	if accountsChanged {
		b.emit(constants.EventAccountsChanged, addresses)
	}
}

func (b *WalletBridge) markLost(err error) {
	b.mu.Lock()
	alreadyLost := b.lost
	b.lost = true
	b.mu.Unlock()

	if alreadyLost {
		return
	}
	b.logger.Warn("wallet bridge poll failed", "error", err)
	b.emit(constants.EventDisconnect, err)
}

func (b *WalletBridge) emit(event string, payload any) {
	b.mu.Lock()
	handlers := make([]func(any), 0, len(b.listeners[event]))
	for _, h := range b.listeners[event] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

// Close stops polling and closes the transport
func (b *WalletBridge) Close() {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	b.client.Close()
}
