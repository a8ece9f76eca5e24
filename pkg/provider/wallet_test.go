package provider

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sigweihq/web3provider/pkg/chains/evm"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

const testAddress = "0x00000000000000000000000000000000000000Aa"

// fakeWallet is an in-memory injected wallet
type fakeWallet struct {
	mu            sync.Mutex
	chainID       uint64
	accounts      []string
	authorized    bool
	rejectConnect bool
	switchErr     error
	added         []evm.AddChainParams
	calls         []string
	listeners     map[string]map[int]func(any)
	nextID        int
}

func newFakeWallet(chainID uint64) *fakeWallet {
	return &fakeWallet{
		chainID:   chainID,
		accounts:  []string{testAddress},
		listeners: make(map[string]map[int]func(any)),
	}
}

var _ evm.WalletProvider = (*fakeWallet)(nil)

func (w *fakeWallet) CallContext(ctx context.Context, result any, method string, args ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, method)

	switch method {
	case constants.MethodChainID:
		(*big.Int)(result.(*hexutil.Big)).SetUint64(w.chainID)
	case constants.MethodAccounts:
		if w.authorized {
			*result.(*[]string) = append([]string(nil), w.accounts...)
		} else {
			*result.(*[]string) = nil
		}
	case constants.MethodRequestAccounts:
		if w.rejectConnect {
			return &walleterrors.CodedError{Code: walleterrors.CodeUserRejectedRequest, Message: "User rejected the request."}
		}
		w.authorized = true
		*result.(*[]string) = append([]string(nil), w.accounts...)
	case constants.MethodSwitchChain:
		if w.switchErr != nil {
			return w.switchErr
		}
		id, err := hexutil.DecodeUint64(args[0].(evm.SwitchChainParams).ChainID)
		if err != nil {
			return err
		}
		w.chainID = id
	case constants.MethodAddChain:
		w.added = append(w.added, args[0].(evm.AddChainParams))
	default:
		return &walleterrors.CodedError{Code: walleterrors.CodeMethodNotFound, Message: fmt.Sprintf("method %s not found", method)}
	}
	return nil
}

func (w *fakeWallet) On(event string, handler func(any)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	id := w.nextID
	if w.listeners[event] == nil {
		w.listeners[event] = make(map[int]func(any))
	}
	w.listeners[event][id] = handler

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.listeners[event], id)
	}
}

// emit delivers an event the way a wallet would, outside the wallet lock
func (w *fakeWallet) emit(event string, payload any) {
	w.mu.Lock()
	var handlers []func(any)
	for _, h := range w.listeners[event] {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (w *fakeWallet) listenerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for _, handlers := range w.listeners {
		n += len(handlers)
	}
	return n
}

func (w *fakeWallet) setChain(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chainID = id
}
