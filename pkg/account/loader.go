package account

import (
	"context"
	"sync/atomic"

	"github.com/sigweihq/web3provider/pkg/types"
)

// Loader runs a load function once
// A call made while a load is running returns immediately, and after a successful
// load every call is a no-op until Reset
type Loader struct {
	loading    atomic.Bool
	loaded     atomic.Bool
	generation atomic.Uint64

	// Guard, when set, must return true for a load to start
	Guard func() bool
}

// Load runs fn unless a load is in progress, already done, or the guard refuses
// It reports whether fn ran
func (l *Loader) Load(ctx context.Context, fn func(context.Context) error) (bool, error) {
	if l.loaded.Load() {
		return false, nil
	}
	if l.Guard != nil && !l.Guard() {
		return false, nil
	}
	if !l.loading.CompareAndSwap(false, true) {
		return false, nil
	}
	defer l.loading.Store(false)

	generation := l.generation.Load()
	if err := fn(ctx); err != nil {
		return true, err
	}
	// a Reset during fn means the result is already stale
	if l.generation.Load() == generation {
		l.loaded.Store(true)
	}
	return true, nil
}

// Loaded reports whether a load has succeeded since the last Reset
func (l *Loader) Loaded() bool {
	return l.loaded.Load()
}

// Loading reports whether a load is running
func (l *Loader) Loading() bool {
	return l.loading.Load()
}

// Reset forces the next Load to run again, including when one is in flight
func (l *Loader) Reset() {
	l.generation.Add(1)
	l.loaded.Store(false)
}

// ChainGuard allows loads only while source is on an available chain
func ChainGuard(source Source) func() bool {
	return func() bool {
		state := source.State()
		return state.ChainID != "" && state.ChainAvailable
	}
}

// ResetOnChainChange resets the loader every time the chain of source changes
func ResetOnChainChange(source Source, l *Loader) func() {
	var last atomic.Value
	last.Store(source.State().ChainID)

	return source.Subscribe(func(state types.ConnectionState) {
		if previous := last.Swap(state.ChainID); previous != state.ChainID {
			l.Reset()
		}
	})
}
