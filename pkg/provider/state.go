package provider

import (
	"sync"

	"github.com/sigweihq/web3provider/pkg/types"
)

// observable holds a ConnectionState and fans out changes to subscribers
// The state is always replaced as a whole
//
// Subscribers see states in commit order. Whichever caller finds the queue
// idle drains it; concurrent or re-entrant commits only enqueue, so a
// subscriber that sets state again is called back after it returns.
type observable struct {
	mu          sync.Mutex
	state       types.ConnectionState
	subscribers map[uint64]func(types.ConnectionState)
	nextID      uint64
	closed      bool

	pending    []types.ConnectionState
	delivering bool
}

func (o *observable) get() types.ConnectionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// set replaces the state and notifies subscribers when it changed
func (o *observable) set(state types.ConnectionState) {
	o.setIf(nil, state)
}

// update derives the next state from the current one under the lock
func (o *observable) update(fn func(types.ConnectionState) types.ConnectionState) {
	o.mu.Lock()
	drain := o.replaceLocked(fn(o.state))
	o.mu.Unlock()

	if drain {
		o.drain()
	}
}

// setIf replaces the state only when cond holds; cond runs under the lock
func (o *observable) setIf(cond func() bool, state types.ConnectionState) bool {
	o.mu.Lock()
	if cond != nil && !cond() {
		o.mu.Unlock()
		return false
	}
	drain := o.replaceLocked(state)
	o.mu.Unlock()

	if drain {
		o.drain()
	}
	return true
}

// replaceLocked commits the state and queues it for delivery
// It reports whether the caller has to drain the queue
func (o *observable) replaceLocked(state types.ConnectionState) bool {
	if o.closed || o.state == state {
		return false
	}
	o.state = state
	o.pending = append(o.pending, state)
	if o.delivering {
		return false
	}
	o.delivering = true
	return true
}

func (o *observable) drain() {
	for {
		o.mu.Lock()
		if len(o.pending) == 0 {
			o.delivering = false
			o.mu.Unlock()
			return
		}
		state := o.pending[0]
		o.pending = o.pending[1:]
		subscribers := make([]func(types.ConnectionState), 0, len(o.subscribers))
		for _, fn := range o.subscribers {
			subscribers = append(subscribers, fn)
		}
		o.mu.Unlock()

		for _, fn := range subscribers {
			fn(state)
		}
	}
}

func (o *observable) subscribe(fn func(types.ConnectionState)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.subscribers == nil {
		o.subscribers = make(map[uint64]func(types.ConnectionState))
	}
	o.nextID++
	id := o.nextID
	o.subscribers[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subscribers, id)
	}
}

// close freezes the state and drops every subscriber and undelivered state
func (o *observable) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.subscribers = nil
	o.pending = nil
}
