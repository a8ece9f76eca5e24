package chains

import (
	"sort"
	"sync"

	"github.com/sigweihq/web3provider/pkg/types"
)

// Registry answers which chains are known and which of them the application is allowed to use
type Registry struct {
	descriptors map[types.ChainID]types.ChainDescriptor
	available   []types.ChainID
	endpoints   map[types.ChainID][]string // failover RPC URLs beyond the descriptor's own
	mu          sync.RWMutex
}

// NewRegistry creates a registry from static descriptors and the configured available chains
// The order of available is kept: the first entry is the default chain
func NewRegistry(descriptors []types.ChainDescriptor, available []types.ChainID) *Registry {
	r := &Registry{
		descriptors: make(map[types.ChainID]types.ChainDescriptor, len(descriptors)),
		available:   make([]types.ChainID, 0, len(available)),
		endpoints:   make(map[types.ChainID][]string),
	}
	for _, d := range descriptors {
		d.ID = types.CanonicalChainID(d.ID)
		r.descriptors[d.ID] = d
	}
	for _, id := range available {
		if id = types.CanonicalChainID(id); id != "" {
			r.available = append(r.available, id)
		}
	}
	return r
}

// Register adds or replaces a chain descriptor (idempotent)
func (r *Registry) Register(descriptor types.ChainDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.ID = types.CanonicalChainID(descriptor.ID)
	r.descriptors[descriptor.ID] = descriptor
}

// Describe returns the descriptor of a chain, or the empty descriptor for unknown chains
func (r *Registry) Describe(id any) types.ChainDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.descriptors[types.CanonicalChainID(id)]
	if !exists {
		return types.EmptyChain()
	}
	return d
}

// IsAvailable checks if a chain is in the configured available chains
func (r *Registry) IsAvailable(id any) bool {
	canonical := types.CanonicalChainID(id)
	if canonical == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, available := range r.available {
		if available == canonical {
			return true
		}
	}
	return false
}

// AvailableChains returns the configured available chains in configuration order
func (r *Registry) AvailableChains() []types.ChainID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.ChainID, len(r.available))
	copy(out, r.available)
	return out
}

// DefaultChain returns the first configured available chain
func (r *Registry) DefaultChain() (types.ChainID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.available) == 0 {
		return "", false
	}
	return r.available[0], true
}

// All returns every registered descriptor sorted by chain id
func (r *Registry) All() []types.ChainDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.ChainDescriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetEndpoints sets the failover RPC URLs of a chain
func (r *Registry) SetEndpoints(id any, urls []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.endpoints[types.CanonicalChainID(id)] = append([]string(nil), urls...)
}

// Endpoints returns the RPC URLs of a chain, the descriptor's URL first
func (r *Registry) Endpoints(id any) []string {
	canonical := types.CanonicalChainID(id)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	if d, ok := r.descriptors[canonical]; ok && d.RPCURL != "" {
		out = append(out, d.RPCURL)
	}
	for _, url := range r.endpoints[canonical] {
		if !containsString(out, url) {
			out = append(out, url)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
