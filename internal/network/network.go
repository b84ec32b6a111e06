// Package network maps the supported network names to their RPC endpoints and
// block time assumptions. Names match the ones used by the CoW back-end API.
package network

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrUnsupportedNetwork is returned for names that are not registered.
var ErrUnsupportedNetwork = errors.New("unsupported network")

// Network describes one chain the report can run against.
type Network struct {
	Name string
	// ChainID is the EIP-155 chain id the RPC endpoint must report.
	ChainID uint64
	// RPCURL is the default public JSON-RPC endpoint, see https://chainlist.org/.
	RPCURL string
	// BlockTime is the assumed average time between blocks.
	BlockTime time.Duration
}

// Registry holds registered networks in registration order.
type Registry struct {
	mu       sync.RWMutex
	networks map[string]Network
	names    []string
}

func NewRegistry() *Registry {
	return &Registry{networks: make(map[string]Network)}
}

// Register adds a network. Names must be unique.
func (r *Registry) Register(n Network) error {
	if n.Name == "" {
		return fmt.Errorf("network name is required")
	}
	if n.BlockTime <= 0 {
		return fmt.Errorf("network %q: block time must be positive", n.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.networks[n.Name]; exists {
		return fmt.Errorf("network %q already registered", n.Name)
	}
	r.networks[n.Name] = n
	r.names = append(r.names, n.Name)
	return nil
}

// Lookup returns the network registered under name.
func (r *Registry) Lookup(name string) (Network, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.networks[name]
	if !ok {
		return Network{}, fmt.Errorf("%w %q, must be one of: %s", ErrUnsupportedNetwork, name, strings.Join(r.names, ", "))
	}
	return n, nil
}

// Names returns the registered network names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Default returns a registry with every supported network.
func Default() *Registry {
	r := NewRegistry()
	for _, n := range []Network{
		// https://mevblocker.io/#rpc
		{Name: "mainnet", ChainID: 1, RPCURL: "https://rpc.mevblocker.io", BlockTime: 12 * time.Second},
		// https://docs.gnosischain.com/tools/rpc/
		{Name: "xdai", ChainID: 100, RPCURL: "https://rpc.gnosischain.com", BlockTime: 5 * time.Second},
		{Name: "sepolia", ChainID: 11155111, RPCURL: "https://ethereum-sepolia.publicnode.com", BlockTime: 12 * time.Second},
		{Name: "arbitrum_one", ChainID: 42161, RPCURL: "https://arbitrum-one-rpc.publicnode.com", BlockTime: 250 * time.Millisecond},
		{Name: "base", ChainID: 8453, RPCURL: "https://base.llamarpc.com", BlockTime: 2 * time.Second},
	} {
		if err := r.Register(n); err != nil {
			panic(err)
		}
	}
	return r
}
