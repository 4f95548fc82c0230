package chain

import (
	"errors"
	"strings"
)

// ErrNetworkNotFound is returned when a network is not in the registry.
var ErrNetworkNotFound = errors.New("network not found")

// Network holds the metadata for one supported chain.
type Network struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	ChainID        int64  `json:"chain_id"`
	NativeCurrency string `json:"native_currency"`
	DefaultRPC     string `json:"default_rpc"` // public, rate-limited fallback
	Explorer       string `json:"explorer"`
	PoA            bool   `json:"poa"` // needs proof-of-authority header compatibility
}

// Registry indexes the supported networks.
type Registry struct {
	networks []Network
	byName   map[string]*Network
	byID     map[int64]*Network
}

// NewRegistry returns the registry of all supported networks.
func NewRegistry() *Registry {
	networks := allNetworks()
	r := &Registry{
		networks: networks,
		byName:   make(map[string]*Network, len(networks)),
		byID:     make(map[int64]*Network, len(networks)),
	}
	for i := range r.networks {
		n := &r.networks[i]
		r.byName[n.Name] = n
		if n.ChainID != 0 {
			r.byID[n.ChainID] = n
		}
	}
	return r
}

// All returns every network in the registry.
func (r *Registry) All() []Network {
	return r.networks
}

// GetByName finds a network by its slug name (e.g. "base", "ethereum").
func (r *Registry) GetByName(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// GetByChainID finds a network by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// TxURL returns the explorer URL for a transaction hash.
func (n *Network) TxURL(hash string) string {
	if n.Explorer == "" {
		return ""
	}
	return n.Explorer + "/tx/" + hash
}

// AddressURL returns the explorer URL for an address.
func (n *Network) AddressURL(addr string) string {
	if n.Explorer == "" {
		return ""
	}
	return n.Explorer + "/address/" + addr
}

func allNetworks() []Network {
	return []Network{
		{
			Name:           "ethereum",
			DisplayName:    "Ethereum",
			ChainID:        1,
			NativeCurrency: "ETH",
			DefaultRPC:     "https://ethereum-rpc.publicnode.com",
			Explorer:       "https://etherscan.io",
		},
		{
			Name:           "sepolia",
			DisplayName:    "Ethereum Sepolia",
			ChainID:        11155111,
			NativeCurrency: "ETH",
			DefaultRPC:     "https://ethereum-sepolia-rpc.publicnode.com",
			Explorer:       "https://sepolia.etherscan.io",
		},
		{
			Name:           "polygon",
			DisplayName:    "Polygon",
			ChainID:        137,
			NativeCurrency: "POL",
			DefaultRPC:     "https://polygon-bor-rpc.publicnode.com",
			Explorer:       "https://polygonscan.com",
			PoA:            true,
		},
		{
			Name:           "arbitrum",
			DisplayName:    "Arbitrum One",
			ChainID:        42161,
			NativeCurrency: "ETH",
			DefaultRPC:     "https://arbitrum-one-rpc.publicnode.com",
			Explorer:       "https://arbiscan.io",
		},
		{
			Name:           "optimism",
			DisplayName:    "Optimism",
			ChainID:        10,
			NativeCurrency: "ETH",
			DefaultRPC:     "https://optimism-rpc.publicnode.com",
			Explorer:       "https://optimistic.etherscan.io",
		},
		{
			Name:           "base",
			DisplayName:    "Base",
			ChainID:        8453,
			NativeCurrency: "ETH",
			DefaultRPC:     "https://base-rpc.publicnode.com",
			Explorer:       "https://basescan.org",
		},
		{
			Name:           "bsc",
			DisplayName:    "BNB Smart Chain",
			ChainID:        56,
			NativeCurrency: "BNB",
			DefaultRPC:     "https://bsc-rpc.publicnode.com",
			Explorer:       "https://bscscan.com",
			PoA:            true,
		},
		{
			Name:           "avalanche",
			DisplayName:    "Avalanche C-Chain",
			ChainID:        43114,
			NativeCurrency: "AVAX",
			DefaultRPC:     "https://avalanche-c-chain-rpc.publicnode.com",
			Explorer:       "https://snowtrace.io",
		},
		{
			Name:           "local",
			DisplayName:    "Local Node",
			ChainID:        31337,
			NativeCurrency: "ETH",
			DefaultRPC:     "http://127.0.0.1:8545",
		},
	}
}
