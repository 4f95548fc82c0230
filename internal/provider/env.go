package provider

import (
	"fmt"

	"github.com/Mohsinsiddi/w3go/internal/config"
)

// FromEnv creates a Provider from the RPC URL environment variables
// (RPC_URL, WEB3_PROVIDER_URI, ETH_RPC_URL, in priority order). Unlike Auto
// it never falls back to a public endpoint: an empty environment is an error.
func FromEnv(network string, opts ...ProviderOption) (*Provider, error) {
	urls, source, err := config.ResolveRPCURLs(nil, network)
	if err != nil {
		return nil, err
	}
	if source == "default" {
		return nil, fmt.Errorf("%w: no RPC URL in environment", config.ErrConfigurationMissing)
	}
	return ForNetwork(network, urls, opts...)
}

// Auto resolves the endpoint like FromEnv but falls back to the network's
// built-in public RPC when the environment names none.
func Auto(network string, opts ...ProviderOption) (*Provider, error) {
	urls, _, err := config.ResolveRPCURLs(nil, network)
	if err != nil {
		return nil, err
	}
	return ForNetwork(network, urls, opts...)
}

// Local creates a Provider for a local development node (Hardhat, Anvil).
// A zero port means the conventional 8545.
func Local(port int, opts ...ProviderOption) (*Provider, error) {
	return ForNetwork("local", []string{LocalURL(port)}, opts...)
}
