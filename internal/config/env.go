package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Mohsinsiddi/w3go/internal/chain"
)

// ErrConfigurationMissing is a startup-time error: no source supplied a
// required value and no built-in fallback exists.
var ErrConfigurationMissing = errors.New("configuration missing")

// RPC URL environment variables, in priority order.
var rpcEnvVars = []string{"RPC_URL", "WEB3_PROVIDER_URI", "ETH_RPC_URL"}

// Private key environment variable.
const keyEnvVar = "WALLET_PRIVATE_KEY"

// ResolveRPCURLs returns the RPC URLs to use for a network: an explicit
// value wins, then the environment variables in priority order, then the
// network's built-in public endpoint. The source name is returned for
// diagnostics.
func ResolveRPCURLs(explicit []string, network string) (urls []string, source string, err error) {
	if len(explicit) > 0 {
		return explicit, "explicit", nil
	}

	for _, v := range rpcEnvVars {
		if url := os.Getenv(v); url != "" {
			return []string{url}, v, nil
		}
	}

	n, err := chain.NewRegistry().GetByName(network)
	if err != nil || n.DefaultRPC == "" {
		return nil, "", fmt.Errorf("%w: no RPC URL for network %q (set one of %v)", ErrConfigurationMissing, network, rpcEnvVars)
	}
	return []string{n.DefaultRPC}, "default", nil
}

// ResolvePrivateKey returns the signing key to use: an explicit value wins,
// then the environment. There is no key fallback: absence is an error, not
// a silent default.
func ResolvePrivateKey(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if key := os.Getenv(keyEnvVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: no private key (set %s)", ErrConfigurationMissing, keyEnvVar)
}
