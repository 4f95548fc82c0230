package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearRPCEnv(t *testing.T) {
	t.Helper()
	for _, v := range rpcEnvVars {
		t.Setenv(v, "")
	}
}

func TestResolveRPCURLsExplicitWins(t *testing.T) {
	clearRPCEnv(t)
	t.Setenv("RPC_URL", "http://env:8545")

	urls, source, err := ResolveRPCURLs([]string{"http://a:8545", "http://b:8545"}, "ethereum")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a:8545", "http://b:8545"}, urls)
	assert.Equal(t, "explicit", source)
}

func TestResolveRPCURLsEnvPriority(t *testing.T) {
	clearRPCEnv(t)
	t.Setenv("ETH_RPC_URL", "http://third:8545")
	t.Setenv("WEB3_PROVIDER_URI", "http://second:8545")

	urls, source, err := ResolveRPCURLs(nil, "ethereum")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://second:8545"}, urls)
	assert.Equal(t, "WEB3_PROVIDER_URI", source)

	// RPC_URL outranks both.
	t.Setenv("RPC_URL", "http://first:8545")
	urls, source, err = ResolveRPCURLs(nil, "ethereum")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://first:8545"}, urls)
	assert.Equal(t, "RPC_URL", source)
}

func TestResolveRPCURLsNetworkDefault(t *testing.T) {
	clearRPCEnv(t)

	urls, source, err := ResolveRPCURLs(nil, "sepolia")
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Contains(t, urls[0], "sepolia")
	assert.Equal(t, "default", source)
}

func TestResolveRPCURLsUnknownNetwork(t *testing.T) {
	clearRPCEnv(t)

	_, _, err := ResolveRPCURLs(nil, "notachain")
	require.ErrorIs(t, err, ErrConfigurationMissing)
	assert.Contains(t, err.Error(), "notachain")
}

func TestResolvePrivateKey(t *testing.T) {
	t.Setenv("WALLET_PRIVATE_KEY", "")

	_, err := ResolvePrivateKey("")
	require.ErrorIs(t, err, ErrConfigurationMissing)

	t.Setenv("WALLET_PRIVATE_KEY", "envkey")
	key, err := ResolvePrivateKey("")
	require.NoError(t, err)
	assert.Equal(t, "envkey", key)

	key, err = ResolvePrivateKey("explicitkey")
	require.NoError(t, err)
	assert.Equal(t, "explicitkey", key)
}
