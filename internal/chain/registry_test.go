package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetByName(t *testing.T) {
	r := NewRegistry()

	eth, err := r.GetByName("ethereum")
	require.NoError(t, err)
	assert.Equal(t, int64(1), eth.ChainID)
	assert.False(t, eth.PoA)

	// Lookup is case-insensitive.
	base, err := r.GetByName("Base")
	require.NoError(t, err)
	assert.Equal(t, int64(8453), base.ChainID)

	_, err = r.GetByName("dogecoin")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestRegistryGetByChainID(t *testing.T) {
	r := NewRegistry()

	polygon, err := r.GetByChainID(137)
	require.NoError(t, err)
	assert.Equal(t, "polygon", polygon.Name)

	_, err = r.GetByChainID(999999)
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestPoAFlags(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"polygon", "bsc"} {
		n, err := r.GetByName(name)
		require.NoError(t, err)
		assert.True(t, n.PoA, "%s must be flagged PoA", name)
	}
	for _, name := range []string{"ethereum", "arbitrum", "optimism", "base"} {
		n, err := r.GetByName(name)
		require.NoError(t, err)
		assert.False(t, n.PoA, "%s must not be flagged PoA", name)
	}
}

func TestEveryNetworkHasDefaultRPC(t *testing.T) {
	for _, n := range NewRegistry().All() {
		assert.NotEmpty(t, n.DefaultRPC, "network %s", n.Name)
		assert.NotZero(t, n.ChainID, "network %s", n.Name)
	}
}

func TestExplorerURLs(t *testing.T) {
	r := NewRegistry()
	eth, err := r.GetByName("ethereum")
	require.NoError(t, err)

	assert.Equal(t, "https://etherscan.io/tx/0xabc", eth.TxURL("0xabc"))
	assert.Equal(t, "https://etherscan.io/address/0xdef", eth.AddressURL("0xdef"))

	local, err := r.GetByName("local")
	require.NoError(t, err)
	assert.Empty(t, local.TxURL("0xabc"))
}

func TestKindForURL(t *testing.T) {
	assert.Equal(t, TransportHTTP, KindForURL("https://rpc.example.org"))
	assert.Equal(t, TransportHTTP, KindForURL("http://127.0.0.1:8545"))
	assert.Equal(t, TransportWS, KindForURL("ws://127.0.0.1:8546"))
	assert.Equal(t, TransportWS, KindForURL("wss://rpc.example.org"))
}
