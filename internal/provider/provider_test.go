package provider

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/w3go/internal/chain"
)

// rpcMock creates a test HTTP server that serves a fixed JSON-RPC response
// per method. Any unknown method returns an RPC error.
func rpcMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     uint64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if result, ok := responses[req.Method]; ok {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0", "id": req.ID, "result": result,
			})
		} else {
			json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]interface{}{"code": -32601, "message": "method not found"},
			})
		}
	}))
}

func healthyServer(t *testing.T) *httptest.Server {
	t.Helper()
	return rpcMock(t, map[string]interface{}{
		"eth_blockNumber": "0x64",
		"eth_getBalance":  "0xde0b6b3a7640000",
		"eth_gasPrice":    "0x3b9aca00",
	})
}

// ---------------------------------------------------------------------------
// construction
// ---------------------------------------------------------------------------

func TestNewRequiresEndpoints(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestConstructionPerformsNoIO(t *testing.T) {
	// Unreachable endpoints must not fail construction: only Connect dials.
	p, err := NewFromURLs([]string{"http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.Equal(t, 0, p.ActiveIndex())
}

func TestNewEndpointInfersTransport(t *testing.T) {
	assert.Equal(t, chain.TransportWS, NewEndpoint("wss://node.example.org").Transport)
	assert.Equal(t, chain.TransportHTTP, NewEndpoint("https://node.example.org").Transport)
}

// ---------------------------------------------------------------------------
// failover
// ---------------------------------------------------------------------------

func TestConnectFailsOverToLastEndpoint(t *testing.T) {
	good := healthyServer(t)
	defer good.Close()

	p, err := NewFromURLs([]string{"http://127.0.0.1:1", "http://127.0.0.1:2", good.URL})
	require.NoError(t, err)

	require.NoError(t, p.Connect())
	assert.Equal(t, 2, p.ActiveIndex(), "must land on the last (working) endpoint")
	assert.Equal(t, good.URL, p.ActiveURL())
}

func TestConnectExhaustsEndpoints(t *testing.T) {
	p, err := NewFromURLs([]string{"http://127.0.0.1:1", "http://127.0.0.1:2"})
	require.NoError(t, err)

	err = p.Connect()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhaustedEndpoints)
	// The failing endpoint identity must be diagnosable from the error.
	assert.Contains(t, err.Error(), "127.0.0.1:2")
}

func TestBadSchemeThenGoodEndpoint(t *testing.T) {
	good := healthyServer(t)
	defer good.Close()

	p, err := NewFromURLs([]string{"bad://x", good.URL})
	require.NoError(t, err)

	require.NoError(t, p.Connect())
	assert.Equal(t, 1, p.ActiveIndex())

	h, err := p.Handle()
	require.NoError(t, err)
	assert.Equal(t, good.URL, h.URL(), "handle must be bound to the good endpoint")
}

func TestFailoverIsMonotonic(t *testing.T) {
	good := healthyServer(t)
	defer good.Close()

	p, err := NewFromURLs([]string{"http://127.0.0.1:1", good.URL})
	require.NoError(t, err)
	require.NoError(t, p.Connect())
	require.Equal(t, 1, p.ActiveIndex())

	// Healthy accesses never move the index backwards.
	for i := 0; i < 3; i++ {
		_, err := p.Handle()
		require.NoError(t, err)
		assert.Equal(t, 1, p.ActiveIndex())
	}
}

func TestHandleFailsOverWhenLiveEndpointDies(t *testing.T) {
	first := healthyServer(t)
	second := healthyServer(t)
	defer second.Close()

	p, err := NewFromURLs([]string{first.URL, second.URL})
	require.NoError(t, err)
	require.NoError(t, p.Connect())
	require.Equal(t, 0, p.ActiveIndex())

	first.Close()

	h, err := p.Handle()
	require.NoError(t, err)
	assert.Equal(t, 1, p.ActiveIndex())
	assert.Equal(t, second.URL, h.URL())
}

// ---------------------------------------------------------------------------
// handle semantics
// ---------------------------------------------------------------------------

func TestHandleIsIdempotentWhileHealthy(t *testing.T) {
	srv := healthyServer(t)
	defer srv.Close()

	p, err := NewFromURLs([]string{srv.URL})
	require.NoError(t, err)

	h1, err := p.Handle()
	require.NoError(t, err)
	h2, err := p.Handle()
	require.NoError(t, err)
	assert.Same(t, h1, h2, "no intervening failure: same handle identity")
}

func TestHandleConnectsLazily(t *testing.T) {
	srv := healthyServer(t)
	defer srv.Close()

	p, err := NewFromURLs([]string{srv.URL})
	require.NoError(t, err)

	// No explicit Connect: the first read dials.
	wei, err := p.BalanceOf("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	require.NoError(t, err)
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	assert.Equal(t, 0, wei.Cmp(one))
}

// ---------------------------------------------------------------------------
// typed reads
// ---------------------------------------------------------------------------

func TestTypedReads(t *testing.T) {
	srv := healthyServer(t)
	defer srv.Close()

	p, err := NewFromURLs([]string{srv.URL})
	require.NoError(t, err)

	n, err := p.BlockNumber()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), n)

	gp, err := p.GasPrice()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000_000), gp)
}

func TestWaitForReceiptTimeout(t *testing.T) {
	srv := rpcMock(t, map[string]interface{}{
		"eth_blockNumber":           "0x64",
		"eth_getTransactionReceipt": nil,
	})
	defer srv.Close()

	p, err := NewFromURLs([]string{srv.URL})
	require.NoError(t, err)

	_, err = p.WaitForReceipt("0xdeadbeef", 0)
	assert.ErrorIs(t, err, chain.ErrReceiptTimeout)
}

// ---------------------------------------------------------------------------
// network binding
// ---------------------------------------------------------------------------

func TestForNetworkUnknown(t *testing.T) {
	_, err := ForNetwork("dogecoin", nil)
	assert.ErrorIs(t, err, chain.ErrNetworkNotFound)
}

func TestForNetworkDefaultsToPublicRPC(t *testing.T) {
	p, err := ForNetwork("ethereum", nil)
	require.NoError(t, err)
	require.Len(t, p.Endpoints(), 1)
	assert.Contains(t, p.Endpoints()[0].URL, "publicnode.com")
}

func TestChainIDFromNetworkMetadataWithoutDialing(t *testing.T) {
	// The endpoint is unreachable; the declared chain ID is answered locally.
	p, err := ForNetwork("polygon", []string{"http://127.0.0.1:1"})
	require.NoError(t, err)

	id, err := p.ChainID()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(137), id)
}

func TestCloseAllowsReconnect(t *testing.T) {
	srv := healthyServer(t)
	defer srv.Close()

	p, err := NewFromURLs([]string{srv.URL})
	require.NoError(t, err)
	require.NoError(t, p.Connect())
	require.NoError(t, p.Close())

	// After Close, the next access re-dials.
	_, err = p.BlockNumber()
	require.NoError(t, err)
}

func TestProbeTimeoutIsBounded(t *testing.T) {
	start := time.Now()
	p, err := NewFromURLs([]string{"http://127.0.0.1:1"})
	require.NoError(t, err)
	_ = p.Connect()
	assert.Less(t, time.Since(start), probeTimeout+2*time.Second)
}
