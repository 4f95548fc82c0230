package chain

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsMock serves JSON-RPC over a websocket, answering each request from the
// responses map by method.
func wsMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req struct {
				Method string `json:"method"`
				ID     uint64 `json:"id"`
			}
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
			if result, ok := responses[req.Method]; ok {
				resp["result"] = result
			} else {
				resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSTransportCall(t *testing.T) {
	srv := wsMock(t, map[string]interface{}{"eth_blockNumber": "0x2a"})
	defer srv.Close()

	c := NewClient(wsURL(srv))
	defer c.Close() //nolint:errcheck

	n, err := c.BlockNumber()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)

	// A second call reuses the same connection.
	n, err = c.BlockNumber()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
}

func TestWSTransportRPCError(t *testing.T) {
	srv := wsMock(t, map[string]interface{}{})
	defer srv.Close()

	c := NewClient(wsURL(srv))
	defer c.Close() //nolint:errcheck

	_, err := c.BlockNumber()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestWSTransportDialFailure(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1")
	_, err := c.BlockNumber()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket dial")
}

func TestHTTPTransportIDsIncrease(t *testing.T) {
	var ids []uint64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID uint64 `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		ids = append(ids, req.ID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
			"jsonrpc": "2.0", "id": req.ID, "result": "0x1",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := c.BlockNumber()
		require.NoError(t, err)
	}
	assert.Equal(t, []uint64{1, 2, 3}, ids)
}
