package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TransportKind selects how JSON-RPC requests reach the node.
type TransportKind string

const (
	TransportHTTP TransportKind = "http"
	TransportWS   TransportKind = "ws"
)

// KindForURL infers the transport kind from a URL scheme.
func KindForURL(url string) TransportKind {
	if strings.HasPrefix(url, "ws://") || strings.HasPrefix(url, "wss://") {
		return TransportWS
	}
	return TransportHTTP
}

// Transport carries one JSON-RPC request/response exchange.
type Transport interface {
	Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)
	Close() error
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// --- HTTP ---

type httpTransport struct {
	url    string
	client *http.Client

	mu sync.Mutex
	id uint64
}

func newHTTPTransport(url string, timeout time.Duration) *httpTransport {
	return &httpTransport{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (t *httpTransport) nextID() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id++
	return t.id
}

func (t *httpTransport) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	id := t.nextID()
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      id,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

func (t *httpTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// --- WebSocket ---

// wsTransport speaks JSON-RPC over a single WebSocket connection.
// Calls are serialized: one request in flight at a time.
type wsTransport struct {
	url     string
	timeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
	id   uint64
}

func newWSTransport(url string, timeout time.Duration) *wsTransport {
	return &wsTransport{url: url, timeout: timeout}
}

func (t *wsTransport) dial(ctx context.Context) error {
	if t.conn != nil {
		return nil
	}
	dialer := websocket.Dialer{HandshakeTimeout: t.timeout}
	conn, _, err := dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", t.url, err)
	}
	t.conn = conn
	return nil
}

func (t *wsTransport) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.dial(ctx); err != nil {
		return nil, err
	}

	t.id++
	req := rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: t.id}

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	t.conn.SetWriteDeadline(deadline) //nolint:errcheck
	t.conn.SetReadDeadline(deadline)  //nolint:errcheck

	if err := t.conn.WriteJSON(req); err != nil {
		t.reset()
		return nil, fmt.Errorf("websocket write: %w", err)
	}

	// Read until the response matching our ID arrives. Subscription
	// notifications and stale responses are skipped.
	for {
		var resp rpcResponse
		if err := t.conn.ReadJSON(&resp); err != nil {
			t.reset()
			return nil, fmt.Errorf("websocket read: %w", err)
		}
		if resp.ID != req.ID {
			continue
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	}
}

func (t *wsTransport) reset() {
	if t.conn != nil {
		t.conn.Close() //nolint:errcheck
		t.conn = nil
	}
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
