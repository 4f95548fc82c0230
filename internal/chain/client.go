package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrReceiptTimeout is returned when a transaction is not mined within the
// caller's wait window. The transaction is unconfirmed, not necessarily lost.
var ErrReceiptTimeout = errors.New("receipt wait timed out")

const (
	defaultTimeout      = 15 * time.Second
	defaultPollInterval = 2 * time.Second

	// Clique/PoA headers carry the validator seal in extra-data, which
	// exceeds the 32-byte vanity limit mainnet headers obey.
	maxCliqueExtraData = 32
)

// Client is a JSON-RPC client for a single EVM node endpoint.
type Client struct {
	url       string
	transport Transport
	poa       bool
	poll      time.Duration
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransportKind forces a transport instead of inferring it from the URL.
func WithTransportKind(kind TransportKind) Option {
	return func(c *Client) {
		timeout := defaultTimeout
		switch kind {
		case TransportWS:
			c.transport = newWSTransport(c.url, timeout)
		default:
			c.transport = newHTTPTransport(c.url, timeout)
		}
	}
}

// WithPoAHeaders relaxes header validation for proof-of-authority chains
// (Polygon, BSC), whose extra-data field carries the validator seal.
func WithPoAHeaders() Option {
	return func(c *Client) { c.poa = true }
}

// WithPollInterval sets the receipt polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.poll = d }
}

// WithLogger injects a logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for url, picking the transport from its scheme.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:  url,
		poll: defaultPollInterval,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		switch KindForURL(url) {
		case TransportWS:
			c.transport = newWSTransport(url, defaultTimeout)
		default:
			c.transport = newHTTPTransport(url, defaultTimeout)
		}
	}
	return c
}

// URL returns the endpoint this client is bound to.
func (c *Client) URL() string { return c.url }

// Close releases the underlying transport.
func (c *Client) Close() error { return c.transport.Close() }

func (c *Client) call(method string, params ...interface{}) (json.RawMessage, error) {
	return c.transport.Call(context.Background(), method, params...)
}

// callHex performs a call whose result is a quantity/data hex string.
func (c *Client) callHex(method string, params ...interface{}) (string, error) {
	raw, err := c.call(method, params...)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s: unexpected result %s", method, string(raw))
	}
	return s, nil
}

func (c *Client) callBig(method string, params ...interface{}) (*big.Int, error) {
	s, err := c.callHex(method, params...)
	if err != nil {
		return nil, err
	}
	n, ok := parseBigHex(s)
	if !ok {
		return nil, fmt.Errorf("%s: could not parse quantity %q", method, s)
	}
	return n, nil
}

// Balance returns the native balance in wei for an address.
func (c *Client) Balance(address string) (*big.Int, error) {
	return c.callBig("eth_getBalance", address, "latest")
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber() (uint64, error) {
	n, err := c.callBig("eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GasPrice returns the current gas price in wei.
func (c *Client) GasPrice() (*big.Int, error) {
	return c.callBig("eth_gasPrice")
}

// ChainID returns the chain's numeric ID.
func (c *Client) ChainID() (*big.Int, error) {
	return c.callBig("eth_chainId")
}

// NonceAt returns the confirmed transaction count (nonce) for an address.
func (c *Client) NonceAt(address string) (uint64, error) {
	n, err := c.callBig("eth_getTransactionCount", address, "latest")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// PendingNonceAt returns the transaction count including queued transactions.
func (c *Client) PendingNonceAt(address string) (uint64, error) {
	n, err := c.callBig("eth_getTransactionCount", address, "pending")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// CallContract executes a read-only contract call and returns the raw hex result.
func (c *Client) CallContract(to, calldata string) (string, error) {
	return c.callHex("eth_call", map[string]string{
		"to":   to,
		"data": calldata,
	}, "latest")
}

// EstimateGas asks the node to simulate the call and report gas consumption.
func (c *Client) EstimateGas(from, to, data string, value *big.Int) (uint64, error) {
	params := map[string]string{"to": to}
	if from != "" {
		params["from"] = from
	}
	if data != "" {
		params["data"] = data
	}
	if value != nil && value.Sign() > 0 {
		params["value"] = "0x" + value.Text(16)
	}
	n, err := c.callBig("eth_estimateGas", params, "latest")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SimulateCall runs eth_call with a from field. Returns (true, returnData, nil)
// on success or (false, revertReason, nil) when execution reverts. Network
// errors are returned as err.
func (c *Client) SimulateCall(from, to, data string, value *big.Int) (bool, string, error) {
	params := map[string]string{"to": to}
	if from != "" {
		params["from"] = from
	}
	if data != "" {
		params["data"] = data
	}
	if value != nil && value.Sign() > 0 {
		params["value"] = "0x" + value.Text(16)
	}

	result, err := c.callHex("eth_call", params, "latest")
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "revert") || strings.Contains(msg, "execution") {
			return false, extractRevertReason(msg), nil
		}
		return false, "", err
	}
	return true, result, nil
}

// extractRevertReason pulls the revert reason out of an RPC error message.
func extractRevertReason(errMsg string) string {
	if idx := strings.Index(errMsg, "execution reverted:"); idx >= 0 {
		return strings.TrimSpace(errMsg[idx:])
	}
	if idx := strings.Index(errMsg, "revert"); idx >= 0 {
		return strings.TrimSpace(errMsg[idx:])
	}
	return errMsg
}

// SendRawTransaction broadcasts a signed raw transaction and returns its hash.
func (c *Client) SendRawTransaction(rawTx string) (string, error) {
	hash, err := c.callHex("eth_sendRawTransaction", rawTx)
	if err != nil {
		return "", err
	}
	c.log.Info("transaction broadcast", zap.String("hash", hash), zap.String("endpoint", c.url))
	return hash, nil
}

// Receipt holds the on-chain record of a mined transaction.
type Receipt struct {
	Hash            string
	Status          uint64 // 1 = success, 0 = reverted
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress string // non-empty when a contract was deployed
}

// TransactionReceipt fetches the receipt for hash.
// Returns nil, nil while the transaction is still pending.
func (c *Client) TransactionReceipt(hash string) (*Receipt, error) {
	raw, err := c.call("eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil // still pending
	}

	var r struct {
		Status          string `json:"status"`
		BlockNumber     string `json:"blockNumber"`
		GasUsed         string `json:"gasUsed"`
		ContractAddress string `json:"contractAddress"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing receipt: %w", err)
	}

	receipt := &Receipt{Hash: hash, ContractAddress: r.ContractAddress}
	if s, ok := parseBigHex(r.Status); ok {
		receipt.Status = s.Uint64()
	}
	if bn, ok := parseBigHex(r.BlockNumber); ok {
		receipt.BlockNumber = bn.Uint64()
	}
	if gu, ok := parseBigHex(r.GasUsed); ok {
		receipt.GasUsed = gu.Uint64()
	}
	return receipt, nil
}

// WaitForReceipt polls until the transaction is mined or timeout expires.
// A zero timeout checks nothing and returns ErrReceiptTimeout immediately.
// The receipt is returned whether execution succeeded or reverted; the
// caller inspects Status.
func (c *Client) WaitForReceipt(hash string, timeout time.Duration) (*Receipt, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		receipt, err := c.TransactionReceipt(hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}
		time.Sleep(c.poll)
	}
	return nil, fmt.Errorf("transaction %s on %s: %w", hash, c.url, ErrReceiptTimeout)
}

// Header holds the subset of a block header the client validates.
type Header struct {
	Number    uint64
	Hash      string
	Miner     string
	ExtraData string
}

// HeaderByNumber fetches a block header. tag is a hex number or "latest".
// On non-PoA chains headers with oversized extra-data are rejected; PoA
// chains legitimately carry the validator seal there.
func (c *Client) HeaderByNumber(tag string) (*Header, error) {
	raw, err := c.call("eth_getBlockByNumber", tag, false)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("block %s not found", tag)
	}

	var h struct {
		Number    string `json:"number"`
		Hash      string `json:"hash"`
		Miner     string `json:"miner"`
		ExtraData string `json:"extraData"`
	}
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	extraLen := (len(strings.TrimPrefix(h.ExtraData, "0x")) + 1) / 2
	if !c.poa && extraLen > maxCliqueExtraData {
		return nil, fmt.Errorf("header extra-data is %d bytes (max %d); chain may need PoA compatibility", extraLen, maxCliqueExtraData)
	}

	header := &Header{Hash: h.Hash, Miner: h.Miner, ExtraData: h.ExtraData}
	if n, ok := parseBigHex(h.Number); ok {
		header.Number = n.Uint64()
	}
	return header, nil
}

// Ping tests the endpoint and returns latency plus the current block number.
func (c *Client) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	raw, err := c.transport.Call(ctx, "eth_blockNumber")
	latency = time.Since(start)
	if err != nil {
		return latency, 0, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return latency, 0, fmt.Errorf("unexpected result: %s", string(raw))
	}
	n, ok := parseBigHex(s)
	if !ok {
		return latency, 0, fmt.Errorf("could not parse block number %q", s)
	}
	return latency, n.Uint64(), nil
}

func parseBigHex(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, false
	}
	return new(big.Int).SetString(s, 16)
}

// --- unit helpers ---

var eth1 = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// WeiToETH converts a wei amount to an ETH decimal string.
func WeiToETH(wei *big.Int) string {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, eth1)
	return f.Text('f', 18)
}
