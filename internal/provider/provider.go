// Package provider maintains a live JSON-RPC connection across an ordered
// list of candidate endpoints, failing over to the next endpoint when the
// current one dies. Every read and write in the module flows through a
// Provider, so call sites get failover for free.
package provider

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3go/internal/chain"
)

// ErrExhaustedEndpoints is returned when every candidate endpoint has failed.
// It is fatal for this Provider: recovery requires a fresh endpoint set.
var ErrExhaustedEndpoints = errors.New("all RPC endpoints failed")

const probeTimeout = 5 * time.Second

// Endpoint is one candidate RPC address. Immutable once constructed.
type Endpoint struct {
	URL       string
	Transport chain.TransportKind
}

// NewEndpoint builds an Endpoint, inferring the transport from the URL scheme.
func NewEndpoint(url string) Endpoint {
	return Endpoint{URL: url, Transport: chain.KindForURL(url)}
}

// Provider owns the endpoint list and at most one live client handle.
// The active index only moves forward: once an endpoint is abandoned it is
// never retried within this Provider's lifetime.
type Provider struct {
	endpoints []Endpoint
	network   *chain.Network
	log       *zap.Logger
	clientOpt []chain.Option

	mu     sync.Mutex
	active int
	handle *chain.Client
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithNetwork attaches network metadata; PoA networks get header
// compatibility applied to every client the provider dials.
func WithNetwork(n *chain.Network) ProviderOption {
	return func(p *Provider) { p.network = n }
}

// WithLogger injects a logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) ProviderOption {
	return func(p *Provider) { p.log = log }
}

// WithClientOptions passes extra options to every dialed client.
func WithClientOptions(opts ...chain.Option) ProviderOption {
	return func(p *Provider) { p.clientOpt = append(p.clientOpt, opts...) }
}

// New creates a Provider over an ordered endpoint list. Construction only
// validates inputs; call Connect (or any read, which connects lazily) to dial.
func New(endpoints []Endpoint, opts ...ProviderOption) (*Provider, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("provider needs at least one endpoint")
	}
	p := &Provider{
		endpoints: append([]Endpoint(nil), endpoints...),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewFromURLs creates a Provider from plain URLs.
func NewFromURLs(urls []string, opts ...ProviderOption) (*Provider, error) {
	endpoints := make([]Endpoint, 0, len(urls))
	for _, u := range urls {
		endpoints = append(endpoints, NewEndpoint(u))
	}
	return New(endpoints, opts...)
}

// ForNetwork creates a Provider for a named network. Explicit URLs take
// priority; with none given the network's built-in public RPC is used.
func ForNetwork(name string, urls []string, opts ...ProviderOption) (*Provider, error) {
	n, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("network %q: %w", name, err)
	}
	if len(urls) == 0 {
		urls = []string{n.DefaultRPC}
	}
	return NewFromURLs(urls, append(opts, WithNetwork(n))...)
}

// Connect dials the endpoint at the active index, probing it for liveness.
// On failure it moves to the next endpoint until one answers or the list is
// exhausted.
func (p *Provider) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connectLocked()
}

func (p *Provider) connectLocked() error {
	ep := p.endpoints[p.active]

	opts := append([]chain.Option{
		chain.WithTransportKind(ep.Transport),
		chain.WithLogger(p.log),
	}, p.clientOpt...)
	if p.network != nil && p.network.PoA {
		opts = append(opts, chain.WithPoAHeaders())
	}
	client := chain.NewClient(ep.URL, opts...)

	if err := p.probe(client); err != nil {
		p.log.Warn("endpoint unreachable",
			zap.String("endpoint", ep.URL),
			zap.Int("index", p.active),
			zap.Error(err))
		client.Close() //nolint:errcheck
		return p.failoverLocked(err)
	}

	p.handle = client
	p.log.Info("connected", zap.String("endpoint", ep.URL), zap.Int("index", p.active))
	return nil
}

// failoverLocked advances to the next endpoint and retries, or gives up with
// ErrExhaustedEndpoints once no endpoints remain.
func (p *Provider) failoverLocked(cause error) error {
	if p.active < len(p.endpoints)-1 {
		p.active++
		p.log.Warn("failing over", zap.Int("index", p.active), zap.String("endpoint", p.endpoints[p.active].URL))
		return p.connectLocked()
	}
	p.handle = nil
	return fmt.Errorf("last endpoint %s failed: %v: %w", p.endpoints[p.active].URL, cause, ErrExhaustedEndpoints)
}

func (p *Provider) probe(c *chain.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	_, _, err := c.Ping(ctx)
	return err
}

// Handle returns the live client, dialing or re-dialing first when no
// connection is live or the existing one fails a liveness probe. While
// healthy, repeated calls return the same client.
func (p *Provider) Handle() (*chain.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != nil {
		if err := p.probe(p.handle); err == nil {
			return p.handle, nil
		}
		p.log.Warn("liveness probe failed, reconnecting",
			zap.String("endpoint", p.endpoints[p.active].URL))
	}
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p.handle, nil
}

// ActiveIndex reports which endpoint the provider is currently bound to.
func (p *Provider) ActiveIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// ActiveURL returns the URL of the currently selected endpoint.
func (p *Provider) ActiveURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.endpoints[p.active].URL
}

// Endpoints returns a copy of the configured endpoint list.
func (p *Provider) Endpoints() []Endpoint {
	return append([]Endpoint(nil), p.endpoints...)
}

// Network returns the attached network metadata, or nil.
func (p *Provider) Network() *chain.Network { return p.network }

// Close tears down the live handle, if any. The provider may be reconnected
// afterwards with Connect.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == nil {
		return nil
	}
	err := p.handle.Close()
	p.handle = nil
	return err
}

// --- typed reads, all routed through Handle ---

// BalanceOf returns the native balance in wei for an address.
func (p *Provider) BalanceOf(address string) (*big.Int, error) {
	h, err := p.Handle()
	if err != nil {
		return nil, err
	}
	return h.Balance(address)
}

// BlockNumber returns the latest block number.
func (p *Provider) BlockNumber() (uint64, error) {
	h, err := p.Handle()
	if err != nil {
		return 0, err
	}
	return h.BlockNumber()
}

// GasPrice returns the current gas price in wei.
func (p *Provider) GasPrice() (*big.Int, error) {
	h, err := p.Handle()
	if err != nil {
		return nil, err
	}
	return h.GasPrice()
}

// ChainID returns the connected chain's ID. When network metadata is
// attached its declared chain ID is used without a round trip.
func (p *Provider) ChainID() (*big.Int, error) {
	if p.network != nil && p.network.ChainID != 0 {
		return big.NewInt(p.network.ChainID), nil
	}
	h, err := p.Handle()
	if err != nil {
		return nil, err
	}
	return h.ChainID()
}

// NonceAt returns the confirmed transaction count for an address.
func (p *Provider) NonceAt(address string) (uint64, error) {
	h, err := p.Handle()
	if err != nil {
		return 0, err
	}
	return h.NonceAt(address)
}

// PendingNonceAt returns the transaction count including queued transactions.
func (p *Provider) PendingNonceAt(address string) (uint64, error) {
	h, err := p.Handle()
	if err != nil {
		return 0, err
	}
	return h.PendingNonceAt(address)
}

// CallContract executes a read-only contract call.
func (p *Provider) CallContract(to, calldata string) (string, error) {
	h, err := p.Handle()
	if err != nil {
		return "", err
	}
	return h.CallContract(to, calldata)
}

// EstimateGas simulates the call and reports its gas consumption.
func (p *Provider) EstimateGas(from, to, data string, value *big.Int) (uint64, error) {
	h, err := p.Handle()
	if err != nil {
		return 0, err
	}
	return h.EstimateGas(from, to, data, value)
}

// SendRawTransaction broadcasts a signed raw transaction.
func (p *Provider) SendRawTransaction(rawTx string) (string, error) {
	h, err := p.Handle()
	if err != nil {
		return "", err
	}
	return h.SendRawTransaction(rawTx)
}

// TransactionReceipt fetches a receipt, or nil, nil while pending.
func (p *Provider) TransactionReceipt(hash string) (*chain.Receipt, error) {
	h, err := p.Handle()
	if err != nil {
		return nil, err
	}
	return h.TransactionReceipt(hash)
}

// WaitForReceipt blocks until the transaction is mined or timeout expires,
// surfacing chain.ErrReceiptTimeout on expiry.
func (p *Provider) WaitForReceipt(hash string, timeout time.Duration) (*chain.Receipt, error) {
	h, err := p.Handle()
	if err != nil {
		return nil, err
	}
	return h.WaitForReceipt(hash, timeout)
}
