package contract

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/w3go/internal/provider"
	"github.com/Mohsinsiddi/w3go/internal/txmgr"
	"github.com/Mohsinsiddi/w3go/internal/wallet"
)

// Errors surfaced by Invoke and Estimate. All are caller errors: invalid
// use, not transient conditions.
var (
	ErrUnknownFunction  = errors.New("function not found in ABI")
	ErrMissingSigner    = errors.New("state-changing call requires a signer")
	ErrEstimationFailed = errors.New("gas estimation failed")
)

type route int

const (
	routeRead route = iota
	routeWrite
)

// binding is one dispatch-table slot: the resolved descriptor plus its
// read-or-write routing, fixed at construction.
type binding struct {
	entry Entry
	route route
	// shadowed counts same-name overloads that appear later in the schema
	// and are unreachable by name.
	shadowed int
}

// CallOpts tunes a single invocation.
type CallOpts struct {
	// Signer is required on the write path.
	Signer *wallet.Signer
	// Pipeline overrides the contract's per-signer pipeline for this call.
	Pipeline *txmgr.Manager
	// Value is the native amount attached to a payable call, in wei.
	Value *big.Int
	// GasLimit and GasPrice override pipeline defaults when non-zero.
	GasLimit uint64
	GasPrice *big.Int
}

// Result is the outcome of an Invoke: decoded values on the read path, a
// transaction hash on the write path.
type Result struct {
	Values []string
	TxHash string
	// Written is true when the call went through the transaction pipeline;
	// its effect is only observable after confirmation.
	Written bool
}

// Contract dispatches calls against one deployed contract. The dispatch
// table is built once at construction; the provider reference is shared,
// not owned.
type Contract struct {
	address  string
	provider *provider.Provider
	table    map[string]*binding
	order    []string
}

// New builds a Contract from a checksummed address, a parsed ABI, and a
// provider. Only entries of type "function" become callable; events and
// constructors are skipped. When the schema declares the same name twice,
// the first entry in schema order wins and later ones are unreachable.
func New(address string, abi []Entry, prov *provider.Provider) (*Contract, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid contract address %q", address)
	}
	if prov == nil {
		return nil, errors.New("contract needs a provider")
	}

	c := &Contract{
		address:  common.HexToAddress(address).Hex(),
		provider: prov,
		table:    make(map[string]*binding),
	}

	for _, e := range abi {
		if e.Type != "function" {
			continue
		}
		if existing, ok := c.table[e.Name]; ok {
			existing.shadowed++
			continue
		}
		r := routeWrite
		if e.IsReadFunction() {
			r = routeRead
		}
		entry := e
		c.table[e.Name] = &binding{entry: entry, route: r}
		c.order = append(c.order, e.Name)
	}

	return c, nil
}

// NewFromJSON builds a Contract from raw ABI JSON in any accepted
// container format.
func NewFromJSON(address string, abiJSON []byte, prov *provider.Provider) (*Contract, error) {
	abi, err := ParseABI(abiJSON)
	if err != nil {
		return nil, err
	}
	return New(address, abi, prov)
}

// Address returns the checksummed target address.
func (c *Contract) Address() string { return c.address }

// Functions lists the callable function names in schema order.
func (c *Contract) Functions() []string {
	return append([]string(nil), c.order...)
}

// Describe returns the bound descriptor for a function name.
func (c *Contract) Describe(name string) (*Entry, error) {
	b, ok := c.table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	entry := b.entry
	return &entry, nil
}

// Shadowed reports how many same-name overloads are hidden behind name.
func (c *Contract) Shadowed(name string) int {
	if b, ok := c.table[name]; ok {
		return b.shadowed
	}
	return 0
}

// Invoke resolves a function by name and executes it. Read functions
// (pure/view) run immediately through the provider and return decoded
// output values. Write functions require opts.Signer, go through the
// transaction pipeline, and return the transaction hash.
func (c *Contract) Invoke(name string, args []string, opts *CallOpts) (*Result, error) {
	b, ok := c.table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}

	calldata, err := EncodeCall(&b.entry, args)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}

	if b.route == routeRead {
		raw, err := c.provider.CallContract(c.address, calldata)
		if err != nil {
			return nil, fmt.Errorf("calling %s on %s: %w", name, c.address, err)
		}
		values, err := DecodeResult(&b.entry, raw)
		if err != nil {
			return nil, fmt.Errorf("decoding %s result: %w", name, err)
		}
		return &Result{Values: values}, nil
	}

	if opts == nil || (opts.Signer == nil && opts.Pipeline == nil) {
		return nil, fmt.Errorf("%w: %q is %s", ErrMissingSigner, name, b.entry.StateMutability)
	}

	pipeline := opts.Pipeline
	if pipeline == nil {
		pipeline = txmgr.New(opts.Signer, c.provider)
	}

	req := &txmgr.Request{
		To:       c.address,
		Value:    opts.Value,
		Data:     common.FromHex(calldata),
		GasLimit: opts.GasLimit,
		GasPrice: opts.GasPrice,
	}
	hash, err := pipeline.Send(req)
	if err != nil {
		return nil, fmt.Errorf("sending %s to %s: %w", name, c.address, err)
	}
	return &Result{TxHash: hash, Written: true}, nil
}

// Call invokes a read function and returns the decoded values.
func (c *Contract) Call(name string, args ...string) ([]string, error) {
	res, err := c.Invoke(name, args, nil)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// Send invokes a write function through the pipeline and returns the hash.
func (c *Contract) Send(name string, opts *CallOpts, args ...string) (string, error) {
	res, err := c.Invoke(name, args, opts)
	if err != nil {
		return "", err
	}
	return res.TxHash, nil
}

// Estimate asks the node to simulate the encoded call and report its gas
// consumption without submitting anything. A reverting simulation yields
// ErrEstimationFailed.
func (c *Contract) Estimate(name string, args []string, opts *CallOpts) (uint64, error) {
	b, ok := c.table[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}

	calldata, err := EncodeCall(&b.entry, args)
	if err != nil {
		return 0, fmt.Errorf("encoding %s: %w", name, err)
	}

	from := ""
	var value *big.Int
	if opts != nil {
		if opts.Signer != nil {
			from = opts.Signer.Address().Hex()
		}
		value = opts.Value
	}

	gas, err := c.provider.EstimateGas(from, c.address, calldata, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrEstimationFailed, name, err)
	}
	return gas, nil
}
