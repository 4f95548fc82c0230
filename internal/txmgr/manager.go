// Package txmgr is the transaction pipeline: it assigns nonces, signs
// through a wallet.Signer, broadcasts through a provider.Provider, and
// tracks submitted transactions until a receipt settles them.
package txmgr

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3go/internal/chain"
	"github.com/Mohsinsiddi/w3go/internal/provider"
	"github.com/Mohsinsiddi/w3go/internal/wallet"
)

// Status of a tracked transaction.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusReplaced Status = "replaced"
)

// ErrTxNotTracked is returned when a hash is not in the pending map.
var ErrTxNotTracked = errors.New("transaction not tracked")

// Default gas limit when estimation fails, matching a generic state-change call.
const fallbackGasLimit = uint64(200_000)

// Request describes a transaction before nonce assignment and signing.
// Nonce, GasLimit and GasPrice are filled by the pipeline when unset.
type Request struct {
	To       string
	Value    *big.Int
	Data     []byte
	GasLimit uint64
	GasPrice *big.Int
	Nonce    *uint64
}

// PendingTx is the pipeline's record of a submitted transaction.
type PendingTx struct {
	Hash        string
	SubmittedAt time.Time
	Status      Status
	Nonce       uint64
	Receipt     *chain.Receipt
}

// Manager drives transactions from request to receipt for one signer.
// It does not serialize concurrent Send calls: in default nonce mode two
// overlapping sends can fetch the same nonce and one will be rejected by
// the node. Callers needing concurrency must serialize externally.
type Manager struct {
	signer   *wallet.Signer
	provider *provider.Provider
	log      *zap.Logger

	// localNonce switches from fetch-per-send to a cached monotonic
	// counter, allowing multiple sends before confirmation. The cache can
	// desynchronize from the chain if a transaction is dropped; it is only
	// safe for single-writer sequential usage.
	localNonce bool

	mu         sync.Mutex
	nonceCache *uint64
	pending    map[string]*PendingTx
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLocalNonce enables locally cached nonce assignment.
func WithLocalNonce() ManagerOption {
	return func(m *Manager) { m.localNonce = true }
}

// WithLogger injects a logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// New creates a pipeline bound to one signer and one provider. Neither is
// owned: both may be shared with other consumers.
func New(signer *wallet.Signer, prov *provider.Provider, opts ...ManagerOption) *Manager {
	m := &Manager{
		signer:   signer,
		provider: prov,
		log:      zap.NewNop(),
		pending:  make(map[string]*PendingTx),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Signer returns the wallet this pipeline signs with.
func (m *Manager) Signer() *wallet.Signer { return m.signer }

// nextNonce picks the nonce for a send. Default mode asks the node for the
// pending transaction count; local mode advances a cached counter seeded
// from the node on first use.
func (m *Manager) nextNonce() (uint64, error) {
	if !m.localNonce {
		return m.provider.PendingNonceAt(m.signer.Address().Hex())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nonceCache == nil {
		n, err := m.provider.PendingNonceAt(m.signer.Address().Hex())
		if err != nil {
			return 0, err
		}
		m.nonceCache = &n
		return n, nil
	}
	*m.nonceCache++
	return *m.nonceCache, nil
}

// Send fills in any missing transaction fields, signs, broadcasts, and
// registers the transaction as pending. Returns the transaction hash.
func (m *Manager) Send(req *Request) (string, error) {
	from := m.signer.Address().Hex()

	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else {
		var err error
		nonce, err = m.nextNonce()
		if err != nil {
			return "", fmt.Errorf("assigning nonce: %w", err)
		}
	}

	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}

	gasPrice := req.GasPrice
	if gasPrice == nil {
		gp, err := m.provider.GasPrice()
		if err != nil {
			return "", fmt.Errorf("getting gas price: %w", err)
		}
		gasPrice = gp
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		data := ""
		if len(req.Data) > 0 {
			data = fmt.Sprintf("0x%x", req.Data)
		}
		gas, err := m.provider.EstimateGas(from, req.To, data, value)
		if err != nil {
			gas = fallbackGasLimit
		}
		gasLimit = gas
	}

	chainID, err := m.provider.ChainID()
	if err != nil {
		return "", fmt.Errorf("getting chain id: %w", err)
	}

	toAddr := common.HexToAddress(req.To)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gasLimit,
		To:        &toAddr,
		Value:     value,
		Data:      req.Data,
	})

	signed, err := m.signer.SignTx(tx, chainID)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := m.provider.SendRawTransaction(signed.RawHex())
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}

	m.mu.Lock()
	m.pending[hash] = &PendingTx{
		Hash:        hash,
		SubmittedAt: time.Now(),
		Status:      StatusPending,
		Nonce:       nonce,
	}
	m.mu.Unlock()

	m.log.Info("transaction submitted",
		zap.String("hash", hash),
		zap.Uint64("nonce", nonce),
		zap.String("to", req.To))

	return hash, nil
}

// AwaitReceipt blocks until the transaction is mined or timeout expires.
// On a receipt the tracked status becomes success or failed per the
// receipt's execution outcome. On timeout the status stays pending and
// chain.ErrReceiptTimeout surfaces: the transaction is unconfirmed within
// the window, not presumed lost.
func (m *Manager) AwaitReceipt(hash string, timeout time.Duration) (*chain.Receipt, error) {
	receipt, err := m.provider.WaitForReceipt(hash, timeout)
	if err != nil {
		return nil, err
	}

	status := StatusSuccess
	if receipt.Status == 0 {
		status = StatusFailed
	}

	m.mu.Lock()
	if p, ok := m.pending[hash]; ok {
		p.Status = status
		p.Receipt = receipt
	}
	m.mu.Unlock()

	m.log.Info("transaction settled",
		zap.String("hash", hash),
		zap.String("status", string(status)),
		zap.Uint64("block", receipt.BlockNumber))

	return receipt, nil
}

// MarkReplaced records that a tracked transaction was superseded by a
// higher-fee resubmission.
func (m *Manager) MarkReplaced(hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[hash]
	if !ok {
		return ErrTxNotTracked
	}
	p.Status = StatusReplaced
	return nil
}

// Tracked returns the pipeline's record for a hash.
func (m *Manager) Tracked(hash string) (*PendingTx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[hash]
	if !ok {
		return nil, ErrTxNotTracked
	}
	cp := *p
	return &cp, nil
}

// Pending lists all transactions still awaiting a terminal status.
func (m *Manager) Pending() []*PendingTx {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*PendingTx, 0, len(m.pending))
	for _, p := range m.pending {
		if p.Status == StatusPending {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out
}

// Archive removes transactions that have reached a terminal status and
// returns them.
func (m *Manager) Archive() []*PendingTx {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*PendingTx
	for hash, p := range m.pending {
		if p.Status != StatusPending {
			out = append(out, p)
			delete(m.pending, hash)
		}
	}
	return out
}
