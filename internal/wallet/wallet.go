// Package wallet owns keypairs and signing. A Signer never writes its
// private scalar to logs or errors; the only durable exit is the encrypted
// keystore export.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey is returned when a supplied private key is malformed.
var ErrInvalidKey = errors.New("invalid private key")

// Signer holds a keypair and signs transactions and messages for it.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// New creates a Signer from a hex-encoded 32-byte private key
// (with or without 0x prefix).
func New(hexKey string) (*Signer, error) {
	hexKey = stripHexPrefix(hexKey)
	if len(hexKey) != 64 {
		return nil, fmt.Errorf("%w: expected 64 hex characters, got %d", ErrInvalidKey, len(hexKey))
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return fromKey(key), nil
}

// Generate creates a Signer with a freshly generated keypair.
func Generate() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	return fromKey(key), nil
}

func fromKey(key *ecdsa.PrivateKey) *Signer {
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address returns the signer's account address.
func (s *Signer) Address() common.Address { return s.address }

// String identifies the signer by address only. The private key is never
// part of the textual form.
func (s *Signer) String() string {
	return fmt.Sprintf("Signer(%s)", s.address.Hex())
}

// SignedTx is an immutable signed transaction envelope: the raw bytes ready
// for broadcast plus the derived transaction hash.
type SignedTx struct {
	Raw  []byte
	Hash common.Hash
}

// RawHex returns the 0x-prefixed raw transaction for eth_sendRawTransaction.
func (t *SignedTx) RawHex() string {
	return fmt.Sprintf("0x%x", t.Raw)
}

// SignTx signs a transaction for the given chain and returns the envelope.
// It is a pure function of the keypair and the transaction fields.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*SignedTx, error) {
	signer := types.NewLondonSigner(chainID)
	signed, err := types.SignTx(tx, signer, s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}
	return &SignedTx{Raw: raw, Hash: signed.Hash()}, nil
}

// RecoverTxSender recovers the sending address from a signed raw transaction.
func RecoverTxSender(raw []byte, chainID *big.Int) (common.Address, error) {
	var tx types.Transaction
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Address{}, fmt.Errorf("parsing raw transaction: %w", err)
	}
	return types.Sender(types.NewLondonSigner(chainID), &tx)
}

func stripHexPrefix(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
}
