package wallet

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development key (hardhat account 0). Never funded on mainnet.
const (
	testKey     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestNewDerivesAddress(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)
	assert.Equal(t, testAddress, s.Address().Hex())
}

func TestNewAcceptsHexPrefix(t *testing.T) {
	s, err := New("0x" + testKey)
	require.NoError(t, err)
	assert.Equal(t, testAddress, s.Address().Hex())
}

func TestNewRejectsMalformedKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"too short", "abcd"},
		{"too long", testKey + "00"},
		{"not hex", strings.Repeat("zz", 32)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.key)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestGenerate(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a.Address(), b.Address())
}

func TestStringOmitsKeyMaterial(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)

	out := s.String()
	assert.Contains(t, out, testAddress)
	assert.NotContains(t, strings.ToLower(out), testKey)
}

func TestSignTxRecoversSender(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)

	chainID := big.NewInt(1)
	to := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     0,
		GasTipCap: big.NewInt(1_000_000_000),
		GasFeeCap: big.NewInt(2_000_000_000),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(1),
	})

	signed, err := s.SignTx(tx, chainID)
	require.NoError(t, err)
	assert.NotEmpty(t, signed.Raw)
	assert.True(t, strings.HasPrefix(signed.RawHex(), "0x"))

	sender, err := RecoverTxSender(signed.Raw, chainID)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), sender)
}

func TestRecoverTxSenderRejectsGarbage(t *testing.T) {
	_, err := RecoverTxSender([]byte{0x01, 0x02}, big.NewInt(1))
	require.Error(t, err)
}
