package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferEntry() *Entry {
	return &Entry{
		Type: "function", Name: "transfer", StateMutability: "nonpayable",
		Inputs: []Param{
			{Name: "to", Type: "address"},
			{Name: "amount", Type: "uint256"},
		},
		Outputs: []Param{{Type: "bool"}},
	}
}

func balanceOfEntry() *Entry {
	return &Entry{
		Type: "function", Name: "balanceOf", StateMutability: "view",
		Inputs:  []Param{{Name: "owner", Type: "address"}},
		Outputs: []Param{{Type: "uint256"}},
	}
}

func TestSelectorKnownSignatures(t *testing.T) {
	assert.Equal(t, "0xa9059cbb", Selector(transferEntry()))
	assert.Equal(t, "0x70a08231", Selector(balanceOfEntry()))
}

func TestEncodeCallTransfer(t *testing.T) {
	calldata, err := EncodeCall(transferEntry(), []string{
		"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
		"1000",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(calldata, "0xa9059cbb"))
	// selector (10 chars incl 0x) + 2 words of 64 chars.
	assert.Len(t, calldata, 10+64+64)
	assert.Contains(t, calldata, "d8da6bf26964af9d7eed9e03e53415d37aa96045")
	assert.True(t, strings.HasSuffix(calldata, "3e8"), "1000 = 0x3e8")
}

func TestEncodeCallArgCountMismatch(t *testing.T) {
	_, err := EncodeCall(transferEntry(), []string{"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 2 argument(s)")
}

func TestEncodeParamAddress(t *testing.T) {
	enc, err := encodeParam("address", "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	require.NoError(t, err)
	assert.Len(t, enc, 64)
	assert.True(t, strings.HasPrefix(enc, "000000000000000000000000"))

	_, err = encodeParam("address", "0x1234")
	require.Error(t, err)
}

func TestEncodeParamIntegers(t *testing.T) {
	enc, err := encodeParam("uint256", "255")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(enc, "ff"))

	// Hex input accepted via base 0.
	enc, err = encodeParam("uint256", "0xff")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(enc, "ff"))

	// Negative int256 is two's complement.
	enc, err = encodeParam("int256", "-1")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("f", 64), enc)

	_, err = encodeParam("uint256", "not-a-number")
	require.Error(t, err)
}

func TestEncodeParamBool(t *testing.T) {
	enc, err := encodeParam("bool", "true")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(enc, "1"))

	enc, err = encodeParam("bool", "false")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 64), enc)

	_, err = encodeParam("bool", "maybe")
	require.Error(t, err)
}

func TestEncodeParamUnsupported(t *testing.T) {
	_, err := encodeParam("string[]", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestDecodeResultUint(t *testing.T) {
	word := strings.Repeat("0", 63) + "1"
	values, err := DecodeResult(balanceOfEntry(), "0x"+word)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "1", values[0])
}

func TestDecodeResultBool(t *testing.T) {
	e := &Entry{Name: "ok", Outputs: []Param{{Type: "bool"}}}
	values, err := DecodeResult(e, "0x"+strings.Repeat("0", 63)+"1")
	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, values)
}

func TestDecodeResultAddress(t *testing.T) {
	e := &Entry{Name: "owner", Outputs: []Param{{Type: "address"}}}
	addr := "d8da6bf26964af9d7eed9e03e53415d37aa96045"
	values, err := DecodeResult(e, "0x"+strings.Repeat("0", 24)+addr)
	require.NoError(t, err)
	assert.Equal(t, []string{"0x" + addr}, values)
}

func TestDecodeResultString(t *testing.T) {
	e := &Entry{Name: "name", Outputs: []Param{{Type: "string"}}}
	// offset=0x20, length=3, "abc" padded.
	data := "0x" +
		strings.Repeat("0", 62) + "20" +
		strings.Repeat("0", 63) + "3" +
		"616263" + strings.Repeat("0", 58)
	values, err := DecodeResult(e, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, values)
}

func TestDecodeResultNegativeInt(t *testing.T) {
	e := &Entry{Name: "delta", Outputs: []Param{{Type: "int256"}}}
	values, err := DecodeResult(e, "0x"+strings.Repeat("f", 64))
	require.NoError(t, err)
	assert.Equal(t, []string{"-1"}, values)
}

func TestDecodeResultNoOutputs(t *testing.T) {
	e := &Entry{Name: "noop"}
	values, err := DecodeResult(e, "0x")
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestDecodeResultShortData(t *testing.T) {
	_, err := DecodeResult(balanceOfEntry(), "0x123")
	require.Error(t, err) // odd-length hex

	values, err := DecodeResult(balanceOfEntry(), "0x0102")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, values, "short word decodes to empty placeholder")
}
