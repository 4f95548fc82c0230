package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Selector computes the 4-byte function selector for an ABI entry.
func Selector(e *Entry) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(e.Signature()))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// EncodeCall builds calldata for a function: 4-byte selector + encoded args.
func EncodeCall(e *Entry, args []string) (string, error) {
	if len(args) != len(e.Inputs) {
		return "", fmt.Errorf("%s expects %d argument(s), got %d", e.Signature(), len(e.Inputs), len(args))
	}

	var encoded strings.Builder
	encoded.WriteString(Selector(e))

	for i, param := range e.Inputs {
		enc, err := encodeParam(param.Type, args[i])
		if err != nil {
			return "", fmt.Errorf("encoding param %s (%s): %w", param.Name, param.Type, err)
		}
		encoded.WriteString(enc)
	}

	return encoded.String(), nil
}

// encodeParam encodes a single static parameter value as a 32-byte hex word.
func encodeParam(typ, val string) (string, error) {
	switch {
	case typ == "address":
		v := strings.TrimPrefix(strings.TrimPrefix(val, "0x"), "0X")
		if len(v) != 40 {
			return "", fmt.Errorf("invalid address: %s", val)
		}
		return fmt.Sprintf("%064s", strings.ToLower(v)), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		n := new(big.Int)
		if _, ok := n.SetString(val, 0); !ok {
			return "", fmt.Errorf("invalid integer: %s", val)
		}
		if n.Sign() < 0 {
			// Two's complement over 256 bits.
			mod := new(big.Int).Lsh(big.NewInt(1), 256)
			n.Add(n, mod)
		}
		return fmt.Sprintf("%064x", n), nil

	case typ == "bool":
		if val == "true" || val == "1" {
			return fmt.Sprintf("%064d", 1), nil
		}
		if val == "false" || val == "0" || val == "" {
			return fmt.Sprintf("%064d", 0), nil
		}
		return "", fmt.Errorf("invalid bool: %s", val)

	case typ == "bytes32":
		v := strings.TrimPrefix(val, "0x")
		if len(v) > 64 {
			return "", fmt.Errorf("bytes32 value too long: %s", val)
		}
		return v + strings.Repeat("0", 64-len(v)), nil

	default:
		return "", fmt.Errorf("unsupported parameter type %q", typ)
	}
}

// DecodeResult decodes the raw hex result of a call into string values,
// one per declared output.
func DecodeResult(e *Entry, hexData string) ([]string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}

	if len(e.Outputs) == 0 {
		return nil, nil
	}

	results := make([]string, 0, len(e.Outputs))
	offset := 0

	for _, out := range e.Outputs {
		if offset+32 > len(data) {
			results = append(results, "")
			continue
		}

		word := data[offset : offset+32]
		offset += 32

		val, err := decodeWord(out.Type, word, data)
		if err != nil {
			results = append(results, "")
			continue
		}
		results = append(results, val)
	}

	return results, nil
}

func decodeWord(typ string, word []byte, fullData []byte) (string, error) {
	switch {
	case typ == "address":
		return "0x" + hex.EncodeToString(word[12:]), nil

	case strings.HasPrefix(typ, "uint"):
		return new(big.Int).SetBytes(word).String(), nil

	case strings.HasPrefix(typ, "int"):
		n := new(big.Int).SetBytes(word)
		// Negative when the high bit of the 256-bit word is set.
		if word[0]&0x80 != 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), 256)
			n.Sub(n, mod)
		}
		return n.String(), nil

	case typ == "bool":
		if word[31] == 1 {
			return "true", nil
		}
		return "false", nil

	case typ == "string" || typ == "bytes":
		// Dynamic types use offset + length encoding.
		offsetVal := new(big.Int).SetBytes(word).Uint64()
		if offsetVal+32 > uint64(len(fullData)) {
			return "", fmt.Errorf("dynamic offset out of range")
		}
		length := new(big.Int).SetBytes(fullData[offsetVal : offsetVal+32]).Uint64()
		start := offsetVal + 32
		if start+length > uint64(len(fullData)) {
			return "", fmt.Errorf("dynamic length out of range")
		}
		if typ == "bytes" {
			return "0x" + hex.EncodeToString(fullData[start:start+length]), nil
		}
		return string(fullData[start : start+length]), nil

	default:
		return "0x" + hex.EncodeToString(word), nil
	}
}
