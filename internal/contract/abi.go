// Package contract turns a contract interface schema (ABI) into callable
// operations. A Contract builds one dispatch table at construction time and
// routes each invocation to the read path (eth_call) or the write path
// (signed transaction) based on the declared state mutability.
package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Param is one declared input or output of an ABI entry.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Entry is a single ABI definition (function, event, constructor, ...).
type Entry struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Inputs          []Param `json:"inputs"`
	Outputs         []Param `json:"outputs"`
	StateMutability string  `json:"stateMutability"`
}

// IsReadFunction reports whether the entry only reads state.
func (e *Entry) IsReadFunction() bool {
	return e.StateMutability == "view" || e.StateMutability == "pure"
}

// IsWriteFunction reports whether the entry can mutate state.
func (e *Entry) IsWriteFunction() bool {
	return e.Type == "function" && !e.IsReadFunction()
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (e *Entry) Signature() string {
	sig := e.Name + "("
	for i, p := range e.Inputs {
		if i > 0 {
			sig += ","
		}
		sig += p.Type
	}
	return sig + ")"
}

// ParseABI decodes ABI JSON in any of the accepted container formats:
// a bare array of entries, a Hardhat/Truffle artifact exposing the array
// under "abi", or a Foundry artifact nesting it under "output.abi".
func ParseABI(data []byte) ([]Entry, error) {
	data = bytes.TrimSpace(data)

	var abi []Entry
	if err := json.Unmarshal(data, &abi); err == nil {
		return abi, nil
	}

	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("invalid ABI JSON: expected an array of definitions or an artifact object")
	}

	var artifact struct {
		ABI    json.RawMessage `json:"abi"`
		Output struct {
			ABI json.RawMessage `json:"abi"`
		} `json:"output"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("invalid ABI JSON: %w", err)
	}

	raw := artifact.ABI
	if raw == nil {
		raw = artifact.Output.ABI
	}
	if raw == nil {
		return nil, fmt.Errorf("JSON object has no \"abi\" key — not an ABI array or a Hardhat/Foundry artifact")
	}
	if err := json.Unmarshal(raw, &abi); err != nil {
		return nil, fmt.Errorf("parsing artifact abi: %w", err)
	}
	return abi, nil
}
