// Package abis holds the static contract ABIs known to the connector, one
// per schema name, plus the ABI entry model passed through to the RPC
// gateway on every query and transaction.
package abis

import (
	"encoding/json"
	"fmt"
)

// Schema names. The schema selects which method family the mapper
// dispatches against.
const (
	ERC20NoData      = "ERC20NoData"
	ERC20WithData    = "ERC20WithData"
	ERC721NoData     = "ERC721NoData"
	ERC721WithData   = "ERC721WithData"
	ERC721WithDataV1 = "ERC721WithDataV1"
	TokenFactory     = "TokenFactory"
)

// Event names the connector subscribes to and ingests.
const (
	TransferEvent          = "Transfer"
	ApprovalEvent          = "Approval"
	ApprovalForAllEvent    = "ApprovalForAll"
	TokenPoolCreationEvent = "TokenPoolCreation"
)

// Input is one parameter of an ABI method or event.
type Input struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Indexed      bool    `json:"indexed,omitempty"`
	InternalType string  `json:"internalType,omitempty"`
	Components   []Input `json:"components,omitempty"`
}

// Entry is one element of a contract ABI. It is serialized verbatim into
// the method field of gateway requests.
type Entry struct {
	Name            string  `json:"name,omitempty"`
	Type            string  `json:"type"`
	Inputs          []Input `json:"inputs"`
	Outputs         []Input `json:"outputs,omitempty"`
	StateMutability string  `json:"stateMutability,omitempty"`
	Anonymous       bool    `json:"anonymous,omitempty"`
}

// ABI is an ordered list of entries.
type ABI []*Entry

var registry = map[string]ABI{
	ERC20NoData:      mustParse(erc20NoDataABI),
	ERC20WithData:    mustParse(erc20WithDataABI),
	ERC721NoData:     mustParse(erc721NoDataABI),
	ERC721WithData:   mustParse(erc721WithDataABI),
	ERC721WithDataV1: mustParse(erc721WithDataV1ABI),
	TokenFactory:     mustParse(tokenFactoryABI),
}

func mustParse(raw string) ABI {
	var a ABI
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		panic(fmt.Sprintf("abis: invalid embedded ABI: %v", err))
	}
	return a
}

// ForSchema returns the ABI loaded for the given schema name.
func ForSchema(schema string) (ABI, error) {
	a, ok := registry[schema]
	if !ok {
		return nil, fmt.Errorf("unknown ABI schema '%s'", schema)
	}
	return a, nil
}

// Method finds the function entry with the given name and exact ordered
// input type vector. Parameter names are ignored.
func (a ABI) Method(name string, inputTypes []string) *Entry {
	for _, e := range a {
		if e.Type != "function" || e.Name != name || len(e.Inputs) != len(inputTypes) {
			continue
		}
		match := true
		for i, in := range e.Inputs {
			if in.Type != inputTypes[i] {
				match = false
				break
			}
		}
		if match {
			return e
		}
	}
	return nil
}

// Event finds the event entry with the given name.
func (a ABI) Event(name string) *Entry {
	for _, e := range a {
		if e.Type == "event" && e.Name == name {
			return e
		}
	}
	return nil
}

// Methods returns every function entry, in ABI order. The full list is
// attached to event stream subscriptions so the gateway can decode the
// inputs of the transactions that emitted each event.
func (a ABI) Methods() []*Entry {
	var out []*Entry
	for _, e := range a {
		if e.Type == "function" {
			out = append(out, e)
		}
	}
	return out
}

// SupportsInterface is the ERC-165 capability probe, shared by every
// schema that advertises optional extensions.
var SupportsInterface = &Entry{
	Name:            "supportsInterface",
	Type:            "function",
	Inputs:          []Input{{Name: "interfaceId", Type: "bytes4"}},
	Outputs:         []Input{{Name: "", Type: "bool"}},
	StateMutability: "view",
}

// BalanceOf is the balance query shared by both token families.
var BalanceOf = &Entry{
	Name:            "balanceOf",
	Type:            "function",
	Inputs:          []Input{{Name: "account", Type: "address"}},
	Outputs:         []Input{{Name: "", Type: "uint256"}},
	StateMutability: "view",
}

// TokenURI resolves the metadata URI of one ERC-721 token.
var TokenURI = &Entry{
	Name:            "tokenURI",
	Type:            "function",
	Inputs:          []Input{{Name: "tokenId", Type: "uint256"}},
	Outputs:         []Input{{Name: "", Type: "string"}},
	StateMutability: "view",
}

// Simple metadata queries used during pool creation.
var (
	Name = &Entry{
		Name: "name", Type: "function", Inputs: []Input{},
		Outputs: []Input{{Name: "", Type: "string"}}, StateMutability: "view",
	}
	Symbol = &Entry{
		Name: "symbol", Type: "function", Inputs: []Input{},
		Outputs: []Input{{Name: "", Type: "string"}}, StateMutability: "view",
	}
	Decimals = &Entry{
		Name: "decimals", Type: "function", Inputs: []Input{},
		Outputs: []Input{{Name: "", Type: "uint8"}}, StateMutability: "view",
	}
	BaseTokenURI = &Entry{
		Name: "baseTokenUri", Type: "function", Inputs: []Input{},
		Outputs: []Input{{Name: "", Type: "string"}}, StateMutability: "view",
	}
)
