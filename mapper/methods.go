package mapper

import (
	"context"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/kaleido-io/tokens-connector-go/abis"
	"github.com/kaleido-io/tokens-connector-go/locator"
	"github.com/kaleido-io/tokens-connector-go/types"
)

// Operation names one abstract token lifecycle action.
type Operation string

const (
	OpMint     Operation = "mint"
	OpTransfer Operation = "transfer"
	OpBurn     Operation = "burn"
	OpApproval Operation = "approval"
)

// Request is the flattened view of an operation DTO consumed by the
// parameter mappers. SupportsURI reflects the capability probe of the
// target contract, not the request itself.
type Request struct {
	From        string
	To          string
	Amount      string
	TokenIndex  string
	URI         string
	Data        string
	Operator    string
	Approved    bool
	Allowance   string
	SupportsURI bool
}

// methodSig is one candidate method: a name, an exact ordered input type
// vector, and a mapping from request to parameter array. The mapping
// returns nil when the request does not fit this variant.
type methodSig struct {
	name      string
	inputs    []string
	mapParams func(req *Request) []interface{}
}

// unlimitedAllowance is the allowance used for approve(true) with no
// explicit allowance: 2^256-1.
var unlimitedAllowance = math.MaxBig256.String()

func allowanceOf(req *Request) string {
	if !req.Approved {
		return "0"
	}
	if req.Allowance == "" {
		return unlimitedAllowance
	}
	return req.Allowance
}

// Candidate lists are in priority order: variants carrying more information
// come first, with the base standard methods as fallbacks for contracts
// that do not implement them.
var erc20Methods = map[Operation][]*methodSig{
	OpMint: {
		{"mintWithData", []string{"address", "uint256", "bytes"}, func(req *Request) []interface{} {
			return []interface{}{req.To, req.Amount, locator.EncodeHex(req.Data)}
		}},
		{"mint", []string{"address", "uint256"}, func(req *Request) []interface{} {
			return []interface{}{req.To, req.Amount}
		}},
	},
	OpTransfer: {
		{"transferWithData", []string{"address", "address", "uint256", "bytes"}, func(req *Request) []interface{} {
			return []interface{}{req.From, req.To, req.Amount, locator.EncodeHex(req.Data)}
		}},
		{"transferFrom", []string{"address", "address", "uint256"}, func(req *Request) []interface{} {
			return []interface{}{req.From, req.To, req.Amount}
		}},
	},
	OpBurn: {
		{"burnWithData", []string{"address", "uint256", "bytes"}, func(req *Request) []interface{} {
			return []interface{}{req.From, req.Amount, locator.EncodeHex(req.Data)}
		}},
		{"burnFrom", []string{"address", "uint256"}, func(req *Request) []interface{} {
			return []interface{}{req.From, req.Amount}
		}},
	},
	OpApproval: {
		{"approveWithData", []string{"address", "uint256", "bytes"}, func(req *Request) []interface{} {
			return []interface{}{req.Operator, allowanceOf(req), locator.EncodeHex(req.Data)}
		}},
		{"approve", []string{"address", "uint256"}, func(req *Request) []interface{} {
			return []interface{}{req.Operator, allowanceOf(req)}
		}},
	},
}

var erc721Methods = map[Operation][]*methodSig{
	OpMint: {
		// four-arg URI form first, then explicit index, then auto-index
		{"mintWithURI", []string{"address", "uint256", "bytes", "string"}, func(req *Request) []interface{} {
			if !req.SupportsURI || req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.To, req.TokenIndex, locator.EncodeHex(req.Data), req.URI}
		}},
		{"mintWithData", []string{"address", "uint256", "bytes"}, func(req *Request) []interface{} {
			if req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.To, req.TokenIndex, locator.EncodeHex(req.Data)}
		}},
		{"mintWithData", []string{"address", "bytes"}, func(req *Request) []interface{} {
			if req.TokenIndex != "" {
				return nil
			}
			return []interface{}{req.To, locator.EncodeHex(req.Data)}
		}},
		{"mint", []string{"address", "uint256"}, func(req *Request) []interface{} {
			if req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.To, req.TokenIndex}
		}},
	},
	OpTransfer: {
		{"transferWithData", []string{"address", "address", "uint256", "bytes"}, func(req *Request) []interface{} {
			if req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.From, req.To, req.TokenIndex, locator.EncodeHex(req.Data)}
		}},
		{"safeTransferFrom", []string{"address", "address", "uint256"}, func(req *Request) []interface{} {
			if req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.From, req.To, req.TokenIndex}
		}},
	},
	OpBurn: {
		{"burnWithData", []string{"address", "uint256", "bytes"}, func(req *Request) []interface{} {
			if req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.From, req.TokenIndex, locator.EncodeHex(req.Data)}
		}},
		{"burn", []string{"address", "uint256"}, func(req *Request) []interface{} {
			if req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.From, req.TokenIndex}
		}},
	},
	OpApproval: {
		// per-token approval when tokenIndex is set, approval-for-all when not
		{"approveWithData", []string{"address", "uint256", "bytes"}, func(req *Request) []interface{} {
			if req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.Operator, req.TokenIndex, locator.EncodeHex(req.Data)}
		}},
		{"setApprovalForAllWithData", []string{"address", "bool", "bytes"}, func(req *Request) []interface{} {
			if req.TokenIndex != "" {
				return nil
			}
			return []interface{}{req.Operator, req.Approved, locator.EncodeHex(req.Data)}
		}},
		{"approve", []string{"address", "uint256"}, func(req *Request) []interface{} {
			if req.TokenIndex == "" {
				return nil
			}
			return []interface{}{req.Operator, req.TokenIndex}
		}},
		{"setApprovalForAll", []string{"address", "bool"}, func(req *Request) []interface{} {
			if req.TokenIndex != "" {
				return nil
			}
			return []interface{}{req.Operator, req.Approved}
		}},
	},
}

// GetMethodAndParams walks the operation's candidate list in priority order
// and returns the first method present in the pool's ABI whose mapping
// accepts the request.
func (m *Mapper) GetMethodAndParams(ctx context.Context, pool *locator.PoolLocator, op Operation, req *Request) (*abis.Entry, []interface{}, error) {
	a, err := abis.ForSchema(pool.Schema)
	if err != nil {
		return nil, nil, types.NewValidationError("unknown schema in pool locator: %s", pool.Schema)
	}
	table := erc721Methods
	if pool.IsFungible() {
		table = erc20Methods
	}
	for _, candidate := range table[op] {
		method := a.Method(candidate.name, candidate.inputs)
		if method == nil {
			continue
		}
		if params := candidate.mapParams(req); params != nil {
			return method, params, nil
		}
	}
	return nil, nil, types.NewNotFoundError("no suitable method for '%s' found in schema %s", op, pool.Schema)
}
