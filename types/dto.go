// Package types defines the request and response shapes exchanged on the
// connector's public REST/WebSocket surface, the semantic token events it
// emits, and the error taxonomy shared across components.
package types

// TokenType distinguishes the two supported contract families.
type TokenType string

const (
	TypeFungible    TokenType = "fungible"
	TypeNonFungible TokenType = "nonfungible"
)

// TokenPool is the request body for POST /createpool.
type TokenPool struct {
	Type      TokenType  `json:"type"`
	Name      string     `json:"name,omitempty"`
	Symbol    string     `json:"symbol,omitempty"`
	Data      string     `json:"data,omitempty"`
	Signer    string     `json:"signer,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
	Config    PoolConfig `json:"config,omitempty"`
}

// PoolConfig carries the optional pool creation parameters. When Address is
// set the pool indexes an existing contract; otherwise the configured
// factory deploys a new one.
type PoolConfig struct {
	Address     string `json:"address,omitempty"`
	BlockNumber string `json:"blockNumber,omitempty"`
	URI         string `json:"uri,omitempty"`
}

// TokenPoolActivate is the request body for POST /activatepool.
type TokenPoolActivate struct {
	PoolLocator string     `json:"poolLocator"`
	PoolData    string     `json:"poolData,omitempty"`
	RequestID   string     `json:"requestId,omitempty"`
	Config      PoolConfig `json:"config,omitempty"`
}

// TokenMint is the request body for POST /mint.
type TokenMint struct {
	PoolLocator string `json:"poolLocator"`
	To          string `json:"to"`
	Amount      string `json:"amount,omitempty"`
	TokenIndex  string `json:"tokenIndex,omitempty"`
	URI         string `json:"uri,omitempty"`
	Data        string `json:"data,omitempty"`
	Signer      string `json:"signer"`
	RequestID   string `json:"requestId,omitempty"`
}

// TokenTransfer is the request body for POST /transfer.
type TokenTransfer struct {
	PoolLocator string `json:"poolLocator"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      string `json:"amount,omitempty"`
	TokenIndex  string `json:"tokenIndex,omitempty"`
	Data        string `json:"data,omitempty"`
	Signer      string `json:"signer"`
	RequestID   string `json:"requestId,omitempty"`
}

// TokenBurn is the request body for POST /burn.
type TokenBurn struct {
	PoolLocator string `json:"poolLocator"`
	From        string `json:"from"`
	Amount      string `json:"amount,omitempty"`
	TokenIndex  string `json:"tokenIndex,omitempty"`
	Data        string `json:"data,omitempty"`
	Signer      string `json:"signer"`
	RequestID   string `json:"requestId,omitempty"`
}

// ApprovalConfig carries the operation-specific knobs of an approval.
type ApprovalConfig struct {
	Allowance  string `json:"allowance,omitempty"`
	TokenIndex string `json:"tokenIndex,omitempty"`
}

// TokenApproval is the request body for POST /approval.
type TokenApproval struct {
	PoolLocator string         `json:"poolLocator"`
	Operator    string         `json:"operator"`
	Approved    bool           `json:"approved"`
	Config      ApprovalConfig `json:"config,omitempty"`
	Data        string         `json:"data,omitempty"`
	Signer      string         `json:"signer"`
	RequestID   string         `json:"requestId,omitempty"`
}

// AsyncResponse acknowledges an asynchronously submitted transaction. The id
// correlates the eventual receipt delivered over the WebSocket.
type AsyncResponse struct {
	ID string `json:"id"`
}

// TokenBalance is the response body for GET /balance.
type TokenBalance struct {
	Balance string `json:"balance"`
}
