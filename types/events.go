package types

import "encoding/json"

// Event names on the outbound WebSocket.
const (
	EventBatch         = "batch"
	EventReceipt       = "receipt"
	EventStarted       = "started"
	EventTokenPool     = "token-pool"
	EventTokenMint     = "token-mint"
	EventTokenBurn     = "token-burn"
	EventTokenTransfer = "token-transfer"
	EventTokenApproval = "token-approval"
)

// RawEvent is one on-chain log event as delivered by the event stream.
// The signature may carry a colon-separated subscription qualifier which is
// trimmed before dispatch.
type RawEvent struct {
	SubID            string          `json:"subId"`
	Signature        string          `json:"signature"`
	Address          string          `json:"address"`
	BlockNumber      string          `json:"blockNumber"`
	TransactionIndex string          `json:"transactionIndex"`
	TransactionHash  string          `json:"transactionHash"`
	LogIndex         string          `json:"logIndex"`
	Timestamp        string          `json:"timestamp,omitempty"`
	Data             json.RawMessage `json:"data"`
	InputMethod      string          `json:"inputMethod,omitempty"`
	InputArgs        json.RawMessage `json:"inputArgs,omitempty"`
	InputSigner      string          `json:"inputSigner,omitempty"`
}

// BlockchainInfo pins a semantic token event back to the on-chain log that
// produced it.
type BlockchainInfo struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Signature string          `json:"signature"`
	Timestamp string          `json:"timestamp,omitempty"`
	Output    json.RawMessage `json:"output,omitempty"`
	Info      *BlockchainTX   `json:"info,omitempty"`
}

// BlockchainTX is the transaction-level detail of a blockchain event.
type BlockchainTX struct {
	Address          string `json:"address"`
	BlockNumber      string `json:"blockNumber"`
	TransactionIndex string `json:"transactionIndex"`
	TransactionHash  string `json:"transactionHash"`
	LogIndex         string `json:"logIndex"`
	Signature        string `json:"signature"`
}

// TokenPoolEventData is the payload of a token-pool event, and also the
// synchronous response body of createpool/activatepool.
type TokenPoolEventData struct {
	ID          string          `json:"id,omitempty"`
	Standard    string          `json:"standard"`
	Type        TokenType       `json:"type"`
	PoolLocator string          `json:"poolLocator"`
	PoolData    string          `json:"poolData,omitempty"`
	Signer      string          `json:"signer,omitempty"`
	Data        string          `json:"data,omitempty"`
	Name        string          `json:"name,omitempty"`
	Symbol      string          `json:"symbol,omitempty"`
	Decimals    int             `json:"decimals,omitempty"`
	Info        *PoolInfo       `json:"info,omitempty"`
	Blockchain  *BlockchainInfo `json:"blockchain,omitempty"`
}

// PoolInfo is the on-chain detail block of a token pool.
type PoolInfo struct {
	Address  string `json:"address"`
	Schema   string `json:"schema"`
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals int    `json:"decimals,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// TokenTransferEventData is the payload of token-mint, token-burn and
// token-transfer events.
type TokenTransferEventData struct {
	ID          string          `json:"id"`
	PoolLocator string          `json:"poolLocator"`
	PoolData    string          `json:"poolData,omitempty"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	Amount      string          `json:"amount"`
	TokenIndex  string          `json:"tokenIndex,omitempty"`
	URI         string          `json:"uri,omitempty"`
	Signer      string          `json:"signer,omitempty"`
	Data        string          `json:"data,omitempty"`
	Blockchain  *BlockchainInfo `json:"blockchain"`
}

// TokenApprovalEventData is the payload of a token-approval event. Subject
// identifies the approval scope: "<owner>:<operator>" for allowance style
// approvals, "<owner>:<operator>:<tokenIndex>" for per-token ones.
type TokenApprovalEventData struct {
	ID          string          `json:"id"`
	PoolLocator string          `json:"poolLocator"`
	PoolData    string          `json:"poolData,omitempty"`
	Subject     string          `json:"subject"`
	Operator    string          `json:"operator"`
	Approved    bool            `json:"approved"`
	TokenIndex  string          `json:"tokenIndex,omitempty"`
	Signer      string          `json:"signer,omitempty"`
	Data        string          `json:"data,omitempty"`
	Info        json.RawMessage `json:"info,omitempty"`
	Blockchain  *BlockchainInfo `json:"blockchain"`
}

// WSEventPayload is one semantic token event inside a batch message.
type WSEventPayload struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// WSBatch is the data of an outbound batch message.
type WSBatch struct {
	Events      []*WSEventPayload `json:"events"`
	BatchNumber *int64            `json:"batchNumber,omitempty"`
}

// WSMessage is the envelope of every server-to-client WebSocket message.
type WSMessage struct {
	Event string      `json:"event"`
	ID    string      `json:"id,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// WSClientMessage is the union of everything a client may send. The start
// command uses {type:"start", namespace}; acknowledgments use
// {event:"ack", data:{id}} with {type:"ack", id} tolerated as a legacy form.
type WSClientMessage struct {
	Type      string `json:"type,omitempty"`
	Event     string `json:"event,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	ID        string `json:"id,omitempty"`
	Data      struct {
		ID        string `json:"id,omitempty"`
		Namespace string `json:"namespace,omitempty"`
	} `json:"data,omitempty"`
}
