// Package events turns raw on-chain log events into the semantic token
// events of the outbound WebSocket API, and fans them out to connected
// clients with at-least-once delivery.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/abis"
	"github.com/kaleido-io/tokens-connector-go/locator"
	"github.com/kaleido-io/tokens-connector-go/mapper"
	"github.com/kaleido-io/tokens-connector-go/types"
)

// zeroAddress marks mints (as sender) and burns (as recipient) in Transfer
// events.
const zeroAddress = "0x0000000000000000000000000000000000000000"

// SubscriptionResolver maps a subscription id from an inbound event back to
// the subscription name it was created with.
type SubscriptionResolver interface {
	SubscriptionName(ctx context.Context, subID string) (string, error)
}

// QueryBackend issues the metadata queries needed to enrich NFT events.
type QueryBackend interface {
	QueryString(ctx context.Context, to string, method *abis.Entry, params []interface{}) (string, error)
}

// Listener transforms one raw event at a time. Events it cannot attribute
// to a known pool are dropped with a warning rather than failing the batch.
type Listener struct {
	topic   string
	streams SubscriptionResolver
	backend QueryBackend
	log     *logrus.Entry
}

func NewListener(topic string, streams SubscriptionResolver, backend QueryBackend) *Listener {
	return &Listener{
		topic:   topic,
		streams: streams,
		backend: backend,
		log:     logrus.WithField("component", "listener"),
	}
}

// Transform maps a raw log event to its semantic payload, or nil when the
// event should be dropped.
func (l *Listener) Transform(ctx context.Context, raw *types.RawEvent) *types.WSEventPayload {
	sub, err := l.resolveSubscription(ctx, raw.SubID)
	if err != nil {
		l.log.Warnf("Dropping event on unknown subscription %s: %s", raw.SubID, err)
		return nil
	}
	// the gateway may prefix the signature with a colon-separated
	// subscription qualifier
	signature := raw.Signature
	if i := strings.Index(signature, ":"); i >= 0 {
		signature = signature[i+1:]
	}
	eventName := signature
	if i := strings.Index(eventName, "("); i >= 0 {
		eventName = eventName[:i]
	}

	// pool creation events arrive on the factory subscription, whose name
	// carries the factory address rather than a pool locator
	if eventName == abis.TokenPoolCreationEvent {
		return l.transformPoolCreation(raw, sub, signature)
	}

	pool := locator.Unpack(sub.PoolLocator)
	if !pool.Valid() {
		l.log.Warnf("Dropping event with invalid pool locator '%s'", sub.PoolLocator)
		return nil
	}

	switch eventName {
	case abis.TransferEvent:
		return l.transformTransfer(ctx, raw, sub, pool, signature)
	case abis.ApprovalEvent:
		return l.transformApproval(raw, sub, pool, signature)
	case abis.ApprovalForAllEvent:
		return l.transformApprovalForAll(raw, sub, pool, signature)
	}
	l.log.Debugf("Ignoring event with unknown signature '%s'", raw.Signature)
	return nil
}

func (l *Listener) resolveSubscription(ctx context.Context, subID string) (*locator.SubscriptionName, error) {
	name, err := l.streams.SubscriptionName(ctx, subID)
	if err != nil {
		return nil, err
	}
	return locator.UnpackSubscriptionName(l.topic, name)
}

// eventID is stable and sortable: zero-padded block number, transaction
// index and log index.
func eventID(raw *types.RawEvent) string {
	return fmt.Sprintf("%012d/%06d/%06d",
		parseUint(raw.BlockNumber),
		parseUint(raw.TransactionIndex),
		parseUint(raw.LogIndex))
}

// parseUint accepts both the decimal and 0x-prefixed hex forms the gateway
// uses for positional fields.
func parseUint(s string) uint64 {
	if strings.HasPrefix(s, "0x") {
		v, _ := strconv.ParseUint(s[2:], 16, 64)
		return v
	}
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

func blockchainInfo(raw *types.RawEvent, eventName, signature string) *types.BlockchainInfo {
	return &types.BlockchainInfo{
		ID:        eventID(raw),
		Name:      eventName,
		Location:  "address=" + raw.Address,
		Signature: signature,
		Timestamp: raw.Timestamp,
		Output:    raw.Data,
		Info: &types.BlockchainTX{
			Address:          raw.Address,
			BlockNumber:      raw.BlockNumber,
			TransactionIndex: raw.TransactionIndex,
			TransactionHash:  raw.TransactionHash,
			LogIndex:         raw.LogIndex,
			Signature:        signature,
		},
	}
}

// inputData recovers the operation data that rode along on the transaction
// input, when the gateway decoded a *WithData method call.
func inputData(raw *types.RawEvent) string {
	if len(raw.InputArgs) == 0 {
		return ""
	}
	var args struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(raw.InputArgs, &args); err != nil {
		return ""
	}
	return locator.DecodeHex(args.Data)
}

type poolCreationData struct {
	ContractAddress string `json:"contract_address"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	IsFungible      bool   `json:"is_fungible"`
	Data            string `json:"data"`
}

func (l *Listener) transformPoolCreation(raw *types.RawEvent, sub *locator.SubscriptionName, signature string) *types.WSEventPayload {
	var data poolCreationData
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		l.log.Warnf("Dropping malformed TokenPoolCreation event: %s", err)
		return nil
	}
	tokenType := types.TypeNonFungible
	if data.IsFungible {
		tokenType = types.TypeFungible
	}
	// factory deployments always carry the data extension
	schema := mapper.GetTokenSchema(tokenType, true)
	pool := &locator.PoolLocator{
		Address: strings.ToLower(data.ContractAddress),
		Schema:  schema,
		Type:    tokenType,
	}
	return &types.WSEventPayload{
		Event: types.EventTokenPool,
		Data: &types.TokenPoolEventData{
			ID:          eventID(raw),
			Standard:    tokenStandard(tokenType),
			Type:        tokenType,
			PoolLocator: pool.Pack(),
			PoolData:    sub.PoolData,
			Signer:      raw.InputSigner,
			Data:        locator.DecodeHex(data.Data),
			Name:        data.Name,
			Symbol:      data.Symbol,
			Info: &types.PoolInfo{
				Address: pool.Address,
				Schema:  schema,
				Name:    data.Name,
				Symbol:  data.Symbol,
			},
			Blockchain: blockchainInfo(raw, abis.TokenPoolCreationEvent, signature),
		},
	}
}

func tokenStandard(t types.TokenType) string {
	if t == types.TypeFungible {
		return "ERC20"
	}
	return "ERC721"
}

type transferData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Value   string `json:"value"`
	TokenID string `json:"tokenId"`
}

func (l *Listener) transformTransfer(ctx context.Context, raw *types.RawEvent, sub *locator.SubscriptionName, pool *locator.PoolLocator, signature string) *types.WSEventPayload {
	var data transferData
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		l.log.Warnf("Dropping malformed Transfer event: %s", err)
		return nil
	}
	mint := data.From == zeroAddress
	burn := data.To == zeroAddress
	if mint && burn {
		return nil
	}

	payload := &types.TokenTransferEventData{
		ID:          eventID(raw),
		PoolLocator: pool.Pack(),
		PoolData:    sub.PoolData,
		Signer:      raw.InputSigner,
		Data:        inputData(raw),
		Blockchain:  blockchainInfo(raw, abis.TransferEvent, signature),
	}
	if pool.IsFungible() {
		payload.Amount = data.Value
	} else {
		payload.Amount = "1"
		payload.TokenIndex = data.TokenID
		if !burn {
			// best effort: a missing or failing tokenURI leaves the field empty
			uri, err := l.backend.QueryString(ctx, pool.Address, abis.TokenURI, []interface{}{data.TokenID})
			if err != nil {
				l.log.Infof("Could not query URI for token %s: %s", data.TokenID, err)
			}
			payload.URI = uri
		}
	}

	event := types.EventTokenTransfer
	switch {
	case mint:
		event = types.EventTokenMint
		payload.To = data.To
	case burn:
		event = types.EventTokenBurn
		payload.From = data.From
	default:
		payload.From = data.From
		payload.To = data.To
	}
	return &types.WSEventPayload{Event: event, Data: payload}
}

type approvalData struct {
	Owner    string `json:"owner"`
	Spender  string `json:"spender"`
	Value    string `json:"value"`
	Approved string `json:"approved"`
	TokenID  string `json:"tokenId"`
}

func (l *Listener) transformApproval(raw *types.RawEvent, sub *locator.SubscriptionName, pool *locator.PoolLocator, signature string) *types.WSEventPayload {
	var data approvalData
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		l.log.Warnf("Dropping malformed Approval event: %s", err)
		return nil
	}

	payload := &types.TokenApprovalEventData{
		ID:          eventID(raw),
		PoolLocator: pool.Pack(),
		PoolData:    sub.PoolData,
		Signer:      raw.InputSigner,
		Data:        inputData(raw),
		Info:        raw.Data,
		Blockchain:  blockchainInfo(raw, abis.ApprovalEvent, signature),
	}
	if pool.IsFungible() {
		payload.Operator = data.Spender
		payload.Approved = data.Value != "" && data.Value != "0"
		payload.Subject = data.Owner + ":" + data.Spender
	} else {
		// the ERC-721 Approval event names the approved party "approved";
		// approval to the zero address is a revocation
		payload.Operator = data.Approved
		payload.Approved = data.Approved != zeroAddress
		payload.TokenIndex = data.TokenID
		payload.Subject = data.Owner + ":" + data.Approved + ":" + data.TokenID
	}
	return &types.WSEventPayload{Event: types.EventTokenApproval, Data: payload}
}

type approvalForAllData struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

func (l *Listener) transformApprovalForAll(raw *types.RawEvent, sub *locator.SubscriptionName, pool *locator.PoolLocator, signature string) *types.WSEventPayload {
	var data approvalForAllData
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		l.log.Warnf("Dropping malformed ApprovalForAll event: %s", err)
		return nil
	}
	return &types.WSEventPayload{
		Event: types.EventTokenApproval,
		Data: &types.TokenApprovalEventData{
			ID:          eventID(raw),
			PoolLocator: pool.Pack(),
			PoolData:    sub.PoolData,
			Subject:     data.Owner + ":" + data.Operator,
			Operator:    data.Operator,
			Approved:    data.Approved,
			Signer:      raw.InputSigner,
			Data:        inputData(raw),
			Info:        raw.Data,
			Blockchain:  blockchainInfo(raw, abis.ApprovalForAllEvent, signature),
		},
	}
}
