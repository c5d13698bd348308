// Package tokens implements the connector's operation layer: pool creation
// and activation, the four transaction submissions, balance queries and
// receipt lookups. It is stateless; every call maps a request onto gateway
// calls and returns.
package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/abis"
	"github.com/kaleido-io/tokens-connector-go/ethconnect"
	"github.com/kaleido-io/tokens-connector-go/locator"
	"github.com/kaleido-io/tokens-connector-go/mapper"
	"github.com/kaleido-io/tokens-connector-go/types"
)

// Service executes token operations against the RPC gateway.
type Service struct {
	eth            *ethconnect.Client
	streams        *ethconnect.StreamManager
	mapper         *mapper.Mapper
	topic          string
	factoryAddress string
	log            *logrus.Entry
}

func NewService(eth *ethconnect.Client, streams *ethconnect.StreamManager, m *mapper.Mapper, topic, factoryAddress string) *Service {
	return &Service{
		eth:            eth,
		streams:        streams,
		mapper:         m,
		topic:          topic,
		factoryAddress: factoryAddress,
		log:            logrus.WithField("component", "tokens"),
	}
}

func tokenStandard(t types.TokenType) string {
	if t == types.TypeFungible {
		return "ERC20"
	}
	return "ERC721"
}

// CreatePool either indexes an existing contract (synchronous, async=false)
// or submits a factory deployment (asynchronous, async=true with an
// AsyncResponse result).
func (s *Service) CreatePool(ctx context.Context, req *types.TokenPool) (interface{}, bool, error) {
	if req.Type != types.TypeFungible && req.Type != types.TypeNonFungible {
		return nil, false, types.NewValidationError("type must be 'fungible' or 'nonfungible'")
	}
	if req.Config.Address != "" {
		res, err := s.indexExistingPool(ctx, req)
		return res, false, err
	}
	res, err := s.deployNewPool(ctx, req)
	return res, true, err
}

// indexExistingPool probes the contract's capabilities, verifies it against
// the request, and returns the pool definition without any transaction.
func (s *Service) indexExistingPool(ctx context.Context, req *types.TokenPool) (*types.TokenPoolEventData, error) {
	address := req.Config.Address
	withData := s.mapper.SupportsData(ctx, address, req.Type)
	schema := mapper.GetTokenSchema(req.Type, withData)
	pool := &locator.PoolLocator{Address: strings.ToLower(address), Schema: schema, Type: req.Type}

	info := &types.PoolInfo{Address: pool.Address, Schema: schema}

	// metadata queries are best effort: plenty of contracts omit them
	if name, err := s.eth.QueryString(ctx, address, abis.Name, []interface{}{}); err == nil {
		info.Name = name
	}
	if symbol, err := s.eth.QueryString(ctx, address, abis.Symbol, []interface{}{}); err == nil {
		info.Symbol = symbol
	}
	if req.Symbol != "" && info.Symbol != "" && req.Symbol != info.Symbol {
		return nil, types.NewValidationError(
			"symbol '%s' does not match contract symbol '%s'", req.Symbol, info.Symbol)
	}
	if req.Type == types.TypeFungible {
		if out, err := s.eth.Query(ctx, address, abis.Decimals, []interface{}{}); err == nil {
			info.Decimals = decimalsOf(out)
		}
	} else if s.mapper.SupportsNFTURI(ctx, address, false) {
		if uri, err := s.eth.QueryString(ctx, address, abis.BaseTokenURI, []interface{}{}); err == nil {
			info.URI = uri
		}
	}

	return &types.TokenPoolEventData{
		Standard:    tokenStandard(req.Type),
		Type:        req.Type,
		PoolLocator: pool.Pack(),
		Data:        req.Data,
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		Info:        info,
	}, nil
}

// deployNewPool submits a contract creation through the configured token
// factory. The resulting pool surfaces later as a token-pool event.
func (s *Service) deployNewPool(ctx context.Context, req *types.TokenPool) (*types.AsyncResponse, error) {
	if s.factoryAddress == "" {
		return nil, types.NewValidationError("no token factory configured; config.address is required")
	}
	if req.Name == "" || req.Symbol == "" {
		return nil, types.NewValidationError("name and symbol are required to deploy a new pool")
	}

	a, err := abis.ForSchema(abis.TokenFactory)
	if err != nil {
		return nil, err
	}
	isFungible := req.Type == types.TypeFungible
	params := []interface{}{req.Name, req.Symbol, isFungible, locator.EncodeHex(req.Data)}

	var method *abis.Entry
	if s.mapper.SupportsNFTURI(ctx, s.factoryAddress, true) {
		method = a.Method("create", []string{"string", "string", "bool", "bytes", "string"})
		params = append(params, req.Config.URI)
	} else {
		method = a.Method("create", []string{"string", "string", "bool", "bytes"})
	}
	if method == nil {
		return nil, types.NewNotFoundError("no suitable create method found on the token factory")
	}

	// the pool surfaces as a token-pool event on the factory subscription,
	// so that subscription must exist before the deployment is submitted
	if err := s.ensureFactorySubscription(ctx, a); err != nil {
		return nil, err
	}

	id, err := s.eth.SendTransaction(ctx, req.Signer, s.factoryAddress, req.RequestID, method, params)
	if err != nil {
		return nil, err
	}
	return &types.AsyncResponse{ID: id}, nil
}

// ensureFactorySubscription subscribes the event stream to the factory's
// TokenPoolCreation event. The subscription name carries the factory
// address in place of a pool locator. Idempotent like pool activation.
func (s *Service) ensureFactorySubscription(ctx context.Context, a abis.ABI) error {
	event := a.Event(abis.TokenPoolCreationEvent)
	if event == nil {
		return types.NewNotFoundError("event '%s' not found in the token factory ABI", abis.TokenPoolCreationEvent)
	}
	stream, err := s.streams.EnsureEventStream(ctx)
	if err != nil {
		return err
	}
	name := locator.PackSubscriptionName(s.topic, s.factoryAddress, abis.TokenPoolCreationEvent, "")
	_, err = s.streams.GetOrCreateSubscription(ctx, stream.ID, event, name, s.factoryAddress, a.Methods(), "0")
	return err
}

// ActivatePool subscribes the event stream to the pool's events. It is
// idempotent: re-activation reuses any subscriptions already present.
func (s *Service) ActivatePool(ctx context.Context, req *types.TokenPoolActivate) (*types.TokenPoolEventData, error) {
	pool := locator.Unpack(req.PoolLocator)
	if !pool.Valid() {
		return nil, types.NewValidationError("invalid pool locator: %s", req.PoolLocator)
	}
	a, err := abis.ForSchema(pool.Schema)
	if err != nil {
		return nil, types.NewValidationError("unknown schema in pool locator: %s", pool.Schema)
	}

	stream, err := s.streams.EnsureEventStream(ctx)
	if err != nil {
		return nil, err
	}
	fromBlock := req.Config.BlockNumber
	if fromBlock == "" {
		fromBlock = "0"
	}

	events := []string{abis.TransferEvent, abis.ApprovalEvent}
	if !pool.IsFungible() {
		events = append(events, abis.ApprovalForAllEvent)
	}
	for _, eventName := range events {
		event := a.Event(eventName)
		if event == nil {
			return nil, types.NewNotFoundError("event '%s' not found in schema %s", eventName, pool.Schema)
		}
		name := locator.PackSubscriptionName(s.topic, req.PoolLocator, eventName, req.PoolData)
		if _, err := s.streams.GetOrCreateSubscription(ctx, stream.ID, event, name, pool.Address, a.Methods(), fromBlock); err != nil {
			return nil, err
		}
	}

	return &types.TokenPoolEventData{
		Standard:    tokenStandard(pool.Type),
		Type:        pool.Type,
		PoolLocator: req.PoolLocator,
		PoolData:    req.PoolData,
		Info: &types.PoolInfo{
			Address: pool.Address,
			Schema:  pool.Schema,
		},
	}, nil
}

// checkedPool validates the locator and the NFT amount rule before any
// gateway traffic.
func checkedPool(poolLocator, amount string) (*locator.PoolLocator, error) {
	pool := locator.Unpack(poolLocator)
	if !pool.Valid() {
		return nil, types.NewValidationError("invalid pool locator: %s", poolLocator)
	}
	if !pool.IsFungible() && amount != "" && amount != "1" {
		return nil, types.NewValidationError("amount for nonfungible tokens must be 1")
	}
	return pool, nil
}

func (s *Service) submit(ctx context.Context, pool *locator.PoolLocator, op mapper.Operation, signer, requestID string, req *mapper.Request) (*types.AsyncResponse, error) {
	method, params, err := s.mapper.GetMethodAndParams(ctx, pool, op, req)
	if err != nil {
		return nil, err
	}
	id, err := s.eth.SendTransaction(ctx, signer, pool.Address, requestID, method, params)
	if err != nil {
		return nil, err
	}
	return &types.AsyncResponse{ID: id}, nil
}

// Mint submits a mint transaction for the pool.
func (s *Service) Mint(ctx context.Context, req *types.TokenMint) (*types.AsyncResponse, error) {
	pool, err := checkedPool(req.PoolLocator, req.Amount)
	if err != nil {
		return nil, err
	}
	mreq := &mapper.Request{
		To:         req.To,
		Amount:     req.Amount,
		TokenIndex: req.TokenIndex,
		URI:        req.URI,
		Data:       req.Data,
	}
	if !pool.IsFungible() {
		mreq.SupportsURI = s.mapper.SupportsNFTURI(ctx, pool.Address, false)
	}
	return s.submit(ctx, pool, mapper.OpMint, req.Signer, req.RequestID, mreq)
}

// Transfer submits a transfer transaction for the pool.
func (s *Service) Transfer(ctx context.Context, req *types.TokenTransfer) (*types.AsyncResponse, error) {
	pool, err := checkedPool(req.PoolLocator, req.Amount)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, pool, mapper.OpTransfer, req.Signer, req.RequestID, &mapper.Request{
		From:       req.From,
		To:         req.To,
		Amount:     req.Amount,
		TokenIndex: req.TokenIndex,
		Data:       req.Data,
	})
}

// Burn submits a burn transaction for the pool.
func (s *Service) Burn(ctx context.Context, req *types.TokenBurn) (*types.AsyncResponse, error) {
	pool, err := checkedPool(req.PoolLocator, req.Amount)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, pool, mapper.OpBurn, req.Signer, req.RequestID, &mapper.Request{
		From:       req.From,
		Amount:     req.Amount,
		TokenIndex: req.TokenIndex,
		Data:       req.Data,
	})
}

// Approval submits an approval transaction for the pool.
func (s *Service) Approval(ctx context.Context, req *types.TokenApproval) (*types.AsyncResponse, error) {
	pool, err := checkedPool(req.PoolLocator, "")
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, pool, mapper.OpApproval, req.Signer, req.RequestID, &mapper.Request{
		Operator:   req.Operator,
		Approved:   req.Approved,
		Allowance:  req.Config.Allowance,
		TokenIndex: req.Config.TokenIndex,
		Data:       req.Data,
	})
}

// Balance queries the account's balance in the pool.
func (s *Service) Balance(ctx context.Context, poolLocator, account string) (*types.TokenBalance, error) {
	pool := locator.Unpack(poolLocator)
	if !pool.Valid() {
		return nil, types.NewValidationError("invalid pool locator: %s", poolLocator)
	}
	if account == "" {
		return nil, types.NewValidationError("account is required")
	}
	output, err := s.eth.Query(ctx, pool.Address, abis.BalanceOf, []interface{}{account})
	if err != nil {
		return nil, err
	}
	return &types.TokenBalance{Balance: fmt.Sprintf("%v", output)}, nil
}

// Receipt fetches the stored receipt of a submitted operation.
func (s *Service) Receipt(ctx context.Context, id string) (json.RawMessage, error) {
	return s.eth.GetReceipt(ctx, id)
}

func decimalsOf(output interface{}) int {
	switch v := output.(type) {
	case float64:
		return int(v)
	case string:
		var n int
		fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}
