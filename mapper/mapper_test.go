package mapper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleido-io/tokens-connector-go/abis"
	"github.com/kaleido-io/tokens-connector-go/locator"
	"github.com/kaleido-io/tokens-connector-go/types"
)

type fakeBackend struct {
	calls   int
	outputs map[string]interface{} // "address:iid" -> output
	err     error
}

func (f *fakeBackend) Query(_ context.Context, to string, method *abis.Entry, params []interface{}) (interface{}, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	key := to + ":" + params[0].(string)
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	return false, nil
}

func TestGetTokenSchema(t *testing.T) {
	assert.Equal(t, "ERC20NoData", GetTokenSchema(types.TypeFungible, false))
	assert.Equal(t, "ERC20WithData", GetTokenSchema(types.TypeFungible, true))
	assert.Equal(t, "ERC721NoData", GetTokenSchema(types.TypeNonFungible, false))
	assert.Equal(t, "ERC721WithData", GetTokenSchema(types.TypeNonFungible, true))
}

func TestSupportsInterfaceCaching(t *testing.T) {
	backend := &fakeBackend{outputs: map[string]interface{}{
		"0xc0ffee:" + ERC20WithDataIID: true,
	}}
	m := NewMapper(backend)
	ctx := context.Background()

	assert.True(t, m.SupportsInterface(ctx, "0xc0ffee", ERC20WithDataIID))
	assert.True(t, m.SupportsInterface(ctx, "0xc0ffee", ERC20WithDataIID))
	assert.Equal(t, 1, backend.calls, "second probe must hit the cache")

	// a different interface id is a separate cache entry
	assert.False(t, m.SupportsInterface(ctx, "0xc0ffee", ERC721WithURIIID))
	assert.Equal(t, 2, backend.calls)
}

func TestSupportsInterfaceProbeFailureCachedAsFalse(t *testing.T) {
	backend := &fakeBackend{err: errors.New("execution reverted")}
	m := NewMapper(backend)
	ctx := context.Background()

	assert.False(t, m.SupportsInterface(ctx, "0xdead", ERC20WithDataIID))
	assert.False(t, m.SupportsInterface(ctx, "0xdead", ERC20WithDataIID))
	assert.Equal(t, 1, backend.calls, "failure must be cached")
}

func TestSupportsData(t *testing.T) {
	backend := &fakeBackend{outputs: map[string]interface{}{
		"0x20:" + ERC20WithDataIID:        true,
		"0x71:" + ERC721WithURIIID:        true,
		"0x72:" + ERC721WithDataLegacyIID: true,
	}}
	m := NewMapper(backend)
	ctx := context.Background()

	assert.True(t, m.SupportsData(ctx, "0x20", types.TypeFungible))
	assert.False(t, m.SupportsData(ctx, "0x21", types.TypeFungible))
	assert.True(t, m.SupportsData(ctx, "0x71", types.TypeNonFungible), "uri support implies data support")
	assert.True(t, m.SupportsData(ctx, "0x72", types.TypeNonFungible), "legacy interface id accepted")
}

func TestSupportsNFTURISharedCacheSlot(t *testing.T) {
	// the uri probe result is cached by address alone, so the factory and
	// token probes of one address share the answer
	backend := &fakeBackend{outputs: map[string]interface{}{
		"0xfac:" + TokenFactoryIID: true,
	}}
	m := NewMapper(backend)
	ctx := context.Background()

	assert.True(t, m.SupportsNFTURI(ctx, "0xfac", true))
	assert.True(t, m.SupportsNFTURI(ctx, "0xfac", false), "second role reuses the cached slot")
}

func fungiblePool(schema string) *locator.PoolLocator {
	return &locator.PoolLocator{Address: "0x123456", Schema: schema, Type: types.TypeFungible}
}

func nonFungiblePool(schema string) *locator.PoolLocator {
	return &locator.PoolLocator{Address: "0x123456", Schema: schema, Type: types.TypeNonFungible}
}

func TestERC20MintWithData(t *testing.T) {
	m := NewMapper(&fakeBackend{})
	method, params, err := m.GetMethodAndParams(context.Background(),
		fungiblePool(abis.ERC20WithData), OpMint,
		&Request{To: "0x123", Amount: "10"})
	require.NoError(t, err)
	assert.Equal(t, "mintWithData", method.Name)
	assert.Equal(t, []interface{}{"0x123", "10", "0x00"}, params)
}

func TestERC20MintNoDataFallback(t *testing.T) {
	m := NewMapper(&fakeBackend{})
	method, params, err := m.GetMethodAndParams(context.Background(),
		fungiblePool(abis.ERC20NoData), OpMint,
		&Request{To: "0x123", Amount: "10", Data: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "mint", method.Name)
	assert.Equal(t, []interface{}{"0x123", "10"}, params)
}

func TestERC20ApprovalAllowanceDefaults(t *testing.T) {
	m := NewMapper(&fakeBackend{})
	pool := fungiblePool(abis.ERC20WithData)
	ctx := context.Background()

	// approved=false always maps to zero allowance
	_, params, err := m.GetMethodAndParams(ctx, pool, OpApproval,
		&Request{Operator: "0xop", Approved: false, Allowance: "50"})
	require.NoError(t, err)
	assert.Equal(t, "0", params[1])

	// approved=true with no allowance means unlimited
	_, params, err = m.GetMethodAndParams(ctx, pool, OpApproval,
		&Request{Operator: "0xop", Approved: true})
	require.NoError(t, err)
	assert.Equal(t,
		"115792089237316195423570985008687907853269984665640564039457584007913129639935",
		params[1])

	// explicit allowance is passed through
	_, params, err = m.GetMethodAndParams(ctx, pool, OpApproval,
		&Request{Operator: "0xop", Approved: true, Allowance: "50"})
	require.NoError(t, err)
	assert.Equal(t, "50", params[1])
}

func TestERC721MintPriority(t *testing.T) {
	m := NewMapper(&fakeBackend{})
	ctx := context.Background()
	pool := nonFungiblePool(abis.ERC721WithData)

	// uri-capable contract prefers the four-arg form
	method, params, err := m.GetMethodAndParams(ctx, pool, OpMint,
		&Request{To: "0x123", TokenIndex: "721", URI: "ipfs://x", SupportsURI: true})
	require.NoError(t, err)
	assert.Equal(t, "mintWithURI", method.Name)
	assert.Equal(t, []interface{}{"0x123", "721", "0x00", "ipfs://x"}, params)

	// without uri support the three-arg form wins
	method, params, err = m.GetMethodAndParams(ctx, pool, OpMint,
		&Request{To: "0x123", TokenIndex: "721"})
	require.NoError(t, err)
	assert.Equal(t, "mintWithData", method.Name)
	assert.Len(t, params, 3)

	// no token index selects the auto-indexing overload
	method, params, err = m.GetMethodAndParams(ctx, pool, OpMint,
		&Request{To: "0x123"})
	require.NoError(t, err)
	assert.Equal(t, "mintWithData", method.Name)
	assert.Equal(t, []interface{}{"0x123", "0x00"}, params)

	// base schema falls all the way back to mint
	method, _, err = m.GetMethodAndParams(ctx, nonFungiblePool(abis.ERC721NoData), OpMint,
		&Request{To: "0x123", TokenIndex: "721", SupportsURI: true})
	require.NoError(t, err)
	assert.Equal(t, "mint", method.Name)
}

func TestERC721ApprovalByTokenIndex(t *testing.T) {
	m := NewMapper(&fakeBackend{})
	ctx := context.Background()
	pool := nonFungiblePool(abis.ERC721WithData)

	method, params, err := m.GetMethodAndParams(ctx, pool, OpApproval,
		&Request{Operator: "operator", Approved: true, TokenIndex: "5"})
	require.NoError(t, err)
	assert.Equal(t, "approveWithData", method.Name)
	assert.Equal(t, []interface{}{"operator", "5", "0x00"}, params)

	method, params, err = m.GetMethodAndParams(ctx, pool, OpApproval,
		&Request{Operator: "operator", Approved: true})
	require.NoError(t, err)
	assert.Equal(t, "setApprovalForAllWithData", method.Name)
	assert.Equal(t, []interface{}{"operator", true, "0x00"}, params)
}

func TestEveryOperationResolvesOnEverySchema(t *testing.T) {
	m := NewMapper(&fakeBackend{})
	ctx := context.Background()
	req := &Request{
		From: "0x1", To: "0x2", Amount: "1", TokenIndex: "3",
		Operator: "0x4", Approved: true,
	}
	pools := []*locator.PoolLocator{
		fungiblePool(abis.ERC20NoData),
		fungiblePool(abis.ERC20WithData),
		nonFungiblePool(abis.ERC721NoData),
		nonFungiblePool(abis.ERC721WithData),
	}
	for _, pool := range pools {
		for _, op := range []Operation{OpMint, OpTransfer, OpBurn, OpApproval} {
			method, params, err := m.GetMethodAndParams(ctx, pool, op, req)
			require.NoError(t, err, "%s on %s", op, pool.Schema)
			assert.NotNil(t, method, "%s on %s", op, pool.Schema)
			assert.NotEmpty(t, params, "%s on %s", op, pool.Schema)
		}
	}
}

func TestGetMethodAndParamsErrors(t *testing.T) {
	m := NewMapper(&fakeBackend{})
	ctx := context.Background()

	_, _, err := m.GetMethodAndParams(ctx,
		&locator.PoolLocator{Address: "0x1", Schema: "ERC1155", Type: types.TypeFungible},
		OpMint, &Request{})
	var ve *types.ValidationError
	assert.ErrorAs(t, err, &ve)

	// nonfungible transfer without a token index matches no variant
	_, _, err = m.GetMethodAndParams(ctx, nonFungiblePool(abis.ERC721WithData),
		OpTransfer, &Request{From: "0x1", To: "0x2"})
	var nf *types.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
