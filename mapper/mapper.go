// Package mapper selects the concrete contract method for each abstract
// token operation. It combines the static ABI registry, per-operation
// signature tables, and a cached ERC-165 capability probe.
package mapper

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/abis"
	"github.com/kaleido-io/tokens-connector-go/types"
)

// Well-known ERC-165 interface ids probed during schema selection.
const (
	ERC20WithDataIID        = "0xaefdad0f"
	ERC721WithURIIID        = "0x8706707d"
	ERC721WithDataLegacyIID = "0xb2429c12"
	TokenFactoryIID         = "0x83a74a0c"
)

// probeCacheSize bounds the process-wide capability cache.
const probeCacheSize = 500

// QueryBackend issues synchronous contract queries. Satisfied by the
// ethconnect client.
type QueryBackend interface {
	Query(ctx context.Context, to string, method *abis.Entry, params []interface{}) (interface{}, error)
}

// Mapper is safe for concurrent use; the probe cache takes care of its own
// locking and duplicate probes during a race resolve to the same value.
type Mapper struct {
	backend QueryBackend
	cache   *lru.Cache
	log     *logrus.Entry
}

func NewMapper(backend QueryBackend) *Mapper {
	cache, _ := lru.New(probeCacheSize)
	return &Mapper{
		backend: backend,
		cache:   cache,
		log:     logrus.WithField("component", "abimapper"),
	}
}

// GetTokenSchema returns the schema string for a pool of the given type and
// data capability.
func GetTokenSchema(t types.TokenType, withData bool) string {
	if t == types.TypeFungible {
		if withData {
			return abis.ERC20WithData
		}
		return abis.ERC20NoData
	}
	if withData {
		return abis.ERC721WithData
	}
	return abis.ERC721NoData
}

// SupportsInterface probes supportsInterface(iid) on the contract, caching
// both outcomes. A probe failure means the contract does not advertise the
// capability; it is logged and never surfaced to the caller.
func (m *Mapper) SupportsInterface(ctx context.Context, address, iid string) bool {
	key := strings.ToLower(address) + ":" + iid
	if cached, ok := m.cache.Get(key); ok {
		return cached.(bool)
	}
	support := false
	output, err := m.backend.Query(ctx, address, abis.SupportsInterface, []interface{}{iid})
	if err != nil {
		m.log.Infof("Contract %s does not support ERC165 probe for %s: %s", address, iid, err)
	} else {
		support = outputIsTrue(output)
	}
	m.cache.Add(key, support)
	return support
}

// SupportsData reports whether the contract implements the "WithData"
// method family for its token type.
func (m *Mapper) SupportsData(ctx context.Context, address string, t types.TokenType) bool {
	if t == types.TypeFungible {
		return m.SupportsInterface(ctx, address, ERC20WithDataIID)
	}
	return m.SupportsInterface(ctx, address, ERC721WithURIIID) ||
		m.SupportsInterface(ctx, address, ERC721WithDataLegacyIID)
}

// SupportsNFTURI reports whether the contract (or, with factory set, the
// token factory) implements the URI extension. The answer is cached by
// address alone, so a token and a factory at the same address share one
// cache slot.
func (m *Mapper) SupportsNFTURI(ctx context.Context, address string, factory bool) bool {
	key := "uri:" + strings.ToLower(address)
	if cached, ok := m.cache.Get(key); ok {
		return cached.(bool)
	}
	iid := ERC721WithURIIID
	if factory {
		iid = TokenFactoryIID
	}
	support := m.SupportsInterface(ctx, address, iid)
	m.cache.Add(key, support)
	return support
}

func outputIsTrue(output interface{}) bool {
	switch v := output.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}
