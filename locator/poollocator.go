package locator

import (
	"net/url"
	"strings"

	"github.com/kaleido-io/tokens-connector-go/types"
)

// PoolLocator is the canonical descriptor of an activated token pool.
type PoolLocator struct {
	Address string
	Schema  string
	Type    types.TokenType
}

// Pack serializes the locator as a query string with stable attribute
// order: address, schema, type.
func (p *PoolLocator) Pack() string {
	return "address=" + url.QueryEscape(p.Address) +
		"&schema=" + url.QueryEscape(p.Schema) +
		"&type=" + url.QueryEscape(string(p.Type))
}

// Unpack parses a packed pool locator. Unknown attributes are ignored, and
// the legacy "standard" key is accepted as a synonym for "schema". Invalid
// input yields a locator that fails Valid.
func Unpack(s string) *PoolLocator {
	values, err := url.ParseQuery(s)
	if err != nil {
		return &PoolLocator{}
	}
	schema := values.Get("schema")
	if schema == "" {
		schema = values.Get("standard")
	}
	return &PoolLocator{
		Address: strings.ToLower(values.Get("address")),
		Schema:  schema,
		Type:    types.TokenType(values.Get("type")),
	}
}

// Valid checks that all three attributes are present and that the type is
// consistent with the schema family.
func (p *PoolLocator) Valid() bool {
	if p.Address == "" || p.Schema == "" {
		return false
	}
	switch {
	case strings.HasPrefix(p.Schema, "ERC20"):
		return p.Type == types.TypeFungible
	case strings.HasPrefix(p.Schema, "ERC721"):
		return p.Type == types.TypeNonFungible
	}
	return false
}

// IsFungible reports whether the locator describes an ERC-20 style pool.
func (p *PoolLocator) IsFungible() bool {
	return p.Type == types.TypeFungible
}
