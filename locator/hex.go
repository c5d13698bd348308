// Package locator implements the opaque identifier codecs of the connector:
// hex packing of user data, the pool locator attribute bag, and subscription
// names on the event stream.
package locator

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EncodeHex packs a UTF-8 string into 0x-prefixed lowercase hex. The empty
// string encodes to "0x00" (a single null byte) because the RPC gateway
// rejects empty byte arguments.
func EncodeHex(s string) string {
	if s == "" {
		return "0x00"
	}
	return hexutil.Encode([]byte(s))
}

// DecodeHex is the inverse of EncodeHex. The "0x00" sentinel decodes back to
// the empty string, and anything without a valid 0x prefix yields "".
func DecodeHex(h string) string {
	if !strings.HasPrefix(h, "0x") {
		return ""
	}
	b, err := hexutil.Decode(strings.ToLower(h))
	if err != nil {
		return ""
	}
	if len(b) == 1 && b[0] == 0 {
		return ""
	}
	return string(b)
}
