package locator

import (
	"fmt"
	"net/url"
	"strings"
)

// SubscriptionName is the parsed form of one event-stream subscription name.
type SubscriptionName struct {
	PoolLocator string
	Event       string
	PoolData    string
}

// PackSubscriptionName joins the topic, pool locator and event name with
// colons. The poolData segment is URL-escaped so embedded colons survive the
// round trip; it is omitted entirely when empty.
func PackSubscriptionName(topic, poolLocator, event, poolData string) string {
	name := topic + ":" + poolLocator + ":" + event
	if poolData != "" {
		name += ":" + url.QueryEscape(poolData)
	}
	return name
}

// UnpackSubscriptionName splits a subscription name back into its parts.
// The topic may itself contain colons, so it is stripped as a literal
// prefix rather than split. The old two-segment form without poolData is
// accepted.
func UnpackSubscriptionName(topic, name string) (*SubscriptionName, error) {
	if !strings.HasPrefix(name, topic+":") {
		return nil, fmt.Errorf("subscription name '%s' does not carry topic '%s'", name, topic)
	}
	parts := strings.Split(name[len(topic)+1:], ":")
	if len(parts) < 2 {
		return nil, fmt.Errorf("subscription name '%s' is malformed", name)
	}
	sub := &SubscriptionName{
		PoolLocator: parts[0],
		Event:       parts[1],
	}
	if len(parts) > 2 {
		poolData, err := url.QueryUnescape(parts[2])
		if err != nil {
			return nil, fmt.Errorf("subscription name '%s' has malformed pool data: %w", name, err)
		}
		sub.PoolData = poolData
	}
	return sub, nil
}
