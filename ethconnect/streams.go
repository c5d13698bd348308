package ethconnect

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/abis"
	"github.com/kaleido-io/tokens-connector-go/locator"
	"github.com/kaleido-io/tokens-connector-go/types"
)

// EventStream is one durable event stream on the gateway.
type EventStream struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subscription is one event subscription attached to a stream.
type Subscription struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Stream    string `json:"stream"`
	FromBlock string `json:"fromBlock,omitempty"`
}

type newEventStream struct {
	Name                 string               `json:"name"`
	ErrorHandling        string               `json:"errorHandling"`
	BatchSize            int                  `json:"batchSize"`
	BatchTimeoutMS       int                  `json:"batchTimeoutMS"`
	Type                 string               `json:"type"`
	WebSocket            eventStreamWebsocket `json:"websocket"`
	BlockedRetryDelaySec int                  `json:"blockedRetryDelaySec"`
	Timestamps           bool                 `json:"timestamps"`
}

type eventStreamWebsocket struct {
	Topic string `json:"topic"`
}

type newSubscription struct {
	Name      string        `json:"name"`
	Stream    string        `json:"stream"`
	Event     *abis.Entry   `json:"event"`
	Address   string        `json:"address"`
	Methods   []*abis.Entry `json:"methods"`
	FromBlock string        `json:"fromBlock"`
}

// StreamManager maintains the connector's event stream and its
// subscriptions on the gateway.
type StreamManager struct {
	eth       *Client
	topic     string
	log       *logrus.Entry
	nameCache sync.Map // subscription id -> name
}

func NewStreamManager(eth *Client, topic string) *StreamManager {
	return &StreamManager{
		eth:   eth,
		topic: topic,
		log:   logrus.WithField("component", "eventstreams"),
	}
}

// EnsureEventStream finds or creates the stream named after the configured
// topic. When the stream pre-exists, the subscriptions it carries are
// checked against each pool's expected event set; mismatches are reported
// but never fatal.
func (m *StreamManager) EnsureEventStream(ctx context.Context) (*EventStream, error) {
	var existing []*EventStream
	var errRes errorResponse
	res, err := m.eth.newRequest(ctx, m.eth.base).
		SetResult(&existing).
		SetError(&errRes).
		Get("/eventstreams")
	if err != nil {
		return nil, types.NewUpstreamError("", err)
	}
	if !res.IsSuccess() {
		return nil, upstreamErr(res, &errRes)
	}
	for _, stream := range existing {
		if stream.Name == m.topic {
			m.checkSubscriptionMigrations(ctx, stream)
			return stream, nil
		}
	}

	var created EventStream
	res, err = m.eth.newRequest(ctx, m.eth.base).
		SetBody(&newEventStream{
			Name:                 m.topic,
			ErrorHandling:        "block",
			BatchSize:            50,
			BatchTimeoutMS:       500,
			Type:                 "websocket",
			WebSocket:            eventStreamWebsocket{Topic: m.topic},
			BlockedRetryDelaySec: 30,
			Timestamps:           true,
		}).
		SetResult(&created).
		SetError(&errRes).
		Post("/eventstreams")
	if err != nil {
		return nil, types.NewUpstreamError("", err)
	}
	if !res.IsSuccess() {
		return nil, upstreamErr(res, &errRes)
	}
	m.log.Infof("Created event stream '%s' (%s)", created.Name, created.ID)
	return &created, nil
}

// ListSubscriptions returns the subscriptions attached to one stream.
func (m *StreamManager) ListSubscriptions(ctx context.Context, streamID string) ([]*Subscription, error) {
	var subs []*Subscription
	var errRes errorResponse
	res, err := m.eth.newRequest(ctx, m.eth.base).
		SetResult(&subs).
		SetError(&errRes).
		Get("/subscriptions")
	if err != nil {
		return nil, types.NewUpstreamError("", err)
	}
	if !res.IsSuccess() {
		return nil, upstreamErr(res, &errRes)
	}
	filtered := make([]*Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.Stream == streamID {
			filtered = append(filtered, sub)
		}
	}
	return filtered, nil
}

// GetOrCreateSubscription makes pool activation idempotent: an existing
// subscription with the same name is reused as-is.
func (m *StreamManager) GetOrCreateSubscription(ctx context.Context, streamID string, event *abis.Entry, name, address string, methods []*abis.Entry, fromBlock string) (*Subscription, error) {
	subs, err := m.ListSubscriptions(ctx, streamID)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if sub.Name == name {
			return sub, nil
		}
	}

	var created Subscription
	var errRes errorResponse
	res, err := m.eth.newRequest(ctx, m.eth.base).
		SetBody(&newSubscription{
			Name:      name,
			Stream:    streamID,
			Event:     event,
			Address:   address,
			Methods:   methods,
			FromBlock: fromBlock,
		}).
		SetResult(&created).
		SetError(&errRes).
		Post("/subscriptions")
	if err != nil {
		return nil, types.NewUpstreamError("", err)
	}
	if !res.IsSuccess() {
		return nil, upstreamErr(res, &errRes)
	}
	m.log.Infof("Created subscription '%s' (%s)", created.Name, created.ID)
	return &created, nil
}

// SubscriptionName resolves a subscription id to its name, caching the
// answer for the life of the process. Subscription names are immutable on
// the gateway.
func (m *StreamManager) SubscriptionName(ctx context.Context, subID string) (string, error) {
	if name, ok := m.nameCache.Load(subID); ok {
		return name.(string), nil
	}
	var sub Subscription
	var errRes errorResponse
	res, err := m.eth.newRequest(ctx, m.eth.base).
		SetResult(&sub).
		SetError(&errRes).
		Get("/subscriptions/" + subID)
	if err != nil {
		return "", types.NewUpstreamError("", err)
	}
	if !res.IsSuccess() {
		return "", upstreamErr(res, &errRes)
	}
	m.nameCache.Store(subID, sub.Name)
	return sub.Name, nil
}

// expectedEvents is the event set activatePool creates per token family.
func expectedEvents(p *locator.PoolLocator) []string {
	if p.IsFungible() {
		return []string{abis.TransferEvent, abis.ApprovalEvent}
	}
	return []string{abis.TransferEvent, abis.ApprovalEvent, abis.ApprovalForAllEvent}
}

// checkSubscriptionMigrations warns about pools whose subscriptions no
// longer match the expected set for their schema, typically after a
// connector upgrade. The fix is to re-activate the pool; startup proceeds
// regardless.
func (m *StreamManager) checkSubscriptionMigrations(ctx context.Context, stream *EventStream) {
	subs, err := m.ListSubscriptions(ctx, stream.ID)
	if err != nil {
		m.log.Warnf("Unable to list subscriptions for migration check: %s", err)
		return
	}
	byPool := make(map[string][]string)
	for _, sub := range subs {
		parsed, err := locator.UnpackSubscriptionName(m.topic, sub.Name)
		if err != nil {
			m.log.Warnf("Unparseable subscription name '%s': %s", sub.Name, err)
			continue
		}
		// the factory subscription carries an address, not a pool locator
		if parsed.Event == abis.TokenPoolCreationEvent {
			continue
		}
		byPool[parsed.PoolLocator] = append(byPool[parsed.PoolLocator], parsed.Event)
	}
	for poolLocator, events := range byPool {
		pool := locator.Unpack(poolLocator)
		if !pool.Valid() {
			m.log.Warnf("Invalid pool locator in subscription names: %s", poolLocator)
			continue
		}
		expected := expectedEvents(pool)
		if !sameEvents(events, expected) {
			m.log.Warnf("Pool %s is subscribed to %v but should be subscribed to %v. "+
				"Re-activate the pool to update its subscriptions.", poolLocator, events, expected)
		}
	}
}

func sameEvents(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	a := append([]string{}, actual...)
	e := append([]string{}, expected...)
	sort.Strings(a)
	sort.Strings(e)
	return fmt.Sprint(a) == fmt.Sprint(e)
}
