package ethconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleido-io/tokens-connector-go/abis"
)

type fakeGateway struct {
	streams       []*EventStream
	subs          []*Subscription
	streamCreates int
	subCreates    int
}

func (g *fakeGateway) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/eventstreams":
			json.NewEncoder(w).Encode(g.streams)
		case r.Method == http.MethodPost && r.URL.Path == "/eventstreams":
			var body newEventStream
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "websocket", body.Type)
			assert.Equal(t, body.Name, body.WebSocket.Topic)
			g.streamCreates++
			stream := &EventStream{ID: "es-1", Name: body.Name}
			g.streams = append(g.streams, stream)
			json.NewEncoder(w).Encode(stream)
		case r.Method == http.MethodGet && r.URL.Path == "/subscriptions":
			json.NewEncoder(w).Encode(g.subs)
		case r.Method == http.MethodPost && r.URL.Path == "/subscriptions":
			var body newSubscription
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			g.subCreates++
			sub := &Subscription{ID: "sub-1", Name: body.Name, Stream: body.Stream, FromBlock: body.FromBlock}
			g.subs = append(g.subs, sub)
			json.NewEncoder(w).Encode(sub)
		default:
			for _, sub := range g.subs {
				if r.URL.Path == "/subscriptions/"+sub.ID {
					json.NewEncoder(w).Encode(sub)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestEnsureEventStreamCreatesOnce(t *testing.T) {
	gw := &fakeGateway{}
	server := httptest.NewServer(gw.handler(t))
	defer server.Close()

	m := NewStreamManager(NewClient(&Config{BaseURL: server.URL}), "tokens")
	ctx := context.Background()

	stream, err := m.EnsureEventStream(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tokens", stream.Name)

	again, err := m.EnsureEventStream(ctx)
	require.NoError(t, err)
	assert.Equal(t, stream.ID, again.ID)
	assert.Equal(t, 1, gw.streamCreates)
}

func TestGetOrCreateSubscriptionIdempotent(t *testing.T) {
	gw := &fakeGateway{streams: []*EventStream{{ID: "es-1", Name: "tokens"}}}
	server := httptest.NewServer(gw.handler(t))
	defer server.Close()

	m := NewStreamManager(NewClient(&Config{BaseURL: server.URL}), "tokens")
	ctx := context.Background()

	a, err := abis.ForSchema(abis.ERC20WithData)
	require.NoError(t, err)
	event := a.Event("Transfer")
	require.NotNil(t, event)

	name := "tokens:address=0x123&schema=ERC20WithData&type=fungible:Transfer"
	sub, err := m.GetOrCreateSubscription(ctx, "es-1", event, name, "0x123", a.Methods(), "0")
	require.NoError(t, err)
	assert.Equal(t, name, sub.Name)

	again, err := m.GetOrCreateSubscription(ctx, "es-1", event, name, "0x123", a.Methods(), "0")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
	assert.Equal(t, 1, gw.subCreates)
}

func TestListSubscriptionsFiltersByStream(t *testing.T) {
	gw := &fakeGateway{subs: []*Subscription{
		{ID: "sub-1", Name: "a", Stream: "es-1"},
		{ID: "sub-2", Name: "b", Stream: "es-2"},
	}}
	server := httptest.NewServer(gw.handler(t))
	defer server.Close()

	m := NewStreamManager(NewClient(&Config{BaseURL: server.URL}), "tokens")
	subs, err := m.ListSubscriptions(context.Background(), "es-1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-1", subs[0].ID)
}

func TestSubscriptionNameCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&Subscription{ID: "sub-1", Name: "tokens:loc:Transfer"})
	}))
	defer server.Close()

	m := NewStreamManager(NewClient(&Config{BaseURL: server.URL}), "tokens")
	ctx := context.Background()

	name, err := m.SubscriptionName(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "tokens:loc:Transfer", name)

	_, err = m.SubscriptionName(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSameEvents(t *testing.T) {
	assert.True(t, sameEvents([]string{"Approval", "Transfer"}, []string{"Transfer", "Approval"}))
	assert.False(t, sameEvents([]string{"Transfer"}, []string{"Transfer", "Approval"}))
	assert.False(t, sameEvents([]string{"Transfer", "Transfer"}, []string{"Transfer", "Approval"}))
}
