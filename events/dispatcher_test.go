package events

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaleido-io/tokens-connector-go/types"
)

// End to end: a raw Transfer from the zero address arrives as a batch,
// surfaces as a token-mint on the WebSocket, and the upstream handler
// completes only after the client acks.
func TestDispatcherMintFanOut(t *testing.T) {
	proxy := NewProxy()
	server := httptest.NewServer(proxy)
	defer server.Close()

	resolver := &fakeResolver{names: map[string]string{
		"sub1": "tokens:address=0xabc&schema=ERC20WithData&type=fungible:Transfer:ns1",
	}}
	dispatcher := NewDispatcher(NewListener("tokens", resolver, &fakeQuerier{}), proxy)

	client := dialProxy(t, server)
	client.start("ns1")

	data, _ := json.Marshal(map[string]string{"from": zeroAddress, "to": "A", "value": "5"})
	raw := &types.RawEvent{
		SubID:            "sub1",
		Signature:        "Transfer(address,address,uint256)",
		BlockNumber:      "1",
		TransactionIndex: "0x0",
		LogIndex:         "1",
		Data:             data,
		InputArgs:        json.RawMessage(`{"data":"0x74657374"}`),
		InputSigner:      "0x321",
	}

	handled := make(chan error, 1)
	go func() {
		handled <- dispatcher.HandleBatch(context.Background(), []*types.RawEvent{raw}, nil)
	}()

	msg := client.read()
	require.Equal(t, types.EventBatch, msg.Event)
	var batch receivedBatch
	require.NoError(t, json.Unmarshal(msg.Data, &batch))
	require.Len(t, batch.Events, 1)
	assert.Equal(t, types.EventTokenMint, batch.Events[0].Event)

	event := batch.Events[0].Data
	assert.Equal(t, "000000000001/000000/000001", event.ID)
	assert.Equal(t, "A", event.To)
	assert.Equal(t, "5", event.Amount)
	assert.Equal(t, "0x321", event.Signer)
	assert.Equal(t, "test", event.Data)

	client.ack(msg.ID)
	select {
	case err := <-handled:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("batch not completed after ack")
	}
}

// Batches whose every event is dropped complete immediately so the
// upstream stream keeps moving.
func TestDispatcherDropsAllEvents(t *testing.T) {
	proxy := NewProxy()
	resolver := &fakeResolver{names: map[string]string{}}
	dispatcher := NewDispatcher(NewListener("tokens", resolver, &fakeQuerier{}), proxy)

	raw := &types.RawEvent{SubID: "unknown", Signature: "Transfer(address,address,uint256)"}
	require.NoError(t, dispatcher.HandleBatch(context.Background(), []*types.RawEvent{raw}, nil))
}
