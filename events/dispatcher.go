package events

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/types"
)

// Dispatcher glues the inbound gateway feed to the outbound WebSocket: it
// transforms each raw event and hands the surviving payloads to the proxy.
// It implements the receiver's EventHandler.
type Dispatcher struct {
	listener *Listener
	proxy    *Proxy
	log      *logrus.Entry
}

func NewDispatcher(listener *Listener, proxy *Proxy) *Dispatcher {
	return &Dispatcher{
		listener: listener,
		proxy:    proxy,
		log:      logrus.WithField("component", "dispatcher"),
	}
}

// HandleBatch transforms and delivers one upstream batch. It returns only
// after every transformed event has been acknowledged downstream, so the
// upstream acknowledgment preserves at-least-once delivery end to end.
func (d *Dispatcher) HandleBatch(ctx context.Context, events []*types.RawEvent, batchNumber *int64) error {
	payloads := make([]*types.WSEventPayload, 0, len(events))
	for _, raw := range events {
		if payload := d.listener.Transform(ctx, raw); payload != nil {
			payloads = append(payloads, payload)
		}
	}
	d.log.Debugf("Dispatching %d of %d events", len(payloads), len(events))
	return d.proxy.DispatchBatch(ctx, payloads, batchNumber)
}

// HandleReceipt relays an operation receipt to every connected client.
func (d *Dispatcher) HandleReceipt(_ context.Context, receipt json.RawMessage) {
	d.proxy.BroadcastReceipt(receipt)
}
