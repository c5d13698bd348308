package events

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Proxy owns the server side of the event WebSocket. Each client starts one
// or more namespaces; the newest client to start a namespace becomes its
// primary and receives that namespace's batches. A batch is acknowledged
// upstream only after every target namespace has acknowledged it, and
// batches in flight to a client that disconnects are redelivered to the
// next primary.
type Proxy struct {
	mu       sync.Mutex
	clients  map[*wsClient]bool
	primary  map[string]*wsClient
	queues   map[string][]*pendingBatch
	inflight map[string]*pendingBatch
	log      *logrus.Entry
}

// wsClient owns one connection. Outbound messages go through an unbounded
// queue drained by the writer goroutine, so enqueueing never blocks no
// matter how slow the connection is.
type wsClient struct {
	conn       *websocket.Conn
	namespaces map[string]bool

	qmu    sync.Mutex
	queue  []*types.WSMessage
	wake   chan struct{}
	closed bool
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn:       conn,
		namespaces: make(map[string]bool),
		wake:       make(chan struct{}, 1),
	}
}

func (c *wsClient) enqueue(msg *types.WSMessage) {
	c.qmu.Lock()
	if !c.closed {
		c.queue = append(c.queue, msg)
	}
	c.qmu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *wsClient) shutdown() {
	c.qmu.Lock()
	c.closed = true
	c.queue = nil
	c.qmu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

type pendingBatch struct {
	id        string
	namespace string
	msg       *types.WSMessage
	done      chan struct{}
	client    *wsClient // set on delivery, for requeue on disconnect
}

func NewProxy() *Proxy {
	return &Proxy{
		clients:  make(map[*wsClient]bool),
		primary:  make(map[string]*wsClient),
		queues:   make(map[string][]*pendingBatch),
		inflight: make(map[string]*pendingBatch),
		log:      logrus.WithField("component", "wsproxy"),
	}
}

// namespaceOf routes an event by the namespace segment of its poolData.
// Events without one go to the broadcast group.
func namespaceOf(poolData string) string {
	if i := strings.Index(poolData, "|"); i >= 0 {
		return poolData[:i]
	}
	return poolData
}

func payloadNamespace(p *types.WSEventPayload) string {
	switch data := p.Data.(type) {
	case *types.TokenPoolEventData:
		return namespaceOf(data.PoolData)
	case *types.TokenTransferEventData:
		return namespaceOf(data.PoolData)
	case *types.TokenApprovalEventData:
		return namespaceOf(data.PoolData)
	}
	return ""
}

// DispatchBatch groups the payloads by namespace, sends one batch message
// per target, and blocks until every target has acknowledged or the
// context ends. Returning the context error leaves the upstream batch
// unacknowledged for redelivery.
func (p *Proxy) DispatchBatch(ctx context.Context, payloads []*types.WSEventPayload, batchNumber *int64) error {
	if len(payloads) == 0 {
		return nil
	}
	grouped := make(map[string][]*types.WSEventPayload)
	for _, payload := range payloads {
		ns := payloadNamespace(payload)
		grouped[ns] = append(grouped[ns], payload)
	}

	var pending []*pendingBatch
	p.mu.Lock()
	for ns, events := range grouped {
		batch := &pendingBatch{
			id:        uuid.New().String(),
			namespace: ns,
			done:      make(chan struct{}),
		}
		batch.msg = &types.WSMessage{
			Event: types.EventBatch,
			ID:    batch.id,
			Data:  &types.WSBatch{Events: events, BatchNumber: batchNumber},
		}
		p.queues[ns] = append(p.queues[ns], batch)
		pending = append(pending, batch)
		p.deliverLocked(ns)
	}
	p.mu.Unlock()

	for _, batch := range pending {
		select {
		case <-batch.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// BroadcastReceipt pushes an operation receipt to every started client.
// Receipts are fire-and-forget and never gate the upstream stream.
func (p *Proxy) BroadcastReceipt(receipt json.RawMessage) {
	msg := &types.WSMessage{Event: types.EventReceipt, Data: receipt}
	p.mu.Lock()
	defer p.mu.Unlock()
	for client := range p.clients {
		if len(client.namespaces) == 0 {
			continue
		}
		client.enqueue(msg)
	}
}

// deliverLocked drains a namespace's queue to its primary. The broadcast
// namespace delivers to any one primary, preferring its own if set.
func (p *Proxy) deliverLocked(ns string) {
	client := p.primary[ns]
	if client == nil && ns == "" {
		for _, c := range p.primary {
			client = c
			break
		}
	}
	if client == nil {
		return
	}
	for _, batch := range p.queues[ns] {
		batch.client = client
		client.enqueue(batch.msg)
		p.inflight[batch.id] = batch
	}
	p.queues[ns] = nil
}

// requeueInflightLocked returns a client's unacknowledged batches to their
// queues so the next primary receives them.
func (p *Proxy) requeueInflightLocked(client *wsClient) {
	for id, batch := range p.inflight {
		if batch.client == client {
			delete(p.inflight, id)
			p.queues[batch.namespace] = append(p.queues[batch.namespace], batch)
		}
	}
}

func (p *Proxy) ack(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	batch, ok := p.inflight[id]
	if !ok {
		p.log.Warnf("Ack for unknown message id '%s'", id)
		return
	}
	delete(p.inflight, id)
	close(batch.done)
}

func (p *Proxy) start(client *wsClient, ns string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old := p.primary[ns]; old != nil && old != client {
		p.requeueInflightLocked(old)
	}
	p.primary[ns] = client
	client.namespaces[ns] = true
	client.enqueue(&types.WSMessage{
		Event: types.EventStarted,
		Data:  map[string]string{"namespace": ns},
	})
	p.deliverLocked(ns)
	p.deliverLocked("")
}

func (p *Proxy) remove(client *wsClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.clients[client] {
		return
	}
	delete(p.clients, client)
	for ns, primary := range p.primary {
		if primary == client {
			delete(p.primary, ns)
		}
	}
	p.requeueInflightLocked(client)
	// a successor may already be primary, so push requeued work out now
	for ns := range p.queues {
		p.deliverLocked(ns)
	}
	client.shutdown()
}

// ServeHTTP upgrades the connection and runs the client until it drops.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.log.Errorf("WebSocket upgrade failed: %s", err)
		return
	}
	client := newWSClient(conn)
	p.mu.Lock()
	p.clients[client] = true
	p.mu.Unlock()

	go p.writeLoop(client)
	p.readLoop(client)
}

// writeLoop drains the client queue onto the connection. After a write
// failure it keeps consuming so the queue never backs up; the read loop
// notices the dead connection and removes the client.
func (p *Proxy) writeLoop(client *wsClient) {
	failed := false
	for range client.wake {
		for {
			client.qmu.Lock()
			if client.closed {
				client.qmu.Unlock()
				client.conn.Close()
				return
			}
			if len(client.queue) == 0 {
				client.qmu.Unlock()
				break
			}
			msg := client.queue[0]
			client.queue = client.queue[1:]
			client.qmu.Unlock()

			if failed {
				continue
			}
			if err := client.conn.WriteJSON(msg); err != nil {
				p.log.Infof("WebSocket write failed: %s", err)
				client.conn.Close()
				failed = true
			}
		}
	}
}

func (p *Proxy) readLoop(client *wsClient) {
	defer p.remove(client)
	for {
		var msg types.WSClientMessage
		if err := client.conn.ReadJSON(&msg); err != nil {
			p.log.Infof("WebSocket client disconnected: %s", err)
			return
		}
		switch {
		case msg.Type == "start":
			p.start(client, msg.Namespace)
		case msg.Event == "ack" || msg.Type == "ack":
			id := msg.Data.ID
			if id == "" {
				id = msg.ID
			}
			p.ack(id)
		default:
			p.log.Warnf("Ignoring unknown WebSocket message type '%s%s'", msg.Type, msg.Event)
		}
	}
}
