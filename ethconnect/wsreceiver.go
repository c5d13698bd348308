package ethconnect

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/types"
)

// EventHandler consumes the inbound gateway feed. HandleBatch must not
// return until the batch has been fully delivered downstream; its error
// suppresses the ack so the gateway redelivers.
type EventHandler interface {
	HandleBatch(ctx context.Context, events []*types.RawEvent, batchNumber *int64) error
	HandleReceipt(ctx context.Context, receipt json.RawMessage)
}

const (
	wsReconnectInitialDelay = 2 * time.Second
	wsReconnectMaxDelay     = 60 * time.Second
)

// Receiver maintains the WebSocket subscription to the gateway's event
// stream, dispatching batches and receipts to the handler and acking each
// batch once handled.
type Receiver struct {
	wsURL   string
	topic   string
	headers map[string]string
	handler EventHandler
	log     *logrus.Entry
}

func NewReceiver(conf *Config, topic string, handler EventHandler) (*Receiver, error) {
	u, err := url.Parse(conf.BaseURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	headers := map[string]string{}
	if conf.Username != "" && conf.Password != "" {
		headers["Authorization"] = basicAuthHeader(conf.Username, conf.Password)
	}
	return &Receiver{
		wsURL:   u.String(),
		topic:   topic,
		headers: headers,
		handler: handler,
		log:     logrus.WithField("component", "wsreceiver"),
	}, nil
}

// Start runs the receive loop until the context is cancelled, reconnecting
// with doubling backoff after any failure.
func (r *Receiver) Start(ctx context.Context) {
	go func() {
		delay := wsReconnectInitialDelay
		for {
			if err := r.runConnection(ctx); err != nil {
				r.log.Errorf("Event stream connection closed: %s", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			if delay *= 2; delay > wsReconnectMaxDelay {
				delay = wsReconnectMaxDelay
			}
		}
	}()
}

type wsCommand struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

func (r *Receiver) runConnection(ctx context.Context) error {
	header := make(map[string][]string, len(r.headers))
	for k, v := range r.headers {
		header[k] = []string{v}
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.wsURL, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	// close the connection when the context ends so ReadMessage unblocks
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := conn.WriteJSON(&wsCommand{Type: "listen", Topic: r.topic}); err != nil {
		return err
	}
	if err := conn.WriteJSON(&wsCommand{Type: "listenreplies"}); err != nil {
		return err
	}
	r.log.Infof("Listening for events and replies on topic '%s'", r.topic)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if err := r.dispatch(ctx, conn, data); err != nil {
			return err
		}
	}
}

// batchMessage is the object form of a batch, carrying an ordinal used by
// downstream clients to deduplicate redeliveries.
type batchMessage struct {
	BatchNumber int64             `json:"batchNumber"`
	Events      []*types.RawEvent `json:"events"`
}

// dispatch classifies one inbound frame. A JSON array is a plain event
// batch; an object with an events field is a numbered batch; any other
// object is a receipt. Batches are acked only after the handler returns
// success, which is what makes delivery at-least-once.
func (r *Receiver) dispatch(ctx context.Context, conn *websocket.Conn, data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var events []*types.RawEvent
		if err := json.Unmarshal(data, &events); err != nil {
			r.log.Errorf("Discarding malformed event batch: %s", err)
			return r.ack(conn)
		}
		if err := r.handler.HandleBatch(ctx, events, nil); err != nil {
			return err
		}
		return r.ack(conn)
	}

	var batch batchMessage
	if err := json.Unmarshal(data, &batch); err == nil && batch.Events != nil {
		num := batch.BatchNumber
		if err := r.handler.HandleBatch(ctx, batch.Events, &num); err != nil {
			return err
		}
		return r.ack(conn)
	}

	r.handler.HandleReceipt(ctx, json.RawMessage(data))
	return nil
}

func (r *Receiver) ack(conn *websocket.Conn) error {
	return conn.WriteJSON(&wsCommand{Type: "ack", Topic: r.topic})
}

func basicAuthHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
