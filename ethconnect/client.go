// Package ethconnect is the thin client for the Ethereum RPC gateway: it
// submits queries and transactions, fetches receipts, manages event streams
// and subscriptions, and receives the event/receipt WebSocket feed.
package ethconnect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/abis"
	"github.com/kaleido-io/tokens-connector-go/types"
)

// Config carries the gateway connection settings.
type Config struct {
	BaseURL  string
	FFTMURL  string // optional transaction-manager URL for submissions
	Username string
	Password string

	// PassthroughHeaders are copied from inbound API requests onto every
	// outbound gateway call.
	PassthroughHeaders []string
}

// Client issues requests against the RPC gateway. Transactions go to the
// FFTM URL when one is configured, everything else to the base URL.
type Client struct {
	conf *Config
	base *resty.Client
	fftm *resty.Client
	log  *logrus.Entry
}

func NewClient(conf *Config) *Client {
	base := newRestClient(conf.BaseURL, conf)
	fftm := base
	if conf.FFTMURL != "" {
		fftm = newRestClient(conf.FFTMURL, conf)
	}
	return &Client{
		conf: conf,
		base: base,
		fftm: fftm,
		log:  logrus.WithField("component", "ethconnect"),
	}
}

func newRestClient(url string, conf *Config) *resty.Client {
	client := resty.New().SetBaseURL(url)
	if conf.Username != "" && conf.Password != "" {
		client.SetBasicAuth(conf.Username, conf.Password)
	}
	return client
}

type requestHeaders struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

type txRequest struct {
	Headers requestHeaders `json:"headers"`
	From    string         `json:"from,omitempty"`
	To      string         `json:"to"`
	Method  *abis.Entry    `json:"method"`
	Params  []interface{}  `json:"params"`
}

type queryResponse struct {
	Output interface{} `json:"output"`
}

type sendResponse struct {
	Sent bool   `json:"sent"`
	ID   string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type ctxKey int

const requestHeadersKey ctxKey = iota

// WithRequestHeaders stashes the inbound HTTP headers on the context so
// configured passthrough headers reach the gateway.
func WithRequestHeaders(ctx context.Context, headers http.Header) context.Context {
	return context.WithValue(ctx, requestHeadersKey, headers)
}

func (c *Client) newRequest(ctx context.Context, client *resty.Client) *resty.Request {
	req := client.R().SetContext(ctx)
	if headers, ok := ctx.Value(requestHeadersKey).(http.Header); ok {
		for _, name := range c.conf.PassthroughHeaders {
			if value := headers.Get(name); value != "" {
				req.SetHeader(name, value)
			}
		}
	}
	return req
}

func upstreamErr(res *resty.Response, errRes *errorResponse) error {
	message := errRes.Error
	if message == "" {
		message = res.Status()
	}
	return types.NewUpstreamError(message, fmt.Errorf("ethconnect request failed: %s", res.Status()))
}

// Query performs a synchronous contract call and returns the decoded
// output value.
func (c *Client) Query(ctx context.Context, to string, method *abis.Entry, params []interface{}) (interface{}, error) {
	var result queryResponse
	var errRes errorResponse
	res, err := c.newRequest(ctx, c.base).
		SetBody(&txRequest{
			Headers: requestHeaders{Type: "Query"},
			To:      to,
			Method:  method,
			Params:  params,
		}).
		SetResult(&result).
		SetError(&errRes).
		Post("/")
	if err != nil {
		return nil, types.NewUpstreamError("", err)
	}
	if !res.IsSuccess() {
		return nil, upstreamErr(res, &errRes)
	}
	return result.Output, nil
}

// QueryString performs a Query and coerces the output to a string,
// returning "" for anything else.
func (c *Client) QueryString(ctx context.Context, to string, method *abis.Entry, params []interface{}) (string, error) {
	output, err := c.Query(ctx, to, method, params)
	if err != nil {
		return "", err
	}
	if s, ok := output.(string); ok {
		return s, nil
	}
	return "", nil
}

// SendTransaction submits a transaction asynchronously and returns the
// gateway's request id, later correlated through the receipt feed. Signing
// is delegated to the gateway via the from address.
func (c *Client) SendTransaction(ctx context.Context, from, to, requestID string, method *abis.Entry, params []interface{}) (string, error) {
	var result sendResponse
	var errRes errorResponse
	res, err := c.newRequest(ctx, c.fftm).
		SetBody(&txRequest{
			Headers: requestHeaders{Type: "SendTransaction", ID: requestID},
			From:    from,
			To:      to,
			Method:  method,
			Params:  params,
		}).
		SetResult(&result).
		SetError(&errRes).
		Post("/")
	if err != nil {
		return "", types.NewUpstreamError("", err)
	}
	if !res.IsSuccess() {
		return "", upstreamErr(res, &errRes)
	}
	return result.ID, nil
}

// GetReceipt fetches the latest status of a previously submitted
// transaction. A gateway 404 maps to NotFound; every other reply passes
// through verbatim.
func (c *Client) GetReceipt(ctx context.Context, id string) (json.RawMessage, error) {
	res, err := c.newRequest(ctx, c.base).Get("/reply/" + id)
	if err != nil {
		return nil, types.NewUpstreamError("", err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, types.NewNotFoundError("receipt '%s' not found", id)
	}
	return json.RawMessage(res.Body()), nil
}

// Ping checks gateway reachability for the readiness probe. Any HTTP
// response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.newRequest(ctx, c.base).Get("/")
	if err != nil {
		return types.NewUpstreamError("", err)
	}
	return nil
}
