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
	"github.com/kaleido-io/tokens-connector-go/types"
)

func TestQuerySuccess(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":"FFCoin"}`))
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	out, err := c.Query(context.Background(), "0x123", abis.Name, []interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "FFCoin", out)

	headers := body["headers"].(map[string]interface{})
	assert.Equal(t, "Query", headers["type"])
	assert.Equal(t, "0x123", body["to"])
	assert.Equal(t, "name", body["method"].(map[string]interface{})["name"])
}

func TestQueryUpstreamErrorText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"execution reverted"}`))
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	_, err := c.Query(context.Background(), "0x123", abis.Name, []interface{}{})
	var ue *types.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "execution reverted", ue.Message)
}

func TestQueryStringNonString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":18}`))
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	s, err := c.QueryString(context.Background(), "0x123", abis.Decimals, []interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestSendTransaction(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sent":true,"id":"op-1"}`))
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	method := &abis.Entry{Name: "mint", Type: "function", Inputs: []abis.Input{}}
	id, err := c.SendTransaction(context.Background(), "0xsigner", "0x123", "req-1", method, []interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "op-1", id)

	headers := body["headers"].(map[string]interface{})
	assert.Equal(t, "SendTransaction", headers["type"])
	assert.Equal(t, "req-1", headers["id"])
	assert.Equal(t, "0xsigner", body["from"])
}

func TestSendTransactionUsesFFTMURL(t *testing.T) {
	base := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("transaction must not reach the base URL")
	}))
	defer base.Close()
	fftm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sent":true,"id":"op-2"}`))
	}))
	defer fftm.Close()

	c := NewClient(&Config{BaseURL: base.URL, FFTMURL: fftm.URL})
	method := &abis.Entry{Name: "mint", Type: "function", Inputs: []abis.Input{}}
	id, err := c.SendTransaction(context.Background(), "0xsigner", "0x123", "req-2", method, []interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "op-2", id)
}

func TestGetReceipt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reply/op-1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"headers":{"type":"TransactionSuccess"},"transactionHash":"0xabc"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})
	body, err := c.GetReceipt(context.Background(), "op-1")
	require.NoError(t, err)
	assert.Contains(t, string(body), "TransactionSuccess")

	_, err = c.GetReceipt(context.Background(), "missing")
	var nf *types.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestPassthroughHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tenant-a", r.Header.Get("X-Tenant"))
		assert.Empty(t, r.Header.Get("X-Other"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":true}`))
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL, PassthroughHeaders: []string{"X-Tenant"}})
	inbound := http.Header{}
	inbound.Set("X-Tenant", "tenant-a")
	inbound.Set("X-Other", "dropped")
	ctx := WithRequestHeaders(context.Background(), inbound)
	_, err := c.Query(ctx, "0x123", abis.SupportsInterface, []interface{}{"0xaefdad0f"})
	require.NoError(t, err)
}
