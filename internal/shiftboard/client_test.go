package shiftboard

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CallSignsRequest(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","jsonrpc":"2.0","result":{"shifts":[]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-id", "topsecret", 5*time.Second)
	result, err := client.Call(context.Background(), "shift.list", map[string]any{"extended": true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shifts":[]}`, string(result))

	require.NotNil(t, captured)
	query := captured.URL.Query()
	assert.Equal(t, "shift.list", query.Get("method"))
	assert.Equal(t, "key-id", query.Get("access_key_id"))

	decoded, err := base64.StdEncoding.DecodeString(query.Get("params"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"extended":true}`, string(decoded))

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write([]byte("access_key_id" + "key-id"))
	mac.Write([]byte("method" + "shift.list"))
	mac.Write([]byte("params" + query.Get("params")))
	assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), query.Get("signature"))
}

func TestClient_ErrorEnvelopeBecomesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"1","jsonrpc":"2.0","error":{"code":20,"message":"invalid signature"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-id", "topsecret", 5*time.Second)
	_, err := client.Call(context.Background(), "shift.list", nil)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "invalid signature", upstreamErr.Message)
	assert.Equal(t, "shift.list", upstreamErr.Method)
}

func TestClient_HTTPFailureBecomesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-id", "topsecret", 5*time.Second)
	_, err := client.Call(context.Background(), "account.list", nil)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Contains(t, upstreamErr.Message, "unexpected status 504")
}

func TestClient_TransportFailureBecomesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, "key-id", "topsecret", time.Second)
	_, err := client.Call(context.Background(), "shift.list", nil)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
}

func TestClient_MalformedEnvelopeBecomesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-id", "topsecret", 5*time.Second)
	_, err := client.Call(context.Background(), "shift.list", nil)

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Contains(t, upstreamErr.Message, "decode response")
}

func TestClient_ResultRoundTripsThroughEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"accounts":[{"id":"a1","screen_name":"JDoe"}],"count":1}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-id", "topsecret", 5*time.Second)
	result, err := client.Call(context.Background(), "account.list", nil)
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(result, &body))
	assert.Contains(t, body, "accounts")
}
