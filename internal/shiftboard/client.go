package shiftboard

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Caller is the signed-request capability the pagination pipeline consumes.
type Caller interface {
	Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)
}

// maxErrorBody caps how much of a failed response body is read back for
// diagnostics.
const maxErrorBody = 64 * 1024

// Client issues signed requests against the Shiftboard API. Every request
// carries the method name, base64-encoded JSON params, the access key id and
// an HMAC-SHA256 signature over all three.
type Client struct {
	baseURL      string
	accessKeyID  string
	signatureKey string
	httpClient   *http.Client
}

func NewClient(baseURL, accessKeyID, signatureKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		accessKeyID:  accessKeyID,
		signatureKey: signatureKey,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// envelope is the JSON-RPC style response wrapper: a result payload, or an
// error object, never both.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

// Call performs one signed upstream call and returns the raw result payload.
// Transport failures and explicit error payloads both surface as
// *UpstreamError.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params for %s: %w", method, err)
	}
	encodedParams := base64.StdEncoding.EncodeToString(paramsJSON)

	query := url.Values{}
	query.Set("method", method)
	query.Set("params", encodedParams)
	query.Set("access_key_id", c.accessKeyID)
	query.Set("signature", c.sign(method, encodedParams))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Method: method, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{Method: method, Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &UpstreamError{Method: method, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if env.Error != nil {
		return nil, &UpstreamError{Method: method, Message: env.Error.Message}
	}

	return env.Result, nil
}

// sign computes the request signature over the fields that identify the call.
func (c *Client) sign(method, encodedParams string) string {
	mac := hmac.New(sha256.New, []byte(c.signatureKey))
	mac.Write([]byte("access_key_id" + c.accessKeyID))
	mac.Write([]byte("method" + method))
	mac.Write([]byte("params" + encodedParams))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
