package escrow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	// IdempotencyKeyHeader carries the batch reference, so a provider can drop redelivered batches.
	IdempotencyKeyHeader = "Idempotency-Key"

	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 512
)

var (
	// ErrPayoutRejected is returned when the payment provider answers with a non-2xx status.
	ErrPayoutRejected = errors.New("payment provider rejected payout batch")

	// ErrPayoutRequestFailed is returned when the payment provider could not be reached.
	ErrPayoutRequestFailed = errors.New("payout request failed")
)

// HTTPGateway posts payout batches as JSON to a payment provider.
// The provider is expected to apply a batch atomically and to answer 2xx only when it did.
type HTTPGateway struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// HTTPGatewayOption configures an HTTPGateway.
type HTTPGatewayOption func(*HTTPGateway)

// WithAPIKey sends apiKey as bearer token.
func WithAPIKey(apiKey string) HTTPGatewayOption {
	return func(g *HTTPGateway) {
		g.apiKey = apiKey
	}
}

// WithHTTPClient replaces the default client, which has a 10s timeout.
func WithHTTPClient(client *http.Client) HTTPGatewayOption {
	return func(g *HTTPGateway) {
		g.client = client
	}
}

func NewHTTPGateway(endpoint string, opts ...HTTPGatewayOption) *HTTPGateway {
	g := &HTTPGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *HTTPGateway) Transfer(ctx context.Context, batch Batch) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(batch)
	if err != nil {
		return errors.Join(ErrPayoutRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Join(ErrPayoutRequestFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, batch.Reference)
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Join(ErrPayoutRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		return fmt.Errorf("%w: status %d: %s", ErrPayoutRejected, resp.StatusCode, bytes.TrimSpace(detail))
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
