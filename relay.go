package sysmonitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultUserAgent identifies relay requests to the receiving API.
const DefaultUserAgent = "SystemMonitor/1.0"

// DefaultRelayTimeout bounds one relay exchange when no client is supplied.
const DefaultRelayTimeout = 30 * time.Second

// Relay posts caller-supplied payloads to caller-supplied endpoints.
// Each Send is a single synchronous attempt; there is no retry.
// Relay is safe for concurrent use.
type Relay struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewRelay creates a Relay with a [DefaultRelayTimeout] HTTP client.
func NewRelay() *Relay {
	return &Relay{
		client:    &http.Client{Timeout: DefaultRelayTimeout},
		userAgent: DefaultUserAgent,
	}
}

// WithClient sets the HTTP client used for requests.
func (r *Relay) WithClient(client *http.Client) *Relay {
	if client != nil {
		r.client = client
	}

	return r
}

// WithUserAgent overrides [DefaultUserAgent].
func (r *Relay) WithUserAgent(userAgent string) *Relay {
	if userAgent != "" {
		r.userAgent = userAgent
	}

	return r
}

// WithLogger sets an optional [*slog.Logger]. A nil logger disables logging.
func (r *Relay) WithLogger(logger *slog.Logger) *Relay {
	r.logger = logger

	return r
}

// Send POSTs payload as the request body to endpoint and returns the response
// body verbatim on a 2xx status. The Authorization header is only sent when
// token is non-empty.
//
// Failures are typed: [*TransportError] when no response arrived (including
// [ErrInvalidEndpoint]), [*StatusError] for non-2xx statuses, and
// [*BodyError] when a success body could not be read.
func (r *Relay) Send(ctx context.Context, endpoint, payload, token string) (string, error) {
	requestID := uuid.NewString()
	r.logInfo("sending payload", "endpoint", endpoint, "request_id", requestID, "bytes", len(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload))
	if err != nil {
		r.logError("could not build request", "endpoint", endpoint, "error", err)

		return "", &TransportError{Endpoint: endpoint, Err: fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		r.logDebug("authorization token attached", "request_id", requestID)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logError("request failed", "endpoint", endpoint, "request_id", requestID, "error", err)

		return "", &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	r.logDebug("response received", "request_id", requestID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp.StatusCode),
			Body:       string(body),
		}
		r.logError("endpoint returned an error status", "request_id", requestID, "error", statusErr)

		return "", statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.logError("could not read response body", "request_id", requestID, "error", err)

		return "", &BodyError{Err: err}
	}

	r.logInfo("payload sent", "endpoint", endpoint, "request_id", requestID, "status", resp.StatusCode)

	return string(body), nil
}

// reasonPhrase returns the canonical reason for code, or "Unknown".
func reasonPhrase(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}

	return UnknownValue
}

func (r *Relay) logDebug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Relay) logInfo(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func (r *Relay) logError(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}
