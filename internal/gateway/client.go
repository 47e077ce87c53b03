// Package gateway is the typed client for the remote scheduling service.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/session"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 4 << 20

// Client talks to the scheduling service on behalf of the current session
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    session.Reader
	limiter    *rate.Limiter
	timeout    time.Duration
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. The client itself is never
// modified; a timeout from WithTimeout applies to a copy.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds every request, including reading the response.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero disables the limit.
func WithRateLimit(rps int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}
}

// NewClient creates a client for the service at baseURL
// (e.g. "http://localhost:8080"). sess supplies the bearer token.
func NewClient(baseURL string, sess session.Reader, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.DefaultRequestTimeout,
		},
		session: sess,
		limiter: rate.NewLimiter(rate.Limit(constants.DefaultRateLimitRPS), constants.DefaultRateLimitRPS),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	return c
}

// BaseURL returns the service root the client was built for
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	op     string
	method string
	path   string
	auth   bool
	body   any
}

// bearer returns the token for an authenticated call, or an Unauthenticated
// error when none is usable. Nothing is sent in that case.
func (c *Client) bearer(op string) (string, error) {
	if c.session == nil {
		return "", errors.Unauthenticated(op, constants.MsgInvalidToken)
	}
	token, ok := c.session.Token()
	if !ok || !session.WellFormedToken(token) {
		return "", errors.Unauthenticated(op, constants.MsgInvalidToken)
	}
	return token, nil
}

// send performs the request and returns the raw response body of a
// successful call. Failures come back classified.
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	var token string
	if r.auth {
		t, err := c.bearer(r.op)
		if err != nil {
			logger.Debug("Refusing unauthenticated call", "op", r.op)
			return nil, err
		}
		token = t
	}

	var reader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, errors.Validation(r.op, fmt.Sprintf("failed to encode request: %v", err))
		}
		reader = bytes.NewReader(payload)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Transport(r.op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return nil, errors.Transport(r.op, fmt.Errorf("create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set(constants.HeaderRequestID, requestID)
	req.Header.Set("Accept", constants.MIMEApplicationJSON)
	if reader != nil {
		req.Header.Set(constants.HeaderContentType, constants.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}

	logger.Debug("Sending request", "op", r.op, "method", r.method, "path", r.path, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Request failed", "op", r.op, "request_id", requestID, "error", err)
		return nil, errors.Transport(r.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Transport(r.op, fmt.Errorf("read response: %w", err))
	}

	logger.Debug("Received response", "op", r.op, "status", resp.StatusCode, "request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.Application(r.op, resp.StatusCode, errorPayload(body))
	}
	return body, nil
}

// call sends the request and decodes a JSON response into out when out is non-nil
func (c *Client) call(ctx context.Context, r request, out any) error {
	body, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.Transport(r.op, fmt.Errorf("empty response body"))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Transport(r.op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// errorPayload extracts the message the service attached to an error
// response. The service answers either with plain text or with a JSON
// object carrying "message" or "error".
func errorPayload(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	if strings.HasPrefix(text, "{") {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal([]byte(text), &payload); err == nil {
			if payload.Message != "" {
				return payload.Message
			}
			if payload.Error != "" {
				return payload.Error
			}
		}
	}
	return text
}
