package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"video-portal/pkg/logger"
)

// TokenStore holds the bearer token between calls.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken() error
}

// Presigner turns a media key into a fetchable URL.
type Presigner interface {
	URL(key string) (string, error)
}

type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	tokens    TokenStore
	presigner Presigner
	userAgent string
	log       *logrus.Logger
}

type Option func(*Client)

// WithHTTPClient sends requests through hc. The client passed in is never
// modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request whatever the option order. Zero means
// the HTTP client's own timeout applies.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithPresigner(p Presigner) Option {
	return func(c *Client) { c.presigner = p }
}

func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		tokens:    tokens,
		userAgent: "video-portal",
		log:       logger.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

type requestIDKey struct{}

// WithRequestID makes outbound calls made with ctx carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	requireAuth bool
	fallback    string
}

func jsonBody(v interface{}) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode body")
	}
	return bytes.NewReader(b), nil
}

// do performs one exchange and decodes a 2xx body into out when out is
// non-nil and the body is not empty.
func (c *Client) do(ctx context.Context, cl call, out interface{}) error {
	token, hasToken := c.tokens.Token()
	if cl.requireAuth && !hasToken {
		return ErrNotAuthenticated
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, cl.body)
	if err != nil {
		return &RequestError{Op: cl.op, Message: cl.fallback, Err: err}
	}
	rid := requestID(ctx)
	req.Header.Set("X-Request-ID", rid)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if hasToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	fields := logrus.Fields{"request_id": rid, "op": cl.op, "method": cl.method, "path": cl.path}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("api request failed")
		return &RequestError{Op: cl.op, Message: "Could not reach the video service.", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	fields["status"] = resp.StatusCode
	fields["duration"] = time.Since(start).String()
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("api response read failed")
		return &RequestError{Op: cl.op, StatusCode: resp.StatusCode, Message: cl.fallback, Err: err}
	}
	c.log.WithFields(fields).Debug("api request")

	if resp.StatusCode == http.StatusNotFound {
		return &RequestError{Op: cl.op, StatusCode: resp.StatusCode, Message: bodyMessage(data, "Not found."), Err: ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: cl.op, StatusCode: resp.StatusCode, Message: bodyMessage(data, cl.fallback)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Op: cl.op, StatusCode: resp.StatusCode, Message: "The video service sent a malformed response.", Err: err}
	}
	return nil
}

// bodyMessage pulls "error" or "message" out of an error body.
func bodyMessage(data []byte, fallback string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fallback
}
