package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	limiterBurst   = 5
	maxErrorBody   = 64 << 10
)

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	base           *url.URL
	http           *http.Client
	tokens         TokenStore
	limiter        *rate.Limiter
	log            logging.Logger
	now            func() time.Time
	onUnauthorized func()
}

var _ Client = (*HTTPClient)(nil)

// Option customises an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit throttles outbound requests to rps per second. Zero or a
// negative value disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), limiterBurst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithClock replaces time.Now in the session expiry check.
func WithClock(now func() time.Time) Option {
	return func(c *HTTPClient) { c.now = now }
}

// OnUnauthorized registers fn to run after the session was rejected and the
// stored token discarded. The CLI uses it to return to the login prompt.
func OnUnauthorized(fn func()) Option {
	return func(c *HTTPClient) { c.onUnauthorized = fn }
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// http://localhost:8080/api/v1.
func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore("")
	}

	c := &HTTPClient{
		base:    base,
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     logging.Nop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Tokens exposes the token store the client reads from.
func (c *HTTPClient) Tokens() TokenStore { return c.tokens }

type request struct {
	method   string
	segments []string
	query    url.Values
	// body is JSON-encoded after ids.Encode.
	body any
	// raw, when set, is sent as is with contentType.
	raw         io.Reader
	contentType string
	// public requests are sent without the session token.
	public bool
}

// endpoint joins escaped segments onto the base path. RawPath keeps
// escaped slashes intact on the wire.
func (c *HTTPClient) endpoint(segments []string, query url.Values) *url.URL {
	u := *c.base
	plain := strings.TrimRight(c.base.Path, "/")
	raw := strings.TrimRight(c.base.EscapedPath(), "/")
	for _, s := range segments {
		plain += "/" + s
		raw += "/" + url.PathEscape(s)
	}
	u.Path = plain
	u.RawPath = raw
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

// do sends r and decodes a successful response into out when out is not nil.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	u := c.endpoint(r.segments, r.query)
	apiErr := func(status int, msg string, err error) error {
		return &APIError{Method: r.method, Path: u.EscapedPath(), Status: status, Message: msg, Err: err}
	}

	var token string
	if !r.public {
		var err error
		token, err = c.sessionToken(ctx)
		if err != nil {
			return apiErr(0, "", err)
		}
	}

	body, contentType, err := r.encode()
	if err != nil {
		return apiErr(0, "encode request", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return apiErr(0, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return apiErr(0, "", err)
	}
	reqID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, reqID)
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return apiErr(0, "", ctx.Err())
		}
		c.log.Warn(ctx, "request failed", "method", r.method, "path", u.EscapedPath(), "error", err)
		return apiErr(0, err.Error(), common.ErrUnavailable)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done", "method", r.method, "path", u.EscapedPath(), "status", resp.StatusCode,
		"elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		sentinel := mapStatus(resp.StatusCode)
		if errors.Is(sentinel, common.ErrUnauthorized) && !r.public {
			c.dropSession(ctx)
		}
		return apiErr(resp.StatusCode, errorMessage(b), sentinel)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return apiErr(resp.StatusCode, "decode response", err)
	}
	return nil
}

// doHinted decodes an untyped response and converts the identifier fields
// named by hint.
func (c *HTTPClient) doHinted(ctx context.Context, r request, hint ids.Hint) (any, error) {
	var raw any
	if err := c.do(ctx, r, &raw); err != nil {
		return nil, err
	}
	v, err := ids.Decode(raw, hint)
	if err != nil {
		return nil, &APIError{Method: r.method, Path: c.endpoint(r.segments, nil).EscapedPath(), Message: "decode response", Err: err}
	}
	return v, nil
}

func (r request) encode() (io.Reader, string, error) {
	if r.raw != nil {
		return r.raw, r.contentType, nil
	}
	if r.body == nil {
		return nil, "", nil
	}
	b, err := json.Marshal(ids.Encode(r.body))
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(b), "application/json", nil
}

// sessionToken returns the stored token, refusing one whose JWT exp claim
// has already passed. Tokens that are not JWTs are sent unchanged and left
// for the server to judge.
func (c *HTTPClient) sessionToken(ctx context.Context) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	if token == "" {
		return "", nil
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return token, nil
	}
	if claims.ExpiresAt != nil && !c.now().Before(claims.ExpiresAt.Time) {
		c.dropSession(ctx)
		return "", fmt.Errorf("%w: %w", common.ErrUnauthorized, common.ErrTokenExpired)
	}
	return token, nil
}

func (c *HTTPClient) dropSession(ctx context.Context) {
	if err := c.tokens.ClearToken(ctx); err != nil {
		c.log.Error(ctx, "failed to clear session token", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
