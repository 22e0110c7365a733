package identityhub

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/credential"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	credentialsPath = "/credentials"

	defaultTimeout  = 10 * time.Second
	maxResponseSize = 16 << 20
	maxErrorBody    = 512
)

// Client stores and retrieves credential envelopes on a subject's Identity
// Hub. Clients do not validate what they carry.
type Client interface {
	AddCredential(ctx context.Context, hubURL string, env credential.Envelope) (*Ack, error)
	ListCredentials(ctx context.Context, hubURL string) ([]credential.Envelope, error)
}

// Ack acknowledges a stored envelope
type Ack struct {
	StatusCode int
}

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	hc      *http.Client
	token   string
	retries int
	backoff backoff.Backoff
}

type Option func(*HTTPClient) error

// WithHTTPClient sends requests through a copy of hc
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) error {
		if hc == nil {
			return errors.New("nil http client")
		}
		cp := *hc
		c.hc = &cp
		return nil
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cp := *c.hc
		cp.Timeout = d
		c.hc = &cp
		return nil
	}
}

// WithAuthToken sends a bearer token with every request
func WithAuthToken(token string) Option {
	return func(c *HTTPClient) error {
		c.token = token
		return nil
	}
}

// WithRetries retries listing after connection failures and 5xx responses
func WithRetries(n int, min time.Duration, max time.Duration) Option {
	return func(c *HTTPClient) error {
		if n < 0 {
			return errors.New("retries must not be negative")
		}
		c.retries = n
		c.backoff = backoff.Backoff{Min: min, Max: max, Factor: 2, Jitter: true}
		return nil
	}
}

func NewHTTPClient(opts ...Option) (*HTTPClient, error) {
	c := &HTTPClient{
		hc: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		backoff: backoff.Backoff{Min: 100 * time.Millisecond, Max: 2 * time.Second, Factor: 2, Jitter: true},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.Wrap(err, "applying client option")
		}
	}

	return c, nil
}

func (c *HTTPClient) AddCredential(ctx context.Context, hubURL string, env credential.Envelope) (*Ack, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling envelope")
	}

	endpoint, err := credentialsURL(hubURL)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return &Ack{StatusCode: resp.StatusCode}, nil
}

func (c *HTTPClient) ListCredentials(ctx context.Context, hubURL string) ([]credential.Envelope, error) {
	endpoint, err := credentialsURL(hubURL)
	if err != nil {
		return nil, err
	}

	b := c.backoff

	for attempt := 0; ; attempt++ {
		envs, err := c.listCredentials(ctx, endpoint)
		if err == nil || attempt >= c.retries || !retryable(err) {
			return envs, err
		}

		wait := b.Duration()
		logging.Component("identityhub").WithFields(logging.Fields{
			"hub":     hubURL,
			"attempt": attempt + 1,
			"wait":    wait,
		}).WithError(err).Debug("retrying credential listing")

		select {
		case <-ctx.Done():
			return nil, classify(ctx, ctx.Err())
		case <-time.After(wait):
		}
	}
}

func (c *HTTPClient) listCredentials(ctx context.Context, endpoint string) ([]credential.Envelope, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, classify(ctx, err)
	}

	envs := []credential.Envelope{}
	if err := json.Unmarshal(raw, &envs); err != nil {
		return nil, &StatusError{Status: resp.StatusCode, Body: "malformed envelope list: " + err.Error()}
	}

	return envs, nil
}

// credentialsURL appends the credentials collection to a hub endpoint
func credentialsURL(hubURL string) (string, error) {
	u, err := url.Parse(hubURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errors.Wrapf(ErrConnectionFailure, "invalid hub url %q", hubURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + credentialsPath
	u.RawPath = ""

	return u.String(), nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method string, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.Wrap(ErrConnectionFailure, err.Error())
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Wrapf(ErrUnauthorized, "status %d", resp.StatusCode)
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}

func retryable(err error) bool {
	if errors.Is(err, ErrConnectionFailure) {
		return true
	}

	var se *StatusError
	return errors.As(err, &se) && se.Status >= 500
}
