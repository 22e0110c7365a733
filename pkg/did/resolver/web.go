package resolver

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/did"
	"github.com/tcfw/vcverify/pkg/did/w3cdid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	webMethod = "web"

	defaultWebTimeout = 10 * time.Second
	maxDocumentSize   = 1 << 20
)

var _ did.Resolver = (*WebResolver)(nil)

// WebResolver resolves did:web identifiers by fetching did.json from the
// domain named in the identifier.
type WebResolver struct {
	client *http.Client
	scheme string
}

type WebOption func(*WebResolver)

// WithHTTPClient fetches documents through a copy of c. A nil client keeps
// the default.
func WithHTTPClient(c *http.Client) WebOption {
	return func(r *WebResolver) {
		if c == nil {
			return
		}
		cp := *c
		r.client = &cp
	}
}

// WithWebTimeout bounds each fetch. Non-positive durations keep the current
// timeout.
func WithWebTimeout(d time.Duration) WebOption {
	return func(r *WebResolver) {
		if d <= 0 {
			return
		}
		cp := *r.client
		cp.Timeout = d
		r.client = &cp
	}
}

// WithInsecureHTTP fetches documents over plain http, for local development only
func WithInsecureHTTP() WebOption {
	return func(r *WebResolver) {
		r.scheme = "http"
	}
}

func NewWebResolver(opts ...WebOption) *WebResolver {
	r := &WebResolver{
		client: &http.Client{
			Timeout:   defaultWebTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		scheme: "https",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *WebResolver) Method() string {
	return webMethod
}

// DocumentURL maps a did:web identifier to the location of its document
func (r *WebResolver) DocumentURL(id string) (string, error) {
	u, err := w3cdid.ParseURL(id)
	if err != nil {
		return "", err
	}
	if u.Method() != webMethod {
		return "", errors.Wrap(ErrUnknownMethod, u.Method())
	}

	segs := strings.Split(u.Id(), ":")
	for i, s := range segs {
		d, err := url.PathUnescape(s)
		if err != nil || d == "" {
			return "", errors.Wrapf(ErrMalformedDID, "%s segment %d", id, i)
		}
		segs[i] = d
	}

	host := segs[0]
	path := "/.well-known/did.json"
	if len(segs) > 1 {
		path = "/" + strings.Join(segs[1:], "/") + "/did.json"
	}

	return (&url.URL{Scheme: r.scheme, Host: host, Path: path}).String(), nil
}

func (r *WebResolver) Resolve(ctx context.Context, id string) (*w3cdid.Document, error) {
	docURL, err := r.DocumentURL(id)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedDID, err.Error())
	}
	req.Header.Set("Accept", "application/did+json, application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrNetwork, err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, errors.Wrap(ErrNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Wrapf(ErrNetwork, "%s returned %d", docURL, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, errors.Wrap(ErrNetwork, err.Error())
	}

	doc, err := w3cdid.ParseDocument(b)
	if err != nil {
		return nil, err
	}

	if doc.ID() != w3cdid.URL(id).DID() {
		return nil, errors.Wrapf(ErrInvalidDocument, "document id %s does not match %s", doc.ID(), id)
	}

	logging.Component("resolver").WithField("did", id).Debug("resolved did:web document")

	return doc, nil
}
