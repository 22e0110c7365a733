package resolver

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/did"
	"github.com/tcfw/vcverify/pkg/did/w3cdid"
)

var (
	ErrUnknownMethod   = errors.New("unknown did method")
	ErrMalformedDID    = w3cdid.ErrMalformedDID
	ErrNotFound        = errors.New("did document not found")
	ErrNetwork         = errors.New("network error")
	ErrInvalidDocument = w3cdid.ErrInvalidDocument
)

// Registry dispatches DID resolution to the resolver registered for the
// DID's method. Registering a second resolver for a method replaces the
// first.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]did.Resolver
}

func NewRegistry(resolvers ...did.Resolver) *Registry {
	r := &Registry{resolvers: make(map[string]did.Resolver, len(resolvers))}

	for _, res := range resolvers {
		if err := r.Register(res); err != nil {
			logging.Component("resolver").WithError(err).Warn("skipping did resolver")
		}
	}

	return r
}

func (r *Registry) Register(res did.Resolver) error {
	m := res.Method()
	if m == "" {
		return errors.Wrap(ErrMalformedDID, "resolver has empty method")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resolvers[m]; ok {
		logging.Component("resolver").WithField("method", m).Warn("replacing registered did resolver")
	}

	r.resolvers[m] = res

	return nil
}

// Methods lists the registered methods
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ms := make([]string, 0, len(r.resolvers))
	for m := range r.resolvers {
		ms = append(ms, m)
	}
	sort.Strings(ms)

	return ms
}

// Resolve resolves a DID or DID URL via the resolver for its method. Query
// and fragment parts are dropped before delegating.
func (r *Registry) Resolve(ctx context.Context, id string) (*w3cdid.Document, error) {
	u, err := w3cdid.ParseURL(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	res, ok := r.resolvers[u.Method()]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrap(ErrUnknownMethod, u.Method())
	}

	doc, err := res.Resolve(ctx, u.DID())
	if err != nil {
		return nil, err
	}

	if doc == nil {
		return nil, errors.Wrapf(ErrNotFound, "%s resolved to nothing", u.DID())
	}

	return doc, nil
}
