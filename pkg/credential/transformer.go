package credential

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/internal/utils/logging"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported envelope format")
	ErrParse             = errors.New("malformed credential envelope")
)

// Proof is the material needed to check the authenticity of a parsed
// credential.
type Proof struct {
	// Algorithm is the JWS algorithm name, e.g. ES256
	Algorithm string
	// KeyID references the signing verification method, if the envelope
	// names one
	KeyID string
	// Signer is the DID claiming to have signed the envelope
	Signer        string
	SignedContent []byte
	Signature     []byte
}

// Transformer extracts a credential and its proof from envelope payloads of
// one format. Structural problems are reported as ErrParse.
type Transformer interface {
	Format() string
	Parse(payload []byte) (*Credential, *Proof, error)
}

// Registry maps envelope formats to transformers. Registering a second
// transformer for a format replaces the first.
type Registry struct {
	mu           sync.RWMutex
	transformers map[string]Transformer
}

func NewRegistry(ts ...Transformer) *Registry {
	r := &Registry{transformers: make(map[string]Transformer, len(ts))}

	for _, t := range ts {
		r.Register(t.Format(), t)
	}

	return r
}

func (r *Registry) Register(format string, t Transformer) {
	f := normaliseFormat(format)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transformers[f]; ok {
		logging.Component("transformer").WithField("format", f).Warn("replacing registered envelope transformer")
	}

	r.transformers[f] = t
}

func (r *Registry) Resolve(format string) (Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transformers[normaliseFormat(format)]
	if !ok {
		return nil, errors.Wrap(ErrUnsupportedFormat, format)
	}

	return t, nil
}

// Formats lists the registered formats
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fs := make([]string, 0, len(r.transformers))
	for f := range r.transformers {
		fs = append(fs, f)
	}
	sort.Strings(fs)

	return fs
}
