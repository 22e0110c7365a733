package verifier

import (
	"time"

	"github.com/pkg/errors"
)

type Option func(*Verifier) error

// WithIssuerResolver resolves the documents of issuers other than the
// holder, so credentials issued by third parties can be verified against
// the issuer's own keys. Without it only holder-issued credentials verify.
func WithIssuerResolver(r DocumentResolver) Option {
	return func(v *Verifier) error {
		v.issuers = r
		return nil
	}
}

// WithConcurrency bounds how many envelopes are verified in parallel
func WithConcurrency(n int) Option {
	return func(v *Verifier) error {
		if n < 1 {
			return errors.New("concurrency must be at least 1")
		}
		v.concurrency = n
		return nil
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) error {
		v.now = now
		return nil
	}
}

// WithLeeway tolerates clock skew when checking validity periods
func WithLeeway(d time.Duration) Option {
	return func(v *Verifier) error {
		if d < 0 {
			return errors.New("leeway must not be negative")
		}
		v.leeway = d
		return nil
	}
}
