package verifier

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/pkg/credential"
)

var (
	ErrNoIdentityHubService   = errors.New("no identity hub service")
	ErrRetrievalFailed        = errors.New("credential retrieval failed")
	ErrAllVerificationsFailed = errors.New("all credential verifications failed")

	ErrUnsupportedFormat  = credential.ErrUnsupportedFormat
	ErrParse              = credential.ErrParse
	ErrNoMatchingKey      = errors.New("no matching verification key")
	ErrSignatureInvalid   = errors.New("signature invalid")
	ErrIssuerMismatch     = errors.New("issuer mismatch")
	ErrIssuerUnresolvable = errors.New("issuer unresolvable")
	ErrExpired            = errors.New("credential expired")
	ErrNotYetValid        = errors.New("credential not yet valid")
)

// ItemError records why one envelope did not verify
type ItemError struct {
	// Index is the envelope's position in the hub listing
	Index  int
	Format string
	// CredentialID is set when the envelope parsed far enough to have one
	CredentialID string
	Err          error
}

func (e *ItemError) Error() string {
	if e.CredentialID != "" {
		return fmt.Sprintf("envelope %d (%s, %s): %s", e.Index, e.Format, e.CredentialID, e.Err)
	}

	return fmt.Sprintf("envelope %d (%s): %s", e.Index, e.Format, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// RetrievalError aborts verification when envelopes could not be fetched.
// The client's error class stays reachable via errors.Is.
type RetrievalError struct {
	Endpoint string
	Err      error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s from %s: %s", ErrRetrievalFailed, e.Endpoint, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

func (e *RetrievalError) Is(target error) bool {
	return target == ErrRetrievalFailed
}

// AggregateError is returned when envelopes existed but none verified
type AggregateError struct {
	Failures []*ItemError
}

func (e *AggregateError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}

	return fmt.Sprintf("%s (%d): %s", ErrAllVerificationsFailed, len(e.Failures), strings.Join(msgs, "; "))
}

func (e *AggregateError) Is(target error) bool {
	return target == ErrAllVerificationsFailed
}

// Unwrap exposes each item's failure, so errors.Is matches a reason shared
// by the failed items
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}

	return errs
}
