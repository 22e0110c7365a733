package verifier

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/credential"
	"github.com/tcfw/vcverify/pkg/did/w3cdid"
	"github.com/tcfw/vcverify/pkg/identityhub"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// DocumentResolver resolves a DID to its document. *resolver.Registry
// satisfies it.
type DocumentResolver interface {
	Resolve(ctx context.Context, did string) (*w3cdid.Document, error)
}

// Result holds the credentials that verified, keyed by credential id, and
// the envelopes that were skipped in retrieval order
type Result struct {
	Credentials map[string]credential.Credential
	Failures    []*ItemError
}

// Verifier fetches a subject's credentials from its Identity Hub and keeps
// those whose signatures trace back to the subject (or a resolvable issuer)
type Verifier struct {
	client       identityhub.Client
	transformers *credential.Registry
	issuers      DocumentResolver

	concurrency int
	now         func() time.Time
	leeway      time.Duration

	log *logrus.Entry
}

func New(client identityhub.Client, transformers *credential.Registry, opts ...Option) (*Verifier, error) {
	if client == nil {
		return nil, errors.New("identity hub client required")
	}
	if transformers == nil {
		return nil, errors.New("transformer registry required")
	}

	v := &Verifier{
		client:       client,
		transformers: transformers,
		concurrency:  defaultConcurrency,
		now:          time.Now,
		log:          logging.Component("verifier"),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, errors.Wrap(err, "applying verifier option")
		}
	}

	return v, nil
}

type outcome struct {
	cred *credential.Credential
	err  *ItemError
}

// GetVerifiedCredentials retrieves every envelope in the document's Identity
// Hub and returns the verified credentials. Individual envelope failures are
// reported in the result; an error is only returned when the hub could not be
// used, or when envelopes existed and none of them verified.
func (v *Verifier) GetVerifiedCredentials(ctx context.Context, doc *w3cdid.Document) (*Result, error) {
	if doc == nil {
		return nil, errors.Wrap(w3cdid.ErrInvalidDocument, "nil document")
	}

	hub, ok := doc.FindService(w3cdid.IdentityHubServiceType)
	if !ok {
		return nil, errors.Wrap(ErrNoIdentityHubService, doc.ID())
	}

	log := v.log.WithFields(logrus.Fields{"did": doc.ID(), "hub": hub.ServiceEndpoint})

	envs, err := v.client.ListCredentials(ctx, hub.ServiceEndpoint)
	if err != nil {
		return nil, &RetrievalError{Endpoint: hub.ServiceEndpoint, Err: err}
	}

	outcomes := make([]outcome, len(envs))

	var g errgroup.Group
	g.SetLimit(v.concurrency)

	for i, env := range envs {
		g.Go(func() error {
			outcomes[i] = v.verifyEnvelope(ctx, doc, i, env)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &RetrievalError{Endpoint: hub.ServiceEndpoint, Err: errors.Wrap(identityhub.ErrTimeout, err.Error())}
	}

	res := &Result{Credentials: make(map[string]credential.Credential, len(envs))}

	for _, o := range outcomes {
		if o.err != nil {
			log.WithError(o.err.Err).WithField("index", o.err.Index).Debug("skipping credential")
			res.Failures = append(res.Failures, o.err)
			continue
		}

		if _, dup := res.Credentials[o.cred.ID]; dup {
			log.WithField("id", o.cred.ID).Warn("duplicate credential id, keeping the later envelope")
		}
		res.Credentials[o.cred.ID] = *o.cred
	}

	log.WithFields(logrus.Fields{
		"envelopes": len(envs),
		"verified":  len(res.Credentials),
		"failed":    len(res.Failures),
	}).Debug("verified credentials")

	if len(envs) > 0 && len(res.Credentials) == 0 {
		return res, &AggregateError{Failures: res.Failures}
	}

	return res, nil
}

// VerifySubject resolves did and verifies the credentials held in its hub
func (v *Verifier) VerifySubject(ctx context.Context, r DocumentResolver, did string) (*Result, error) {
	doc, err := r.Resolve(ctx, did)
	if err != nil {
		return nil, err
	}

	return v.GetVerifiedCredentials(ctx, doc)
}

func (v *Verifier) verifyEnvelope(ctx context.Context, holder *w3cdid.Document, i int, env credential.Envelope) outcome {
	fail := func(id string, err error) outcome {
		return outcome{err: &ItemError{Index: i, Format: env.Format, CredentialID: id, Err: err}}
	}

	t, err := v.transformers.Resolve(env.Format)
	if err != nil {
		return fail("", err)
	}

	cred, proof, err := t.Parse(env.Payload)
	if err != nil {
		if !errors.Is(err, credential.ErrParse) {
			err = errors.Wrap(credential.ErrParse, err.Error())
		}
		return fail("", err)
	}

	signer, signerDID, err := v.signerDocument(ctx, holder, cred.Issuer)
	if err != nil {
		return fail(cred.ID, err)
	}

	if err := checkProof(signer, proof); err != nil {
		return fail(cred.ID, err)
	}

	if cred.Issuer != signerDID {
		return fail(cred.ID, errors.Wrapf(ErrIssuerMismatch, "issuer %s, expected %s", cred.Issuer, signerDID))
	}

	if err := v.checkValidity(cred); err != nil {
		return fail(cred.ID, err)
	}

	return outcome{cred: cred}
}

// signerDocument picks the document whose keys must have signed a
// credential from issuer, and the DID that document was obtained for. A
// resolved issuer document is bound to the DID it was resolved from, not to
// its own id field.
func (v *Verifier) signerDocument(ctx context.Context, holder *w3cdid.Document, issuer string) (*w3cdid.Document, string, error) {
	if issuer == holder.ID() || v.issuers == nil {
		return holder, holder.ID(), nil
	}

	doc, err := v.issuers.Resolve(ctx, issuer)
	if err != nil {
		return nil, "", errors.Wrapf(ErrIssuerUnresolvable, "%s: %s", issuer, err)
	}

	return doc, issuer, nil
}

func checkProof(signer *w3cdid.Document, proof *credential.Proof) error {
	var err error
	if proof.KeyID != "" {
		_, err = signer.SignedBy(proof.KeyID, proof.Algorithm, proof.Signature, proof.SignedContent)
	} else {
		_, err = signer.Signed(proof.Algorithm, proof.Signature, proof.SignedContent)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, w3cdid.ErrMethodNotFound), errors.Is(err, w3cdid.ErrNoCompatibleMethod):
		return errors.Wrap(ErrNoMatchingKey, err.Error())
	default:
		return errors.Wrap(ErrSignatureInvalid, err.Error())
	}
}

func (v *Verifier) checkValidity(cred *credential.Credential) error {
	now := v.now()

	if cred.Expired(now.Add(-v.leeway)) {
		return errors.Wrapf(ErrExpired, "at %s", cred.ExpirationDate.Format(time.RFC3339))
	}

	if !cred.IssuanceDate.IsZero() && cred.IssuanceDate.After(now.Add(v.leeway)) {
		return errors.Wrapf(ErrNotYetValid, "until %s", cred.IssuanceDate.Format(time.RFC3339))
	}

	return nil
}
