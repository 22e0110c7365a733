package resolver

import (
	"context"
	"crypto"

	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/pkg/did"
	"github.com/tcfw/vcverify/pkg/did/w3cdid"
	"github.com/tcfw/vcverify/pkg/did/w3cdid/cryptography"
)

const keyMethod = "key"

var _ did.Resolver = (*KeyResolver)(nil)

// KeyResolver resolves did:key identifiers, whose documents are derived from
// the multicodec public key embedded in the identifier itself.
type KeyResolver struct{}

func NewKeyResolver() *KeyResolver {
	return &KeyResolver{}
}

func (r *KeyResolver) Method() string {
	return keyMethod
}

func (r *KeyResolver) Resolve(_ context.Context, id string) (*w3cdid.Document, error) {
	u, err := w3cdid.ParseURL(id)
	if err != nil {
		return nil, err
	}
	if u.Method() != keyMethod {
		return nil, errors.Wrap(ErrUnknownMethod, u.Method())
	}

	mb := u.Id()

	vm, err := cryptography.VerificationMethod{
		ID:                 u.DID() + "#" + mb,
		Type:               cryptography.Multikey,
		Controller:         u.DID(),
		PublicKeyMultibase: mb,
	}.Decode()
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDocument, err.Error())
	}

	return w3cdid.NewDocument(u.DID(), []cryptography.VerificationMethod{vm}, nil,
		w3cdid.WithContext("https://www.w3.org/ns/did/v1", "https://w3id.org/security/multikey/v1"),
	)
}

// KeyDID returns the did:key identifier of a public key
func KeyDID(pub crypto.PublicKey) (string, error) {
	mb, err := cryptography.EncodeMultikey(pub)
	if err != nil {
		return "", err
	}

	return "did:" + keyMethod + ":" + mb, nil
}
