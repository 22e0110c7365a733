package jwt

import (
	"crypto"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/pkg/credential"
	"github.com/tcfw/vcverify/pkg/did/w3cdid/cryptography"
)

const Format = "jwt"

// Claims is the payload of a JWT encoded verifiable credential. The
// credential is carried in vc; tokens without vc use the registered claims
// plus a flat claims object.
type Claims struct {
	jwt.RegisteredClaims
	VC     *credential.Credential `json:"vc,omitempty"`
	Claims map[string]interface{} `json:"claims,omitempty"`
}

var _ credential.Transformer = (*Transformer)(nil)

type Transformer struct {
	parser *jwt.Parser
}

func NewTransformer() *Transformer {
	return &Transformer{parser: jwt.NewParser()}
}

func (t *Transformer) Format() string {
	return Format
}

// Parse decodes a compact JWS without checking its signature
func (t *Transformer) Parse(payload []byte) (*credential.Credential, *credential.Proof, error) {
	raw := strings.TrimSpace(string(payload))

	claims := &Claims{}
	tok, parts, err := t.parser.ParseUnverified(raw, claims)
	if err != nil {
		return nil, nil, errors.Wrap(credential.ErrParse, err.Error())
	}

	alg := tok.Method.Alg()
	if alg == jwt.SigningMethodNone.Alg() {
		return nil, nil, errors.Wrap(credential.ErrParse, "unsigned token")
	}

	sig, err := t.parser.DecodeSegment(parts[2])
	if err != nil || len(sig) == 0 {
		return nil, nil, errors.Wrap(credential.ErrParse, "decoding signature")
	}

	cred, err := claims.credential()
	if err != nil {
		return nil, nil, err
	}

	kid, _ := tok.Header["kid"].(string)

	proof := &credential.Proof{
		Algorithm:     alg,
		KeyID:         kid,
		Signer:        cred.Issuer,
		SignedContent: []byte(parts[0] + "." + parts[1]),
		Signature:     sig,
	}

	return cred, proof, nil
}

func (c *Claims) credential() (*credential.Credential, error) {
	cred := &credential.Credential{}
	if c.VC != nil {
		*cred = *c.VC
	}

	var err error

	if cred.ID, err = pick("id", cred.ID, c.ID); err != nil {
		return nil, err
	}
	if cred.Issuer, err = pick("issuer", cred.Issuer, c.Issuer); err != nil {
		return nil, err
	}
	if cred.Subject, err = pick("subject", cred.Subject, c.Subject); err != nil {
		return nil, err
	}

	if cred.ID == "" {
		return nil, errors.Wrap(credential.ErrParse, "missing credential id")
	}
	if cred.Issuer == "" {
		return nil, errors.Wrap(credential.ErrParse, "missing issuer")
	}

	if cred.Claims == nil && c.Claims != nil {
		cred.Claims = c.Claims
	}

	if cred.IssuanceDate.IsZero() {
		switch {
		case c.NotBefore != nil:
			cred.IssuanceDate = c.NotBefore.Time
		case c.IssuedAt != nil:
			cred.IssuanceDate = c.IssuedAt.Time
		}
	}

	if cred.ExpirationDate == nil && c.ExpiresAt != nil {
		exp := c.ExpiresAt.Time
		cred.ExpirationDate = &exp
	}

	return cred, nil
}

// pick prefers the credential's own value, requiring the registered claim
// to agree when both are present
func pick(name string, vc string, registered string) (string, error) {
	switch {
	case vc == "":
		return registered, nil
	case registered == "" || registered == vc:
		return vc, nil
	default:
		return "", errors.Wrapf(credential.ErrParse, "%s mismatch between vc (%s) and token (%s)", name, vc, registered)
	}
}

// Sign encodes cred as a JWT envelope signed by key. kid, if set, names the
// verification method of the key.
func Sign(cred credential.Credential, alg string, kid string, key crypto.Signer) (credential.Envelope, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil || alg == jwt.SigningMethodNone.Alg() {
		return credential.Envelope{}, errors.Wrap(cryptography.ErrUnsupportedAlgorithm, alg)
	}

	if !cryptography.KeyCompatible(alg, key.Public()) {
		return credential.Envelope{}, errors.Wrapf(cryptography.ErrUnsupportedAlgorithm, "%s with %T", alg, key.Public())
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:      cred.ID,
			Issuer:  cred.Issuer,
			Subject: cred.Subject,
		},
		VC: &cred,
	}

	if !cred.IssuanceDate.IsZero() {
		claims.NotBefore = jwt.NewNumericDate(cred.IssuanceDate)
	}
	claims.IssuedAt = jwt.NewNumericDate(time.Now())
	if cred.ExpirationDate != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*cred.ExpirationDate)
	}

	tok := jwt.NewWithClaims(method, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}

	s, err := tok.SignedString(key)
	if err != nil {
		return credential.Envelope{}, errors.Wrap(err, "signing credential")
	}

	return credential.NewEnvelope(Format, []byte(s)), nil
}
