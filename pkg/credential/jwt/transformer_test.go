package jwt

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/vcverify/pkg/credential"
	"github.com/tcfw/vcverify/pkg/did/w3cdid/cryptography"
)

func testCredential() credential.Credential {
	return credential.Credential{
		ID:           uuid.NewString(),
		Context:      []string{credential.ContextV1},
		Type:         []string{credential.VerifiableCredential},
		Issuer:       "did:example:issuer",
		Subject:      "did:example:holder",
		Claims:       map[string]interface{}{"region": "eu", "tier": "gold"},
		IssuanceDate: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSignParseRoundTrip(t *testing.T) {
	p256, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	k1, err := ethCrypto.GenerateKey()
	require.NoError(t, err)
	_, edSk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	for alg, signer := range map[string]func() (credential.Envelope, error){
		"ES256": func() (credential.Envelope, error) {
			return Sign(testCredential(), "ES256", "did:example:issuer#key-1", p256)
		},
		"ES256K": func() (credential.Envelope, error) {
			return Sign(testCredential(), "ES256K", "", k1)
		},
		"EdDSA": func() (credential.Envelope, error) {
			return Sign(testCredential(), "EdDSA", "", edSk)
		},
	} {
		t.Run(alg, func(t *testing.T) {
			env, err := signer()
			require.NoError(t, err)
			assert.Equal(t, Format, env.Format)

			cred, proof, err := NewTransformer().Parse(env.Payload)
			require.NoError(t, err)

			want := testCredential()
			want.ID = cred.ID
			assert.Equal(t, want, *cred)

			assert.Equal(t, alg, proof.Algorithm)
			assert.Equal(t, "did:example:issuer", proof.Signer)
			assert.NotEmpty(t, proof.Signature)

			parts := strings.Split(string(env.Payload), ".")
			assert.Equal(t, parts[0]+"."+parts[1], string(proof.SignedContent))
		})
	}
}

func TestParseCarriesKeyID(t *testing.T) {
	sk, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	env, err := Sign(testCredential(), "ES256", "#key-1", sk)
	require.NoError(t, err)

	_, proof, err := NewTransformer().Parse(env.Payload)
	require.NoError(t, err)
	assert.Equal(t, "#key-1", proof.KeyID)

	err = cryptography.VerifySignature(proof.Algorithm, &sk.PublicKey, proof.SignedContent, proof.Signature)
	assert.NoError(t, err)
}

func TestParseRegisteredClaimsOnly(t *testing.T) {
	sk, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	nbf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := nbf.Add(24 * time.Hour)

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "urn:uuid:1234",
			Issuer:    "did:example:issuer",
			Subject:   "did:example:holder",
			NotBefore: jwt.NewNumericDate(nbf),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Claims: map[string]interface{}{"name": "alice"},
	})
	s, err := tok.SignedString(sk)
	require.NoError(t, err)

	cred, _, err := NewTransformer().Parse([]byte(s))
	require.NoError(t, err)

	assert.Equal(t, "urn:uuid:1234", cred.ID)
	assert.Equal(t, "did:example:holder", cred.Subject)
	assert.Equal(t, map[string]interface{}{"name": "alice"}, cred.Claims)
	assert.True(t, nbf.Equal(cred.IssuanceDate))
	require.NotNil(t, cred.ExpirationDate)
	assert.True(t, exp.Equal(*cred.ExpirationDate))
}

func TestParseErrors(t *testing.T) {
	sk, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	sign := func(c Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodES256, c).SignedString(sk)
		require.NoError(t, err)
		return s
	}

	vc := testCredential()
	noID := testCredential()
	noID.ID = ""

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{VC: &vc}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid := sign(Claims{VC: &vc})
	parts := strings.Split(valid, ".")

	tests := map[string]string{
		"garbage":          "not a token",
		"two segments":     parts[0] + "." + parts[1],
		"bad payload":      parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte("{")) + "." + parts[2],
		"empty signature":  parts[0] + "." + parts[1] + ".",
		"unsigned":         unsigned,
		"missing id":       sign(Claims{VC: &noID}),
		"missing issuer":   sign(Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "x"}}),
		"issuer mismatch":  sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "did:example:other"}, VC: &vc}),
		"subject mismatch": sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "did:example:other"}, VC: &vc}),
		"unknown alg":      base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"XX999","typ":"JWT"}`)) + "." + parts[1] + "." + parts[2],
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			cred, proof, err := NewTransformer().Parse([]byte(raw))
			assert.True(t, errors.Is(err, credential.ErrParse), "got %v", err)
			assert.Nil(t, cred)
			assert.Nil(t, proof)
		})
	}
}

func TestSignRejectsIncompatibleKey(t *testing.T) {
	sk, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	_, err = Sign(testCredential(), "ES256K", "", sk)
	assert.True(t, errors.Is(err, cryptography.ErrUnsupportedAlgorithm))

	_, err = Sign(testCredential(), "none", "", sk)
	assert.True(t, errors.Is(err, cryptography.ErrUnsupportedAlgorithm))
}
