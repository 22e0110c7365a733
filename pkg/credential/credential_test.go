package credential

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransformer struct {
	format string
}

func (s *stubTransformer) Format() string {
	return s.format
}

func (s *stubTransformer) Parse(payload []byte) (*Credential, *Proof, error) {
	return &Credential{ID: string(payload)}, &Proof{}, nil
}

func TestRegistryResolve(t *testing.T) {
	jwtT := &stubTransformer{format: "jwt"}
	r := NewRegistry(jwtT)

	got, err := r.Resolve("JWT")
	require.NoError(t, err)
	assert.Same(t, jwtT, got)

	_, err = r.Resolve("ldp_vc")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	first, second := &stubTransformer{format: "jwt"}, &stubTransformer{format: "jwt"}

	r := NewRegistry(first)
	r.Register("jwt", second)

	got, err := r.Resolve("jwt")
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, []string{"jwt"}, r.Formats())
}

func TestCredentialJSON(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Credential{
		ID:             "urn:uuid:1",
		Context:        []string{ContextV1},
		Type:           []string{VerifiableCredential, "MembershipCredential"},
		Issuer:         "did:example:issuer",
		Subject:        "did:example:holder",
		Claims:         map[string]interface{}{"member": "yes"},
		IssuanceDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: &exp,
	}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var w3c map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &w3c))
	assert.Equal(t, map[string]interface{}{"id": "did:example:holder", "member": "yes"}, w3c["credentialSubject"])
	assert.Equal(t, "2024-01-01T00:00:00Z", w3c["issuanceDate"])

	var c2 Credential
	require.NoError(t, json.Unmarshal(b, &c2))
	assert.Equal(t, c, c2)
}

func TestCredentialJSONVariants(t *testing.T) {
	raw := `{
		"@context": "https://www.w3.org/2018/credentials/v1",
		"id": "urn:uuid:2",
		"type": "VerifiableCredential",
		"issuer": {"id": "did:example:issuer", "name": "Example"},
		"credentialSubject": {"id": "did:example:holder"}
	}`

	var c Credential
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "did:example:issuer", c.Issuer)
	assert.Equal(t, []string{ContextV1}, c.Context)
	assert.Equal(t, []string{VerifiableCredential}, c.Type)
	assert.Equal(t, "did:example:holder", c.Subject)
	assert.Empty(t, c.Claims)

	assert.Error(t, json.Unmarshal([]byte(`{"issuer": 5}`), &c))
}

func TestCredentialExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	assert.False(t, (&Credential{}).Expired(now))
	assert.True(t, (&Credential{ExpirationDate: &past}).Expired(now))
	assert.False(t, (&Credential{ExpirationDate: &past}).Expired(past.Add(-time.Second)))
}

func TestEnvelopeJSON(t *testing.T) {
	e := NewEnvelope(" JWT ", []byte("a.b.c"))
	assert.Equal(t, "jwt", e.Format)

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"format":"jwt","payload":"a.b.c"}`, string(b))

	var e2 Envelope
	require.NoError(t, json.Unmarshal(b, &e2))
	assert.Equal(t, e, e2)

	assert.Error(t, json.Unmarshal([]byte(`{"payload":"x"}`), &e2))
}
