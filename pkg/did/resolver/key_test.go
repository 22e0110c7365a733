package resolver

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyResolverEd25519(t *testing.T) {
	//test vector from the did:key method specification
	id := "did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK"

	doc, err := NewKeyResolver().Resolve(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, doc.ID())
	vms := doc.VerificationMethods()
	require.Len(t, vms, 1)
	assert.Equal(t, id+"#z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK", vms[0].ID)
	assert.IsType(t, ed25519.PublicKey{}, vms[0].PublicKey())
}

func TestKeyResolverRoundTrip(t *testing.T) {
	edPk, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	k1, err := ethCrypto.GenerateKey()
	require.NoError(t, err)

	for _, pk := range []interface{}{edPk, &k1.PublicKey} {
		id, err := KeyDID(pk)
		require.NoError(t, err)

		doc, err := NewRegistry(NewKeyResolver()).Resolve(context.Background(), id+"#frag")
		require.NoError(t, err)
		assert.Equal(t, id, doc.ID())
		assert.Len(t, doc.VerificationMethods(), 1)
	}
}

func TestKeyResolverInvalidKey(t *testing.T) {
	_, err := NewKeyResolver().Resolve(context.Background(), "did:key:zInvalid0")
	assert.True(t, errors.Is(err, ErrInvalidDocument))
}
