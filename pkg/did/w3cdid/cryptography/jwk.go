package cryptography

import (
	"crypto"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	jose "gopkg.in/square/go-jose.v2"
)

const secp256k1Crv = "secp256k1"

// DecodeJWK decodes a public JWK. secp256k1 keys are handled here as the
// JOSE library only knows the NIST curves.
func DecodeJWK(m map[string]interface{}) (crypto.PublicKey, error) {
	if _, ok := m["d"]; ok {
		return nil, ErrPrivateKeyMaterial
	}

	if kty, _ := m["kty"].(string); kty == "EC" {
		if crv, _ := m["crv"].(string); crv == secp256k1Crv {
			return decodeSecp256k1JWK(m)
		}
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling jwk")
	}

	var jwk jose.JSONWebKey
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}

	if !jwk.Valid() {
		return nil, ErrInvalidPublicKey
	}

	if !jwk.IsPublic() {
		return nil, ErrPrivateKeyMaterial
	}

	return jwk.Key, nil
}

// EncodeJWK encodes a public key into its JWK map form.
func EncodeJWK(key crypto.PublicKey) (map[string]interface{}, error) {
	if k, ok := key.(*ecdsa.PublicKey); ok && isSecp256k1(k.Curve) {
		return encodeSecp256k1JWK(k), nil
	}

	raw, err := jose.JSONWebKey{Key: key}.MarshalJSON()
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedPublicKeyType, "%T", key)
	}

	m := map[string]interface{}{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshalling jwk")
	}

	return m, nil
}

func decodeSecp256k1JWK(m map[string]interface{}) (crypto.PublicKey, error) {
	xs, _ := m["x"].(string)
	ys, _ := m["y"].(string)

	x, err := base64.RawURLEncoding.DecodeString(xs)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, "decoding x")
	}
	y, err := base64.RawURLEncoding.DecodeString(ys)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, "decoding y")
	}

	if len(x) != 32 || len(y) != 32 {
		return nil, ErrInvalidPublicKeyLength
	}

	uncompressed := make([]byte, 0, 65)
	uncompressed = append(uncompressed, 0x04)
	uncompressed = append(uncompressed, x...)
	uncompressed = append(uncompressed, y...)

	pub, err := ethCrypto.UnmarshalPubkey(uncompressed)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}

	return pub, nil
}

func encodeSecp256k1JWK(k *ecdsa.PublicKey) map[string]interface{} {
	raw := ethCrypto.FromECDSAPub(k)

	return map[string]interface{}{
		"kty": "EC",
		"crv": secp256k1Crv,
		"x":   base64.RawURLEncoding.EncodeToString(raw[1:33]),
		"y":   base64.RawURLEncoding.EncodeToString(raw[33:65]),
	}
}
