package cryptography

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")
	ErrInvalidSignature     = errors.New("invalid signature")
)

// Compatible reports whether a signature produced with the JWS algorithm alg
// could have been made by the key of vm. Methods are checked against their
// declared type when decoded, so only the key itself is considered here.
func Compatible(alg string, vm VerificationMethod) bool {
	return KeyCompatible(alg, vm.PublicKey())
}

// KeyCompatible is Compatible for a bare public key.
func KeyCompatible(alg string, key crypto.PublicKey) bool {
	switch alg {
	case "ES256":
		return ecdsaCurve(key) == "P-256"
	case "ES384":
		return ecdsaCurve(key) == "P-384"
	case "ES512":
		return ecdsaCurve(key) == "P-521"
	case "ES256K":
		k, ok := key.(*ecdsa.PublicKey)
		return ok && isSecp256k1(k.Curve)
	case "EdDSA":
		_, ok := key.(ed25519.PublicKey)
		return ok
	case "RS256", "RS384", "RS512", "PS256", "PS384", "PS512":
		_, ok := key.(*rsa.PublicKey)
		return ok
	default:
		return false
	}
}

// VerifySignature checks sig over signed with key using the JWS algorithm alg.
func VerifySignature(alg string, key crypto.PublicKey, signed []byte, sig []byte) error {
	if !KeyCompatible(alg, key) {
		return errors.Wrapf(ErrUnsupportedAlgorithm, "%s with %T", alg, key)
	}

	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return errors.Wrap(ErrUnsupportedAlgorithm, alg)
	}

	if err := method.Verify(string(signed), sig, key); err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}

	return nil
}

func ecdsaCurve(key crypto.PublicKey) string {
	k, ok := key.(*ecdsa.PublicKey)
	if !ok || k.Curve == nil {
		return ""
	}

	return k.Curve.Params().Name
}
