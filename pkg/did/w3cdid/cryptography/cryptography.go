package cryptography

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"

	"github.com/pkg/errors"
)

type VerificationMethodType string

var (
	ErrInvalidPublicKey         = errors.New("invalid public key")
	ErrInvalidPublicKeyLength   = errors.New("invalid public key length")
	ErrInvalidPublicKeyType     = errors.New("invalid public key type")
	ErrUnsupportedPublicKeyType = errors.New("unsupported public key type")
	ErrNoKeyMaterial            = errors.New("no public key material")
	ErrPrivateKeyMaterial       = errors.New("private key material published")
)

const (
	Bls12381G1Key2020                 VerificationMethodType = "Bls12381G1Key2020"
	Bls12381G2Key2020                 VerificationMethodType = "Bls12381G2Key2020"
	EcdsaSecp256k1RecoveryMethod2020  VerificationMethodType = "EcdsaSecp256k1RecoveryMethod2020"
	EcdsaSecp256k1VerificationKey2019 VerificationMethodType = "EcdsaSecp256k1VerificationKey2019"
	EcdsaSecp256r1VerificationKey2019 VerificationMethodType = "EcdsaSecp256r1VerificationKey2019"
	Ed25519VerificationKey2018        VerificationMethodType = "Ed25519VerificationKey2018"
	Ed25519VerificationKey2020        VerificationMethodType = "Ed25519VerificationKey2020"
	JsonWebKey2020                    VerificationMethodType = "JsonWebKey2020"
	Multikey                          VerificationMethodType = "Multikey"
	PgpVerificationkey2021            VerificationMethodType = "PgpVerificationkey2021"
	RsaVerificationKey2018            VerificationMethodType = "RsaVerificationKey2018"
	Verificationcondition2021         VerificationMethodType = "Verificationcondition2021"
	X25519KeyAgreementKey2019         VerificationMethodType = "X25519KeyAgreementKey2019"
)

// VerificationMethod is a public key published in a DID Document. Key
// material is carried either as a JWK or as a multibase string; the decoded
// key is only available on methods returned by Decode.
type VerificationMethod struct {
	ID                 string                 `json:"id"`
	Type               VerificationMethodType `json:"type"`
	Controller         string                 `json:"controller,omitempty"`
	PublicKeyJwk       map[string]interface{} `json:"publicKeyJwk,omitempty"`
	PublicKeyMultibase string                 `json:"publicKeyMultibase,omitempty"`

	publicKey crypto.PublicKey
}

// PublicKey returns the decoded key, nil if the method was never decoded.
func (vm VerificationMethod) PublicKey() crypto.PublicKey {
	return vm.publicKey
}

// Decode returns a copy of the method carrying its decoded public key. The
// key must belong to the scheme named by the method type.
func (vm VerificationMethod) Decode() (VerificationMethod, error) {
	var (
		key crypto.PublicKey
		err error
	)

	switch {
	case len(vm.PublicKeyJwk) != 0:
		key, err = DecodeJWK(vm.PublicKeyJwk)
	case vm.PublicKeyMultibase != "":
		key, err = decodeMultibaseKey(vm.Type, vm.PublicKeyMultibase)
	default:
		err = ErrNoKeyMaterial
	}
	if err != nil {
		return vm, errors.Wrapf(err, "decoding %s", vm.ID)
	}

	if err := checkKeyType(vm.Type, key); err != nil {
		return vm, errors.Wrapf(err, "checking %s", vm.ID)
	}

	vm.publicKey = key
	return vm, nil
}

// NewVerificationMethod builds a decoded JsonWebKey2020 method for a public key.
func NewVerificationMethod(id string, controller string, key crypto.PublicKey) (VerificationMethod, error) {
	jwk, err := EncodeJWK(key)
	if err != nil {
		return VerificationMethod{}, err
	}

	vm := VerificationMethod{
		ID:           id,
		Type:         JsonWebKey2020,
		Controller:   controller,
		PublicKeyJwk: jwk,
	}

	return vm.Decode()
}

func checkKeyType(t VerificationMethodType, key crypto.PublicKey) error {
	switch t {
	case JsonWebKey2020, Multikey:
		switch key.(type) {
		case *ecdsa.PublicKey, ed25519.PublicKey, *rsa.PublicKey:
			return nil
		}
	case EcdsaSecp256k1VerificationKey2019, EcdsaSecp256k1RecoveryMethod2020:
		if k, ok := key.(*ecdsa.PublicKey); ok && isSecp256k1(k.Curve) {
			return nil
		}
	case EcdsaSecp256r1VerificationKey2019:
		if k, ok := key.(*ecdsa.PublicKey); ok && k.Curve.Params().Name == "P-256" {
			return nil
		}
	case Ed25519VerificationKey2018, Ed25519VerificationKey2020:
		if _, ok := key.(ed25519.PublicKey); ok {
			return nil
		}
	case RsaVerificationKey2018:
		if _, ok := key.(*rsa.PublicKey); ok {
			return nil
		}
	default:
		return errors.Wrap(ErrUnsupportedPublicKeyType, string(t))
	}

	return errors.Wrapf(ErrInvalidPublicKeyType, "%T for %s", key, t)
}
