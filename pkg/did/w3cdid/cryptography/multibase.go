package cryptography

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-varint"
	"github.com/pkg/errors"
)

// multicodec public key codes
const (
	codecEd25519Pub   = 0xed
	codecSecp256k1Pub = 0xe7
	codecP256Pub      = 0x1200
)

var (
	ErrUnknownMulticodec = errors.New("unknown multicodec key type")
)

func decodeMultibase(mb string) ([]byte, error) {
	_, d, err := multibase.Decode(mb)
	return d, err
}

// DecodeMultikey decodes a multibase string holding a multicodec prefixed
// public key, as used by Multikey methods and did:key identifiers.
func DecodeMultikey(mb string) (crypto.PublicKey, error) {
	raw, err := decodeMultibase(mb)
	if err != nil {
		return nil, errors.Wrap(err, "decoding multibase")
	}

	code, n, err := varint.FromUvarint(raw)
	if err != nil {
		return nil, errors.Wrap(err, "reading multicodec")
	}

	key := raw[n:]

	switch code {
	case codecEd25519Pub:
		if len(key) != ed25519.PublicKeySize {
			return nil, ErrInvalidPublicKeyLength
		}
		return ed25519.PublicKey(key), nil
	case codecSecp256k1Pub:
		return decodeSecp256k1Bytes(key)
	case codecP256Pub:
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), key)
		if x == nil {
			return nil, ErrInvalidPublicKey
		}
		return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownMulticodec, "0x%x", code)
	}
}

// EncodeMultikey encodes a public key as a base58btc multicodec string.
func EncodeMultikey(publicKey crypto.PublicKey) (string, error) {
	var (
		code uint64
		raw  []byte
	)

	switch t := publicKey.(type) {
	case ed25519.PublicKey:
		code, raw = codecEd25519Pub, []byte(t)
	case *ecdsa.PublicKey:
		switch {
		case isSecp256k1(t.Curve):
			code, raw = codecSecp256k1Pub, ethCrypto.CompressPubkey(t)
		case t.Curve.Params().Name == "P-256":
			code, raw = codecP256Pub, elliptic.MarshalCompressed(t.Curve, t.X, t.Y)
		default:
			return "", errors.Errorf("unsupported curve: %s", t.Curve.Params().Name)
		}
	default:
		return "", errors.Errorf("unsupported pk type: %T", t)
	}

	return multibase.Encode(multibase.Base58BTC, append(varint.ToUvarint(code), raw...))
}

func decodeMultibaseKey(t VerificationMethodType, mb string) (crypto.PublicKey, error) {
	switch t {
	case Ed25519VerificationKey2018:
		raw, err := decodeMultibase(mb)
		if err != nil {
			return nil, errors.Wrap(err, "decoding multibase")
		}
		if len(raw) != ed25519.PublicKeySize {
			return nil, ErrInvalidPublicKeyLength
		}
		return ed25519.PublicKey(raw), nil
	case EcdsaSecp256k1VerificationKey2019, EcdsaSecp256k1RecoveryMethod2020:
		raw, err := decodeMultibase(mb)
		if err != nil {
			return nil, errors.Wrap(err, "decoding multibase")
		}
		return decodeSecp256k1Bytes(raw)
	default:
		return DecodeMultikey(mb)
	}
}

func decodeSecp256k1Bytes(raw []byte) (crypto.PublicKey, error) {
	switch len(raw) {
	case 33:
		pub, err := ethCrypto.DecompressPubkey(raw)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
		}
		return pub, nil
	case 65:
		pub, err := ethCrypto.UnmarshalPubkey(raw)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
		}
		return pub, nil
	default:
		return nil, ErrInvalidPublicKeyLength
	}
}
