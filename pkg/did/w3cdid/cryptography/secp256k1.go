package cryptography

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"math/big"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
)

// SigningMethodES256K implements the JOSE ES256K algorithm: ECDSA over
// secp256k1 with SHA-256, signature encoded as 64 bytes R||S.
type SigningMethodES256K struct{}

var ES256K = &SigningMethodES256K{}

func init() {
	jwt.RegisterSigningMethod(ES256K.Alg(), func() jwt.SigningMethod {
		return ES256K
	})
}

func (m *SigningMethodES256K) Alg() string {
	return "ES256K"
}

func (m *SigningMethodES256K) Sign(signingString string, key interface{}) ([]byte, error) {
	priv, ok := key.(*ecdsa.PrivateKey)
	if !ok || !isSecp256k1(priv.Curve) {
		return nil, jwt.ErrInvalidKeyType
	}

	h := sha256.Sum256([]byte(signingString))

	sig, err := ethCrypto.Sign(h[:], priv)
	if err != nil {
		return nil, err
	}

	//drop recovery id
	return sig[:64], nil
}

func (m *SigningMethodES256K) Verify(signingString string, sig []byte, key interface{}) error {
	pub, ok := key.(*ecdsa.PublicKey)
	if !ok || !isSecp256k1(pub.Curve) {
		return jwt.ErrInvalidKeyType
	}

	if len(sig) != 64 {
		return jwt.ErrSignatureInvalid
	}

	norm, ok := lowS(sig)
	if !ok {
		return jwt.ErrSignatureInvalid
	}

	h := sha256.Sum256([]byte(signingString))

	if !ethCrypto.VerifySignature(ethCrypto.FromECDSAPub(pub), h[:], norm) {
		return jwt.ErrSignatureInvalid
	}

	return nil
}

// lowS rewrites an R||S signature with S in the lower half of the group
// order. (R, S) and (R, N-S) are both valid ECDSA signatures; JOSE accepts
// either while go-ethereum only verifies the low form.
func lowS(sig []byte) ([]byte, bool) {
	n := ethCrypto.S256().Params().N

	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])

	if r.Sign() == 0 || s.Sign() == 0 || r.Cmp(n) >= 0 || s.Cmp(n) >= 0 {
		return nil, false
	}

	if s.Cmp(new(big.Int).Rsh(n, 1)) > 0 {
		s.Sub(n, s)
	}

	out := make([]byte, 64)
	r.FillBytes(out[:32])
	s.FillBytes(out[32:])

	return out, true
}

func isSecp256k1(c elliptic.Curve) bool {
	if c == nil {
		return false
	}

	p, s := c.Params(), ethCrypto.S256().Params()
	return p.P.Cmp(s.P) == 0 && p.N.Cmp(s.N) == 0 && p.B.Cmp(s.B) == 0
}
