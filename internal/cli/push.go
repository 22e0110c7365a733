package cli

import (
	"context"
	"crypto"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/vcverify/pkg/credential"
	"github.com/tcfw/vcverify/pkg/credential/jwt"
	"github.com/tcfw/vcverify/pkg/did/w3cdid"
	"github.com/tcfw/vcverify/pkg/did/w3cdid/cryptography"
)

var (
	pushCmd = &cobra.Command{
		Use:   "push <did> <file>",
		Short: "Add a credential to a DID's Identity Hub",
		Long: `Add a credential to a DID's Identity Hub.

Without --key the file holds an envelope payload that is pushed as is. With
--key the file holds a credential in W3C JSON form which is signed as a JWT
first; a missing id, issuer or issuance date is filled in.`,
		Args: cobra.ExactArgs(2),
		RunE: runPush,
	}

	signingAlgs = []string{"ES256", "ES384", "ES512", "ES256K", "EdDSA", "RS256"}
)

func init() {
	pushCmd.Flags().String("format", jwt.Format, "envelope format of an unsigned payload")
	pushCmd.Flags().StringP("key", "k", "", "PEM (PKCS#8 or SEC 1) or hex secp256k1 private key to sign the credential with")
	pushCmd.Flags().String("alg", "", "JWS algorithm. blank picks one from the key type")
	pushCmd.Flags().String("kid", "", "verification method id of the key")
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	did, file := args[0], args[1]

	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "reading credential")
	}

	format, _ := cmd.Flags().GetString("format")
	keyFile, _ := cmd.Flags().GetString("key")
	alg, _ := cmd.Flags().GetString("alg")
	kid, _ := cmd.Flags().GetString("kid")

	env := credential.NewEnvelope(format, data)

	if keyFile != "" {
		key, err := loadSigningKey(keyFile)
		if err != nil {
			return err
		}

		if alg == "" {
			alg = defaultAlg(key.Public())
		}

		var cred credential.Credential
		if err := json.Unmarshal(data, &cred); err != nil {
			return errors.Wrap(err, "decoding credential")
		}
		fillCredential(&cred, did)

		env, err = jwt.Sign(cred, alg, kid, key)
		if err != nil {
			return err
		}
	}

	reg, err := newResolver(cfg.Resolver())
	if err != nil {
		return errors.Wrap(err, "constructing resolver")
	}

	doc, err := reg.Resolve(ctx, did)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", did)
	}

	hub, ok := doc.FindService(w3cdid.IdentityHubServiceType)
	if !ok {
		return errors.Errorf("%s has no %s service", did, w3cdid.IdentityHubServiceType)
	}

	client, err := newHubClient(cfg.Hub())
	if err != nil {
		return errors.Wrap(err, "constructing hub client")
	}

	ack, err := client.AddCredential(ctx, hub.ServiceEndpoint, env)
	if err != nil {
		return errors.Wrap(err, "pushing credential")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pushed %s envelope to %s (%d)\n", env.Format, hub.ServiceEndpoint, ack.StatusCode)

	return nil
}

func fillCredential(cred *credential.Credential, did string) {
	if cred.ID == "" {
		cred.ID = "urn:uuid:" + uuid.NewString()
	}
	if cred.Issuer == "" {
		cred.Issuer = did
	}
	if cred.IssuanceDate.IsZero() {
		cred.IssuanceDate = time.Now().UTC().Truncate(time.Second)
	}
	if len(cred.Context) == 0 {
		cred.Context = []string{credential.ContextV1}
	}
	if len(cred.Type) == 0 {
		cred.Type = []string{credential.VerifiableCredential}
	}
}

func loadSigningKey(path string) (crypto.Signer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading key")
	}

	block, _ := pem.Decode(b)
	if block == nil {
		sk, err := ethCrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(string(b)), "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "decoding hex key")
		}
		return sk, nil
	}

	switch block.Type {
	case "EC PRIVATE KEY":
		k, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "parsing SEC 1 key")
		}
		return k, nil
	case "RSA PRIVATE KEY":
		k, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "parsing PKCS#1 key")
		}
		return k, nil
	case "PRIVATE KEY":
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "parsing PKCS#8 key")
		}
		signer, ok := k.(crypto.Signer)
		if !ok {
			return nil, errors.Errorf("unsupported key type %T", k)
		}
		return signer, nil
	default:
		return nil, errors.Errorf("unsupported PEM block %q", block.Type)
	}
}

func defaultAlg(pub crypto.PublicKey) string {
	for _, alg := range signingAlgs {
		if cryptography.KeyCompatible(alg, pub) {
			return alg
		}
	}

	return ""
}
