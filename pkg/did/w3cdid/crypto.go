package w3cdid

import (
	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/did/w3cdid/cryptography"
)

var (
	ErrNoValidSignatures  = errors.New("no valid signatures")
	ErrNoCompatibleMethod = errors.New("no compatible verification method")
	ErrMethodNotFound     = errors.New("verification method not found")
)

// FindMethod looks up a verification method by reference. The reference may
// be the full method id, a bare fragment (#key-1) or the document DID plus a
// fragment.
func (d *Document) FindMethod(ref string) (cryptography.VerificationMethod, bool) {
	want := d.absoluteID(ref)
	if u := URL(ref); u.Fragment() != "" && !hasDIDPrefix(ref) {
		want = d.id + "#" + u.Fragment()
	}

	for _, vm := range d.verificationMethod {
		if d.absoluteID(vm.ID) == want {
			return vm, true
		}
	}

	return cryptography.VerificationMethod{}, false
}

// CompatibleMethods returns the methods whose keys can verify alg signatures,
// in document order
func (d *Document) CompatibleMethods(alg string) []cryptography.VerificationMethod {
	var vms []cryptography.VerificationMethod

	for _, vm := range d.verificationMethod {
		if cryptography.Compatible(alg, vm) {
			vms = append(vms, vm)
		}
	}

	return vms
}

// Signed checks if the signature was made by a key in the Document. Every
// compatible method is tried in document order and the first one that
// verifies is returned.
func (d *Document) Signed(alg string, signature []byte, msg []byte) (cryptography.VerificationMethod, error) {
	vms := d.CompatibleMethods(alg)
	if len(vms) == 0 {
		return cryptography.VerificationMethod{}, errors.Wrapf(ErrNoCompatibleMethod, "%s in %s", alg, d.id)
	}

	for _, vm := range vms {
		err := cryptography.VerifySignature(alg, vm.PublicKey(), msg, signature)
		if err == nil {
			return vm, nil
		}

		logging.Entry().WithField("vm", vm.ID).WithError(err).Debug("validating signature")
	}

	return cryptography.VerificationMethod{}, ErrNoValidSignatures
}

// SignedBy checks the signature against one referenced method only
func (d *Document) SignedBy(ref string, alg string, signature []byte, msg []byte) (cryptography.VerificationMethod, error) {
	vm, ok := d.FindMethod(ref)
	if !ok {
		return vm, errors.Wrap(ErrMethodNotFound, ref)
	}

	if !cryptography.Compatible(alg, vm) {
		return vm, errors.Wrapf(ErrNoCompatibleMethod, "%s with %s", alg, vm.ID)
	}

	if err := cryptography.VerifySignature(alg, vm.PublicKey(), msg, signature); err != nil {
		return vm, errors.Wrap(ErrNoValidSignatures, err.Error())
	}

	return vm, nil
}

func hasDIDPrefix(ref string) bool {
	return len(ref) > 4 && ref[:4] == "did:"
}
