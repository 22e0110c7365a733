package w3cdid

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/did/w3cdid/cryptography"
)

var (
	ErrInvalidDocument = errors.New("invalid did document")
)

// IsValid checks the structural invariants of the document: a subject id,
// verification method ids which are present and unique, and services with a
// type and endpoint.
func (d *Document) IsValid() error {
	if d.id == "" {
		return errors.Wrap(ErrInvalidDocument, "missing id")
	}

	seen := make(map[string]struct{}, len(d.verificationMethod))
	for i, vm := range d.verificationMethod {
		if vm.ID == "" {
			return errors.Wrapf(ErrInvalidDocument, "verification method %d missing id", i)
		}

		id := d.absoluteID(vm.ID)
		if _, ok := seen[id]; ok {
			return errors.Wrapf(ErrInvalidDocument, "duplicate verification method %s", vm.ID)
		}
		seen[id] = struct{}{}
	}

	for i, s := range d.service {
		if s.Type == "" || s.ServiceEndpoint == "" {
			return errors.Wrapf(ErrInvalidDocument, "service %d missing type or endpoint", i)
		}
	}

	return nil
}

func (d *Document) decodeMethods() []cryptography.VerificationMethod {
	vms := make([]cryptography.VerificationMethod, 0, len(d.verificationMethod))

	for _, vm := range d.verificationMethod {
		if vm.PublicKey() == nil {
			decoded, err := vm.Decode()
			if err != nil {
				logging.Entry().WithFields(logging.Fields{
					"did":  d.id,
					"vm":   vm.ID,
					"type": vm.Type,
				}).WithError(err).Debug("skipping unusable verification method")
				continue
			}
			vm = decoded
		}

		vms = append(vms, vm)
	}

	return vms
}

// absoluteID expands relative method references (#key-1) against the
// document id
func (d *Document) absoluteID(ref string) string {
	if strings.HasPrefix(ref, "#") {
		return d.id + ref
	}

	return ref
}
