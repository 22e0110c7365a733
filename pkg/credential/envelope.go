package credential

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Envelope is the serialized, format tagged form of a credential and its
// proof as stored on an Identity Hub. Payloads are textual (compact JWS,
// JSON-LD documents).
type Envelope struct {
	Format  string
	Payload []byte
}

type envelopeJSON struct {
	Format  string `json:"format"`
	Payload string `json:"payload"`
}

func NewEnvelope(format string, payload []byte) Envelope {
	return Envelope{Format: normaliseFormat(format), Payload: payload}
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON{Format: e.Format, Payload: string(e.Payload)})
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var ej envelopeJSON
	if err := json.Unmarshal(b, &ej); err != nil {
		return err
	}

	if ej.Format == "" {
		return errors.New("envelope missing format")
	}

	*e = NewEnvelope(ej.Format, []byte(ej.Payload))

	return nil
}

func normaliseFormat(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}
