package credential

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

const (
	ContextV1            = "https://www.w3.org/2018/credentials/v1"
	VerifiableCredential = "VerifiableCredential"
)

// Credential is a verifiable credential reduced to the fields verification
// and callers rely on. Its JSON form follows the W3C VC data model.
type Credential struct {
	ID             string
	Context        []string
	Type           []string
	Issuer         string
	Subject        string
	Claims         map[string]interface{}
	IssuanceDate   time.Time
	ExpirationDate *time.Time
}

type credentialJSON struct {
	Context           stringList             `json:"@context,omitempty"`
	ID                string                 `json:"id,omitempty"`
	Type              stringList             `json:"type,omitempty"`
	Issuer            issuer                 `json:"issuer,omitempty"`
	IssuanceDate      *time.Time             `json:"issuanceDate,omitempty"`
	ExpirationDate    *time.Time             `json:"expirationDate,omitempty"`
	CredentialSubject map[string]interface{} `json:"credentialSubject,omitempty"`
}

func (c Credential) MarshalJSON() ([]byte, error) {
	subject := make(map[string]interface{}, len(c.Claims)+1)
	for k, v := range c.Claims {
		subject[k] = v
	}
	if c.Subject != "" {
		subject["id"] = c.Subject
	}

	cj := credentialJSON{
		Context:           c.Context,
		ID:                c.ID,
		Type:              c.Type,
		Issuer:            issuer(c.Issuer),
		ExpirationDate:    c.ExpirationDate,
		CredentialSubject: subject,
	}
	if !c.IssuanceDate.IsZero() {
		d := c.IssuanceDate
		cj.IssuanceDate = &d
	}

	return json.Marshal(cj)
}

func (c *Credential) UnmarshalJSON(b []byte) error {
	var cj credentialJSON
	if err := json.Unmarshal(b, &cj); err != nil {
		return err
	}

	*c = Credential{
		ID:             cj.ID,
		Context:        cj.Context,
		Type:           cj.Type,
		Issuer:         string(cj.Issuer),
		ExpirationDate: cj.ExpirationDate,
	}

	if cj.IssuanceDate != nil {
		c.IssuanceDate = *cj.IssuanceDate
	}

	if len(cj.CredentialSubject) != 0 {
		c.Claims = make(map[string]interface{}, len(cj.CredentialSubject))
		for k, v := range cj.CredentialSubject {
			if k == "id" {
				c.Subject, _ = v.(string)
				continue
			}
			c.Claims[k] = v
		}
	}

	return nil
}

// Expired reports whether the credential has expired at t
func (c *Credential) Expired(t time.Time) bool {
	return c.ExpirationDate != nil && t.After(*c.ExpirationDate)
}

// issuer decodes the VC issuer, given either as a DID or as an object
// holding the DID in its id
type issuer string

func (i *issuer) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*i = issuer(s)
		return nil
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return errors.New("issuer must be a string or an object with an id")
	}
	*i = issuer(obj.ID)

	return nil
}

type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*l = stringList{one}
		return nil
	}

	var many []interface{}
	if err := json.Unmarshal(b, &many); err != nil {
		return errors.New("expected string or array")
	}

	out := make(stringList, 0, len(many))
	for _, m := range many {
		if s, ok := m.(string); ok {
			out = append(out, s)
		}
	}
	*l = out

	return nil
}
