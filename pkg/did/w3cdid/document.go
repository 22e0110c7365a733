package w3cdid

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/pkg/did/w3cdid/cryptography"
)

const (
	IdentityHubServiceType = "IdentityHub"
)

// Document is a resolved DID Document. Documents are built through
// NewDocument or ParseDocument and are not modified afterwards; accessors
// return copies.
type Document struct {
	context            []string
	id                 string
	alsoKnownAs        []string
	controller         []string
	verificationMethod []cryptography.VerificationMethod
	service            []Service
}

type documentJSON struct {
	Context            stringList                        `json:"@context,omitempty"`
	ID                 string                            `json:"id"`
	AlsoKnownAs        []string                          `json:"alsoKnownAs,omitempty"`
	Controller         stringList                        `json:"controller,omitempty"`
	VerificationMethod []cryptography.VerificationMethod `json:"verificationMethod,omitempty"`
	Service            []Service                         `json:"service,omitempty"`
}

type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// UnmarshalJSON accepts a serviceEndpoint given as a single URL or as a
// list of URLs, keeping the first.
func (s *Service) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID              string          `json:"id"`
		Type            string          `json:"type"`
		ServiceEndpoint json.RawMessage `json:"serviceEndpoint"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	s.ID, s.Type = raw.ID, raw.Type

	if len(raw.ServiceEndpoint) == 0 {
		return nil
	}

	var eps stringList
	if err := json.Unmarshal(raw.ServiceEndpoint, &eps); err != nil {
		return errors.Wrap(err, "service endpoint")
	}
	if len(eps) > 0 {
		s.ServiceEndpoint = eps[0]
	}

	return nil
}

// stringList decodes either a JSON string or an array, keeping only string
// members (JSON-LD contexts may embed objects).
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

// Option customises a Document during construction
type Option func(*Document)

func WithContext(ctx ...string) Option {
	return func(d *Document) {
		d.context = append([]string{}, ctx...)
	}
}

func WithController(c ...string) Option {
	return func(d *Document) {
		d.controller = append([]string{}, c...)
	}
}

func WithAlsoKnownAs(aka ...string) Option {
	return func(d *Document) {
		d.alsoKnownAs = append([]string{}, aka...)
	}
}

// NewDocument validates and builds a Document. Verification methods which
// have not been decoded yet are decoded here; methods with unusable key
// material are dropped.
func NewDocument(id string, vms []cryptography.VerificationMethod, services []Service, opts ...Option) (*Document, error) {
	d := &Document{
		id:                 id,
		verificationMethod: append([]cryptography.VerificationMethod{}, vms...),
		service:            append([]Service{}, services...),
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.IsValid(); err != nil {
		return nil, err
	}

	d.verificationMethod = d.decodeMethods()

	return d, nil
}

// ParseDocument decodes the JSON form of a DID Document
func ParseDocument(b []byte) (*Document, error) {
	var dj documentJSON
	if err := json.Unmarshal(b, &dj); err != nil {
		return nil, errors.Wrap(ErrInvalidDocument, err.Error())
	}

	return NewDocument(dj.ID, dj.VerificationMethod, dj.Service,
		WithContext(dj.Context...),
		WithController(dj.Controller...),
		WithAlsoKnownAs(dj.AlsoKnownAs...),
	)
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentJSON{
		Context:            d.context,
		ID:                 d.id,
		AlsoKnownAs:        d.alsoKnownAs,
		Controller:         d.controller,
		VerificationMethod: d.verificationMethod,
		Service:            d.service,
	})
}

func (d *Document) ID() string {
	return d.id
}

func (d *Document) Context() []string {
	return append([]string{}, d.context...)
}

func (d *Document) Controller() []string {
	return append([]string{}, d.controller...)
}

func (d *Document) AlsoKnownAs() []string {
	return append([]string{}, d.alsoKnownAs...)
}

// VerificationMethods returns the usable verification methods in document order
func (d *Document) VerificationMethods() []cryptography.VerificationMethod {
	return append([]cryptography.VerificationMethod{}, d.verificationMethod...)
}

func (d *Document) Services() []Service {
	return append([]Service{}, d.service...)
}

// FindService returns the first service of the given type
func (d *Document) FindService(serviceType string) (Service, bool) {
	for _, s := range d.service {
		if s.Type == serviceType {
			return s, true
		}
	}

	return Service{}, false
}
