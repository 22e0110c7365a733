package resolver

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/pkg/did"
	"github.com/tcfw/vcverify/pkg/did/w3cdid"
	"gopkg.in/yaml.v3"
)

var _ did.Resolver = (*StaticResolver)(nil)

// StaticResolver serves a fixed set of documents for one method. It backs
// test networks and locally configured identities.
type StaticResolver struct {
	method string
	docs   map[string]*w3cdid.Document
}

type staticFile struct {
	Documents []map[string]interface{} `yaml:"documents"`
}

func NewStaticResolver(method string, docs ...*w3cdid.Document) *StaticResolver {
	r := &StaticResolver{
		method: method,
		docs:   make(map[string]*w3cdid.Document, len(docs)),
	}

	for _, d := range docs {
		r.docs[d.ID()] = d
	}

	return r
}

// LoadStaticResolver reads documents from a YAML (or JSON) file of the form
//
//	documents:
//	  - id: did:example:alice
//	    verificationMethod: [...]
func LoadStaticResolver(method string, path string) (*StaticResolver, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading static documents")
	}

	var f staticFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrap(err, "unmarshalling static documents")
	}

	docs := make([]*w3cdid.Document, 0, len(f.Documents))
	for i, raw := range f.Documents {
		j, err := json.Marshal(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "document %d", i)
		}

		doc, err := w3cdid.ParseDocument(j)
		if err != nil {
			return nil, errors.Wrapf(err, "document %d", i)
		}

		docs = append(docs, doc)
	}

	return NewStaticResolver(method, docs...), nil
}

func (r *StaticResolver) Method() string {
	return r.method
}

func (r *StaticResolver) Resolve(_ context.Context, id string) (*w3cdid.Document, error) {
	doc, ok := r.docs[w3cdid.URL(id).DID()]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, id)
	}

	return doc, nil
}
