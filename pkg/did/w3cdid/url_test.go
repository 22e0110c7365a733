package w3cdid

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type URLParts struct {
	Method   string
	Id       string
	Query    string
	Fragment string
	DID      string
}

func TestURLDecodes(t *testing.T) {
	tests := map[string]URLParts{
		"did:example:1234":             {Method: "example", Id: "1234", DID: "did:example:1234"},
		"did:example:1234?h=1":         {Method: "example", Id: "1234", Query: "h=1", DID: "did:example:1234"},
		"did:example:1234?h=1#b1":      {Method: "example", Id: "1234", Query: "h=1", Fragment: "b1", DID: "did:example:1234"},
		"did:example:1234:abc?h=1#b1":  {Method: "example", Id: "1234:abc", Query: "h=1", Fragment: "b1", DID: "did:example:1234:abc"},
		"did:example:1234/key1?h=1#b1": {Method: "example", Id: "1234/key1", Query: "h=1", Fragment: "b1", DID: "did:example:1234/key1"},
		"did:web:example.com%3A8080":   {Method: "web", Id: "example.com%3A8080", DID: "did:web:example.com%3A8080"},
		"did:example:1234#key-1?x":     {Method: "example", Id: "1234", Fragment: "key-1?x", DID: "did:example:1234"},
		"did:example:1234??b=1":        {Method: "example", Id: "1234", Query: "?b=1", DID: "did:example:1234"},
		"did:example:1234##b=1":        {Method: "example", Id: "1234", Fragment: "#b=1", DID: "did:example:1234"},
		"did:test-method:http://x.url": {Method: "test-method", Id: "http://x.url", DID: "did:test-method:http://x.url"},
	}

	for k, test := range tests {
		t.Run(k, func(t *testing.T) {
			u, err := ParseURL(k)
			assert.NoError(t, err)

			assert.Equal(t, test.Method, u.Method())
			assert.Equal(t, test.Id, u.Id())
			assert.Equal(t, test.Query, u.Query())
			assert.Equal(t, test.Fragment, u.Fragment())
			assert.Equal(t, test.DID, u.DID())
		})
	}
}

func TestURLMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"did",
		"did:",
		"did:example",
		"did:example:",
		"did::1234",
		"did:Example:1234",
		"did:ex_ample:1234",
		"did:example:12 34",
		"did:example:1234:",
		"aaa:bbb:ccc",
		"did:example:?h=1#b1",
	} {
		t.Run(s, func(t *testing.T) {
			_, err := ParseURL(s)
			assert.True(t, errors.Is(err, ErrMalformedDID))
		})
	}
}
