package w3cdid

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrMalformedDID = errors.New("malformed did")
)

// URL is a DID or DID URL of the form did:<method>:<id>[?query][#fragment]
type URL string

// ParseURL checks that s has the did:<method>:<method-specific-id> shape.
// Method names are lower case letters, digits and '-'.
func ParseURL(s string) (URL, error) {
	u := URL(s)

	if !strings.HasPrefix(s, "did:") {
		return "", errors.Wrapf(ErrMalformedDID, "%q missing did scheme", s)
	}

	m := u.Method()
	if m == "" {
		return "", errors.Wrapf(ErrMalformedDID, "%q missing method", s)
	}
	for _, c := range m {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return "", errors.Wrapf(ErrMalformedDID, "%q has invalid method", s)
		}
	}

	id := u.Id()
	if id == "" || strings.HasSuffix(id, ":") || strings.ContainsAny(id, " \t\r\n") {
		return "", errors.Wrapf(ErrMalformedDID, "%q has invalid method specific id", s)
	}

	return u, nil
}

func (u URL) split() (did string, query string, fragment string) {
	s := string(u)

	if i := strings.IndexByte(s, '#'); i >= 0 {
		s, fragment = s[:i], s[i+1:]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s, query = s[:i], s[i+1:]
	}

	return s, query, fragment
}

func (u URL) parts() []string {
	d, _, _ := u.split()
	p := strings.SplitN(d, ":", 3)
	if len(p) < 3 {
		p = append(p, make([]string, 3-len(p))...)
	}
	return p
}

func (u URL) Method() string {
	return u.parts()[1]
}

func (u URL) Id() string {
	return u.parts()[2]
}

func (u URL) Query() string {
	_, q, _ := u.split()
	return q
}

func (u URL) Fragment() string {
	_, _, f := u.split()
	return f
}

// DID strips any query and fragment
func (u URL) DID() string {
	d, _, _ := u.split()
	return d
}

func (u URL) String() string {
	return string(u)
}
