package did

import (
	"context"

	"github.com/tcfw/vcverify/pkg/did/w3cdid"
)

// Resolver resolves DIDs of a single DID method into DID Documents
type Resolver interface {
	// Method is the DID method served, e.g. "web" for did:web
	Method() string
	Resolve(ctx context.Context, did string) (*w3cdid.Document, error)
}
