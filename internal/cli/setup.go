package cli

import (
	"github.com/pkg/errors"
	"github.com/tcfw/vcverify/internal/config"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/credential"
	"github.com/tcfw/vcverify/pkg/credential/jwt"
	"github.com/tcfw/vcverify/pkg/did/resolver"
	"github.com/tcfw/vcverify/pkg/identityhub"
	"github.com/tcfw/vcverify/pkg/verifier"
)

func newResolver(c *config.Resolver) (*resolver.Registry, error) {
	reg := resolver.NewRegistry(resolver.NewKeyResolver())

	if c.Web.Enabled {
		opts := []resolver.WebOption{resolver.WithWebTimeout(c.Web.Timeout)}
		if c.Web.Insecure {
			logging.Entry().Warn("did:web resolution over plain http enabled")
			opts = append(opts, resolver.WithInsecureHTTP())
		}

		if err := reg.Register(resolver.NewWebResolver(opts...)); err != nil {
			return nil, err
		}
	}

	for method, path := range c.Static {
		sr, err := resolver.LoadStaticResolver(method, path)
		if err != nil {
			return nil, errors.Wrapf(err, "static method %s", method)
		}

		if err := reg.Register(sr); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

func newHubClient(c *config.Hub) (*identityhub.HTTPClient, error) {
	opts := []identityhub.Option{identityhub.WithTimeout(c.Timeout)}

	if c.AuthToken != "" {
		opts = append(opts, identityhub.WithAuthToken(c.AuthToken))
	}

	if c.Retries.Count > 0 {
		opts = append(opts, identityhub.WithRetries(c.Retries.Count, c.Retries.Min, c.Retries.Max))
	}

	return identityhub.NewHTTPClient(opts...)
}

func newTransformers() *credential.Registry {
	return credential.NewRegistry(jwt.NewTransformer())
}

func newVerifier(c *config.Verifier, client identityhub.Client, issuers verifier.DocumentResolver) (*verifier.Verifier, error) {
	opts := []verifier.Option{
		verifier.WithConcurrency(c.Concurrency),
		verifier.WithLeeway(c.Leeway),
	}

	if c.ResolveIssuers {
		opts = append(opts, verifier.WithIssuerResolver(issuers))
	}

	return verifier.New(client, newTransformers(), opts...)
}
