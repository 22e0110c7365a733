package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Verifier struct {
	Concurrency int
	Leeway      time.Duration
	// ResolveIssuers verifies credentials from third party issuers against
	// the issuer's resolved document
	ResolveIssuers bool
}

const (
	Cfg_verifier_concurrency    = "verifier.concurrency"
	Cfg_verifier_leeway         = "verifier.leeway"
	Cfg_verifier_resolveIssuers = "verifier.resolveIssuers"
)

var (
	verifierDefaults = map[string]interface{}{
		Cfg_verifier_concurrency:    4,
		Cfg_verifier_leeway:         time.Minute,
		Cfg_verifier_resolveIssuers: true,
	}
)

func init() {
	for k, v := range verifierDefaults {
		viper.SetDefault(k, v)
	}
}

func buildVerifierConfig() (*Verifier, error) {
	c := &Verifier{}

	c.Concurrency = viper.GetInt(Cfg_verifier_concurrency)
	c.Leeway = viper.GetDuration(Cfg_verifier_leeway)
	c.ResolveIssuers = viper.GetBool(Cfg_verifier_resolveIssuers)

	if c.Concurrency < 1 {
		return nil, errors.Errorf("%s must be at least 1", Cfg_verifier_concurrency)
	}

	if c.Leeway < 0 {
		return nil, errors.Errorf("%s must not be negative", Cfg_verifier_leeway)
	}

	return c, nil
}
