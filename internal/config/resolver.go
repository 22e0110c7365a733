package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Resolver struct {
	Web struct {
		Enabled  bool
		Timeout  time.Duration
		Insecure bool
	}
	// Static maps a DID method to a YAML file of documents served for it
	Static map[string]string
}

const (
	Cfg_resolver_webEnabled  = "resolver.web.enabled"
	Cfg_resolver_webTimeout  = "resolver.web.timeout"
	Cfg_resolver_webInsecure = "resolver.web.insecure"
	Cfg_resolver_static      = "resolver.static"
)

var (
	resolverDefaults = map[string]interface{}{
		Cfg_resolver_webEnabled:  true,
		Cfg_resolver_webTimeout:  10 * time.Second,
		Cfg_resolver_webInsecure: false,
		Cfg_resolver_static:      map[string]string{},
	}
)

func init() {
	for k, v := range resolverDefaults {
		viper.SetDefault(k, v)
	}
}

func buildResolverConfig() (*Resolver, error) {
	c := &Resolver{}

	c.Web.Enabled = viper.GetBool(Cfg_resolver_webEnabled)
	c.Web.Timeout = viper.GetDuration(Cfg_resolver_webTimeout)
	c.Web.Insecure = viper.GetBool(Cfg_resolver_webInsecure)
	c.Static = viper.GetStringMapString(Cfg_resolver_static)

	if c.Web.Enabled && c.Web.Timeout <= 0 {
		return nil, errors.Errorf("%s must be positive", Cfg_resolver_webTimeout)
	}

	for method, path := range c.Static {
		if method == "key" || (method == "web" && c.Web.Enabled) {
			return nil, errors.Errorf("static documents cannot serve built in method %q", method)
		}
		if path == "" {
			return nil, errors.Errorf("no document file for static method %q", method)
		}
	}

	return c, nil
}
