package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tcfw/vcverify/internal/utils/logging"
)

const (
	Cfg_verbose = "verbose"
	Cfg_logJSON = "log.json"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose: false,
		Cfg_logJSON: false,
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// GetConfig reads vcverify.yaml and VCVERIFY_* environment variables over
// the registered defaults
func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("vcverify")
	viper.AddConfigPath("/etc/vcverify/")
	viper.AddConfigPath("$HOME/.vcverify")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("VCVERIFY")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logging.Entry().Debug("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	if viper.GetBool(Cfg_logJSON) {
		logging.SetJSON()
	}

	if viper.GetBool(Cfg_verbose) {
		logging.SetLevel(logrus.DebugLevel)
		logging.Entry().WithField("level", "debug").Debug("setting log level")
	}

	return build()
}

func build() (*Config, error) {
	c := &Config{}
	var err error

	c.hub, err = buildHubConfig()
	if err != nil {
		return nil, errors.Wrap(err, "hub config")
	}

	c.resolver, err = buildResolverConfig()
	if err != nil {
		return nil, errors.Wrap(err, "resolver config")
	}

	c.verifier, err = buildVerifierConfig()
	if err != nil {
		return nil, errors.Wrap(err, "verifier config")
	}

	return c, nil
}

type Config struct {
	hub      *Hub
	resolver *Resolver
	verifier *Verifier
}

func (c *Config) Hub() *Hub {
	return c.hub
}

func (c *Config) Resolver() *Resolver {
	return c.resolver
}

func (c *Config) Verifier() *Verifier {
	return c.verifier
}
