package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Hub struct {
	Timeout   time.Duration
	AuthToken string
	Retries   struct {
		Count int
		Min   time.Duration
		Max   time.Duration
	}
	// ListenAddr is where `hub serve` listens
	ListenAddr string
}

const (
	Cfg_hub_timeout    = "hub.timeout"
	Cfg_hub_authToken  = "hub.authToken"
	Cfg_hub_retries    = "hub.retries.count"
	Cfg_hub_retriesMin = "hub.retries.min"
	Cfg_hub_retriesMax = "hub.retries.max"
	Cfg_hub_listenAddr = "hub.listen"
)

var (
	hubDefaults = map[string]interface{}{
		Cfg_hub_timeout:    10 * time.Second,
		Cfg_hub_authToken:  "",
		Cfg_hub_retries:    0,
		Cfg_hub_retriesMin: 100 * time.Millisecond,
		Cfg_hub_retriesMax: 2 * time.Second,
		Cfg_hub_listenAddr: "127.0.0.1:8090",
	}
)

func init() {
	for k, v := range hubDefaults {
		viper.SetDefault(k, v)
	}
}

func buildHubConfig() (*Hub, error) {
	c := &Hub{}

	c.Timeout = viper.GetDuration(Cfg_hub_timeout)
	c.AuthToken = viper.GetString(Cfg_hub_authToken)
	c.Retries.Count = viper.GetInt(Cfg_hub_retries)
	c.Retries.Min = viper.GetDuration(Cfg_hub_retriesMin)
	c.Retries.Max = viper.GetDuration(Cfg_hub_retriesMax)
	c.ListenAddr = viper.GetString(Cfg_hub_listenAddr)

	if c.Timeout <= 0 {
		return nil, errors.Errorf("%s must be positive", Cfg_hub_timeout)
	}

	if c.Retries.Count < 0 {
		return nil, errors.Errorf("%s must not be negative", Cfg_hub_retries)
	}

	if c.Retries.Min > c.Retries.Max {
		return nil, errors.Errorf("%s exceeds %s", Cfg_hub_retriesMin, Cfg_hub_retriesMax)
	}

	return c, nil
}
