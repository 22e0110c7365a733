package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(t *testing.T, key string, v interface{}) {
	old := viper.Get(key)
	viper.Set(key, v)
	t.Cleanup(func() { viper.Set(key, old) })
}

func TestDefaults(t *testing.T) {
	c, err := build()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, c.Hub().Timeout)
	assert.Equal(t, 0, c.Hub().Retries.Count)
	assert.Equal(t, "127.0.0.1:8090", c.Hub().ListenAddr)
	assert.True(t, c.Resolver().Web.Enabled)
	assert.Empty(t, c.Resolver().Static)
	assert.Equal(t, 4, c.Verifier().Concurrency)
	assert.True(t, c.Verifier().ResolveIssuers)
}

func TestOverrides(t *testing.T) {
	set(t, Cfg_hub_timeout, "3s")
	set(t, Cfg_hub_authToken, "secret")
	set(t, Cfg_resolver_static, map[string]string{"example": "/tmp/docs.yaml"})
	set(t, Cfg_verifier_concurrency, 16)
	set(t, Cfg_hub_retries, 3)

	c, err := build()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, c.Hub().Timeout)
	assert.Equal(t, "secret", c.Hub().AuthToken)
	assert.Equal(t, map[string]string{"example": "/tmp/docs.yaml"}, c.Resolver().Static)
	assert.Equal(t, 16, c.Verifier().Concurrency)
	assert.Equal(t, 3, c.Hub().Retries.Count)
}

func TestInvalid(t *testing.T) {
	tests := map[string]struct {
		key string
		v   interface{}
	}{
		"zero hub timeout":  {Cfg_hub_timeout, 0},
		"negative retries":  {Cfg_hub_retries, -1},
		"inverted backoff":  {Cfg_hub_retriesMin, "10s"},
		"zero web timeout":  {Cfg_resolver_webTimeout, 0},
		"static key method": {Cfg_resolver_static, map[string]string{"key": "/tmp/docs.yaml"}},
		"static no file":    {Cfg_resolver_static, map[string]string{"example": ""}},
		"zero concurrency":  {Cfg_verifier_concurrency, 0},
		"negative leeway":   {Cfg_verifier_leeway, "-1s"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			set(t, tt.key, tt.v)

			_, err := build()
			assert.Error(t, err)
		})
	}
}
