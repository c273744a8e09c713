package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storagegate/devauth/authority"
)

func Test_FromMap(t *testing.T) {
	t.Run("it applies defaults", func(t *testing.T) {
		cfg, err := FromMap(nil)
		require.NoError(t, err)

		want := Config{
			Host:         "127.0.0.1",
			Port:         11000,
			SSL:          false,
			NodeTimeout:  10 * time.Second,
			CacheBackend: BackendMemory,
			CacheSize:    4096,
			CachePrefix:  "auth",
			RedisAddr:    "127.0.0.1:6379",
			RedisDB:      0,
			Bind:         ":8080",
			Upstream:     "http://127.0.0.1:8081",
			LogLevel:     "info",
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("FromMap() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("it reads string values", func(t *testing.T) {
		cfg, err := FromMap(map[string]string{
			"ip":            "10.0.0.5",
			"port":          "8443",
			"ssl":           "Yes",
			"node_timeout":  "2.5",
			"cache_backend": "Redis",
			"redis_addr":    "cache:6379",
			"redis_db":      "3",
			"unknown_key":   "ignored",
		})
		require.NoError(t, err)

		assert.Equal(t, "10.0.0.5", cfg.Host)
		assert.Equal(t, 8443, cfg.Port)
		assert.True(t, cfg.SSL)
		assert.Equal(t, 2500*time.Millisecond, cfg.NodeTimeout)
		assert.Equal(t, BackendRedis, cfg.CacheBackend)
		assert.Equal(t, "cache:6379", cfg.RedisAddr)
		assert.Equal(t, 3, cfg.RedisDB)
	})

	testCases := []struct {
		name string
		conf map[string]string
		want string
	}{
		{name: "non-numeric port", conf: map[string]string{"port": "http"}, want: "port"},
		{name: "port out of range", conf: map[string]string{"port": "70000"}, want: "port"},
		{name: "zero timeout", conf: map[string]string{"node_timeout": "0"}, want: "node_timeout"},
		{name: "negative timeout", conf: map[string]string{"node_timeout": "-1"}, want: "node_timeout"},
		{name: "non-numeric timeout", conf: map[string]string{"node_timeout": "ten"}, want: "node_timeout"},
		{name: "unknown backend", conf: map[string]string{"cache_backend": "memcached"}, want: "cache_backend"},
		{name: "negative cache size", conf: map[string]string{"cache_size": "-1"}, want: "cache_size"},
		{name: "empty host", conf: map[string]string{"ip": " "}, want: "ip"},
	}
	for _, testCase := range testCases {
		t.Run("it rejects "+testCase.name, func(t *testing.T) {
			_, err := FromMap(testCase.conf)
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.want)
		})
	}

	t.Run("it reports every invalid key", func(t *testing.T) {
		_, err := FromMap(map[string]string{"port": "x", "node_timeout": "y"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "port")
		assert.Contains(t, err.Error(), "node_timeout")
	})
}

func Test_ParseBool(t *testing.T) {
	for _, v := range []any{"true", "TRUE", "on", "On", "1", "yes", " yes ", true} {
		assert.True(t, ParseBool(v), "%v", v)
	}
	for _, v := range []any{"false", "off", "0", "no", "", "enabled", false, nil} {
		assert.False(t, ParseBool(v), "%v", v)
	}
}

func Test_Merge(t *testing.T) {
	global := map[string]string{"ip": "10.0.0.1", "port": "11000"}
	local := map[string]string{"ip": "10.0.0.2", "ssl": "on"}

	got := Merge(global, local)
	assert.Equal(t, map[string]string{"ip": "10.0.0.2", "port": "11000", "ssl": "on"}, got)
	assert.Equal(t, "10.0.0.1", global["ip"])
}

func Test_Load(t *testing.T) {
	t.Run("it reads native types", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("port", 9000)
		v.Set("ssl", true)
		v.Set("node_timeout", 3*time.Second)

		cfg, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Port)
		assert.True(t, cfg.SSL)
		assert.Equal(t, 3*time.Second, cfg.NodeTimeout)
	})

	t.Run("it reads environment variables", func(t *testing.T) {
		t.Setenv("DEVAUTH_PORT", "12000")
		t.Setenv("DEVAUTH_NODE_TIMEOUT", "1")

		cfg, err := Load(NewViper())
		require.NoError(t, err)
		assert.Equal(t, 12000, cfg.Port)
		assert.Equal(t, time.Second, cfg.NodeTimeout)
	})
}

func Test_AuthorityOptions(t *testing.T) {
	cfg, err := FromMap(map[string]string{"ip": "auth.internal", "port": "8443", "ssl": "true", "node_timeout": "3"})
	require.NoError(t, err)

	client, err := authority.New(cfg.AuthorityOptions()...)
	require.NoError(t, err)
	assert.Equal(t, "https://auth.internal:8443", client.Endpoint().String())
	assert.Equal(t, 3*time.Second, client.Timeout())
}
