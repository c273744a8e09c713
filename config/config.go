// Package config reads the gate's settings from a flat key/value mapping,
// the way paste-style filter factories hand them over, or from viper.
package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/storagegate/devauth/authority"
)

// Recognized keys.
const (
	KeyIP           = "ip"
	KeyPort         = "port"
	KeySSL          = "ssl"
	KeyNodeTimeout  = "node_timeout"
	KeyCacheBackend = "cache_backend"
	KeyCacheSize    = "cache_size"
	KeyCachePrefix  = "cache_prefix"
	KeyRedisAddr    = "redis_addr"
	KeyRedisDB      = "redis_db"
	KeyBind         = "bind"
	KeyUpstream     = "upstream"
	KeyLogLevel     = "log_level"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the parsed configuration.
type Config struct {
	// Authority endpoint.
	Host        string
	Port        int
	SSL         bool
	NodeTimeout time.Duration

	// Verdict cache.
	CacheBackend string
	CacheSize    int
	CachePrefix  string
	RedisAddr    string
	RedisDB      int

	// Standalone proxy.
	Bind     string
	Upstream string
	LogLevel string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyIP, authority.DefaultHost)
	v.SetDefault(KeyPort, authority.DefaultPort)
	v.SetDefault(KeySSL, "false")
	v.SetDefault(KeyNodeTimeout, 10)
	v.SetDefault(KeyCacheBackend, BackendMemory)
	v.SetDefault(KeyCacheSize, 4096)
	v.SetDefault(KeyCachePrefix, "auth")
	v.SetDefault(KeyRedisAddr, "127.0.0.1:6379")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyBind, ":8080")
	v.SetDefault(KeyUpstream, "http://127.0.0.1:8081")
	v.SetDefault(KeyLogLevel, "info")
}

// NewViper returns a viper instance with defaults set that also reads
// DEVAUTH_* environment variables (DEVAUTH_NODE_TIMEOUT for node_timeout).
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("devauth")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Merge overlays local on top of global, as a filter's own section
// overrides the shared defaults. Neither input is modified.
func Merge(global, local map[string]string) map[string]string {
	out := make(map[string]string, len(global)+len(local))
	for k, v := range global {
		out[k] = v
	}
	for k, v := range local {
		out[k] = v
	}
	return out
}

// FromMap parses a flat mapping. Unknown keys are ignored.
func FromMap(conf map[string]string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	for k, val := range conf {
		v.Set(k, val)
	}
	return Load(v)
}

// Load reads and validates every key from v.
func Load(v *viper.Viper) (Config, error) {
	var errs []error

	cfg := Config{
		Host:         strings.TrimSpace(v.GetString(KeyIP)),
		SSL:          ParseBool(v.Get(KeySSL)),
		CacheBackend: strings.ToLower(strings.TrimSpace(v.GetString(KeyCacheBackend))),
		CachePrefix:  v.GetString(KeyCachePrefix),
		RedisAddr:    v.GetString(KeyRedisAddr),
		Bind:         v.GetString(KeyBind),
		Upstream:     v.GetString(KeyUpstream),
		LogLevel:     v.GetString(KeyLogLevel),
	}

	var err error
	if cfg.Port, err = parseInt(v.Get(KeyPort)); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyPort, err))
	} else if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s: %d out of range", KeyPort, cfg.Port))
	}

	if cfg.NodeTimeout, err = parseSeconds(v.Get(KeyNodeTimeout)); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyNodeTimeout, err))
	}

	if cfg.CacheSize, err = parseInt(v.Get(KeyCacheSize)); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyCacheSize, err))
	} else if cfg.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", KeyCacheSize))
	}

	if cfg.RedisDB, err = parseInt(v.Get(KeyRedisDB)); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyRedisDB, err))
	}

	if cfg.Host == "" {
		errs = append(errs, fmt.Errorf("%s: must not be empty", KeyIP))
	}
	if cfg.CachePrefix == "" {
		errs = append(errs, fmt.Errorf("%s: must not be empty", KeyCachePrefix))
	}
	switch cfg.CacheBackend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("%s: unknown backend %q", KeyCacheBackend, cfg.CacheBackend))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// AuthorityOptions returns the client options for the configured endpoint.
func (c Config) AuthorityOptions() []authority.Option {
	return []authority.Option{
		authority.WithHost(c.Host),
		authority.WithPort(c.Port),
		authority.WithTLS(c.SSL),
		authority.WithTimeout(c.NodeTimeout),
	}
}

// ParseBool reports whether v is one of true, on, 1 or yes, ignoring case.
// Everything else, including unparseable values, is false.
func ParseBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(cast.ToString(v))) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

func parseInt(v any) (int, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// parseSeconds reads a positive number of seconds, fractions allowed.
func parseSeconds(v any) (time.Duration, error) {
	if d, ok := v.(time.Duration); ok {
		if d <= 0 {
			return 0, errors.New("must be positive")
		}
		return d, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return 0, err
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		return 0, errors.New("must be a positive number of seconds")
	}
	return time.Duration(secs * float64(time.Second)), nil
}
