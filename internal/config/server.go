package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	commoncfg "github.com/gaspardpetit/spahost/core/config"
)

// MetricsDisabled turns off the operations listener when used as MetricsAddr.
const MetricsDisabled = "off"

// ServerConfig holds configuration for the spahost server.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	MetricsAddr       string        `yaml:"metrics_addr"`
	StaticDir         string        `yaml:"static_dir"`
	IndexFile         string        `yaml:"index_file"`
	AllowedOrigins    []string      `yaml:"allowed_origins"`
	AllowedMethods    []string      `yaml:"allowed_methods"`
	LogLevel          string        `yaml:"log_level"`
	RedisAddr         string        `yaml:"redis_addr"`
	DrainTimeout      time.Duration `yaml:"drain_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ConfigFile        string        `yaml:"-"`
}

// SetDefaults initializes unset fields with built-in defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:3000"
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = "127.0.0.1:3001"
	}
	if c.IndexFile == "" {
		c.IndexFile = "index.html"
	}
	if c.AllowedOrigins == nil {
		c.AllowedOrigins = []string{"*"}
	}
	if c.AllowedMethods == nil {
		c.AllowedMethods = []string{"GET", "POST"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = 5 * time.Second
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second
	}
	if c.ConfigFile == "" {
		c.ConfigFile = commoncfg.DefaultConfigPath("server.yaml")
	}
}

// ApplyEnv overlays environment variables onto the current config values.
// Malformed durations are ignored.
func (c *ServerConfig) ApplyEnv() {
	if v := commoncfg.GetEnv("CONFIG_FILE", ""); v != "" {
		c.ConfigFile = v
	}
	if v := commoncfg.GetEnv("ADDR", ""); v != "" {
		c.Addr = v
	}
	if v := commoncfg.GetEnv("METRICS_ADDR", ""); v != "" {
		c.MetricsAddr = v
	}
	if v := commoncfg.GetEnv("STATIC_DIR", ""); v != "" {
		c.StaticDir = v
	}
	if v := commoncfg.GetEnv("INDEX_FILE", ""); v != "" {
		c.IndexFile = v
	}
	if v := commoncfg.GetEnv("ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitComma(v)
	}
	if v := commoncfg.GetEnv("ALLOWED_METHODS", ""); v != "" {
		c.AllowedMethods = splitComma(v)
	}
	if v := commoncfg.GetEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := commoncfg.GetEnv("REDIS_ADDR", ""); v != "" {
		c.RedisAddr = v
	}
	if v := commoncfg.GetEnv("DRAIN_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.DrainTimeout = d
		}
	}
	if v := commoncfg.GetEnv("READ_HEADER_TIMEOUT", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ReadHeaderTimeout = d
		}
	}
}

// BindFlagsFromCurrent binds command line flags on fs using the current
// config values as defaults.
func (c *ServerConfig) BindFlagsFromCurrent(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "server config file path")
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address for the application")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "listen address for /metrics, /healthz and /state; 'off' disables it, the value of --addr mounts them on the application listener")
	fs.StringVar(&c.StaticDir, "static-dir", c.StaticDir, "serve the front-end build from this directory instead of the embedded bundle")
	fs.StringVar(&c.IndexFile, "index-file", c.IndexFile, "index document served for client-side routes")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log verbosity (all, debug, info, warn, error, fatal, none)")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "redis connection URL for server state")
	fs.DurationVar(&c.DrainTimeout, "drain-timeout", c.DrainTimeout, "time to wait for in-flight requests on shutdown (-1 to wait indefinitely, 0 to exit immediately)")
	fs.DurationVar(&c.ReadHeaderTimeout, "read-header-timeout", c.ReadHeaderTimeout, "maximum time to read request headers")
	fs.Func("allowed-origins", "comma separated list of allowed CORS origins", func(v string) error {
		c.AllowedOrigins = splitComma(v)
		return nil
	})
	fs.Func("allowed-methods", "comma separated list of allowed CORS methods", func(v string) error {
		c.AllowedMethods = splitComma(v)
		return nil
	})
}

// LoadFile populates the config from a YAML file.
func (c *ServerConfig) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, c)
}

// MetricsEnabled reports whether the operations endpoints are served at all.
func (c *ServerConfig) MetricsEnabled() bool {
	return c.MetricsAddr != "" && !strings.EqualFold(c.MetricsAddr, MetricsDisabled)
}

// MetricsShared reports whether the operations endpoints share the
// application listener.
func (c *ServerConfig) MetricsShared() bool {
	return c.MetricsEnabled() && c.MetricsAddr == c.Addr
}

// ConfigFileFromArgs returns the value of --config/-config in args, if any,
// so the file can be loaded before flags are bound.
func ConfigFileFromArgs(args []string) (string, bool) {
	for i, a := range args {
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
		if strings.HasPrefix(name, "config=") {
			return strings.TrimPrefix(name, "config="), true
		}
	}
	return "", false
}

func splitComma(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	res := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
