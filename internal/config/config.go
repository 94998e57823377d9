package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DomainsAPIBase string        `yaml:"domains_api_base"` // e.g. https://aliveview.com/web
	DomainsAPIKey  string        `yaml:"-"`                // bearer token, env only
	KumaURL        string        `yaml:"kuma_url"`         // e.g. http://192.168.30.84:3001
	KumaUsername   string        `yaml:"-"`
	KumaPassword   string        `yaml:"-"`
	LogDir         string        `yaml:"log_dir"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"` // domain API request timeout
	KumaTimeout    time.Duration `yaml:"kuma_timeout"` // per socket call, incl. waiting for the monitor list
	SlackWebhook   string        `yaml:"slack_webhook"`
	StrictExit     bool          `yaml:"strict_exit"` // exit 1 when a run was degraded or had failures
}

func Defaults() Config {
	return Config{
		DomainsAPIBase: "https://aliveview.com/web",
		KumaURL:        "http://192.168.30.84:3001",
		LogDir:         "/var/log/webmonitorsync",
		HTTPTimeout:    30 * time.Second,
		KumaTimeout:    10 * time.Second,
	}
}

// Load builds the configuration once at startup: defaults, then the YAML
// file named by CONFIG_FILE (if any), then .env files, then the process
// environment. Values already present in the environment win over .env.
func Load(envFiles ...string) (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return Config{}, err
		}
	}

	// A missing .env is normal in production; only parse errors matter.
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HAPROXY_API_BASE"); v != "" {
		c.DomainsAPIBase = v
	}
	if v := os.Getenv("HAPROXY_API_KEY"); v != "" {
		c.DomainsAPIKey = v
	}
	if v := os.Getenv("UPTIMEKUMA_URL"); v != "" {
		c.KumaURL = v
	}
	if v := os.Getenv("UPTIMEKUMA_USERNAME"); v != "" {
		c.KumaUsername = v
	}
	if v := os.Getenv("UPTIMEKUMA_PASSWORD"); v != "" {
		c.KumaPassword = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		c.SlackWebhook = v
	}

	// Timeouts
	if v := os.Getenv("HTTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.HTTPTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("KUMA_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.KumaTimeout = time.Duration(ms) * time.Millisecond
		}
	}

	if v := os.Getenv("STRICT_EXIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.StrictExit = b
		}
	}

	c.DomainsAPIBase = strings.TrimRight(strings.TrimSpace(c.DomainsAPIBase), "/")
	c.KumaURL = strings.TrimRight(strings.TrimSpace(c.KumaURL), "/")
}

// Validate reports every structural problem at once. Missing credentials
// are not an error here; see MissingCredentials.
func (c Config) Validate() error {
	var err error
	err = multierr.Append(err, checkHTTPURL("domains_api_base", c.DomainsAPIBase))
	err = multierr.Append(err, checkHTTPURL("kuma_url", c.KumaURL))
	if c.SlackWebhook != "" {
		err = multierr.Append(err, checkHTTPURL("slack_webhook", c.SlackWebhook))
	}
	if c.LogDir == "" {
		err = multierr.Append(err, errors.New("log_dir is empty"))
	}
	if c.HTTPTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("http_timeout must be positive, got %s", c.HTTPTimeout))
	}
	if c.KumaTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("kuma_timeout must be positive, got %s", c.KumaTimeout))
	}
	return err
}

// MissingCredentials lists the environment variables holding secrets that
// are unset. A run without them still proceeds and fails open.
func (c Config) MissingCredentials() []string {
	var out []string
	if c.DomainsAPIKey == "" {
		out = append(out, "HAPROXY_API_KEY")
	}
	if c.KumaUsername == "" {
		out = append(out, "UPTIMEKUMA_USERNAME")
	}
	if c.KumaPassword == "" {
		out = append(out, "UPTIMEKUMA_PASSWORD")
	}
	return out
}

func checkHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: want http(s)://host, got %q", name, raw)
	}
	return nil
}
