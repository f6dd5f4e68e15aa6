package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mimecast/urlgrep/internal/discovery"
	"github.com/mimecast/urlgrep/internal/errors"
)

// EnvPrefix prefixes every environment variable urlgrep reads.
const EnvPrefix = "URLGREP_"

// ApplyEnv overrides c with the URLGREP_* environment variables found via
// lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return v, ok && v != ""
	}

	if v, ok := get("GREP"); ok {
		c.Grep = v
	}
	if v, ok := get("INVERT"); ok {
		c.Invert = v == "yes"
	}
	if v, ok := get("SOURCES"); ok {
		c.Sources = discovery.FromComma(v)
	}
	if v, ok := get("CONSUMERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidConfig, "%sCONSUMERS=%q", EnvPrefix, v)
		}
		c.Consumers = n
	}
	if v, ok := get("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidConfig, "%sTIMEOUT=%q", EnvPrefix, v)
		}
		c.Timeout = d
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := get("SSH_USER"); ok {
		c.SSH.User = v
	}
	if v, ok := get("SSH_KEY"); ok {
		c.SSH.PrivateKeyPath = v
	}
	if v, ok := get("TRUST_ALL_HOSTS"); ok {
		c.SSH.TrustAllHosts = v == "yes"
	}
	return nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func defaultKnownHosts() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "known_hosts")
}
