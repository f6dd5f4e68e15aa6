// Package config provides configuration management for urlgrep. It merges
// configuration from multiple sources with proper precedence.
//
// Configuration precedence (highest to lowest):
// 1. Command-line arguments (only those explicitly set)
// 2. Environment variables (URLGREP_ prefix)
// 3. YAML configuration file
// 4. Default values
package config

import (
	"fmt"
	"time"

	"github.com/mimecast/urlgrep/internal/constants"
	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/io/dlog"
)

const (
	// DefaultGrep is the substring searched for when nothing else is configured.
	DefaultGrep string = "EECE 210"
	// DefaultLogLevel specifies the default log level.
	DefaultLogLevel string = "info"
	// DefaultLogFormat specifies the default log format.
	DefaultLogFormat string = dlog.FormatText
	// DefaultConsumers is the default size of the consumer pool.
	DefaultConsumers int = constants.DefaultConsumers
	// DefaultTimeout is the default overall timeout of one HTTP fetch.
	DefaultTimeout time.Duration = constants.HTTPTimeout
)

// DefaultSources are searched when no source is configured at all.
var DefaultSources = []string{
	"http://eece210.ece.ubc.ca/",
	"http://github.com/EECE-210/lab2",
	"http://github.com/EECE-210/mp1",
}

// Config is the complete urlgrep configuration.
type Config struct {
	// Grep is the literal, case-sensitive substring lines are tested for.
	Grep string `yaml:"grep"`
	// Invert selects lines not containing Grep.
	Invert bool `yaml:"invert"`
	// Sources lists the identifiers of the resources to search.
	Sources []string `yaml:"sources"`
	// Consumers is the size of the consumer pool.
	Consumers int `yaml:"consumers"`
	// Timeout bounds each HTTP fetch. Zero disables the timeout.
	Timeout time.Duration `yaml:"timeout"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	SSH    SSHConfig    `yaml:"ssh"`
	Output OutputConfig `yaml:"output"`
}

// SSHConfig configures ssh:// sources.
type SSHConfig struct {
	// User is used when a source URL carries no user name.
	User string `yaml:"user"`
	// PrivateKeyPath is an optional private key file used for authentication
	// in addition to the SSH agent.
	PrivateKeyPath string `yaml:"privateKeyPath"`
	// KnownHostsPath is the known_hosts file host keys are checked against.
	KnownHostsPath string `yaml:"knownHostsPath"`
	// TrustAllHosts disables host key checking.
	TrustAllHosts bool `yaml:"trustAllHosts"`
}

// OutputConfig controls how results are reported.
type OutputConfig struct {
	// Sort prints matches ordered by source and line number.
	Sort bool `yaml:"sort"`
	// Stats prints a per-source statistics table after the matches.
	Stats bool `yaml:"stats"`
	// NoColor disables highlighting of the substring in terminal output.
	NoColor bool `yaml:"noColor"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grep:      DefaultGrep,
		Sources:   append([]string(nil), DefaultSources...),
		Consumers: DefaultConsumers,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		SSH: SSHConfig{
			User:           currentUser(),
			KnownHostsPath: defaultKnownHosts(),
		},
	}
}

// Setup builds the configuration from defaults, the config file named in
// args (if any), the environment, and finally the explicitly set command-line
// arguments, then validates the result.
func Setup(args *Args, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if args.ConfigFile != "" {
		if err := cfg.LoadFile(args.ConfigFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}
	args.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Grep == "" {
		return errors.Wrap(errors.ErrConfigValidation, "no substring specified, use '--grep'")
	}
	if c.Consumers < 1 || c.Consumers > constants.MaxConsumers {
		return errors.Wrapf(errors.ErrConfigValidation,
			"consumers must be between 1 and %d, got %d", constants.MaxConsumers, c.Consumers)
	}
	if c.Timeout < 0 {
		return errors.Wrapf(errors.ErrConfigValidation, "negative timeout %s", c.Timeout)
	}
	if _, err := dlog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.ErrConfigValidation, err.Error())
	}
	if !dlog.ValidFormat(c.LogFormat) {
		return errors.Wrapf(errors.ErrConfigValidation, "unknown log format %q", c.LogFormat)
	}
	for i, src := range c.Sources {
		if src == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "source %d is empty", i+1)
		}
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Config(grep:%q,invert:%t,sources:%d,consumers:%d,timeout:%s,logLevel:%s,logFormat:%s)",
		c.Grep, c.Invert, len(c.Sources), c.Consumers, c.Timeout, c.LogLevel, c.LogFormat)
}
