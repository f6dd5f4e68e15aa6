package config

import "time"

// Args holds the command-line arguments. Only arguments recorded as set
// through Set override the configuration file and the environment.
type Args struct {
	ConfigFile string

	Grep      string
	Invert    bool
	Sources   []string
	Consumers int
	Timeout   time.Duration
	LogLevel  string
	LogFormat string

	SSHPrivateKeyPath string
	KnownHostsPath    string
	TrustAllHosts     bool

	Sort    bool
	Stats   bool
	NoColor bool

	set map[string]bool
}

// Set records that the argument with the given flag name was given on the
// command line.
func (a *Args) Set(name string) {
	if a.set == nil {
		a.set = make(map[string]bool)
	}
	a.set[name] = true
}

// IsSet reports whether the argument with the given flag name was given.
func (a *Args) IsSet(name string) bool {
	return a.set[name]
}

func (a *Args) apply(c *Config) {
	if a.IsSet("grep") {
		c.Grep = a.Grep
	}
	if a.IsSet("invert") {
		c.Invert = a.Invert
	}
	// Given sources replace configured ones entirely, even an empty list.
	if a.IsSet("sources") || len(a.Sources) > 0 {
		c.Sources = append([]string{}, a.Sources...)
	}
	if a.IsSet("consumers") {
		c.Consumers = a.Consumers
	}
	if a.IsSet("timeout") {
		c.Timeout = a.Timeout
	}
	if a.IsSet("logLevel") {
		c.LogLevel = a.LogLevel
	}
	if a.IsSet("logFormat") {
		c.LogFormat = a.LogFormat
	}
	if a.IsSet("key") {
		c.SSH.PrivateKeyPath = a.SSHPrivateKeyPath
	}
	if a.IsSet("knownHosts") {
		c.SSH.KnownHostsPath = a.KnownHostsPath
	}
	if a.IsSet("trustAllHosts") {
		c.SSH.TrustAllHosts = a.TrustAllHosts
	}
	if a.IsSet("sort") {
		c.Output.Sort = a.Sort
	}
	if a.IsSet("stats") {
		c.Output.Stats = a.Stats
	}
	if a.IsSet("noColor") {
		c.Output.NoColor = a.NoColor
	}
}
