package constants

import "time"

// Timeout constants used throughout the application
const (
	// HTTPTimeout is the default overall timeout of one HTTP fetch
	HTTPTimeout = 30 * time.Second

	// SSHDialTimeout is the timeout for SSH dial operations
	SSHDialTimeout = 10 * time.Second
)
