package constants

// Numeric limits and configuration values
const (
	// DefaultConsumers is the default size of the consumer pool
	DefaultConsumers = 10

	// MaxConsumers caps the consumer pool; more workers than this only add
	// contention on the queue
	MaxConsumers = 1024

	// DefaultSSHPort is the port used for ssh:// sources without an explicit port
	DefaultSSHPort = 22

	// InterruptTimeoutSeconds is how long the process waits for a clean
	// shutdown after a termination signal before it exits hard
	InterruptTimeoutSeconds = 5

	// ExitConfigError is the exit status for invalid flags or configuration
	ExitConfigError = 1

	// ExitInterrupted is the exit status of an interrupted run
	ExitInterrupted = 2
)
