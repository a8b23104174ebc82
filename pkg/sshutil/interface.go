package sshutil

// CommandRunner is the remote command-execution contract used by the
// sampler. Both the real Client and the mock in pkg/sshutil/testing satisfy
// it, so probe logic can be tested without a live SSH connection.
type CommandRunner interface {
	// Exec runs a command and returns stdout, stderr, and exit code.
	// Exit code is -1 when the command could not be executed at all
	// (dropped channel); a non-zero exit code with nil error means the
	// command ran but failed.
	Exec(cmd string) (stdout, stderr []byte, exitCode int, err error)

	// Close closes the connection.
	Close() error

	// GetHost returns the original host string used to connect.
	GetHost() string

	// GetAddress returns the resolved host:port address.
	GetAddress() string
}
