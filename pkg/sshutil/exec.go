package sshutil

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/khi48/rpimon/internal/errors"
)

// Exec runs a command on the remote host in a fresh session and returns
// stdout, stderr, and the exit code. A non-zero remote exit status is not an
// error; exit code -1 with a non-nil error means the channel itself failed.
func (c *Client) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	session, err := c.NewSession()
	if err != nil {
		return nil, nil, -1, errors.WrapWithSuggestion(err, errors.ErrSSH,
			"failed to create SSH session",
			"Connection may have been closed. Try reconnecting.")
	}
	defer session.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	exitCode = 0
	err = session.Run(cmd)
	if err != nil {
		if exitErr, ok := err.(*ssh.ExitError); ok {
			exitCode = exitErr.ExitStatus()
			err = nil // command ran, just exited non-zero
		} else {
			return nil, nil, -1, errors.Wrap(err, errors.ErrSSH,
				fmt.Sprintf("failed to execute command: %s", cmd))
		}
	}

	return stdoutBuf.Bytes(), stderrBuf.Bytes(), exitCode, nil
}
