// Package testing provides a mock CommandRunner so probe and cycle logic
// can be exercised without a live SSH connection.
package testing

import (
	"errors"
	"regexp"
	"sync"
)

// Response is a canned result for a command pattern.
type Response struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Err      error
}

// MockRunner simulates a remote command executor. Commands are matched
// first exactly, then as regular expressions, in registration order.
type MockRunner struct {
	mu        sync.Mutex
	host      string
	closed    bool
	patterns  []string
	responses map[string]Response

	// FailAfter, when > 0, makes every Exec after that many calls return a
	// channel error. Simulates a session dropped mid-cycle.
	FailAfter int

	calls int
}

// NewMockRunner creates a mock runner for the given host name.
func NewMockRunner(host string) *MockRunner {
	return &MockRunner{
		host:      host,
		responses: make(map[string]Response),
	}
}

// Respond registers a canned response for an exact command or regex pattern.
func (m *MockRunner) Respond(pattern string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.responses[pattern]; !exists {
		m.patterns = append(m.patterns, pattern)
	}
	m.responses[pattern] = resp
}

// RespondText registers a successful response with the given stdout.
func (m *MockRunner) RespondText(pattern, stdout string) {
	m.Respond(pattern, Response{Stdout: []byte(stdout)})
}

// Exec looks up the canned response for cmd. Unmatched commands exit 127,
// like a missing remote utility.
func (m *MockRunner) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}

	m.calls++
	if m.FailAfter > 0 && m.calls > m.FailAfter {
		return nil, nil, -1, errors.New("ssh: session channel closed")
	}

	if resp, ok := m.responses[cmd]; ok {
		return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Err
	}
	for _, pattern := range m.patterns {
		if matched, _ := regexp.MatchString(pattern, cmd); matched {
			resp := m.responses[pattern]
			return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Err
		}
	}

	return nil, []byte("sh: command not found"), 127, nil
}

// Close marks the connection as closed.
func (m *MockRunner) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockRunner) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Calls returns how many Exec calls were made.
func (m *MockRunner) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// GetHost returns the host name.
func (m *MockRunner) GetHost() string { return m.host }

// GetAddress returns the host:22 address.
func (m *MockRunner) GetAddress() string { return m.host + ":22" }
