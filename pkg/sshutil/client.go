// Package sshutil wraps golang.org/x/crypto/ssh with ~/.ssh/config
// resolution, layered authentication (explicit key, agent, default keys,
// password prompt), and known_hosts verification.
package sshutil

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"

	"github.com/khi48/rpimon/internal/errors"
)

// Client wraps an SSH connection with the target identity.
type Client struct {
	*ssh.Client
	Host    string // original host string used to connect
	Address string // resolved host:port
}

// DialOptions control how a connection is established.
type DialOptions struct {
	// User overrides the username from ~/.ssh/config or user@host syntax.
	User string

	// KeyPath is an explicit private key file. A missing or unreadable
	// file is a CONFIG error: the caller asked for that credential.
	KeyPath string

	// Timeout bounds the TCP dial and the SSH handshake.
	Timeout time.Duration

	// InsecureHostKey skips known_hosts verification.
	InsecureHostKey bool

	// PasswordPrompt enables an interactive password prompt as the last
	// auth method when stdin is a terminal.
	PasswordPrompt bool
}

// Dial establishes an SSH connection to the given host. The host can be an
// SSH config alias, a hostname, user@hostname, or hostname:port; settings
// are resolved from ~/.ssh/config when available.
func Dial(host string, opts DialOptions) (*Client, error) {
	target := resolveTarget(host, opts.User)

	config, err := buildClientConfig(target, opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	config.Timeout = timeout

	conn, err := net.DialTimeout("tcp", target.address(), timeout)
	if err != nil {
		return nil, errors.WrapWithSuggestion(err, errors.ErrSSH,
			fmt.Sprintf("can't reach '%s' at %s", host, target.address()),
			suggestionForDialError(err))
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, target.address(), config)
	if err != nil {
		conn.Close()
		return nil, errors.WrapWithSuggestion(err, errors.ErrSSH,
			fmt.Sprintf("SSH handshake with '%s' failed", host),
			suggestionForHandshakeError(err))
	}

	return &Client{
		Client:  ssh.NewClient(sshConn, chans, reqs),
		Host:    host,
		Address: target.address(),
	}, nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// GetHost returns the original host string used to connect.
func (c *Client) GetHost() string { return c.Host }

// GetAddress returns the resolved host:port address.
func (c *Client) GetAddress() string { return c.Address }

// target holds resolved connection parameters.
type target struct {
	hostname     string
	port         string
	user         string
	identityFile string
}

func (t *target) address() string {
	return net.JoinHostPort(t.hostname, t.port)
}

// resolveTarget parses user@host:port syntax and fills the gaps from
// ~/.ssh/config. An explicit user argument wins over both.
func resolveTarget(host, user string) *target {
	t := &target{port: "22", user: currentUser()}

	explicitUser := false
	explicitPort := false

	if at := strings.Index(host, "@"); at != -1 {
		t.user = host[:at]
		host = host[at+1:]
		explicitUser = true
	}

	if colon := strings.LastIndex(host, ":"); colon != -1 {
		if port := host[colon+1:]; isDigits(port) {
			t.port = port
			host = host[:colon]
			explicitPort = true
		}
	}

	t.hostname = host

	// Fill remaining settings from ~/.ssh/config. ssh_config.Get returns
	// empty strings when no config exists.
	if hostname := ssh_config.Get(host, "HostName"); hostname != "" {
		t.hostname = hostname
	}
	if port := ssh_config.Get(host, "Port"); port != "" && !explicitPort {
		t.port = port
	}
	if cfgUser := ssh_config.Get(host, "User"); cfgUser != "" && !explicitUser {
		t.user = cfgUser
	}
	if identity := ssh_config.Get(host, "IdentityFile"); identity != "" {
		t.identityFile = expandPath(identity)
	}

	if user != "" {
		t.user = user
	}
	return t
}

// buildClientConfig assembles auth methods in priority order: explicit key,
// SSH agent, config/default key files, then the password prompt.
func buildClientConfig(t *target, opts DialOptions) (*ssh.ClientConfig, error) {
	var methods []ssh.AuthMethod

	if opts.KeyPath != "" {
		auth, err := keyFileAuth(expandPath(opts.KeyPath))
		if err != nil {
			return nil, errors.WrapWithSuggestion(err, errors.ErrConfig,
				"can't use key file "+opts.KeyPath,
				"Check the path and that the key is not passphrase protected")
		}
		methods = append(methods, auth)
	}

	if auth := agentAuth(); auth != nil {
		methods = append(methods, auth)
	}

	candidates := defaultKeyFiles()
	if t.identityFile != "" {
		candidates = append([]string{t.identityFile}, candidates...)
	}
	for _, path := range candidates {
		if path == expandPath(opts.KeyPath) {
			continue
		}
		if auth, err := keyFileAuth(path); err == nil {
			methods = append(methods, auth)
		}
	}

	if opts.PasswordPrompt && term.IsTerminal(int(syscall.Stdin)) {
		user := t.user
		methods = append(methods, ssh.PasswordCallback(func() (string, error) {
			fmt.Fprintf(os.Stderr, "%s@%s password: ", user, t.hostname)
			pw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			return string(pw), err
		}))
	}

	if len(methods) == 0 {
		return nil, errors.New(errors.ErrSSH,
			"no SSH auth methods available",
			"Load a key into the agent (ssh-add) or pass one with --key")
	}

	hostKeyCallback, err := hostKeyCallback(opts.InsecureHostKey)
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            t.user,
		Auth:            methods,
		HostKeyCallback: hostKeyCallback,
	}, nil
}

// agentAuth returns agent-backed auth when the agent is reachable and has
// keys loaded. An empty agent placed before other methods causes spurious
// auth failures, so it is skipped.
func agentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil
	}
	client := agent.NewClient(conn)
	signers, err := client.Signers()
	if err != nil || len(signers) == 0 {
		conn.Close()
		return nil
	}
	return ssh.PublicKeysCallback(client.Signers)
}

// keyFileAuth loads a private key file into an auth method.
func keyFileAuth(path string) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeys(signer), nil
}

func defaultKeyFiles() []string {
	home := homeDir()
	return []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_rsa"),
		filepath.Join(home, ".ssh", "id_ecdsa"),
	}
}

// hostKeyCallback verifies against ~/.ssh/known_hosts unless the caller
// explicitly opted out.
func hostKeyCallback(insecure bool) (ssh.HostKeyCallback, error) {
	if insecure {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // explicit opt-out
	}

	path := filepath.Join(homeDir(), ".ssh", "known_hosts")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, errors.Wrap(err, errors.ErrSSH, "failed to create .ssh directory")
		}
		if err := os.WriteFile(path, nil, 0600); err != nil {
			return nil, errors.Wrap(err, errors.ErrSSH, "failed to create known_hosts")
		}
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSSH, "failed to load known_hosts")
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := callback(hostname, remote, key)
		var keyErr *knownhosts.KeyError
		if stderrors.As(err, &keyErr) && len(keyErr.Want) > 0 {
			return errors.WrapWithSuggestion(err, errors.ErrSSH,
				"host key mismatch for "+hostname,
				"Update known_hosts: ssh-keygen -R "+hostname)
		}
		return err
	}, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "root"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func suggestionForDialError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "Is sshd running on that box? Try: ssh <host>"
	case strings.Contains(msg, "no route to host"), strings.Contains(msg, "network is unreachable"):
		return "Can't route to the host. Check your network connection."
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "i/o timeout"):
		return "Connection timed out. Host might be offline or firewalled."
	default:
		return "Make sure the host is reachable: ping <host>"
	}
}

func suggestionForHandshakeError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unable to authenticate"), strings.Contains(msg, "no supported methods"):
		return "Auth failed. Check your keys are loaded: ssh-add -l"
	case strings.Contains(msg, "host key"):
		return "Host key issue. Try connecting manually first: ssh <host>"
	default:
		return "Something went wrong during SSH setup. Try: ssh <host>"
	}
}
