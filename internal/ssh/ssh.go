// Package ssh collects the client side SSH plumbing used by ssh:// sources:
// authentication methods and host key verification.
package ssh

import (
	"fmt"
	"net"
	"os"

	gossh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/io/dlog"
)

// Agent used for SSH auth.
func Agent() (gossh.AuthMethod, error) {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, fmt.Errorf("SSH_AUTH_SOCK not set")
	}
	sshAgent, err := net.Dial("unix", sock)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SSH agent: %w", err)
	}
	agentClient := agent.NewClient(sshAgent)
	keys, err := agentClient.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list SSH agent keys: %w", err)
	}
	logger := dlog.New("ssh")
	for i, key := range keys {
		logger.Debug("Public key", "index", i, "key", key.String())
	}
	return gossh.PublicKeysCallback(agentClient.Signers), nil
}

// KeyFile returns the key as a SSH auth method.
func KeyFile(keyFile string) (gossh.AuthMethod, error) {
	buffer, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, err
	}
	key, err := gossh.ParsePrivateKey(buffer)
	if err != nil {
		return nil, err
	}
	return gossh.PublicKeys(key), nil
}

// AuthMethods returns the usable authentication methods: the SSH agent (if
// reachable) followed by the private key file (if configured). Unusable
// methods are logged and skipped. An empty result is not an error, servers
// accepting "none" authentication still work.
func AuthMethods(privateKeyPath string) []gossh.AuthMethod {
	logger := dlog.New("ssh")
	var methods []gossh.AuthMethod

	if method, err := Agent(); err == nil {
		methods = append(methods, method)
	} else {
		logger.Debug("Not using SSH agent", "error", err)
	}

	if privateKeyPath != "" {
		method, err := KeyFile(privateKeyPath)
		if err != nil {
			logger.Warn("Unable to use private key", "path", privateKeyPath, "error", err)
		} else {
			methods = append(methods, method)
		}
	}
	return methods
}

// HostKeyCallback returns the host key verification to use. With trustAll
// every host key is accepted, otherwise keys are checked against the
// known_hosts file.
func HostKeyCallback(knownHostsPath string, trustAll bool) (gossh.HostKeyCallback, error) {
	if trustAll {
		dlog.New("ssh").Warn("Trusting all SSH host keys")
		return gossh.InsecureIgnoreHostKey(), nil
	}
	if knownHostsPath == "" {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "no known_hosts file configured")
	}
	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, errors.Wrapf(err, "loading known hosts %s", knownHostsPath)
	}
	return callback, nil
}
