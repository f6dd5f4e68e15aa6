package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/ssh"
)

// SSHServer is an in-process SSH server for testing. It accepts any client
// without authentication and understands a single command, "cat <path>",
// answered from an in-memory file map.
type SSHServer struct {
	t        *testing.T
	listener net.Listener
	config   *ssh.ServerConfig
	files    map[string]string
	hostKey  ssh.PublicKey

	mu          sync.Mutex
	running     bool
	connections []ssh.Conn
	commands    []string
}

// NewSSHServer starts a server serving files and stops it when the test ends.
func NewSSHServer(t *testing.T, files map[string]string) *SSHServer {
	t.Helper()

	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate host key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(privateKey)
	if err != nil {
		t.Fatalf("failed to create host key signer: %v", err)
	}

	config := &ssh.ServerConfig{
		NoClientAuth: true,
	}
	config.AddHostKey(signer)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	s := &SSHServer{
		t:        t,
		listener: listener,
		config:   config,
		files:    files,
		hostKey:  signer.PublicKey(),
		running:  true,
	}
	go s.acceptConnections()
	t.Cleanup(s.Stop)

	return s
}

// Addr returns the host:port the server listens on.
func (s *SSHServer) Addr() string {
	return s.listener.Addr().String()
}

// HostKey returns the server's public host key.
func (s *SSHServer) HostKey() ssh.PublicKey {
	return s.hostKey
}

// Commands returns the commands executed so far.
func (s *SSHServer) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Stop stops the server and closes all connections.
func (s *SSHServer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.listener.Close()

	for _, conn := range s.connections {
		conn.Close()
	}
}

func (s *SSHServer) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			s.t.Logf("error accepting connection: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *SSHServer) handleConnection(netConn net.Conn) {
	sshConn, chans, reqs, err := ssh.NewServerConn(netConn, s.config)
	if err != nil {
		netConn.Close()
		return
	}

	s.mu.Lock()
	s.connections = append(s.connections, sshConn)
	s.mu.Unlock()

	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		channel, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}
		go s.handleSession(channel, requests)
	}
}

func (s *SSHServer) handleSession(channel ssh.Channel, requests <-chan *ssh.Request) {
	defer channel.Close()

	for req := range requests {
		if req.Type != "exec" {
			if req.WantReply {
				req.Reply(false, nil)
			}
			continue
		}

		var payload struct{ Command string }
		if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
			req.Reply(false, nil)
			return
		}
		if req.WantReply {
			req.Reply(true, nil)
		}

		s.mu.Lock()
		s.commands = append(s.commands, payload.Command)
		s.mu.Unlock()

		status := s.exec(channel, payload.Command)
		channel.SendRequest("exit-status", false,
			ssh.Marshal(struct{ Status uint32 }{status}))
		return
	}
}

func (s *SSHServer) exec(channel ssh.Channel, command string) uint32 {
	path, ok := strings.CutPrefix(command, "cat ")
	if !ok {
		channel.Stderr().Write([]byte("unsupported command\n"))
		return 127
	}
	path = unquote(path)

	content, ok := s.files[path]
	if !ok {
		channel.Stderr().Write([]byte("cat: " + path + ": No such file or directory\n"))
		return 1
	}
	channel.Write([]byte(content))
	return 0
}

// unquote reverses POSIX single quoting as produced for remote commands.
func unquote(s string) string {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], `'\''`, `'`)
}
