package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	gossh "golang.org/x/crypto/ssh"

	"github.com/mimecast/urlgrep/internal/constants"
	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/io/dlog"
	"github.com/mimecast/urlgrep/internal/ssh"
)

// SSHOptions configures ssh:// sources. AuthMethods and HostKeyCallback
// take precedence over the key and known_hosts paths when set.
type SSHOptions struct {
	User            string
	PrivateKeyPath  string
	KnownHostsPath  string
	TrustAllHosts   bool
	DialTimeout     time.Duration
	AuthMethods     []gossh.AuthMethod
	HostKeyCallback gossh.HostKeyCallback
}

// SSH streams remote files by running cat over an SSH session. Each source
// gets its own connection.
type SSH struct {
	opts SSHOptions

	once      sync.Once
	clientCfg *gossh.ClientConfig
	cfgErr    error
}

var _ Resolver = (*SSH)(nil)

// NewSSH returns an SSH resolver. Credentials and host keys are loaded on
// the first Open, runs without ssh:// sources never touch them.
func NewSSH(opts SSHOptions) *SSH {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = constants.SSHDialTimeout
	}
	return &SSH{opts: opts}
}

func (s *SSH) setup() {
	callback := s.opts.HostKeyCallback
	if callback == nil {
		callback, s.cfgErr = ssh.HostKeyCallback(s.opts.KnownHostsPath, s.opts.TrustAllHosts)
		if s.cfgErr != nil {
			return
		}
	}
	methods := s.opts.AuthMethods
	if methods == nil {
		methods = ssh.AuthMethods(s.opts.PrivateKeyPath)
	}
	s.clientCfg = &gossh.ClientConfig{
		User:            s.opts.User,
		Auth:            methods,
		HostKeyCallback: callback,
		Timeout:         s.opts.DialTimeout,
	}
}

type sshTarget struct {
	user string
	addr string
	path string
}

func parseSSH(id string) (sshTarget, error) {
	u, err := url.Parse(id)
	if err != nil {
		return sshTarget{}, errors.Wrapf(errors.ErrInvalidArgument, "%s: %v", id, err)
	}
	if u.Hostname() == "" || u.Path == "" || u.Path == "/" {
		return sshTarget{}, errors.Wrapf(errors.ErrInvalidArgument,
			"%s: expected ssh://[user@]host[:port]/path", id)
	}
	port := constants.DefaultSSHPort
	if p := u.Port(); p != "" {
		if port, err = strconv.Atoi(p); err != nil {
			return sshTarget{}, errors.Wrapf(errors.ErrInvalidArgument, "%s: bad port %q", id, p)
		}
	}
	return sshTarget{
		user: u.User.Username(),
		addr: net.JoinHostPort(u.Hostname(), strconv.Itoa(port)),
		path: u.Path,
	}, nil
}

// Open connects to the host, starts cat on the remote path and returns its
// standard output. A missing remote file fails the open, not the first read.
func (s *SSH) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	target, err := parseSSH(id)
	if err != nil {
		return nil, err
	}
	s.once.Do(s.setup)
	if s.cfgErr != nil {
		return nil, s.cfgErr
	}

	cfg := *s.clientCfg
	if target.user != "" {
		cfg.User = target.user
	}
	logger := dlog.New("ssh").With("addr", target.addr, "user", cfg.User)

	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", target.addr)
	if err != nil {
		return nil, err
	}
	sshConn, chans, reqs, err := gossh.NewClientConn(conn, target.addr, &cfg)
	if err != nil {
		conn.Close()
		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, errors.Wrapf(errors.ErrAuthenticationFailed, "%s: %v", target.addr, err)
		}
		return nil, err
	}
	client := gossh.NewClient(sshConn, chans, reqs)
	logger.Debug("Connected")

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, err
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	stream := &sshStream{
		client:  client,
		session: session,
		stdout:  bufio.NewReader(stdout),
	}
	session.Stderr = &stream.stderr
	stream.stop = context.AfterFunc(ctx, func() { client.Close() })

	command := "cat " + shellQuote(target.path)
	logger.Debug("Running remote command", "command", command)
	if err := session.Start(command); err != nil {
		stream.Close()
		return nil, err
	}

	if _, err := stream.stdout.Peek(1); err != nil {
		if err != io.EOF {
			stream.Close()
			return nil, err
		}
		// Nothing on stdout: either an empty file or a failed command.
		if err := stream.wait(); err != nil {
			stream.Close()
			return nil, err
		}
	}
	return stream, nil
}

type sshStream struct {
	client  *gossh.Client
	session *gossh.Session
	stdout  *bufio.Reader
	stderr  bytes.Buffer
	stop    func() bool

	waited  bool
	waitErr error
}

func (s *sshStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if err == io.EOF {
		if werr := s.wait(); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// wait reaps the remote command. Its exit status and standard error turn
// into the returned error.
func (s *sshStream) wait() error {
	if s.waited {
		return s.waitErr
	}
	s.waited = true
	if err := s.session.Wait(); err != nil {
		msg := strings.TrimSpace(s.stderr.String())
		if msg != "" {
			s.waitErr = fmt.Errorf("remote command: %w: %s", err, msg)
		} else {
			s.waitErr = fmt.Errorf("remote command: %w", err)
		}
	}
	return s.waitErr
}

func (s *sshStream) Close() error {
	s.stop()
	s.session.Close()
	err := s.client.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// shellQuote quotes s for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
