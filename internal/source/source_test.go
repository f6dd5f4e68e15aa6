package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gossh "golang.org/x/crypto/ssh"

	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/testutil"
)

func readAll(t *testing.T, r Resolver, id string) string {
	t.Helper()
	rc, err := r.Open(context.Background(), id)
	if err != nil {
		t.Fatalf("open %s: %v", id, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", id, err)
	}
	return string(data)
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"/var/log/syslog":            KindFile,
		"relative/file.txt":          KindFile,
		"file:///var/log/syslog":     KindFile,
		"http://example.org/a":       KindHTTP,
		"HTTPS://example.org/a":      KindHTTP,
		"ssh://host/var/log/syslog":  KindSSH,
		"ftp://example.org/pub/file": KindUnsupported,
	}
	for id, want := range tests {
		if got := KindOf(id); got != want {
			t.Errorf("KindOf(%q) = %s, want %s", id, got, want)
		}
	}
}

func TestFiles(t *testing.T) {
	content := testutil.Lines("alpha", "beta")
	path := testutil.TempFile(t, content)
	m := &Mux{Files: Files{}}

	testutil.AssertEqual(t, content, readAll(t, m, path))
	testutil.AssertEqual(t, content, readAll(t, m, "file://"+path))

	_, err := m.Open(context.Background(), filepath.Join(testutil.TempDir(t), "missing"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist error, got %v", err)
	}
}

func TestDecompression(t *testing.T) {
	content := testutil.Lines(testutil.GenerateLogLines(50)...)
	m := &Mux{Files: Files{}}

	testutil.AssertEqual(t, content, readAll(t, m, testutil.ZstdFile(t, content)))
	testutil.AssertEqual(t, content, readAll(t, m, testutil.GzipFile(t, content)))

	// Not actually gzip: the header check fails the open.
	bogus := testutil.TempFileWithSuffix(t, "plain text\n", ".gz")
	_, err := m.Open(context.Background(), bogus)
	testutil.AssertError(t, err, "gzip header")
}

func TestUnsupported(t *testing.T) {
	m := &Mux{Files: Files{}}

	_, err := m.Open(context.Background(), "ftp://example.org/file")
	if !errors.Is(err, errors.ErrUnsupportedSource) {
		t.Errorf("expected ErrUnsupportedSource, got %v", err)
	}
	// No HTTP resolver configured.
	_, err = m.Open(context.Background(), "http://example.org/file")
	if !errors.Is(err, errors.ErrUnsupportedSource) {
		t.Errorf("expected ErrUnsupportedSource, got %v", err)
	}
}

func TestHTTP(t *testing.T) {
	content := testutil.Lines("EECE 210 is fun", "nothing here")
	server := testutil.HTTPServer(t, map[string]string{
		"/course.txt": content,
		"/course.zst": string(testutil.Zstd(t, content)),
		"/empty.txt":  "",
	})
	m := &Mux{HTTP: NewHTTP(0)}

	testutil.AssertEqual(t, content, readAll(t, m, server.URL+"/course.txt"))
	testutil.AssertEqual(t, content, readAll(t, m, server.URL+"/course.zst?download=1"))
	testutil.AssertEqual(t, "", readAll(t, m, server.URL+"/empty.txt"))

	_, err := m.Open(context.Background(), server.URL+"/missing.txt")
	if !errors.Is(err, errors.ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
	testutil.AssertContains(t, err.Error(), "404")
}

func TestHTTPCanceled(t *testing.T) {
	server := testutil.HTTPServer(t, map[string]string{"/a": "a\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTP(0).Open(ctx, server.URL+"/a")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func newTestSSH(server *testutil.SSHServer) *SSH {
	return NewSSH(SSHOptions{
		User:            "tester",
		AuthMethods:     []gossh.AuthMethod{},
		HostKeyCallback: gossh.FixedHostKey(server.HostKey()),
	})
}

func TestSSH(t *testing.T) {
	content := testutil.Lines("remote EECE 210", "other")
	server := testutil.NewSSHServer(t, map[string]string{
		"/var/log/app.log":     content,
		"/var/log/it's.log":    "quoted\n",
		"/var/log/empty.log":   "",
		"/var/log/app.log.zst": string(testutil.Zstd(t, content)),
	})
	m := &Mux{SSH: newTestSSH(server)}
	base := "ssh://" + server.Addr()

	testutil.AssertEqual(t, content, readAll(t, m, base+"/var/log/app.log"))
	testutil.AssertEqual(t, "quoted\n", readAll(t, m, base+"/var/log/it's.log"))
	testutil.AssertEqual(t, "", readAll(t, m, base+"/var/log/empty.log"))
	testutil.AssertEqual(t, content, readAll(t, m, base+"/var/log/app.log.zst"))

	commands := server.Commands()
	testutil.AssertEqual(t, `cat '/var/log/it'\''s.log'`, commands[1])
}

func TestSSHMissingFile(t *testing.T) {
	server := testutil.NewSSHServer(t, map[string]string{})
	r := newTestSSH(server)

	_, err := r.Open(context.Background(), "ssh://"+server.Addr()+"/nope")
	testutil.AssertError(t, err, "No such file or directory")
	var exitErr *gossh.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitStatus() != 1 {
		t.Errorf("expected exit status 1, got %v", err)
	}
}

func TestSSHHostKeyMismatch(t *testing.T) {
	server := testutil.NewSSHServer(t, map[string]string{"/a": "a\n"})
	other := testutil.NewSSHServer(t, nil)
	r := NewSSH(SSHOptions{
		AuthMethods:     []gossh.AuthMethod{},
		HostKeyCallback: gossh.FixedHostKey(other.HostKey()),
	})

	_, err := r.Open(context.Background(), "ssh://"+server.Addr()+"/a")
	if err == nil {
		t.Fatal("expected host key mismatch to fail the open")
	}
}

func TestSSHSetupError(t *testing.T) {
	r := NewSSH(SSHOptions{KnownHostsPath: ""})
	_, err := r.Open(context.Background(), "ssh://127.0.0.1:1/a")
	if !errors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseSSH(t *testing.T) {
	target, err := parseSSH("ssh://alice@example.org/var/log/syslog")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sshTarget{user: "alice", addr: "example.org:22", path: "/var/log/syslog"}, target)

	target, err = parseSSH("ssh://[::1]:2222/x")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "[::1]:2222", target.addr)
	testutil.AssertEqual(t, "", target.user)

	for _, bad := range []string{"ssh://host", "ssh://host/", "ssh:///path", "ssh://host:port/x"} {
		if _, err := parseSSH(bad); !errors.Is(err, errors.ErrInvalidArgument) {
			t.Errorf("parseSSH(%q): expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}

func TestShellQuote(t *testing.T) {
	testutil.AssertEqual(t, `'/a b'`, shellQuote("/a b"))
	testutil.AssertEqual(t, `'it'\''s'`, shellQuote("it's"))
	if strings.Count(shellQuote("$(rm -rf /)"), "'") != 2 {
		t.Error("expected command substitution to stay quoted")
	}
}
