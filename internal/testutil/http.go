package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// HTTPServer serves each entry of files under its key as URL path and
// answers 404 for everything else. The server is closed when the test ends.
func HTTPServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(content))
	}))
	t.Cleanup(server.Close)

	return server
}
