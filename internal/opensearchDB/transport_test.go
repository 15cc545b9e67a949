package opensearchDB_test

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// fakeTransport stands in for the engine; tests script its responses and
// inspect the calls it saw.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []string
	handler func(req *http.Request) (*http.Response, error)
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Method+" "+req.URL.Path)
	f.mu.Unlock()
	return f.handler(req)
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) call(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.calls) {
		return ""
	}
	return f.calls[i]
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
