package oauth_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// capturedRequest is a snapshot of a request seen by rewriteTransport.
type capturedRequest struct {
	Header http.Header
	Method string
	URL    string
	Body   string
}

// rewriteTransport answers every request with handler instead of the network
// and keeps a copy of each request for later assertions.
type rewriteTransport struct {
	handler  http.Handler
	mu       sync.Mutex
	requests []capturedRequest
}

func newRewriteTransport(handler http.HandlerFunc) *rewriteTransport {
	return &rewriteTransport{handler: handler}
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		_ = req.Body.Close()
		body = string(b)
		req.Body = io.NopCloser(strings.NewReader(body))
	}

	t.mu.Lock()
	t.requests = append(t.requests, capturedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	t.mu.Unlock()

	recorder := httptest.NewRecorder()
	t.handler.ServeHTTP(recorder, req)
	return recorder.Result(), nil
}

func (t *rewriteTransport) last() capturedRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.requests) == 0 {
		return capturedRequest{}
	}
	return t.requests[len(t.requests)-1]
}

func (t *rewriteTransport) client() *http.Client {
	return &http.Client{Transport: t}
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
