package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/ledgerbook/ledgerbook/internal/httpclient"
)

// MockHTTPClient implements a mock HTTP transport for testing. It records
// every call so tests can assert that cached reads never hit the network
// and that failed reads retry it.
type MockHTTPClient struct {
	mu     sync.RWMutex
	routes map[string]MockResponse
	errs   map[string]error
	calls  map[string]int
	total  int
	last   *httpclient.Request
}

// MockResponse represents a mock HTTP response
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string]MockResponse),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func routeKey(method, path string) string {
	return method + " " + path
}

func stripQuery(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}

// RegisterResponse registers a mock response for a method and URL suffix
func (m *MockHTTPClient) RegisterResponse(method, path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[routeKey(method, path)] = resp
}

// RegisterError makes calls matching the method and URL suffix fail
func (m *MockHTTPClient) RegisterError(method, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[routeKey(method, path)] = err
}

// CallCount returns how many requests matched the method and URL suffix
func (m *MockHTTPClient) CallCount(method, path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for key, n := range m.calls {
		if strings.HasPrefix(key, method+" ") && strings.HasSuffix(key, path) {
			count += n
		}
	}
	return count
}

// TotalCalls returns the number of requests sent through the transport
func (m *MockHTTPClient) TotalCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// LastRequest returns the most recent request, or nil when none were sent
func (m *MockHTTPClient) LastRequest() *httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

// Send implements the httpclient.Client interface
func (m *MockHTTPClient) Send(_ context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	m.calls[routeKey(req.Method, stripQuery(req.URL))]++
	m.total++
	m.last = req
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for key, err := range m.errs {
		if m.matches(key, req) {
			return nil, err
		}
	}
	for key, resp := range m.routes {
		if m.matches(key, req) {
			return &httpclient.Response{
				StatusCode: resp.StatusCode,
				Body:       resp.Body,
				Headers:    resp.Headers,
			}, nil
		}
	}

	return &httpclient.Response{
		StatusCode: http.StatusNotFound,
		Body:       []byte("Not Found"),
		Headers:    map[string]string{},
	}, nil
}

func (m *MockHTTPClient) matches(key string, req *httpclient.Request) bool {
	method, path, ok := strings.Cut(key, " ")
	if !ok || method != req.Method {
		return false
	}
	// match on the path only so base urls and query strings stay out of
	// test fixtures
	return strings.HasSuffix(stripQuery(req.URL), path)
}

// Clear removes all registered responses and recorded calls
func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string]MockResponse)
	m.errs = make(map[string]error)
	m.calls = make(map[string]int)
	m.total = 0
	m.last = nil
}
