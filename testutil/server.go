package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the path prefix of BaseURL, matching the production API.
const APIPrefix = "/v1"

// Recorded is a request received by Server.
type Recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Query parses RawQuery.
func (r Recorded) Query() url.Values {
	q, _ := url.ParseQuery(r.RawQuery)
	return q
}

// Response is a programmed reply. An empty Body sends no body.
type Response struct {
	Status int
	Body   []byte
	Header map[string]string
}

// JSON encodes v as the reply body.
func JSON(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: encode reply: %v", err))
	}
	return Response{Status: status, Body: body}
}

// Raw replies with body verbatim.
func Raw(status int, body string) Response {
	return Response{Status: status, Body: []byte(body)}
}

// NoContent replies 204 without a body.
func NoContent() Response {
	return Response{Status: http.StatusNoContent}
}

// ErrorEnvelope replies with the API error envelope. field is omitted
// when empty.
func ErrorEnvelope(status int, title, detail, field string) Response {
	env := map[string]any{"status": status, "title": title, "detail": detail}
	if field != "" {
		env["field"] = field
	}
	return JSON(status, env)
}

type serverState struct {
	routes   map[string]Response
	requests []Recorded
}

// Server is a fake petje.af API. Every request is recorded and answered
// with the Response programmed for its method and path, or a 404 error
// envelope.
type Server struct {
	mu         sync.Mutex
	engine     *gin.Engine
	srv        *httptest.Server
	state      serverState
	registered map[string]bool
}

// compile-time assertion
var _ TestComponent = (*Server)(nil)

// New creates a stopped Server.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		state:      serverState{routes: map[string]Response{}},
		registered: map[string]bool{},
	}
	s.engine = gin.New()
	s.engine.RedirectTrailingSlash = false
	s.engine.NoRoute(s.handle)
	return s
}

// NewServer creates and starts a Server that is stopped when t ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := New()
	T(t).Setup(s)
	return s
}

// Name identifies the server as a test component.
func (s *Server) Name() string { return "petjeaf-api" }

// Start serves the engine on a local httptest listener.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return fmt.Errorf("testutil: server already started")
	}
	s.srv = httptest.NewServer(s.engine)
	return nil
}

// Stop closes the listener. Programmed replies and recorded requests are kept.
func (s *Server) Stop(_ context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

// Reset drops programmed replies and recorded requests.
func (s *Server) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = serverState{routes: map[string]Response{}}
	return nil
}

// Snapshot copies the programmed replies and recorded requests.
func (s *Server) Snapshot(_ context.Context) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyState(), nil
}

// Restore replaces the server state with a Snapshot result.
func (s *Server) Restore(_ context.Context, snapshot interface{}) error {
	state, ok := snapshot.(serverState)
	if !ok {
		return fmt.Errorf("testutil: invalid snapshot type %T", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.state = s.copyState()
	return nil
}

func (s *Server) copyState() serverState {
	routes := make(map[string]Response, len(s.state.routes))
	for k, v := range s.state.routes {
		routes[k] = v
	}
	return serverState{
		routes:   routes,
		requests: append([]Recorded(nil), s.state.requests...),
	}
}

// URL returns the server root.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// BaseURL returns the API root to configure a client with.
func (s *Server) BaseURL() string {
	return s.URL() + APIPrefix
}

// Reply programs the response for method and path and registers the route
// on the engine. path is the full request path, e.g. "/v1/pages/p1".
// Programming a reply must not race with requests in flight.
func (s *Server) Reply(method, path string, resp Response) *Server {
	key := method + " " + path
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.routes[key] = resp
	if !s.registered[key] {
		s.engine.Handle(method, path, s.handle)
		s.registered[key] = true
	}
	return s
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.state.requests...)
}

// Count returns the number of recorded requests.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.requests)
}

// Last returns the most recent request. ok is false when none arrived.
func (s *Server) Last() (rec Recorded, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.requests) == 0 {
		return Recorded{}, false
	}
	return s.state.requests[len(s.state.requests)-1], true
}

func (s *Server) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	rec := Recorded{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Header:   c.Request.Header.Clone(),
		Body:     body,
	}

	route := c.FullPath()
	if route == "" {
		route = rec.Path
	}

	s.mu.Lock()
	s.state.requests = append(s.state.requests, rec)
	resp, ok := s.state.routes[rec.Method+" "+route]
	s.mu.Unlock()

	switch {
	case err != nil:
		resp = ErrorEnvelope(http.StatusInternalServerError, "Internal Server Error", "read request body: "+err.Error(), "")
	case !ok:
		resp = ErrorEnvelope(http.StatusNotFound, "Not Found", "No route for "+rec.Method+" "+rec.Path, "")
	}
	for k, v := range resp.Header {
		c.Header(k, v)
	}
	if len(resp.Body) == 0 {
		c.Status(resp.Status)
		return
	}
	c.Data(resp.Status, "application/json", resp.Body)
}
