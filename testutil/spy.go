package testutil

import (
	"context"
	"sync"

	"github.com/petjeaf/petjeaf-go/httpclient"
)

// Spy is an httpclient.Doer that records every request and answers with
// a canned response and error, or with Handler when set.
type Spy struct {
	mu       sync.Mutex
	requests []httpclient.Request

	Response *httpclient.Response
	Err      error
	Handler  func(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

// compile-time assertion
var _ httpclient.Doer = (*Spy)(nil)

// NewSpy returns a Spy answering with resp and err.
func NewSpy(resp *httpclient.Response, err error) *Spy {
	return &Spy{Response: resp, Err: err}
}

// JSONSpy returns a Spy answering with status and body.
func JSONSpy(status int, body string) *Spy {
	return NewSpy(&httpclient.Response{StatusCode: status, Body: []byte(body)}, nil)
}

// Do records req and answers it.
func (s *Spy) Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	handler, resp, err := s.Handler, s.Response, s.Err
	s.mu.Unlock()

	if handler != nil {
		return handler(ctx, req)
	}
	return resp, err
}

// Calls returns the number of requests received.
func (s *Spy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns the received requests in order.
func (s *Spy) Requests() []httpclient.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]httpclient.Request(nil), s.requests...)
}

// Last returns the most recent request. ok is false when none arrived.
func (s *Spy) Last() (req httpclient.Request, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return httpclient.Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}
