package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/petjeaf/petjeaf-go/httpclient"
)

func do(t *testing.T, method, url string, body []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func TestServer_RecordsAndReplies(t *testing.T) {
	srv := NewServer(t)
	srv.Reply(http.MethodPost, "/v1/pages", JSON(http.StatusCreated, map[string]string{"id": "p1"}))

	resp, body := do(t, http.MethodPost, srv.BaseURL()+"/pages?from=a&limit=2", []byte(`{"name":"x"}`))
	if resp.StatusCode != http.StatusCreated || string(body) != `{"id":"p1"}` {
		t.Fatalf("unexpected reply %d %s", resp.StatusCode, body)
	}

	rec, ok := srv.Last()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if rec.Method != http.MethodPost || rec.Path != "/v1/pages" || rec.RawQuery != "from=a&limit=2" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Query().Get("limit") != "2" || string(rec.Body) != `{"name":"x"}` {
		t.Errorf("unexpected query or body %+v", rec)
	}
	if rec.Header.Get("Authorization") != "Bearer tok" {
		t.Errorf("expected headers to be recorded")
	}
}

func TestServer_DefaultNotFound(t *testing.T) {
	srv := NewServer(t)
	resp, body := do(t, http.MethodGet, srv.BaseURL()+"/nope", nil)
	if resp.StatusCode != http.StatusNotFound || !bytes.Contains(body, []byte(`"title":"Not Found"`)) {
		t.Errorf("unexpected reply %d %s", resp.StatusCode, body)
	}
}

func TestServer_NoContentAndEnvelope(t *testing.T) {
	srv := NewServer(t)
	srv.Reply(http.MethodDelete, "/v1/pages/p1", NoContent()).
		Reply(http.MethodGet, "/v1/pages/p2", ErrorEnvelope(422, "Invalid", "bad amount", "amount")).
		Reply(http.MethodGet, "/v1/pages/p3", Raw(200, "not json"))

	resp, body := do(t, http.MethodDelete, srv.BaseURL()+"/pages/p1", nil)
	if resp.StatusCode != http.StatusNoContent || len(body) != 0 {
		t.Errorf("expected empty 204, got %d %q", resp.StatusCode, body)
	}
	resp, body = do(t, http.MethodGet, srv.BaseURL()+"/pages/p2", nil)
	if resp.StatusCode != 422 || !bytes.Contains(body, []byte(`"field":"amount"`)) {
		t.Errorf("unexpected envelope %d %s", resp.StatusCode, body)
	}
	_, body = do(t, http.MethodGet, srv.BaseURL()+"/pages/p3", nil)
	if string(body) != "not json" {
		t.Errorf("expected raw body, got %q", body)
	}
	if srv.Count() != 3 {
		t.Errorf("expected 3 requests, got %d", srv.Count())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestServer_RoutesRegisteredOnEngine(t *testing.T) {
	srv := New()
	srv.Reply(http.MethodGet, "/v1/pages/p1", JSON(200, map[string]string{"id": "p1"})).
		Reply(http.MethodGet, "/v1/pages/p1", JSON(200, map[string]string{"id": "again"}))

	var found int
	for _, r := range srv.engine.Routes() {
		if r.Method == http.MethodGet && r.Path == "/v1/pages/p1" {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("expected the route registered once, got %d", found)
	}

	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/pages/p1", nil))
	if rec.Code != 200 || rec.Body.String() != `{"id":"again"}` {
		t.Errorf("expected the latest reply, got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/pages/p1/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("trailing slash must not redirect, got %d", rec.Code)
	}
}

func TestServer_BodyReadFailure(t *testing.T) {
	srv := New()
	srv.Reply(http.MethodPost, "/v1/pages", JSON(201, map[string]string{"id": "p1"}))

	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/pages", failingReader{}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("connection reset")) {
		t.Errorf("expected the read error in the envelope, got %s", rec.Body.String())
	}
	if srv.Count() != 1 {
		t.Errorf("expected the request to be recorded, got %d", srv.Count())
	}
}

func TestServer_Lifecycle(t *testing.T) {
	ctx := context.Background()
	srv := New()
	if srv.URL() != "" {
		t.Error("stopped server has no URL")
	}
	h := T(t)
	h.Setup(srv)
	if err := srv.Start(ctx); err == nil {
		t.Error("expected error on second start")
	}

	srv.Reply(http.MethodGet, "/v1/pages", JSON(200, map[string]any{"data": []any{}}))
	do(t, http.MethodGet, srv.BaseURL()+"/pages", nil)
	snap := h.Snapshot(srv)

	do(t, http.MethodGet, srv.BaseURL()+"/pages", nil)
	h.Reset(srv)
	if srv.Count() != 0 {
		t.Errorf("expected reset to drop requests")
	}
	if resp, _ := do(t, http.MethodGet, srv.BaseURL()+"/pages", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected reset to drop routes, got %d", resp.StatusCode)
	}

	h.Restore(srv, snap)
	if srv.Count() != 1 {
		t.Errorf("expected 1 request after restore, got %d", srv.Count())
	}
	if err := srv.Restore(ctx, "bogus"); err == nil {
		t.Error("expected error for invalid snapshot")
	}
}

func TestSpy(t *testing.T) {
	spy := JSONSpy(200, `{"ok":true}`)
	if _, ok := spy.Last(); ok {
		t.Error("expected no requests yet")
	}

	resp, err := spy.Do(context.Background(), httpclient.Request{Method: "GET", URL: "https://x/a"})
	if err != nil || resp.StatusCode != 200 {
		t.Fatalf("unexpected result %v %v", resp, err)
	}
	if spy.Calls() != 1 {
		t.Errorf("expected 1 call, got %d", spy.Calls())
	}
	if last, _ := spy.Last(); last.URL != "https://x/a" {
		t.Errorf("unexpected last request %+v", last)
	}

	boom := errors.New("boom")
	spy = NewSpy(nil, boom)
	if _, err := spy.Do(context.Background(), httpclient.Request{}); !errors.Is(err, boom) {
		t.Errorf("expected canned error, got %v", err)
	}

	spy.Handler = func(_ context.Context, req httpclient.Request) (*httpclient.Response, error) {
		return &httpclient.Response{StatusCode: 204}, nil
	}
	if resp, err := spy.Do(context.Background(), httpclient.Request{}); err != nil || resp.StatusCode != 204 {
		t.Errorf("expected handler result, got %v %v", resp, err)
	}
	if len(spy.Requests()) != 2 {
		t.Errorf("expected 2 requests, got %d", len(spy.Requests()))
	}
}
