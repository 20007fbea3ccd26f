package resource

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/petjeaf/petjeaf-go/errors"
)

type call struct {
	method string
	path   string
	body   []byte
}

type recordingCaller struct {
	calls  []call
	result *Result
	err    error
}

func (r *recordingCaller) Call(_ context.Context, method, path string, body []byte) (*Result, error) {
	r.calls = append(r.calls, call{method: method, path: path, body: body})
	return r.result, r.err
}

func TestQueryString(t *testing.T) {
	tests := []struct {
		name   string
		params *Values
		want   string
	}{
		{"nil", nil, ""},
		{"empty", NewValues(), ""},
		{"only nil values", NewValues("a", nil), ""},
		{"bool true", NewValues("active", true), "?active=true"},
		{"bool false", NewValues("active", false), "?active=false"},
		{"order kept", NewValues("z", "1", "a", "2"), "?z=1&a=2"},
		{"ints and floats", NewValues("n", 3, "f", 1.5), "?n=3&f=1.5"},
		{"encoding", NewValues("q", "a b&c", "k y", "é"), "?q=a+b%26c&k+y=%C3%A9"},
		{"nil dropped", NewValues("a", "1", "b", nil, "c", "3"), "?a=1&c=3"},
		{"slice", NewValues("ids", []string{"x", "y"}), "?ids%5B0%5D=x&ids%5B1%5D=y"},
		{"map", NewValues("f", map[string]any{"b": 2, "a": true}), "?f%5Ba%5D=true&f%5Bb%5D=2"},
		{"nested values", NewValues("f", NewValues("z", "1", "a", "2")), "?f%5Bz%5D=1&f%5Ba%5D=2"},
		{"nil stringer", NewValues("since", (*time.Time)(nil), "a", "1"), "?a=1"},
		{"nil nested values", NewValues("f", (*Values)(nil), "a", "1"), "?a=1"},
		{"nil stringer in slice", NewValues("t", []*time.Time{nil}, "a", "1"), "?a=1"},
		{"stringer", NewValues("since", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)), "?since=2024-01-02+03%3A04%3A05+%2B0000+UTC"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := QueryString(tc.params); got != tc.want {
				t.Errorf("QueryString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValues_SetKeepsPosition(t *testing.T) {
	v := NewValues("a", 1, "b", 2)
	v.Set("a", 3)
	if !reflect.DeepEqual(v.Keys(), []string{"a", "b"}) {
		t.Errorf("unexpected keys %v", v.Keys())
	}
	if got, _ := v.Get("a"); got != 3 {
		t.Errorf("expected a=3, got %v", got)
	}
	v.Delete("a")
	if v.Len() != 1 || v.Keys()[0] != "b" {
		t.Errorf("unexpected keys after delete %v", v.Keys())
	}
}

func TestMerge(t *testing.T) {
	got := Merge(NewValues("from", "x", "limit", "10"), NewValues("pageId", "p", "limit", "5"))
	if !reflect.DeepEqual(got.Keys(), []string{"from", "limit", "pageId"}) {
		t.Errorf("unexpected keys %v", got.Keys())
	}
	if v, _ := got.Get("limit"); v != "5" {
		t.Errorf("expected later value to win, got %v", v)
	}
	if Merge(nil, nil).Len() != 0 {
		t.Error("merging nils should be empty")
	}
}

func TestFromMap_Sorted(t *testing.T) {
	v := FromMap(map[string]any{"c": 1, "a": 2, "b": 3})
	if !reflect.DeepEqual(v.Keys(), []string{"a", "b", "c"}) {
		t.Errorf("unexpected keys %v", v.Keys())
	}
}

func TestEncodeBody(t *testing.T) {
	t.Run("empty is absent", func(t *testing.T) {
		for _, body := range []*Values{nil, NewValues()} {
			data, err := EncodeBody(body)
			if err != nil || data != nil {
				t.Errorf("expected nil body, got %q err=%v", data, err)
			}
		}
	})

	t.Run("ordered object", func(t *testing.T) {
		data, err := EncodeBody(NewValues("name", "x", "amount", 5, "active", true))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `{"name":"x","amount":5,"active":true}` {
			t.Errorf("unexpected body %s", data)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		in := NewValues("b", "text", "a", 1.5, "c", false, "d", []any{"x", 2.0}, "e", map[string]any{"k": "v"})
		data, err := EncodeBody(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := &Values{}
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !reflect.DeepEqual(out.Keys(), in.Keys()) {
			t.Errorf("key order changed: %v", out.Keys())
		}
		if !reflect.DeepEqual(out.Map(), in.Map()) {
			t.Errorf("round trip mismatch: %v vs %v", out.Map(), in.Map())
		}
	})

	t.Run("unsupported values", func(t *testing.T) {
		for name, v := range map[string]any{"chan": make(chan int), "func": func() {}, "nan": math.NaN()} {
			_, err := EncodeBody(NewValues("bad", v))
			if !errors.IsEncoding(err) {
				t.Errorf("%s: expected encoding error, got %v", name, err)
			}
		}
	})
}

func TestPath_Resolve(t *testing.T) {
	if got, err := NewPath("Pages").Resolve(""); err != nil || got != "pages" {
		t.Errorf("plain path: got %q err=%v", got, err)
	}

	p := NewPath("pages_rewards")
	if _, err := p.Resolve(""); !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	} else if err.Error() != "Subresource 'pages_rewards' used without parent 'pages' ID." {
		t.Errorf("unexpected message %q", err.Error())
	}
	if got, _ := p.Resolve("p1"); got != "pages/p1/rewards" {
		t.Errorf("expected pages/p1/rewards, got %q", got)
	}
	if got, _ := p.Resolve("a/b c"); got != "pages/a%2Fb%20c/rewards" {
		t.Errorf("expected escaped parent id, got %q", got)
	}
	if got, _ := NewPath("a_b_c").Resolve("1"); got != "a/1/b_c" {
		t.Errorf("expected split on first separator, got %q", got)
	}
}

func TestEndpoint_Operations(t *testing.T) {
	ctx := context.Background()
	rc := &recordingCaller{result: &Result{StatusCode: 200, Body: json.RawMessage(`{}`)}}
	e := NewEndpoint(rc, "memberships", AllOperations)

	tests := []struct {
		name   string
		run    func() error
		method string
		path   string
		body   string
	}{
		{"create", func() error {
			_, err := e.Create(ctx, NewValues("a", 1), NewValues("x", true))
			return err
		}, http.MethodPost, "memberships?x=true", `{"a":1}`},
		{"read", func() error {
			_, err := e.Read(ctx, "m 1", NewValues("include", "page"))
			return err
		}, http.MethodGet, "memberships/m%201?include=page", ""},
		{"update", func() error {
			_, err := e.Update(ctx, "m1", NewValues("b", "c"), nil)
			return err
		}, http.MethodPatch, "memberships/m1", `{"b":"c"}`},
		{"list", func() error {
			_, err := e.List(ctx, "abc123", 20, NewValues("status", "active"))
			return err
		}, http.MethodGet, "memberships?from=abc123&limit=20&status=active", ""},
		{"list without paging", func() error {
			_, err := e.List(ctx, "", 0, nil)
			return err
		}, http.MethodGet, "memberships", ""},
		{"delete", func() error {
			_, err := e.Delete(ctx, "m1", nil)
			return err
		}, http.MethodDelete, "memberships/m1", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rc.calls = nil
			if err := tc.run(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rc.calls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(rc.calls))
			}
			c := rc.calls[0]
			if c.method != tc.method || c.path != tc.path || string(c.body) != tc.body {
				t.Errorf("got %s %s %q, want %s %s %q", c.method, c.path, c.body, tc.method, tc.path, tc.body)
			}
		})
	}
}

func TestEndpoint_EmptyIDNeverCalls(t *testing.T) {
	ctx := context.Background()
	rc := &recordingCaller{}
	e := NewEndpoint(rc, "pages", AllOperations)

	_, errRead := e.Read(ctx, "", nil)
	_, errUpdate := e.Update(ctx, "", NewValues("a", 1), nil)
	_, errDelete := e.Delete(ctx, "", nil)
	for _, err := range []error{errRead, errUpdate, errDelete} {
		if !errors.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	}
	if len(rc.calls) != 0 {
		t.Errorf("expected no transport calls, got %d", len(rc.calls))
	}
}

func TestEndpoint_UnsupportedOperation(t *testing.T) {
	rc := &recordingCaller{}
	e := NewEndpoint(rc, "pages", OpList|OpRead)
	_, err := e.Create(context.Background(), NewValues("a", 1), nil)
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if err.Error() != "operation create is not supported by resource 'pages'" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if len(rc.calls) != 0 {
		t.Error("expected no transport calls")
	}
}

func TestEndpoint_ParentBinding(t *testing.T) {
	ctx := context.Background()
	rc := &recordingCaller{result: &Result{StatusCode: 200}}
	e := NewEndpoint(rc, "PAGES_REWARDS", OpList|OpRead)

	if _, err := e.List(ctx, "", 0, nil); !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error without parent, got %v", err)
	}

	bound := e.WithParent("p1")
	if _, err := bound.Read(ctx, "r1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rc.calls[0].path != "pages/p1/rewards/r1" {
		t.Errorf("unexpected path %q", rc.calls[0].path)
	}
	if e.ParentID() != "" {
		t.Error("WithParent must not mutate the original endpoint")
	}
	if _, err := e.Read(ctx, "r1", nil); !errors.IsConfiguration(err) {
		t.Errorf("expected original endpoint to stay unbound, got %v", err)
	}
}

func TestEndpoint_PropagatesCallerError(t *testing.T) {
	want := errors.NoResponse()
	e := NewEndpoint(&recordingCaller{err: want}, "pages", AllOperations)
	if _, err := e.List(context.Background(), "", 0, nil); err != want {
		t.Errorf("expected caller error, got %v", err)
	}
}

func TestOperation_String(t *testing.T) {
	if got := (OpList | OpRead).String(); got != "read|list" {
		t.Errorf("unexpected %q", got)
	}
	if Operation(0).String() != "none" {
		t.Error("expected none")
	}
	if !AllOperations.Has(OpDelete | OpCreate) {
		t.Error("expected AllOperations to include delete and create")
	}
}

type page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pageList struct {
	Data []page `json:"data"`
}

func TestTyped(t *testing.T) {
	ctx := context.Background()
	rc := &recordingCaller{result: &Result{StatusCode: 200, Body: json.RawMessage(`{"id":"p1","name":"Petje"}`)}}
	pages := NewTyped[page, pageList](NewEndpoint(rc, "pages", AllOperations))

	got, err := pages.Get(ctx, "p1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "p1" || got.Name != "Petje" {
		t.Errorf("unexpected page %+v", got)
	}

	rc.result = &Result{StatusCode: 200, Body: json.RawMessage(`{"data":[{"id":"a"},{"id":"b"}]}`)}
	list, err := pages.List(ctx, "", 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Data) != 2 {
		t.Errorf("expected 2 pages, got %d", len(list.Data))
	}

	rc.result = &Result{StatusCode: 204}
	deleted, err := pages.Delete(ctx, "p1", nil)
	if err != nil || deleted != nil {
		t.Errorf("expected nil result for no content, got %v err=%v", deleted, err)
	}

	rc.result = &Result{StatusCode: 200, Body: json.RawMessage(`[1,2]`)}
	if _, err := pages.Get(ctx, "p1", nil); !errors.IsDecoding(err) {
		t.Errorf("expected decoding error for mismatched shape, got %v", err)
	}
}

func TestDocument(t *testing.T) {
	var d Document
	if err := json.Unmarshal([]byte(`{"id":"m1","amount":5,"data":[{"id":"a"},"skip",{"id":"b"}]}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.String("id") != "m1" || d.String("amount") != "5" || d.String("missing") != "" {
		t.Errorf("unexpected String values")
	}
	items := d.Items()
	if len(items) != 2 || items[1].String("id") != "b" {
		t.Errorf("unexpected items %v", items)
	}
	var p page
	if err := d.Decode(&p); err != nil || p.ID != "m1" {
		t.Errorf("Decode() = %+v err=%v", p, err)
	}
}

func TestDocument_Query(t *testing.T) {
	var d Document
	if err := json.Unmarshal([]byte(`{"data":[{"id":"a","active":true},{"id":"b","active":false},{"id":"c","active":true}]}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, err := d.Query(`.data[] | select(.active) | .id`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []any{"a", "c"}) {
		t.Errorf("got %v", got)
	}

	n, err := d.Query(`.data | length`)
	if err != nil || len(n) != 1 || n[0] != 3 {
		t.Errorf("length = %v err=%v", n, err)
	}

	if _, err := d.Query(`.data[`); !errors.IsValidation(err) {
		t.Errorf("expected VALIDATION error for a bad expression, got %v", err)
	}
	if _, err := d.Query(`.data.id`); !errors.IsValidation(err) {
		t.Errorf("expected VALIDATION error for a failing query, got %v", err)
	}

	var empty Document
	if got, err := empty.Query(`.`); err != nil || len(got) != 1 || got[0] != nil {
		t.Errorf("nil document: got %v err=%v", got, err)
	}
}
