package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/petjeaf/petjeaf-go/errors"
)

// Operation is a REST operation an Endpoint may expose.
type Operation uint8

const (
	OpCreate Operation = 1 << iota
	OpRead
	OpUpdate
	OpList
	OpDelete

	// AllOperations enables every operation.
	AllOperations = OpCreate | OpRead | OpUpdate | OpList | OpDelete
)

var operationNames = []struct {
	op   Operation
	name string
}{
	{OpCreate, "create"},
	{OpRead, "read"},
	{OpUpdate, "update"},
	{OpList, "list"},
	{OpDelete, "delete"},
}

// String returns the operation names joined with "|".
func (o Operation) String() string {
	var names []string
	for _, n := range operationNames {
		if o&n.op != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Has reports whether every operation in op is enabled.
func (o Operation) Has(op Operation) bool {
	return o&op == op
}

// Result is a decoded API response. A nil Body means the API replied
// with no content.
type Result struct {
	StatusCode int
	Body       json.RawMessage
}

// Empty reports whether the response had no content.
func (r *Result) Empty() bool {
	return r == nil || len(r.Body) == 0
}

// Decode unmarshals the body into v. It is a no-op for an empty result.
func (r *Result) Decode(v any) error {
	if r.Empty() {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Undecodable(r.Body, err)
	}
	return nil
}

// Caller performs one API call against a path relative to the base URL.
// path may carry a query string; body is the encoded JSON or nil.
type Caller interface {
	Call(ctx context.Context, method, path string, body []byte) (*Result, error)
}

// Endpoint implements the REST operations for one resource path. It is
// immutable: WithParent returns a bound copy, so a single Endpoint can
// serve concurrent calls for different parents.
type Endpoint struct {
	caller   Caller
	path     Path
	ops      Operation
	parentID string
}

// NewEndpoint creates an Endpoint for path exposing ops.
func NewEndpoint(caller Caller, path string, ops Operation) *Endpoint {
	return &Endpoint{caller: caller, path: NewPath(path), ops: ops}
}

// Path returns the configured resource path.
func (e *Endpoint) Path() Path { return e.path }

// Operations returns the enabled operations.
func (e *Endpoint) Operations() Operation { return e.ops }

// ParentID returns the bound parent identifier, "" when unbound.
func (e *Endpoint) ParentID() string { return e.parentID }

// WithParent returns a copy of e bound to the parent resource id.
func (e *Endpoint) WithParent(id string) *Endpoint {
	c := *e
	c.parentID = id
	return &c
}

// Resolve returns the URL path of the collection for the bound parent.
func (e *Endpoint) Resolve() (string, error) {
	return e.path.Resolve(e.parentID)
}

// Create POSTs body to the collection.
func (e *Endpoint) Create(ctx context.Context, body, params *Values) (*Result, error) {
	if err := e.allow(OpCreate); err != nil {
		return nil, err
	}
	path, err := e.Resolve()
	if err != nil {
		return nil, err
	}
	payload, err := EncodeBody(body)
	if err != nil {
		return nil, err
	}
	return e.caller.Call(ctx, http.MethodPost, path+QueryString(params), payload)
}

// Read GETs a single resource.
func (e *Endpoint) Read(ctx context.Context, id string, params *Values) (*Result, error) {
	if err := e.allow(OpRead); err != nil {
		return nil, err
	}
	path, err := e.item(id)
	if err != nil {
		return nil, err
	}
	return e.caller.Call(ctx, http.MethodGet, path+QueryString(params), nil)
}

// Update PATCHes a single resource with body.
func (e *Endpoint) Update(ctx context.Context, id string, body, params *Values) (*Result, error) {
	if err := e.allow(OpUpdate); err != nil {
		return nil, err
	}
	path, err := e.item(id)
	if err != nil {
		return nil, err
	}
	payload, err := EncodeBody(body)
	if err != nil {
		return nil, err
	}
	return e.caller.Call(ctx, http.MethodPatch, path+QueryString(params), payload)
}

// List GETs the collection. from and limit lead the query and are left
// out when empty or not positive; params follow and override them.
func (e *Endpoint) List(ctx context.Context, from string, limit int, params *Values) (*Result, error) {
	if err := e.allow(OpList); err != nil {
		return nil, err
	}
	path, err := e.Resolve()
	if err != nil {
		return nil, err
	}
	return e.caller.Call(ctx, http.MethodGet, path+QueryString(Merge(Page(from, limit), params)), nil)
}

// Delete DELETEs a single resource, sending body when it is not empty.
func (e *Endpoint) Delete(ctx context.Context, id string, body *Values) (*Result, error) {
	if err := e.allow(OpDelete); err != nil {
		return nil, err
	}
	path, err := e.item(id)
	if err != nil {
		return nil, err
	}
	payload, err := EncodeBody(body)
	if err != nil {
		return nil, err
	}
	return e.caller.Call(ctx, http.MethodDelete, path, payload)
}

// Page returns the pagination parameters for List.
func Page(from string, limit int) *Values {
	v := &Values{}
	if from != "" {
		v.Set("from", from)
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

func (e *Endpoint) allow(op Operation) error {
	if !e.ops.Has(op) {
		return errors.UnsupportedOperation(op.String(), e.path.String())
	}
	return nil
}

func (e *Endpoint) item(id string) (string, error) {
	if id == "" {
		return "", errors.InvalidResourceID()
	}
	path, err := e.Resolve()
	if err != nil {
		return "", err
	}
	return path + "/" + url.PathEscape(id), nil
}
