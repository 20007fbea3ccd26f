package resource

import "context"

// Typed decodes an Endpoint's results into T for single resources and L
// for collections. A no-content response yields a nil pointer.
type Typed[T, L any] struct {
	*Endpoint
}

// NewTyped wraps e.
func NewTyped[T, L any](e *Endpoint) Typed[T, L] {
	return Typed[T, L]{Endpoint: e}
}

// WithParent returns a typed view bound to the parent resource id.
func (t Typed[T, L]) WithParent(id string) Typed[T, L] {
	return Typed[T, L]{Endpoint: t.Endpoint.WithParent(id)}
}

// Create is Endpoint.Create decoded into T.
func (t Typed[T, L]) Create(ctx context.Context, body, params *Values) (*T, error) {
	return decode[T](t.Endpoint.Create(ctx, body, params))
}

// Get is Endpoint.Read decoded into T.
func (t Typed[T, L]) Get(ctx context.Context, id string, params *Values) (*T, error) {
	return decode[T](t.Endpoint.Read(ctx, id, params))
}

// Update is Endpoint.Update decoded into T.
func (t Typed[T, L]) Update(ctx context.Context, id string, body, params *Values) (*T, error) {
	return decode[T](t.Endpoint.Update(ctx, id, body, params))
}

// List is Endpoint.List decoded into L.
func (t Typed[T, L]) List(ctx context.Context, from string, limit int, params *Values) (*L, error) {
	return decode[L](t.Endpoint.List(ctx, from, limit, params))
}

// Delete is Endpoint.Delete decoded into T.
func (t Typed[T, L]) Delete(ctx context.Context, id string, body *Values) (*T, error) {
	return decode[T](t.Endpoint.Delete(ctx, id, body))
}

func decode[V any](res *Result, err error) (*V, error) {
	if err != nil {
		return nil, err
	}
	if res.Empty() {
		return nil, nil
	}
	out := new(V)
	if err := res.Decode(out); err != nil {
		return nil, err
	}
	return out, nil
}
