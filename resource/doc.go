// Package resource is the generic REST layer of the petje.af client.
//
// An Endpoint turns (operation, resource path, optional parent, query
// parameters, body) into a single call on a Caller and returns the raw
// Result. Composite paths such as "pages_rewards" resolve under a parent
// identifier bound with WithParent:
//
//	rewards := resource.NewEndpoint(c, "pages_rewards", resource.OpList|resource.OpRead)
//	res, err := rewards.WithParent("p1").List(ctx, "", 20, nil) // GET pages/p1/rewards?limit=20
//
// Typed wraps an Endpoint and decodes results into caller-declared types.
package resource
