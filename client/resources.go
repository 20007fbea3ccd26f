package client

import (
	"context"

	"github.com/petjeaf/petjeaf-go/resource"
)

// Resource paths. Composite paths resolve under their parent:
// pages_rewards becomes pages/{pageId}/rewards.
const (
	PathMemberships       = "memberships"
	PathMembershipRewards = "memberships_rewards"
	PathPages             = "pages"
	PathPagePlans         = "pages_plans"
	PathPageRewards       = "pages_rewards"
)

// documents is the typed view every named resource decodes through.
type documents = resource.Typed[resource.Document, resource.Document]

func (c *Client) initResources() {
	ops := resource.OpList | resource.OpRead
	c.Memberships = &Memberships{collection{docs(c, PathMemberships, ops)}}
	c.Pages = &Pages{collection{docs(c, PathPages, ops)}}
	c.MembershipRewards = &MembershipRewards{nested{docs(c, PathMembershipRewards, ops)}}
	c.PagePlans = &PagePlans{nested{docs(c, PathPagePlans, ops)}}
	c.PageRewards = &PageRewards{nested{docs(c, PathPageRewards, ops)}}
}

func docs(c *Client, path string, ops resource.Operation) documents {
	return resource.NewTyped[resource.Document, resource.Document](resource.NewEndpoint(c, path, ops))
}

// collection is a top-level resource.
type collection struct {
	docs documents
}

// Endpoint returns the untyped endpoint, e.g. for resource.NewTyped with
// caller-defined shapes.
func (r collection) Endpoint() *resource.Endpoint { return r.docs.Endpoint }

// List returns a page of the collection starting after from, with at most
// limit entries. Empty from and limit <= 0 are left to the API defaults.
func (r collection) List(ctx context.Context, from string, limit int, params *resource.Values) (resource.Document, error) {
	return document(r.docs.List(ctx, from, limit, params))
}

// Get returns a single resource.
func (r collection) Get(ctx context.Context, id string, params *resource.Values) (resource.Document, error) {
	return document(r.docs.Get(ctx, id, params))
}

// nested is a resource addressed under a parent resource.
type nested struct {
	docs documents
}

// Endpoint returns the untyped, unbound endpoint.
func (r nested) Endpoint() *resource.Endpoint { return r.docs.Endpoint }

func (r nested) list(ctx context.Context, parentID, from string, limit int, params *resource.Values) (resource.Document, error) {
	return document(r.docs.WithParent(parentID).List(ctx, from, limit, params))
}

// GetForID returns the resource id owned by parentID.
func (r nested) GetForID(ctx context.Context, parentID, id string, params *resource.Values) (resource.Document, error) {
	return document(r.docs.WithParent(parentID).Get(ctx, id, params))
}

// Memberships are the memberships visible to the token owner.
type Memberships struct{ collection }

// ByPage lists the memberships of a page. Memberships are filtered with
// the pageId query parameter, not nested under the page path.
func (r *Memberships) ByPage(ctx context.Context, pageID, from string, limit int, params *resource.Values) (resource.Document, error) {
	return r.List(ctx, from, limit, resource.Merge(resource.NewValues("pageId", pageID), params))
}

// Pages are creator pages.
type Pages struct{ collection }

// MembershipRewards are the rewards granted through a membership.
type MembershipRewards struct{ nested }

// ByMembership lists memberships/{membershipID}/rewards.
func (r *MembershipRewards) ByMembership(ctx context.Context, membershipID, from string, limit int, params *resource.Values) (resource.Document, error) {
	return r.list(ctx, membershipID, from, limit, params)
}

// PagePlans are the membership plans offered by a page.
type PagePlans struct{ nested }

// ByPage lists pages/{pageID}/plans.
func (r *PagePlans) ByPage(ctx context.Context, pageID, from string, limit int, params *resource.Values) (resource.Document, error) {
	return r.list(ctx, pageID, from, limit, params)
}

// PageRewards are the rewards offered by a page.
type PageRewards struct{ nested }

// ByPage lists pages/{pageID}/rewards.
func (r *PageRewards) ByPage(ctx context.Context, pageID, from string, limit int, params *resource.Values) (resource.Document, error) {
	return r.list(ctx, pageID, from, limit, params)
}

func document(d *resource.Document, err error) (resource.Document, error) {
	if err != nil || d == nil {
		return nil, err
	}
	return *d, nil
}
