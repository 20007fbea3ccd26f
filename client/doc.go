// Package client is the petje.af API client. It owns the base URL, the
// bearer access token and the transport, and exposes one endpoint per
// resource type.
//
// # Usage
//
//	c, err := client.New(client.Config{AccessToken: token})
//	if err != nil {
//	    return err
//	}
//	page, err := c.Pages.Get(ctx, "p1", nil)
//	rewards, err := c.PageRewards.ByPage(ctx, "p1", "", 20, nil)
//
// Every failure is an *errors.Error; use the predicates of the errors
// package (IsAPI, IsValidation, ...) to classify it.
package client
