// Package testutil provides test doubles for code that calls the petje.af
// API: Server, a fake API served over HTTP that records requests and
// replies with programmed responses, and Spy, an httpclient.Doer that
// records requests without any network.
//
// # Usage
//
//	srv := testutil.NewServer(t)
//	srv.Reply(http.MethodGet, "/v1/pages/p1", testutil.JSON(200, map[string]any{"id": "p1"}))
//
//	c, _ := client.New(client.Config{BaseURL: srv.BaseURL(), AccessToken: "tok"})
//	page, err := c.Pages.Get(ctx, "p1", nil)
//	last := srv.Last()
package testutil
