// Package httpclient is the HTTP transport used by the petje.af client.
//
// Callers depend on the Doer interface; Adapter is the default
// implementation, built on net/http with TLS certificate verification,
// a fixed request timeout and HTTP/2 support.
//
//	a, err := httpclient.New(httpclient.Config{Timeout: 10 * time.Second})
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    URL:    "https://api.petje.af/v1/pages",
//	    Auth:   httpclient.BearerAuth(token),
//	})
//
// By default a response with status 400 or above is returned without an
// error so the caller can interpret the body. With Config.FailOnStatus the
// adapter also returns an *Error that still carries the response.
package httpclient
