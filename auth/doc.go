// Package auth holds the OAuth2 bearer credentials used by the petje.af
// client.
//
// Credentials stores the access token behind a lock so it can be swapped
// while calls are in flight. Inspect reads the claims of a JWT access
// token without verifying its signature, which is enough to report the
// subject or warn about an expired token before the API rejects it.
//
//	claims, err := auth.Inspect(token)
//	if err == nil && claims.Expired(time.Now()) {
//	    // refresh before calling the API
//	}
package auth
