// Package security holds the TLS settings of the petje.af HTTP transport.
//
// Certificate verification is always on unless SkipVerify is set, and the
// minimum protocol version defaults to TLS 1.2:
//
//	cfg := security.TLSConfig{CAFile: "/etc/ssl/petjeaf-ca.pem"}
//	tlsConfig, err := cfg.Build()
package security
