package httpclient

import "github.com/petjeaf/petjeaf-go/security"

// TLSConfig is an alias for the shared security TLS configuration.
type TLSConfig = security.TLSConfig
