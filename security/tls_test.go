package security

import (
	"crypto/tls"
	"testing"

	"github.com/petjeaf/petjeaf-go/security/tlstest"
)

func TestTLSConfig_Build_NilConfigVerifies(t *testing.T) {
	var cfg *TLSConfig
	result, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected default tls.Config")
	}
	if result.InsecureSkipVerify {
		t.Error("expected certificate verification to be enabled")
	}
	if result.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected MinVersion=TLS12, got %d", result.MinVersion)
	}
}

func TestTLSConfig_Build_Options(t *testing.T) {
	cfg := &TLSConfig{SkipVerify: true, ServerName: "api.petje.af", MinVersion: tls.VersionTLS13}
	result, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify=true")
	}
	if result.ServerName != "api.petje.af" {
		t.Errorf("expected ServerName=api.petje.af, got %s", result.ServerName)
	}
	if result.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected MinVersion=TLS13, got %d", result.MinVersion)
	}
}

func TestTLSConfig_Build_CA(t *testing.T) {
	certs := tlstest.Generate(t)

	result, err := (&TLSConfig{CAFile: certs.CAFile}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RootCAs == nil {
		t.Error("expected RootCAs to be set")
	}
}

func TestTLSConfig_Build_ClientCert(t *testing.T) {
	certs := tlstest.Generate(t)

	result, err := (&TLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Certificates) != 1 {
		t.Errorf("expected 1 client certificate, got %d", len(result.Certificates))
	}
}

func TestTLSConfig_Build_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *TLSConfig
	}{
		{"missing CA file", &TLSConfig{CAFile: "/nonexistent/ca.pem"}},
		{"invalid CA content", &TLSConfig{CAFile: tlstest.WriteInvalidPEM(t, "bad.pem")}},
		{"missing client cert", &TLSConfig{CertFile: "/nonexistent/c.pem", KeyFile: "/nonexistent/k.pem"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.cfg.Build(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	var nilCfg *TLSConfig
	if err := nilCfg.Validate(); err != nil {
		t.Errorf("nil config should validate, got %v", err)
	}
	if err := (&TLSConfig{CertFile: "c.pem", KeyFile: "k.pem"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&TLSConfig{CertFile: "c.pem"}).Validate(); err == nil {
		t.Error("expected error for cert without key")
	}
}
