package util

import "testing"

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "hello", "world"); got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
	if got := Coalesce(0, 0, 42); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in     string
		prefix int
		want   string
	}{
		{"", 4, ""},
		{"abc", 4, "***"},
		{"abcdefgh", 4, "abcd***"},
	}
	for _, tc := range tests {
		if got := MaskSecret(tc.in, tc.prefix); got != tc.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.in, tc.prefix, got, tc.want)
		}
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	tests := map[string]string{
		`  token  `:   "token",
		`"token"`:     "token",
		`' token '`:   "token",
		`"unbalanced`: `"unbalanced`,
		`""`:          "",
	}
	for in, want := range tests {
		if got := SanitizeEnvValue(in); got != want {
			t.Errorf("SanitizeEnvValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTrimURL(t *testing.T) {
	tests := map[string]string{
		" https://api.petje.af/v1/ ": "https://api.petje.af/v1",
		"https://x//":                "https://x",
		"https://x":                  "https://x",
		"":                           "",
	}
	for in, want := range tests {
		if got := TrimURL(in); got != want {
			t.Errorf("TrimURL(%q) = %q, want %q", in, got, want)
		}
	}
}
