package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type tlsSection struct {
	CAFile string `mapstructure:"ca_file"`
}

type testConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	TLS         tlsSection    `mapstructure:"tls"`
}

// mockFS serves Exists from a fixed set plus the real disk, and keeps its
// own environment so tests never touch the process environment.
type mockFS struct {
	files    map[string]bool
	env      []string
	envFiles map[string][]string
	loaded   []string
}

func (m *mockFS) Exists(path string) bool {
	if m.files[path] {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	m.env = append(m.env, m.envFiles[path]...)
	return nil
}

func (m *mockFS) Environ() []string { return m.env }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "petjeaf.yml", `
base_url: https://example.test/v1
access_token: from-file
timeout: 3s
tls:
  ca_file: /etc/ca.pem
`)
	var cfg testConfig
	if err := Load(&cfg, WithConfigFile(path), WithoutSearch(), WithFileSystem(&mockFS{})); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := testConfig{
		BaseURL:     "https://example.test/v1",
		AccessToken: "from-file",
		Timeout:     3 * time.Second,
		TLS:         tlsSection{CAFile: "/etc/ca.pem"},
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "petjeaf.yml", "access_token: from-file\ntimeout: 3s\n")
	fs := &mockFS{env: []string{
		"PETJEAF_ACCESS_TOKEN=\"from-env\"",
		"PETJEAF_TLS_CA_FILE=/tmp/ca.pem",
		"OTHER_ACCESS_TOKEN=ignored",
		"PETJEAF_=ignored",
	}}

	var cfg testConfig
	if err := Load(&cfg, WithConfigFile(path), WithoutSearch(), WithFileSystem(fs)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AccessToken != "from-env" {
		t.Errorf("expected env override with quotes stripped, got %q", cfg.AccessToken)
	}
	if cfg.TLS.CAFile != "/tmp/ca.pem" {
		t.Errorf("expected nested env binding, got %q", cfg.TLS.CAFile)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected file value kept, got %v", cfg.Timeout)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	fs := &mockFS{
		files:    map[string]bool{".env.petjeaf": true},
		envFiles: map[string][]string{".env.petjeaf": {"PETJEAF_BASE_URL=https://dotenv.test"}},
	}
	var cfg testConfig
	if err := Load(&cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(fs.loaded, []string{".env.petjeaf"}) {
		t.Errorf("expected .env.petjeaf to be loaded, got %v", fs.loaded)
	}
	if cfg.BaseURL != "https://dotenv.test" {
		t.Errorf("got %q", cfg.BaseURL)
	}
}

func TestLoad_CustomPrefix(t *testing.T) {
	fs := &mockFS{env: []string{"APP_ACCESS_TOKEN=tok", "PETJEAF_ACCESS_TOKEN=other"}}
	var cfg testConfig
	if err := Load(&cfg, WithEnvPrefix("APP_"), WithoutSearch(), WithFileSystem(fs)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AccessToken != "tok" {
		t.Errorf("got %q", cfg.AccessToken)
	}
}

func TestLoad_MissingExplicitFileIsSkipped(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg, WithConfigFile(filepath.Join(t.TempDir(), "absent.yml")), WithoutSearch(), WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("expected missing file to be skipped, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "petjeaf.yml", "base_url: [unterminated\n")
	var cfg testConfig
	err := Load(&cfg, WithConfigFile(path), WithoutSearch(), WithFileSystem(&mockFS{}))
	if err == nil || !strings.Contains(err.Error(), "config: read") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestResolveFiles(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]bool
		opts   LoaderConfig
		expect ResolvedFiles
	}{
		{
			name:   "explicit files win",
			files:  map[string]bool{"petjeaf.yml": true, ".env": true},
			opts:   LoaderConfig{ConfigFile: "custom.yml", EnvFile: "custom.env"},
			expect: ResolvedFiles{ConfigFile: "custom.yml", EnvFile: "custom.env"},
		},
		{
			name:   "first search hit",
			files:  map[string]bool{"petjeaf.yaml": true, filepath.Join("config", "petjeaf.yml"): true, ".env": true},
			expect: ResolvedFiles{ConfigFile: "petjeaf.yaml", EnvFile: ".env"},
		},
		{
			name:   "config directory",
			files:  map[string]bool{filepath.Join("config", "petjeaf.yml"): true, filepath.Join("config", ".env.petjeaf"): true},
			expect: ResolvedFiles{ConfigFile: filepath.Join("config", "petjeaf.yml"), EnvFile: filepath.Join("config", ".env.petjeaf")},
		},
		{
			name:   "search disabled",
			files:  map[string]bool{"petjeaf.yml": true},
			opts:   LoaderConfig{NoSearch: true},
			expect: ResolvedFiles{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Resolver{FileSystem: &strictFS{files: tc.files}}
			if got := r.ResolveFiles(tc.opts); got != tc.expect {
				t.Errorf("got %+v, want %+v", got, tc.expect)
			}
		})
	}
}

// strictFS only knows the files it is given.
type strictFS struct{ files map[string]bool }

func (s *strictFS) Exists(path string) bool { return s.files[path] }
func (s *strictFS) LoadEnv(string) error    { return nil }
func (s *strictFS) Environ() []string       { return nil }

func TestGenerateEnvKeyVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"TIMEOUT", []string{"timeout"}},
		{"ACCESS_TOKEN", []string{"access_token", "access.token"}},
		{"TLS_CA_FILE", []string{"tls_ca_file", "tls.ca.file", "tls.ca_file"}},
	}
	for _, tc := range tests {
		if got := generateEnvKeyVariants(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("generateEnvKeyVariants(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRemoveDuplicates(t *testing.T) {
	got := removeDuplicates([]string{"a", "b", "a", "c", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("got %v", got)
	}
}
