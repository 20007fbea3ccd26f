package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/petjeaf/petjeaf-go/logger"
	"github.com/petjeaf/petjeaf-go/util"
)

// DefaultEnvPrefix is the prefix of environment variables read by Load.
const DefaultEnvPrefix = "PETJEAF"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	Environ() []string
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv loads a .env file. Variables already set in the process win.
func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) Environ() []string {
	return os.Environ()
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ConfigSearchPaths are tried in order when no config file is given.
var ConfigSearchPaths = []string{
	"petjeaf.yml",
	"petjeaf.yaml",
	filepath.Join("config", "petjeaf.yml"),
	filepath.Join("config", "petjeaf.yaml"),
}

// EnvSearchPaths are tried in order when no .env file is given.
var EnvSearchPaths = []string{
	".env.petjeaf",
	".env",
	filepath.Join("config", ".env.petjeaf"),
	filepath.Join("config", ".env"),
}

// ResolveFiles returns explicit paths if provided, otherwise the first
// existing entry of the search lists.
func (cr *Resolver) ResolveFiles(opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" && !opts.NoSearch {
		resolved.ConfigFile = cr.first(ConfigSearchPaths)
	}
	if resolved.EnvFile == "" && !opts.NoSearch {
		resolved.EnvFile = cr.first(EnvSearchPaths)
	}
	return resolved
}

func (cr *Resolver) first(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Defaults to PETJEAF
	NoSearch   bool   // Only use explicit files
	Logger     *logger.Logger
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix replaces the PETJEAF environment prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.TrimSuffix(prefix, "_") }
}

// WithoutSearch disables the file search lists.
func WithoutSearch() LoaderOption {
	return func(lc *LoaderConfig) { lc.NoSearch = true }
}

// WithLogger reports skipped files to l.
func WithLogger(l *logger.Logger) LoaderOption {
	return func(lc *LoaderConfig) { lc.Logger = l }
}

// Load fills cfg from the resolved YAML file, the .env file and the
// prefixed environment, in increasing order of precedence. Missing files
// are skipped; files that exist but cannot be parsed are errors.
func Load(cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.Logger == nil {
		lc.Logger = logger.Nop()
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(lc)

	return loadFromResolvedFiles(cfg, files, lc)
}

func loadFromResolvedFiles(cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	fs := lc.FileSystem
	v := viper.New()
	log := lc.Logger.WithComponent("config")

	// 1. YAML base configuration
	if files.ConfigFile != "" {
		if fs.Exists(files.ConfigFile) {
			v.SetConfigFile(files.ConfigFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
			}
		} else {
			log.Debug("config file not found", logger.Fields("file", files.ConfigFile))
		}
	}

	// 2. .env file into the process environment
	if files.EnvFile != "" {
		if fs.Exists(files.EnvFile) {
			if err := fs.LoadEnv(files.EnvFile); err != nil {
				return fmt.Errorf("config: load %s: %w", files.EnvFile, err)
			}
		} else {
			log.Debug("env file not found", logger.Fields("file", files.EnvFile))
		}
	}

	// 3. Prefixed environment variables override everything
	bindPrefixedEnv(v, lc.EnvPrefix, fs.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}
	return nil
}

// bindPrefixedEnv sets every PREFIX_* variable on v under all nested key
// variants of the remainder.
func bindPrefixedEnv(v *viper.Viper, prefix string, environ []string) {
	want := strings.ToUpper(prefix) + "_"
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(strings.ToUpper(key), want) {
			continue
		}
		rest := key[len(want):]
		if rest == "" {
			continue
		}
		value = util.SanitizeEnvValue(value)
		for _, variant := range generateEnvKeyVariants(rest) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates all possible key variants for environment variable binding.
// Examples:
//
//	ACCESS_TOKEN -> [access_token, access.token]
//	TLS_CA_FILE  -> [tls_ca_file, tls.ca.file, tls.ca_file]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Progressive nesting: a.b_c_d, a.b.c_d, ...
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
