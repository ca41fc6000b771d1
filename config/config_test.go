package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/kbukum/errhook/errors"
	"github.com/kbukum/errhook/validation"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestBaseConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{Base: BaseConfig{Name: "svc"}}
	cfg.ApplyDefaults()

	if cfg.Base.Version == "" {
		t.Error("expected version from build metadata")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("development should default to debug logging, got %q", cfg.Logging.Level)
	}
	if cfg.Hooks.Level != "error" {
		t.Errorf("expected hooks level error, got %q", cfg.Hooks.Level)
	}
	if cfg.Observability.Endpoint == "" {
		t.Error("expected observability defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{Base: BaseConfig{Name: "svc", Environment: "staging"}}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name       string
		mutate     func(*Config)
		wantFields []string
	}{
		{"valid", func(*Config) {}, nil},
		{"missing name", func(c *Config) { c.Base.Name = "" }, []string{"base.name"}},
		{"invalid environment", func(c *Config) { c.Base.Environment = "qa" }, []string{"base.environment"}},
		{"bad hooks level", func(c *Config) { c.Hooks.Level = "loud" }, []string{"hooks.level"}},
		{"bad logging format", func(c *Config) { c.Logging.Format = "xml" }, []string{"logging"}},
		{"bad sample rate", func(c *Config) { r := 2.0; c.Observability.SampleRate = &r }, []string{"observability"}},
		{"bad retry jitter", func(c *Config) { c.Retry.Jitter = 1.5 }, []string{"retry.jitter"}},
		{"everything at once", func(c *Config) {
			c.Base.Name = ""
			c.Hooks.Level = "loud"
			c.Logging.Level = "loud"
		}, []string{"base.name", "hooks.level", "logging"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantFields == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != errors.ErrCodeInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %s", err.Code)
			}
			fields, _ := err.Details["fields"].([]validation.FieldError)
			var got []string
			for _, fe := range fields {
				got = append(got, fe.Field)
			}
			if !slices.Equal(got, tc.wantFields) {
				t.Errorf("expected fields %v, got %v", tc.wantFields, got)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
base:
  name: test-service
  environment: staging
  version: "1.0.0"
logging:
  format: json
observability:
  sample_rate: 0.25
  interval: 5s
hooks:
  level: warn
  include_chain: true
retry:
  max_attempts: 5
  initial_backoff: 20ms
`)

	var cfg Config
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Base.Name != "test-service" || cfg.Base.Environment != "staging" {
		t.Errorf("unexpected base %+v", cfg.Base)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json logging, got %q", cfg.Logging.Format)
	}
	if r := cfg.Observability.SampleRate; r == nil || *r != 0.25 || cfg.Observability.Interval.String() != "5s" {
		t.Errorf("unexpected observability %+v", cfg.Observability)
	}
	if cfg.Hooks.Level != "warn" || !cfg.Hooks.IncludeChain {
		t.Errorf("unexpected hooks %+v", cfg.Hooks)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.InitialBackoff.String() != "20ms" {
		t.Errorf("unexpected retry %+v", cfg.Retry)
	}
}

func TestLoadConfigZeroSampleRate(t *testing.T) {
	path := writeFile(t, "config.yml", "base:\n  name: svc\nobservability:\n  sample_rate: 0\n")
	cfg, err := Load("svc", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r := cfg.Observability.SampleRate; r == nil || *r != 0 {
		t.Errorf("explicit sample_rate 0 must survive defaults, got %v", r)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yml", "base:\n  name: svc\nhooks:\n  level: warn\n")
	t.Setenv("ERRHOOK_HOOKS_LEVEL", "info")
	t.Setenv("ERRHOOK_HOOKS_INCLUDE_STACK", "true")
	t.Setenv("HOOKS_LEVEL", "debug")

	var cfg Config
	if err := LoadConfig("svc", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Hooks.Level != "info" {
		t.Errorf("expected prefixed env to win, got %q", cfg.Hooks.Level)
	}
	if !cfg.Hooks.IncludeStack {
		t.Error("expected include_stack from env")
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	envPath := writeFile(t, ".env", "ERRHOOK_BASE_NAME=from-dotenv\n")
	defer os.Unsetenv("ERRHOOK_BASE_NAME")

	var cfg Config
	if err := LoadConfig("svc", &cfg, WithConfigFile("/nonexistent/config.yml"), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Base.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Base.Name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg Config
	if err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := writeFile(t, "config.yml", "base: [unclosed\n")
	var cfg Config
	err := LoadConfig("svc", &cfg, WithConfigFile(path))
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %q", errors.CodeOf(err))
	}
	if !strings.HasPrefix(err.Error(), "read config file") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yml", "logging:\n  format: json\n")
	cfg, err := Load("named-by-caller", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Base.Name != "named-by-caller" {
		t.Errorf("expected service name fallback, got %q", cfg.Base.Name)
	}
	if cfg.Base.Environment != "development" || cfg.Hooks.Level != "error" {
		t.Errorf("expected defaults applied, got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeFile(t, "config.yml", "base:\n  environment: qa\n")
	cfg, err := Load("svc", WithConfigFile(path))
	if err == nil || cfg != nil {
		t.Fatalf("expected validation failure, got %+v, %v", cfg, err)
	}
	ae, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if got := ae.Chain(); len(got) != 2 || got[0] != "invalid configuration" {
		t.Errorf("unexpected chain %v", got)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/my-svc/config.yml": true,
		"./config/.env":           true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("my-svc", LoaderConfig{})
	if files.ConfigFile != "./cmd/my-svc/config.yml" {
		t.Errorf("expected config file at ./cmd/my-svc/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./config/.env" {
		t.Errorf("expected env file at ./config/.env, got %q", files.EnvFile)
	}
}

func TestResolverPrefersServiceEnvFile(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./.env":        true,
		"./.env.my-svc": true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("my-svc", LoaderConfig{})
	if files.EnvFile != "./.env.my-svc" {
		t.Errorf("expected service env file, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	files := (&Resolver{FileSystem: &mockFS{}}).ResolveFiles("svc", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
		t.Errorf("explicit paths should win, got %+v", files)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	for _, opt := range []LoaderOption{WithFileSystem(fs), WithConfigFile("/c.yml"), WithEnvFile("/.env")} {
		opt(&lc)
	}
	if lc.FileSystem != fs || lc.ConfigFile != "/c.yml" || lc.EnvFile != "/.env" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}

func TestEnvKeys(t *testing.T) {
	got := envKeys("HOOKS_INCLUDE_CHAIN")
	for _, want := range []string{"hooks_include_chain", "hooks.include.chain", "hooks.include_chain"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected %q in %v", want, got)
		}
	}
	if got := envKeys("NAME"); !slices.Equal(got, []string{"name"}) {
		t.Errorf("expected [name], got %v", got)
	}
}
