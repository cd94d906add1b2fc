package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
	"github.com/adalundhe/floyd/core/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("github.com/fsnotify/fsnotify.(*inotify).readEvents"))
}

func testManager(t *testing.T, opts ...ManagerOption) (*Manager, string) {
	t.Helper()
	userDir := t.TempDir()
	dirs := &storage.Dirs{Config: userDir, State: t.TempDir()}
	opts = append([]ManagerOption{WithProjectRoot(t.TempDir())}, opts...)
	return NewManager(dirs, opts...), userDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr: got %s, want :8080", cfg.Server.Addr)
	}
	if cfg.Providers.Default != providers.ProviderTypeOpenAI {
		t.Errorf("Providers.Default: got %s, want openai", cfg.Providers.Default)
	}
	if len(cfg.Routing.Selectors) != 1 || cfg.Routing.Selectors[0] != "floyd" {
		t.Errorf("Routing.Selectors: got %v, want [floyd]", cfg.Routing.Selectors)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestManagerGet(t *testing.T) {
	m, _ := testManager(t)
	require.NotNil(t, m.Get())
	assert.Equal(t, "info", m.Get().Log.Level)
}

func TestManagerLayering(t *testing.T) {
	m, userDir := testManager(t)
	project := storage.ResolveProjectDirs(m.projectRoot)

	writeFile(t, project.Config, `
server:
  addr: ":9000"
routing:
  selectors: [floyd, robot]
personas:
  GoSomewhere:
    max_output_tokens: 250
`)
	writeFile(t, filepath.Join(userDir, "config.yaml"), `
providers:
  default: anthropic
  anthropic:
    model: claude-sonnet-4-5-20250929
personas:
  GoSomewhere:
    assistant_id: asst_user
`)
	writeFile(t, project.LocalConfig(), `
server:
  debug_errors: true
log:
  level: debug
`)

	require.NoError(t, m.Load())
	cfg := m.Get()

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.True(t, cfg.Server.DebugErrors)
	assert.Equal(t, []string{"floyd", "robot"}, cfg.Routing.Selectors)
	assert.Equal(t, providers.ProviderTypeAnthropic, cfg.Providers.Default)
	require.NotNil(t, cfg.Providers.Anthropic)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Providers.Anthropic.Model)
	assert.Equal(t, "debug", cfg.Log.Level)

	gs := cfg.Personas["GoSomewhere"]
	assert.Equal(t, int64(250), gs.MaxOutputTokens)
	assert.Equal(t, "asst_user", gs.AssistantID)
}

func TestManagerExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floyd.yaml")
	writeFile(t, path, `
server:
  timeout: 45s
routing:
  default_label: Nonsense
  priority: [Nonsense, GoSomewhere]
`)
	m, _ := testManager(t, WithFile(path))

	require.NoError(t, m.Load())
	cfg := m.Get()
	assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
	assert.Equal(t, persona.Nonsense, cfg.Routing.Routing.DefaultLabel)
	assert.Equal(t, []persona.Label{persona.Nonsense, persona.GoSomewhere}, cfg.Routing.Routing.Priority)
}

func TestManagerExplicitFileMustExist(t *testing.T) {
	m, _ := testManager(t, WithFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, m.Load())
}

func TestManagerRejectsUnknownKeys(t *testing.T) {
	m, userDir := testManager(t)
	writeFile(t, filepath.Join(userDir, "config.yaml"), "server:\n  adress: \":1\"\n")

	require.Error(t, m.Load())
	assert.Equal(t, ":8080", m.Get().Server.Addr, "failed load keeps the previous snapshot")
}

func TestManagerRejectsInvalidConfig(t *testing.T) {
	m, userDir := testManager(t)
	writeFile(t, filepath.Join(userDir, "config.yaml"), "providers:\n  default: mystery\n")
	assert.Error(t, m.Load())

	writeFile(t, filepath.Join(userDir, "config.yaml"), "log:\n  format: xml\n")
	assert.Error(t, m.Load())

	writeFile(t, filepath.Join(userDir, "config.yaml"), "personas:\n  bartender:\n    temperature: 0.5\n")
	assert.Error(t, m.Load())
}

func TestManagerEnvironmentOverride(t *testing.T) {
	t.Setenv("FLOYD_SERVER_ADDR", ":7070")
	t.Setenv("FLOYD_DEFAULT_PROVIDER", "google")
	t.Setenv("FLOYD_SELECTORS", "floyd, robot ,")
	t.Setenv("FLOYD_LOG_FORMAT", "json")

	m, _ := testManager(t)
	require.NoError(t, m.Load())

	cfg := m.Get()
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr: got %s, want :7070", cfg.Server.Addr)
	}
	if cfg.Providers.Default != providers.ProviderTypeGoogle {
		t.Errorf("Default provider: got %s, want google", cfg.Providers.Default)
	}
	assert.Equal(t, []string{"floyd", "robot"}, cfg.Routing.Selectors)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestManagerLegacyAssistantEnvironment(t *testing.T) {
	t.Setenv("OPENAI_ROUTER_ASSISTANT_ID", "asst_router")
	t.Setenv("OPENAI_GOSOMEWHERE_ASSISTANT_ID", "asst_go")
	t.Setenv("OPENAI_FLOYD_BASIC_RESPONSE_ASSISTANT_ID", "asst_basic")

	m, _ := testManager(t)
	require.NoError(t, m.Load())
	cfg := m.Get()

	assert.Equal(t, "asst_router", cfg.Personas["router"].AssistantID)
	assert.Equal(t, "asst_go", cfg.Personas["GoSomewhere"].AssistantID)
	assert.Equal(t, "asst_basic", cfg.Personas["basic_response"].AssistantID)
	require.NotNil(t, cfg.Providers.Assistants, "legacy bindings enable the assistants provider")
	assert.Equal(t, time.Second, cfg.Providers.Assistants.PollInterval)
}

func TestManagerOnChange(t *testing.T) {
	m, _ := testManager(t)

	called := false
	m.OnChange(func(cfg *Config) {
		called = true
	})

	require.NoError(t, m.Load())
	if !called {
		t.Error("OnChange callback should have been called")
	}
}

func TestManagerReload(t *testing.T) {
	m, userDir := testManager(t)
	configPath := filepath.Join(userDir, "config.yaml")

	writeFile(t, configPath, "server:\n  addr: \":1111\"\n")
	require.NoError(t, m.Load())
	first := m.Get()
	assert.Equal(t, ":1111", first.Server.Addr)

	writeFile(t, configPath, "server:\n  addr: \":2222\"\n")
	require.NoError(t, m.Reload())
	assert.Equal(t, ":2222", m.Get().Server.Addr)
	assert.Equal(t, ":1111", first.Server.Addr, "snapshots are immutable")
}

func TestManagerWatch(t *testing.T) {
	m, userDir := testManager(t)
	configPath := filepath.Join(userDir, "config.yaml")
	writeFile(t, configPath, "server:\n  addr: \":1111\"\n")
	require.NoError(t, m.Load())

	var reloads atomic.Int32
	m.OnChange(func(*Config) { reloads.Add(1) })

	require.NoError(t, m.Watch(10*time.Millisecond))
	defer m.Close()

	writeFile(t, configPath, "server:\n  addr: \":3333\"\n")

	assert.Eventually(t, func() bool {
		return m.Get().Server.Addr == ":3333"
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, reloads.Load(), int32(1))
}

func TestManagerClose(t *testing.T) {
	m, _ := testManager(t)
	require.NoError(t, m.Watch(DefaultDebounce))

	if err := m.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Double close should not fail: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "info", "warn", "error", "INFO"} {
		if _, err := ParseLevel(name); err != nil {
			t.Errorf("ParseLevel(%q): %v", name, err)
		}
	}
	if _, err := ParseLevel("chatty"); err == nil {
		t.Error("ParseLevel should reject unknown levels")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected a JSON record, got %s", out)
	}

	if _, err := NewLogger(&buf, LogConfig{Level: "info", Format: "xml"}); err == nil {
		t.Error("NewLogger should reject unknown formats")
	}
}
