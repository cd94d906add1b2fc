package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
	"github.com/adalundhe/floyd/core/storage"
	"gopkg.in/yaml.v3"
)

// Manager holds the current configuration snapshot. Readers get an
// immutable *Config; Load and Reload swap in a new one.
type Manager struct {
	current     atomic.Pointer[Config]
	dirs        *storage.Dirs
	projectRoot string
	file        string
	logger      *slog.Logger

	watchers  []func(*Config)
	watcherMu sync.RWMutex
	stopWatch chan struct{}
	watchOnce sync.Once
	watchWG   sync.WaitGroup
}

type ManagerOption func(*Manager)

// WithProjectRoot sets the directory holding .floyd/. Defaults to ".".
func WithProjectRoot(root string) ManagerOption {
	return func(m *Manager) { m.projectRoot = root }
}

// WithFile adds an explicit config file, applied after every other file.
// Unlike the other layers it must exist.
func WithFile(path string) ManagerOption {
	return func(m *Manager) { m.file = path }
}

func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewManager(dirs *storage.Dirs, opts ...ManagerOption) *Manager {
	m := &Manager{
		dirs:        dirs,
		projectRoot: ".",
		logger:      slog.Default(),
		stopWatch:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.current.Store(DefaultConfig())
	return m
}

func (m *Manager) Get() *Config {
	return m.current.Load()
}

// Paths returns the config files in the order they are applied.
func (m *Manager) Paths() []string {
	project := storage.ResolveProjectDirs(m.projectRoot)
	paths := []string{project.Config}
	if m.dirs != nil {
		paths = append(paths, m.dirs.ConfigDir("config.yaml"))
	}
	paths = append(paths, project.LocalConfig())
	if m.file != "" {
		paths = append(paths, m.file)
	}
	return paths
}

// Load builds a fresh snapshot from defaults, every config file and the
// environment. An invalid result leaves the current snapshot in place.
func (m *Manager) Load() error {
	cfg := DefaultConfig()

	for _, path := range m.Paths() {
		required := path == m.file
		if err := loadYAMLFile(path, required, cfg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	applyEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	m.current.Store(cfg)
	m.notifyWatchers(cfg)
	return nil
}

// loadYAMLFile decodes one layer and merges it over cfg. Unknown keys are
// rejected.
func loadYAMLFile(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return nil
	}
	if err != nil {
		return err
	}

	var layer Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&layer); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	DeepMerge(cfg, &layer)
	return nil
}

// Legacy per-persona assistant bindings, OPENAI_<NAME>_ASSISTANT_ID.
var legacyAssistantEnv = map[string]persona.Label{
	"OPENAI_FLOYD_BASIC_RESPONSE_ASSISTANT_ID": persona.BasicResponse,
	"OPENAI_ROUTER_ASSISTANT_ID":               persona.Router,
	"OPENAI_REWRITESECONDPERSON_ASSISTANT_ID":  persona.RewriteSecondPerson,
	"OPENAI_DOSOMETHING_ASSISTANT_ID":          persona.DoSomething,
	"OPENAI_PICKUP_ASSISTANT_ID":               persona.PickUp,
	"OPENAI_GOSOMEWHERE_ASSISTANT_ID":          persona.GoSomewhere,
	"OPENAI_ASKQUESTION_ASSISTANT_ID":          persona.AskQuestion,
	"OPENAI_GIVEINSTRUCTION_ASSISTANT_ID":      persona.GiveInstruction,
	"OPENAI_SOCIALEMOTIONAL_ASSISTANT_ID":      persona.SocialEmotional,
	"OPENAI_METACOMMAND_ASSISTANT_ID":          persona.MetaCommand,
	"OPENAI_NONSENSE_ASSISTANT_ID":             persona.Nonsense,
	"OPENAI_AMBASSADOR_ASSISTANT_ID":           persona.Ambassador,
	"OPENAI_BLATHER_ASSISTANT_ID":              persona.Blather,
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("FLOYD_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FLOYD_SERVER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.Timeout = d
		}
	}
	if v := os.Getenv("FLOYD_DEBUG_ERRORS"); v != "" {
		cfg.Server.DebugErrors = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("FLOYD_DEFAULT_PROVIDER"); v != "" {
		cfg.Providers.Default = providers.ProviderType(v)
	}
	if v := os.Getenv("FLOYD_SELECTORS"); v != "" {
		cfg.Routing.Selectors = splitList(v)
	}
	if v := os.Getenv("FLOYD_DEFAULT_LABEL"); v != "" {
		cfg.Routing.Routing.DefaultLabel = persona.Label(v)
	}
	if v := os.Getenv("FLOYD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FLOYD_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("FLOYD_ASSISTANT_ID"); v != "" {
		assistants(cfg).DefaultAssistantID = v
	}

	for env, id := range legacyAssistantEnv {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if cfg.Personas == nil {
			cfg.Personas = map[string]persona.Override{}
		}
		o := cfg.Personas[string(id)]
		o.AssistantID = v
		cfg.Personas[string(id)] = o
		assistants(cfg)
	}
}

// assistants returns the assistants provider section, enabling it with
// defaults when absent.
func assistants(cfg *Config) *providers.AssistantsConfig {
	if cfg.Providers.Assistants == nil {
		def := providers.DefaultAssistantsConfig()
		cfg.Providers.Assistants = &def
	}
	return cfg.Providers.Assistants
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (m *Manager) OnChange(fn func(*Config)) {
	m.watcherMu.Lock()
	m.watchers = append(m.watchers, fn)
	m.watcherMu.Unlock()
}

func (m *Manager) notifyWatchers(cfg *Config) {
	m.watcherMu.RLock()
	watchers := m.watchers
	m.watcherMu.RUnlock()

	for _, fn := range watchers {
		fn(cfg)
	}
}

func (m *Manager) Reload() error {
	return m.Load()
}

// Close stops Watch and waits for it to return. Safe to call twice.
func (m *Manager) Close() error {
	m.watchOnce.Do(func() {
		close(m.stopWatch)
	})
	m.watchWG.Wait()
	return nil
}
