package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all alterego configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Who the bot speaks for
	Persona PersonaConfig `yaml:"persona"`

	// Primary responder and reviser endpoint
	Responder LLMConfig `yaml:"responder"`

	// Independently configured evaluator endpoint
	Evaluator LLMConfig `yaml:"evaluator"`

	// Message-triggered system prompt mutations
	Rules []RuleConfig `yaml:"rules"`

	// Notification sink
	Notify NotifyConfig `yaml:"notify"`

	// Web chat surface
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PersonaConfig points at the static persona inputs.
type PersonaConfig struct {
	Name        string `yaml:"name"`
	SummaryPath string `yaml:"summary_path"`
	ProfilePath string `yaml:"profile_path"` // .pdf is text-extracted, anything else read as text
}

// LLMConfig configures one provider endpoint.
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`

	// APIKeyEnv names the environment variable holding the key. Empty
	// selects by endpoint, see KeyEnvs.
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// RuleConfig adds a case-sensitive substring rule: when a message contains
// Contains, Instruction is appended to the responder's system prompt.
type RuleConfig struct {
	Name        string `yaml:"name"`
	Contains    string `yaml:"contains"`
	Instruction string `yaml:"instruction"`
}

// NotifyConfig configures the notification sink.
type NotifyConfig struct {
	Pushover PushoverConfig `yaml:"pushover"`
}

// PushoverConfig holds Pushover credentials. Empty credentials disable pushes.
type PushoverConfig struct {
	User    string `yaml:"user"`
	Token   string `yaml:"token"`
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// ServerConfig configures the web chat surface.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

// Providers understood by the client factory.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{ProviderOpenAI, ProviderGemini}

// PatentInstruction is the wordplay instruction of the default "patent" rule.
const PatentInstruction = "Everything in your reply needs to be in pig latin - it is mandatory that you respond only and entirely in pig latin"

// DefaultPushoverURL is the Pushover messages endpoint.
const DefaultPushoverURL = "https://api.pushover.net/1/messages.json"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "alterego",
		Version: "0.3.0",

		Persona: PersonaConfig{
			Name:        "Ed Donner",
			SummaryPath: "me/summary.txt",
			ProfilePath: "me/linkedin.pdf",
		},

		Responder: LLMConfig{
			Provider: ProviderOpenAI,
			Model:    "gpt-4o-mini",
			BaseURL:  "https://api.openai.com/v1",
			Timeout:  "120s",
		},

		Evaluator: LLMConfig{
			Provider: ProviderGemini,
			Model:    "gemini-2.0-flash",
			Timeout:  "120s",
		},

		Rules: []RuleConfig{
			{Name: "patent", Contains: "patent", Instruction: PatentInstruction},
		},

		Notify: NotifyConfig{
			Pushover: PushoverConfig{
				URL:     DefaultPushoverURL,
				Timeout: "10s",
			},
		},

		Server: ServerConfig{
			Addr:            ":7860",
			ShutdownTimeout: "10s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment, overriding existing values. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Overload(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// geminiHost serves both the native Gemini API and its OpenAI-compatible endpoint.
const geminiHost = "generativelanguage.googleapis.com"

// KeyEnvs returns the environment variables that may hold this endpoint's
// key, lowest priority first. Google endpoints read GOOGLE_API_KEY then
// GEMINI_API_KEY whatever the provider; everything else reads OPENAI_API_KEY.
func (l LLMConfig) KeyEnvs() []string {
	if l.APIKeyEnv != "" {
		return []string{l.APIKeyEnv}
	}
	if l.Provider == ProviderGemini {
		return []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}
	}
	if u, err := url.Parse(l.BaseURL); err == nil && u.Hostname() == geminiHost {
		return []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}
	}
	return []string{"OPENAI_API_KEY"}
}

// applyKeyEnv replaces APIKey with the highest-priority non-empty variable
// from KeyEnvs. The environment wins over a key written in the YAML file.
func (l *LLMConfig) applyKeyEnv() {
	for _, env := range l.KeyEnvs() {
		if key := os.Getenv(env); key != "" {
			l.APIKey = key
		}
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	c.Responder.applyKeyEnv()
	c.Evaluator.applyKeyEnv()

	if user := os.Getenv("PUSHOVER_USER"); user != "" {
		c.Notify.Pushover.User = user
	}
	if token := os.Getenv("PUSHOVER_TOKEN"); token != "" {
		c.Notify.Pushover.Token = token
	}

	if addr := os.Getenv("ALTEREGO_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("ALTEREGO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Persona.Name == "" {
		return fmt.Errorf("persona name not configured")
	}
	if err := c.Responder.validate("responder"); err != nil {
		return err
	}
	if err := c.Evaluator.validate("evaluator"); err != nil {
		return err
	}
	for i, r := range c.Rules {
		if r.Contains == "" {
			return fmt.Errorf("rule %d (%s): contains must not be empty", i, r.Name)
		}
		if r.Instruction == "" {
			return fmt.Errorf("rule %d (%s): instruction must not be empty", i, r.Name)
		}
	}
	return nil
}

func (l LLMConfig) validate(role string) error {
	valid := false
	for _, p := range ValidProviders {
		if l.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid %s provider: %q (valid: %v)", role, l.Provider, ValidProviders)
	}
	if l.APIKey == "" {
		return fmt.Errorf("%s API key not configured (set %v)", role, l.KeyEnvs())
	}
	if l.Model == "" {
		return fmt.Errorf("%s model not configured", role)
	}
	return nil
}

// GetTimeout returns the endpoint timeout as a duration.
func (l LLMConfig) GetTimeout() time.Duration {
	return parseDuration(l.Timeout, 120*time.Second)
}

// GetTimeout returns the Pushover request timeout as a duration.
func (p PushoverConfig) GetTimeout() time.Duration {
	return parseDuration(p.Timeout, 10*time.Second)
}

// Enabled reports whether Pushover credentials are present.
func (p PushoverConfig) Enabled() bool {
	return p.User != "" && p.Token != ""
}

// GetShutdownTimeout returns the graceful shutdown window as a duration.
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(s.ShutdownTimeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
