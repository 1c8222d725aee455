// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported values for enumerated settings
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	GeneratorTemplate = "template"
	GeneratorLLM      = "llm"

	MatchContains = "contains"
	MatchExact    = "exact"
)

// Config is the full service configuration.
// Values come from defaults, an optional YAML/JSON file, and the environment (highest precedence).
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Search  SearchConfig  `mapstructure:"search"`
	Roadmap RoadmapConfig `mapstructure:"roadmap"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig selects the log encoder and level
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// LLMConfig configures the text-understanding capability.
// An empty key for the selected provider leaves the capability unconfigured.
type LLMConfig struct {
	Provider      string        `mapstructure:"provider"`
	GeminiAPIKey  string        `mapstructure:"gemini_api_key"`
	OpenAIAPIKey  string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url"`
	Model         string        `mapstructure:"model"` // overrides the standard tier model
	MaxInputRunes int           `mapstructure:"max_input_runes"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// SearchConfig configures the insight search capability.
// Missing key or engine id is a valid configuration: insights are skipped.
type SearchConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	EngineID        string        `mapstructure:"engine_id"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ResultsPerTopic int           `mapstructure:"results_per_topic"`
	MaxSkillTopics  int           `mapstructure:"max_skill_topics"`
}

// RoadmapConfig configures the roadmap planner
type RoadmapConfig struct {
	Generator            string `mapstructure:"generator"`
	MatchPolicy          string `mapstructure:"match_policy"`
	MaxResourcesPerPhase int    `mapstructure:"max_resources_per_phase"`
}

// AuthConfig holds credential settings
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

// envBindings maps config keys to the environment variables that set them.
// The first name listed wins when several are set.
var envBindings = map[string][]string{
	"server.port":                     {"PORT"},
	"server.allowed_origins":          {"ALLOWED_ORIGINS"},
	"log.json":                        {"LOG_JSON"},
	"log.debug":                       {"LOG_DEBUG"},
	"llm.provider":                    {"LLM_PROVIDER"},
	"llm.gemini_api_key":              {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"llm.openai_api_key":              {"OPENAI_API_KEY"},
	"llm.openai_base_url":             {"OPENAI_BASE_URL"},
	"llm.model":                       {"LLM_MODEL"},
	"llm.max_input_runes":             {"LLM_MAX_INPUT_RUNES"},
	"llm.timeout":                     {"LLM_TIMEOUT"},
	"search.api_key":                  {"SEARCH_API_KEY"},
	"search.engine_id":                {"SEARCH_ENGINE_ID"},
	"search.timeout":                  {"SEARCH_TIMEOUT"},
	"search.results_per_topic":        {"SEARCH_RESULTS_PER_TOPIC"},
	"search.max_skill_topics":         {"SEARCH_MAX_SKILL_TOPICS"},
	"roadmap.generator":               {"ROADMAP_GENERATOR"},
	"roadmap.match_policy":            {"SKILL_MATCH_POLICY"},
	"roadmap.max_resources_per_phase": {"ROADMAP_MAX_RESOURCES_PER_PHASE"},
	"auth.jwt_secret":                 {"JWT_SECRET"},
	"auth.jwt_expiration_hours":       {"JWT_EXPIRATION_HOURS"},
	"auth.bcrypt_cost":                {"BCRYPT_COST"},
	"auth.password_pepper":            {"PASSWORD_PEPPER"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:3000",
	})
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.openai_base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_input_runes", 12000)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.engine_id", "")
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("search.results_per_topic", 3)
	v.SetDefault("search.max_skill_topics", 3)
	v.SetDefault("roadmap.generator", GeneratorTemplate)
	v.SetDefault("roadmap.match_policy", MatchContains)
	v.SetDefault("roadmap.max_resources_per_phase", 10)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", 1)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.password_pepper", "")
}

// Load reads configuration from defaults, the optional file at path, and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalize trims enumerations and splits comma-separated origins from the environment.
func (c *Config) normalize() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Roadmap.Generator = strings.ToLower(strings.TrimSpace(c.Roadmap.Generator))
	c.Roadmap.MatchPolicy = strings.ToLower(strings.TrimSpace(c.Roadmap.MatchPolicy))

	var origins []string
	for _, o := range c.Server.AllowedOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	c.Server.AllowedOrigins = origins
}

// Validate checks that the configuration has valid values.
// Missing API keys are not errors here; they degrade the matching capability.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}

	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.MaxInputRunes < 0 {
		return fmt.Errorf("config error: 'llm.max_input_runes' must be non-negative")
	}

	if c.Search.MaxSkillTopics < 0 || c.Search.MaxSkillTopics > 3 {
		return fmt.Errorf("config error: 'search.max_skill_topics' must be between 0 and 3, got %d", c.Search.MaxSkillTopics)
	}
	if c.Search.ResultsPerTopic < 1 || c.Search.ResultsPerTopic > 10 {
		return fmt.Errorf("config error: 'search.results_per_topic' must be between 1 and 10, got %d", c.Search.ResultsPerTopic)
	}

	switch c.Roadmap.Generator {
	case GeneratorTemplate, GeneratorLLM:
	default:
		return fmt.Errorf("config error: unknown roadmap generator %q", c.Roadmap.Generator)
	}
	switch c.Roadmap.MatchPolicy {
	case MatchContains, MatchExact:
	default:
		return fmt.Errorf("config error: unknown skill match policy %q", c.Roadmap.MatchPolicy)
	}
	if c.Roadmap.MaxResourcesPerPhase < 1 {
		return fmt.Errorf("config error: 'roadmap.max_resources_per_phase' must be positive")
	}

	return nil
}

// TextUnderstandingAPIKey returns the key for the selected LLM provider
func (c *Config) TextUnderstandingAPIKey() string {
	if c.LLM.Provider == ProviderOpenAI {
		return c.LLM.OpenAIAPIKey
	}
	return c.LLM.GeminiAPIKey
}

// SearchConfigured reports whether both search credentials are present
func (c *Config) SearchConfigured() bool {
	return c.Search.APIKey != "" && c.Search.EngineID != ""
}
