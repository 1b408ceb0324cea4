// Package config loads configuration from a YAML file and environment
// variables. The resulting Config is constructed once at startup and passed
// by reference into each component; there is no ambient settings singleton.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teemow/jobagent/internal/domain"
)

// Labels maps classification categories to mailbox label names. Names are
// matched case-insensitively and created on first use.
type Labels struct {
	Acceptance string `yaml:"acceptance"`
	Rejection  string `yaml:"rejection"`
	JobAlert   string `yaml:"job_alert"`
	Interview  string `yaml:"interview"`
	Other      string `yaml:"other"`
}

// AgentConfig names one virtual team member and the role it serves.
type AgentConfig struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// Config holds all settings for the agent.
type Config struct {
	// Google OAuth client used for mailbox access.
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`

	// Anthropic classifier. An empty API key switches the classifier to
	// its keyword fallback.
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`

	DBPath string `yaml:"db_path"`

	// Triage defaults, overridable per run on the command line.
	Query       string `yaml:"query"`
	MaxMessages int64  `yaml:"max_messages"`
	Labels      Labels `yaml:"labels"`

	// Virtual agent team. Unknown roles are reported at startup, not at
	// dispatch time.
	Team []AgentConfig `yaml:"team"`

	// Per-plan application caps.
	MaxApplicationsFree   int `yaml:"max_applications_free"`
	MaxApplicationsPro    int `yaml:"max_applications_pro"`
	MaxApplicationsAgency int `yaml:"max_applications_agency"`

	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from path (skipped when the file is absent),
// applies environment variable overrides, fills defaults and validates.
// A validation failure aborts startup before any processing begins.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if envPath := os.Getenv("JOBAGENT_CONFIG"); envPath != "" {
		path = envPath
	}
	if path == "" {
		path = "jobagent.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	envOverride(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	envOverride(&cfg.GoogleClientSecret, "GOOGLE_CLIENT_SECRET")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.AnthropicModel, "ANTHROPIC_MODEL")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.Query, "JOBAGENT_QUERY")
	envOverride(&cfg.LogLevel, "LOG_LEVEL")
	if err := envOverrideInt64(&cfg.MaxMessages, "JOBAGENT_MAX_MESSAGES"); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AnthropicModel == "" {
		c.AnthropicModel = "claude-sonnet-4-5-20250929"
	}
	if c.DBPath == "" {
		c.DBPath = "./jobagent.db"
	}
	if c.Query == "" {
		c.Query = "is:unread"
	}
	if c.MaxMessages == 0 {
		c.MaxMessages = 50
	}
	if c.Labels.Acceptance == "" {
		c.Labels.Acceptance = "Acceptances"
	}
	if c.Labels.Rejection == "" {
		c.Labels.Rejection = "Rejections"
	}
	if c.Labels.JobAlert == "" {
		c.Labels.JobAlert = "JobAlerts"
	}
	if c.Labels.Interview == "" {
		c.Labels.Interview = "Interviews"
	}
	if c.Labels.Other == "" {
		c.Labels.Other = "NeedsReview"
	}
	if len(c.Team) == 0 {
		c.Team = []AgentConfig{
			{Name: "Reviewer", Role: "reviewer"},
			{Name: "Scheduler", Role: "scheduler"},
			{Name: "FeedbackWriter", Role: "feedback_writer"},
			{Name: "Archiver", Role: "archiver"},
		}
	}
	if c.MaxApplicationsFree == 0 {
		c.MaxApplicationsFree = 10
	}
	if c.MaxApplicationsPro == 0 {
		c.MaxApplicationsPro = 100
	}
	if c.MaxApplicationsAgency == 0 {
		c.MaxApplicationsAgency = 999999
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.MaxMessages < 1 {
		return fmt.Errorf("max_messages must be >= 1, got %d", c.MaxMessages)
	}
	if c.MaxApplicationsFree < 1 || c.MaxApplicationsPro < 1 || c.MaxApplicationsAgency < 1 {
		return fmt.Errorf("application caps must be >= 1")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// MaxApplications returns the application cap for the given plan.
func (c *Config) MaxApplications(plan domain.Plan) int {
	switch plan {
	case domain.PlanPro:
		return c.MaxApplicationsPro
	case domain.PlanAgency:
		return c.MaxApplicationsAgency
	default:
		return c.MaxApplicationsFree
	}
}

// LabelFor returns the folder label name configured for a category.
func (c *Config) LabelFor(category string) string {
	switch category {
	case "acceptance":
		return c.Labels.Acceptance
	case "rejection":
		return c.Labels.Rejection
	case "job_alert":
		return c.Labels.JobAlert
	case "interview":
		return c.Labels.Interview
	default:
		return c.Labels.Other
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt64(field *int64, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = parsed
	return nil
}
