package config

import (
	"fmt"
	"strings"

	"jira_mcp/internal/workflow"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Jira configuration
	JiraURL      string // Required: base URL, e.g. https://acme.atlassian.net
	JiraEmail    string // Optional: with an email the token is used for basic auth
	JiraAPIToken string // Required: API token or personal access token
	JiraProject  string // Optional: default project key for created issues

	// Workflow configuration
	Transitions   workflow.TransitionIDs
	TaskLinkType  string // link type used to attach a Task to its Story
	EpicLinkField string // Optional: custom field for the Epic Link on classic projects

	// Slack notification of automatic transitions
	SlackBotToken string
	SlackChannel  string

	// Log level
	LogLevel string
}

// Environment variables read by Load.
const (
	EnvJiraURL           = "JIRA_URL"
	EnvJiraEmail         = "JIRA_EMAIL"
	EnvJiraAPIToken      = "JIRA_API_TOKEN"
	EnvJiraProject       = "JIRA_PROJECT"
	EnvTransitionStarted = "JIRA_TRANSITION_IN_PROGRESS"
	EnvTransitionDone    = "JIRA_TRANSITION_DONE"
	EnvTaskLinkType      = "JIRA_TASK_LINK_TYPE"
	EnvEpicLinkField     = "JIRA_EPIC_LINK_FIELD"
	EnvSlackBotToken     = "SLACK_BOT_TOKEN"
	EnvSlackChannel      = "SLACK_CHANNEL"
	EnvLogLevel          = "LOG_LEVEL"
	// EnvConfigFile optionally points at a file (yaml, json, toml) holding
	// the same keys; environment variables win over it.
	EnvConfigFile = "JIRA_MCP_CONFIG"
)

// Load creates a new Config from environment variables and the optional
// config file. Every missing required value is reported at once.
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return load(v)
}

// LogLevel resolves LOG_LEVEL from the environment and the config file
// without requiring the Jira settings, so logging can start before them.
func LogLevel() (string, error) {
	v, err := newViper()
	if err != nil {
		return "", err
	}
	return v.GetString(EnvLogLevel), nil
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	defaults := workflow.DefaultTransitionIDs()
	v.SetDefault(EnvTransitionStarted, defaults.InProgress)
	v.SetDefault(EnvTransitionDone, defaults.Done)
	v.SetDefault(EnvTaskLinkType, "Relates")
	v.SetDefault(EnvLogLevel, "info")
	v.AutomaticEnv()

	if path := v.GetString(EnvConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return v, nil
}

func load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		JiraURL:      strings.TrimSuffix(v.GetString(EnvJiraURL), "/"),
		JiraEmail:    v.GetString(EnvJiraEmail),
		JiraAPIToken: v.GetString(EnvJiraAPIToken),
		JiraProject:  v.GetString(EnvJiraProject),
		Transitions: workflow.TransitionIDs{
			InProgress: v.GetString(EnvTransitionStarted),
			Done:       v.GetString(EnvTransitionDone),
		},
		TaskLinkType:  v.GetString(EnvTaskLinkType),
		EpicLinkField: v.GetString(EnvEpicLinkField),
		SlackBotToken: v.GetString(EnvSlackBotToken),
		SlackChannel:  v.GetString(EnvSlackChannel),
		LogLevel:      v.GetString(EnvLogLevel),
	}

	// Load required values
	requiredVars := []struct {
		env   string
		value string
	}{
		{EnvJiraURL, cfg.JiraURL},
		{EnvJiraAPIToken, cfg.JiraAPIToken},
	}

	var missingVars []string
	for _, r := range requiredVars {
		if r.value == "" {
			missingVars = append(missingVars, r.env)
		}
	}
	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

// SlackEnabled reports whether transition notifications should be posted.
func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}
