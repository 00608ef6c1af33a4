// Package config handles workspace and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/profiler/config.yml.
type GlobalConfig struct {
	WorkspacePath  string `yaml:"workspace_path,omitempty"`
	OpenAlexMailto string `yaml:"openalex_mailto,omitempty"`
	OpenAIAPIKey   string `yaml:"openai_api_key,omitempty"`
	OpenAIModel    string `yaml:"openai_model,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "profiler"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/profiler/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.WorkspacePath != "" {
		cfg.WorkspacePath = ExpandPath(cfg.WorkspacePath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// GetWorkspacePath returns the configured workspace path, or "" if unset.
// Errors loading the global config are treated as "not configured".
func GetWorkspacePath() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.WorkspacePath
}

// ResetGlobalConfigCache clears the cached global config (for tests).
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetConfigValue returns the environment variable value if set,
// otherwise the config file value.
func GetConfigValue(envVar, configValue string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return configValue
}

// GetOpenAIAPIKey returns the OpenAI API key from OPENAI_API_KEY or the
// global config.
func GetOpenAIAPIKey() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		cfg = &GlobalConfig{}
	}
	return GetConfigValue("OPENAI_API_KEY", cfg.OpenAIAPIKey)
}

// GetOpenAIModel returns the chat model from OPENAI_MODEL or the global
// config. Empty means "use the client default".
func GetOpenAIModel() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		cfg = &GlobalConfig{}
	}
	return GetConfigValue("OPENAI_MODEL", cfg.OpenAIModel)
}

// GetOpenAlexMailto returns the contact address sent to OpenAlex, from
// OPENALEX_MAILTO or the global config. OpenAlex grants polite-pool rate
// limits when one is supplied.
func GetOpenAlexMailto() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		cfg = &GlobalConfig{}
	}
	return GetConfigValue("OPENALEX_MAILTO", cfg.OpenAlexMailto)
}

// HelpfulConfigMessage returns guidance for when no workspace is found.
func HelpfulConfigMessage() string {
	return fmt.Sprintf(`No profiler workspace found.

Either run 'profiler init' in the directory that should hold the roster,
or point the global config at an existing workspace:

  %s:
    workspace_path: ~/path/to/roster`, GlobalConfigPath())
}
