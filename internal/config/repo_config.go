package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RepoConfig represents the per-repository configuration, stored as JSON
// at <gitDir>/gitstack/config.json. Unset fields fall back to the global
// config and then to built-in defaults.
type RepoConfig struct {
	Trunk  *string `json:"trunk,omitempty"`
	Remote *string `json:"remote,omitempty"`
}

func repoConfigPath(gitDir string) string {
	return filepath.Join(gitDir, "gitstack", "config.json")
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(gitDir string) (*RepoConfig, error) {
	data, err := os.ReadFile(repoConfigPath(gitDir))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

func saveRepoConfig(gitDir string, config *RepoConfig) error {
	path := repoConfigPath(gitDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, configJSON, 0o600)
}

// IsInitialized checks if git-stack has been initialized in this repository
func IsInitialized(gitDir string) bool {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		return false
	}
	return config.Trunk != nil && *config.Trunk != ""
}

// GetTrunk returns the configured trunk branch name. Falls back to the
// global config, then to "main".
func GetTrunk(gitDir string) (string, error) {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		return "", err
	}

	if config.Trunk != nil && *config.Trunk != "" {
		return *config.Trunk, nil
	}

	if trunk := GlobalTrunkDefault(); trunk != "" {
		return trunk, nil
	}

	return "main", nil
}

// SetTrunk updates the trunk branch in the config
func SetTrunk(gitDir string, trunkName string) error {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		config = &RepoConfig{}
	}

	config.Trunk = &trunkName
	return saveRepoConfig(gitDir, config)
}

// GetConfiguredRemote returns the remote to sync against. Falls back to the
// global config, then to the empty string, which callers resolve against
// the repository's actual remotes.
func GetConfiguredRemote(gitDir string) (string, error) {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		return "", err
	}

	if config.Remote != nil && *config.Remote != "" {
		return *config.Remote, nil
	}

	return GlobalRemoteDefault(), nil
}

// SetRemote updates the remote in the config
func SetRemote(gitDir string, remote string) error {
	config, err := GetRepoConfig(gitDir)
	if err != nil {
		config = &RepoConfig{}
	}

	config.Remote = &remote
	return saveRepoConfig(gitDir, config)
}
