package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "sensormock"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".sensormockrc.yaml", ".sensormockrc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches for .sensormockrc.yaml or .sensormockrc.yml in the
// current directory. It returns "" when none exists.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(cwd, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// FindGlobalConfig returns the path to the global config file, or "" when
// none exists.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		//nolint:nilerr // no config dir means no global config
		return "", nil
	}
	for _, name := range GlobalConfigFileNames {
		path := filepath.Join(configDir, GlobalConfigDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// ConfigError reports an unreadable or malformed config file.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Path + ": " + e.Message
}

// LoadConfigFile loads a CLIConfig from a YAML file. SetFields records every
// top-level key present in the file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	cfg.SetFields = topLevelKeys(&doc)
	cfg.Sources = make(map[string]string)
	return &cfg, nil
}

func topLevelKeys(doc *yaml.Node) map[string]bool {
	keys := make(map[string]bool)
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return keys
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return keys
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keys[root.Content[i].Value] = true
	}
	return keys
}

// LoadAll loads configuration from every source except flags and merges them.
// Precedence: env > explicit file > local config > global config > defaults.
func LoadAll(explicitPath string) (*CLIConfig, error) {
	cfg := NewDefault()

	layers := []struct {
		find   func() (string, error)
		source string
	}{
		{FindGlobalConfig, SourceGlobal},
		{FindLocalConfig, SourceLocal},
	}
	for _, layer := range layers {
		path, err := layer.find()
		if err != nil {
			return nil, fmt.Errorf("locating %s config: %w", layer.source, err)
		}
		if path == "" {
			continue
		}
		fileCfg, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, fileCfg, layer.source)
	}

	if explicitPath == "" {
		explicitPath = os.Getenv(EnvConfig)
	}
	if explicitPath != "" {
		fileCfg, err := LoadConfigFile(explicitPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, fileCfg, SourceFile)
		cfg.ConfigFile = explicitPath
	}

	if err := LoadEnvConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
