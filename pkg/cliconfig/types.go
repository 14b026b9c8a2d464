// Package cliconfig provides configuration types and loading for the sensormock CLI.
//
// Values are resolved with the following precedence (highest first):
//
//  1. Command-line flags
//  2. Environment variables (SENSORMOCK_* prefix)
//  3. An explicit config file (--config)
//  4. Local config file (.sensormockrc.yaml in the current directory)
//  5. Global config file ($XDG_CONFIG_HOME/sensormock/config.yaml)
//  6. Default values
//
// The source of every value is tracked for `sensormock config`.
package cliconfig

import "time"

// CLIConfig is the complete configuration of the sensormock CLI.
type CLIConfig struct {
	// Server settings
	Host           string        `yaml:"host" json:"host"`
	Port           int           `yaml:"port" json:"port"`
	MetricsPort    int           `yaml:"metricsPort" json:"metricsPort"`
	DeviceID       string        `yaml:"deviceId" json:"deviceId"`
	StreamCount    int           `yaml:"streamCount" json:"streamCount"`
	StreamInterval time.Duration `yaml:"streamInterval" json:"streamInterval"`
	MaxBodyBytes   int64         `yaml:"maxBodyBytes" json:"maxBodyBytes"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Mirror settings
	MQTTBroker      string   `yaml:"mqttBroker,omitempty" json:"mqttBroker,omitempty"`
	MQTTTopicPrefix string   `yaml:"mqttTopicPrefix" json:"mqttTopicPrefix"`
	MQTTPort        int      `yaml:"mqttPort" json:"mqttPort"`
	KafkaBrokers    []string `yaml:"kafkaBrokers,omitempty" json:"kafkaBrokers,omitempty"`
	KafkaTopic      string   `yaml:"kafkaTopic" json:"kafkaTopic"`

	// ConfigFile is the explicit file given with --config.
	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records the keys present in a loaded file, so explicit zero
	// values (e.g. metricsPort: 0) still override lower layers.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// Config sources.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Keys lists every configuration key in display order.
var Keys = []string{
	"host",
	"port",
	"metricsPort",
	"deviceId",
	"streamCount",
	"streamInterval",
	"maxBodyBytes",
	"logLevel",
	"logFormat",
	"mqttBroker",
	"mqttTopicPrefix",
	"mqttPort",
	"kafkaBrokers",
	"kafkaTopic",
}
