package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/sensormock/pkg/config"
	"github.com/getmockd/sensormock/pkg/logging"
)

// isolate points the global and local config lookups at empty temp dirs and
// clears every SENSORMOCK_* variable.
func isolate(t *testing.T) (globalDir, localDir string) {
	t.Helper()

	globalDir = t.TempDir()
	localDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", globalDir)
	t.Chdir(localDir)

	for _, name := range []string{
		EnvHost, EnvPort, EnvMetricsPort, EnvDeviceID, EnvStreamCount,
		EnvStreamInterval, EnvMaxBodyBytes, EnvLogLevel, EnvLogFormat,
		EnvMQTTBroker, EnvMQTTTopicPrefix, EnvMQTTPort, EnvKafkaBrokers,
		EnvKafkaTopic, EnvConfig,
	} {
		t.Setenv(name, "")
	}
	return globalDir, localDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "test-device-001", cfg.DeviceID)
	assert.Equal(t, 120, cfg.StreamCount)
	assert.Equal(t, time.Second, cfg.StreamInterval)
	assert.Equal(t, "console", cfg.LogFormat)
	for _, key := range Keys {
		assert.Equal(t, SourceDefault, cfg.Sources[key], key)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadAll_Precedence(t *testing.T) {
	globalDir, localDir := isolate(t)

	writeFile(t, filepath.Join(globalDir, GlobalConfigDir, "config.yaml"), `
port: 9000
deviceId: global-device
streamCount: 10
`)
	writeFile(t, filepath.Join(localDir, ".sensormockrc.yaml"), `
port: 9100
streamInterval: 250ms
kafkaBrokers: [k1:9092, k2:9092]
`)
	t.Setenv(EnvPort, "9200")

	cfg, err := LoadAll("")
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, SourceEnv, cfg.Sources["port"])
	assert.Equal(t, "global-device", cfg.DeviceID)
	assert.Equal(t, SourceGlobal, cfg.Sources["deviceId"])
	assert.Equal(t, 10, cfg.StreamCount)
	assert.Equal(t, 250*time.Millisecond, cfg.StreamInterval)
	assert.Equal(t, SourceLocal, cfg.Sources["streamInterval"])
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, SourceDefault, cfg.Sources["host"])
}

func TestLoadAll_ExplicitFile(t *testing.T) {
	_, localDir := isolate(t)

	writeFile(t, filepath.Join(localDir, ".sensormockrc.yaml"), "deviceId: local\n")
	explicit := filepath.Join(t.TempDir(), "rig.yaml")
	writeFile(t, explicit, "deviceId: rig\nmetricsPort: 0\n")

	cfg, err := LoadAll(explicit)
	require.NoError(t, err)
	assert.Equal(t, "rig", cfg.DeviceID)
	assert.Equal(t, SourceFile, cfg.Sources["deviceId"])
	assert.Equal(t, SourceFile, cfg.Sources["metricsPort"], "explicit zero still counts")
	assert.Equal(t, explicit, cfg.ConfigFile)
}

func TestLoadAll_Errors(t *testing.T) {
	_, localDir := isolate(t)

	_, err := LoadAll(filepath.Join(localDir, "missing.yaml"))
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))

	writeFile(t, filepath.Join(localDir, ".sensormockrc.yaml"), "port: [not a number\n")
	_, err = LoadAll("")
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Path, ".sensormockrc.yaml")
}

func TestLoadEnvConfig(t *testing.T) {
	isolate(t)

	t.Setenv(EnvStreamInterval, "5ms")
	t.Setenv(EnvMaxBodyBytes, "2048")
	t.Setenv(EnvKafkaBrokers, " a:9092, ,b:9092 ")
	t.Setenv(EnvMQTTBroker, "tcp://broker:1883")

	cfg := NewDefault()
	require.NoError(t, LoadEnvConfig(cfg))
	assert.Equal(t, 5*time.Millisecond, cfg.StreamInterval)
	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	assert.Equal(t, SourceEnv, cfg.Sources["mqttBroker"])

	t.Setenv(EnvPort, "eighty")
	assert.Error(t, LoadEnvConfig(NewDefault()))

	t.Setenv(EnvPort, "")
	t.Setenv(EnvStreamInterval, "soon")
	assert.Error(t, LoadEnvConfig(NewDefault()))
}

func TestMergeConfig(t *testing.T) {
	t.Run("merges non-zero values", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &CLIConfig{Port: 9000, DeviceID: "x"}, SourceLocal)

		assert.Equal(t, 9000, target.Port)
		assert.Equal(t, "x", target.DeviceID)
		assert.Equal(t, SourceLocal, target.Sources["port"])
		assert.Equal(t, SourceDefault, target.Sources["host"])
	})

	t.Run("does not overwrite with zero values", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, &CLIConfig{Port: 0}, SourceLocal)
		assert.Equal(t, config.DefaultPort, target.Port)
	})

	t.Run("explicit zero with SetFields", func(t *testing.T) {
		target := NewDefault()
		target.MetricsPort = 9100
		MergeConfig(target, &CLIConfig{SetFields: map[string]bool{"metricsPort": true}}, SourceLocal)
		assert.Zero(t, target.MetricsPort)
	})

	t.Run("nil source is no-op", func(t *testing.T) {
		target := NewDefault()
		MergeConfig(target, nil, SourceLocal)
		assert.Equal(t, config.DefaultPort, target.Port)
	})
}

func TestToServerConfiguration(t *testing.T) {
	cfg := NewDefault()
	cfg.Host = "127.0.0.1"
	cfg.MetricsPort = 9100
	cfg.MQTTPort = 1883
	cfg.KafkaBrokers = []string{"k:9092"}

	server := cfg.ToServerConfiguration()
	assert.Equal(t, "127.0.0.1:8080", server.Addr())
	assert.Equal(t, "127.0.0.1:9100", server.MetricsAddr())
	assert.Equal(t, 1883, server.MQTT.Port)
	assert.Equal(t, []string{"k:9092"}, server.Kafka.Brokers)
	assert.True(t, server.MirrorEnabled())
}

func TestValidate(t *testing.T) {
	cfg := NewDefault()
	cfg.LogFormat = "xml"
	var verr *config.ValidationError
	require.True(t, errors.As(cfg.Validate(), &verr))
	assert.Equal(t, "logFormat", verr.Field)

	cfg = NewDefault()
	cfg.StreamCount = 0
	require.True(t, errors.As(cfg.Validate(), &verr))
	assert.Equal(t, "streamCount", verr.Field)
}

func TestLoggingConfig(t *testing.T) {
	cfg := NewDefault()
	cfg.LogLevel = "DEBUG"
	cfg.LogFormat = "json"

	lc := cfg.LoggingConfig()
	assert.Equal(t, logging.LevelDebug, lc.Level)
	assert.Equal(t, logging.FormatJSON, lc.Format)
}
