package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/sensormock/pkg/cliconfig"
)

func TestPrintConfig_YAML(t *testing.T) {
	t.Parallel()

	cfg := cliconfig.NewDefault()
	cfg.Port = 9000
	cfg.Sources["port"] = cliconfig.SourceEnv

	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, cfg, false))

	text := buf.String()
	yamlPart, sources, found := strings.Cut(text, "\nSources:\n")
	require.True(t, found, "output: %s", text)

	var decoded cliconfig.CLIConfig
	require.NoError(t, yaml.Unmarshal([]byte(yamlPart), &decoded))
	assert.Equal(t, 9000, decoded.Port)
	assert.Equal(t, cfg.StreamInterval, decoded.StreamInterval)

	assert.Regexp(t, `(?m)^  port\s+env$`, sources)
	assert.Regexp(t, `(?m)^  host\s+default$`, sources)
	for _, key := range cliconfig.Keys {
		assert.Contains(t, sources, "  "+key+" ")
	}
}

func TestPrintConfig_JSON(t *testing.T) {
	t.Parallel()

	cfg := cliconfig.NewDefault()
	cfg.DeviceID = "RIG_7"
	cfg.Sources["deviceId"] = cliconfig.SourceFlag

	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, cfg, true))

	var got struct {
		Config  map[string]any    `json:"config"`
		Sources map[string]string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "RIG_7", got.Config["deviceId"])
	assert.Equal(t, cliconfig.SourceFlag, got.Sources["deviceId"])
}

func TestConfigCommand_ConfigFile(t *testing.T) {
	dir := isolateConfig(t)

	path := filepath.Join(dir, "rig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("deviceId: BENCH_3\n"), 0o600))

	var buf bytes.Buffer
	configCmd.SetOut(&buf)
	t.Cleanup(func() {
		configCmd.SetOut(nil)
		configFile = ""
	})
	configFile = path

	require.NoError(t, configCmd.RunE(configCmd, nil))
	text := buf.String()
	assert.Contains(t, text, "# Config file: "+path)
	assert.Contains(t, text, "deviceId: BENCH_3")
	assert.Regexp(t, `(?m)^  deviceId\s+file$`, text)
}
