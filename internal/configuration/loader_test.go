package configuration

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAMLDir(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name+".yml")
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err, "failed to write yaml %s", path)
}

func TestLoad_EmptyDirUsesDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_BaseOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeYAMLDir(t, dir, "application", `
app:
  log-level: debug
mongo:
  default-port: 28017
  server-selection-timeout: 2s
`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 28017, cfg.Mongo.DefaultPort)
	assert.Equal(t, 2*time.Second, cfg.Mongo.ServerSelectionTimeout)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, "client", cfg.Credentials.Section)
}

func TestLoad_ProfileOverlay(t *testing.T) {
	dir := t.TempDir()
	writeYAMLDir(t, dir, "application", "app:\n  profile: \"prod\"\nmetrics:\n  job: base\n")
	writeYAMLDir(t, dir, "application-prod", "metrics:\n  push-gateway: http://pushgw:9091\n")

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Profile)
	assert.Equal(t, "http://pushgw:9091", cfg.Metrics.PushGateway)
	assert.Equal(t, "base", cfg.Metrics.Job)
}

func TestLoad_ProfileArgumentWins(t *testing.T) {
	dir := t.TempDir()
	writeYAMLDir(t, dir, "application", "app:\n  profile: \"prod\"\n")
	writeYAMLDir(t, dir, "application-staging", "app:\n  log-level: warn\n")

	cfg, err := Load(dir, "staging")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Profile)
	assert.Equal(t, "warn", cfg.App.LogLevel)
}

func TestLoad_MissingProfile(t *testing.T) {
	dir := t.TempDir()
	writeYAMLDir(t, dir, "application", "app:\n  profile: \"local\"\n")

	cfg, err := Load(dir, "")

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "profile")
}

func TestLoad_MissingBaseFile(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "application.yml not found")
}

func TestLoad_FailuresAreReturnedNotLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := Load(t.TempDir(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base config")

	dir := t.TempDir()
	writeYAMLDir(t, dir, "application", "app: [unclosed")
	_, err = Load(dir, "")
	require.Error(t, err)

	assert.Empty(t, buf.String())
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("REPLSYNC_TEST_PUSHGW", "http://gw:9091")

	dir := t.TempDir()
	writeYAMLDir(t, dir, "application", "metrics:\n  push-gateway: ${REPLSYNC_TEST_PUSHGW}\n")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "http://gw:9091", cfg.Metrics.PushGateway)
}

func TestLoad_UnsetEnvFails(t *testing.T) {
	dir := t.TempDir()
	writeYAMLDir(t, dir, "application", "credentials:\n  file: ${REPLSYNC_TEST_UNSET_VAR}\n")

	_, err := Load(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REPLSYNC_TEST_UNSET_VAR")
}

func TestLoad_InvalidYaml(t *testing.T) {
	dir := t.TempDir()
	writeYAMLDir(t, dir, "application", "mongo: [unclosed\n")

	_, err := Load(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse application.yml")
}

func TestProvider(t *testing.T) {
	cfg := Defaults()
	p := NewProvider(cfg)

	p.GetMongo().DefaultPort = 1
	assert.Equal(t, 1, cfg.Mongo.DefaultPort)
	assert.Same(t, &cfg.App, p.GetApplication())
	assert.Same(t, &cfg.Credentials, p.GetCredentials())
	assert.Same(t, &cfg.Metrics, p.GetMetrics())
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config"), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	t.Setenv("REPLSYNC_PUSH_GATEWAY", "http://pushgw:9091")
	cfg, err = Load(filepath.Join("..", "..", "config"), "prod")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Mongo.ServerSelectionTimeout)
	assert.Equal(t, "/etc/replsync/mongodb.cnf", cfg.Credentials.File)
	assert.Equal(t, "http://pushgw:9091", cfg.Metrics.PushGateway)
}
