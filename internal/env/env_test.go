package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Path     string        `env:"TEST_PATH" default:"./data"`
	Limit    int           `env:"TEST_LIMIT" default:"10"`
	Enabled  bool          `env:"TEST_ENABLED" default:"true"`
	Interval time.Duration `env:"TEST_INTERVAL" default:"1s"`
	NoDef    string        `env:"TEST_NO_DEF"`
	Untagged string
}

func TestParse(t *testing.T) {
	t.Setenv("TEST_PATH", "/tmp/other")
	t.Setenv("TEST_LIMIT", "25")
	t.Setenv("TEST_ENABLED", "false")
	t.Setenv("TEST_INTERVAL", "250ms")
	t.Setenv("TEST_NO_DEF", "set")

	var cfg testConfig
	require.NoError(t, Parse(&cfg))

	assert.Equal(t, "/tmp/other", cfg.Path)
	assert.Equal(t, 25, cfg.Limit)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, "set", cfg.NoDef)
	assert.Empty(t, cfg.Untagged)
}

func TestParseDefaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Parse(&cfg))

	assert.Equal(t, "./data", cfg.Path)
	assert.Equal(t, 10, cfg.Limit)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Empty(t, cfg.NoDef)
}

func TestParseExplicitEmptyRespected(t *testing.T) {
	t.Setenv("TEST_PATH", "")

	var cfg testConfig
	require.NoError(t, Parse(&cfg))
	assert.Empty(t, cfg.Path, "an explicitly empty variable must not fall back to the default")
}

func TestParseInvalidValue(t *testing.T) {
	t.Setenv("TEST_LIMIT", "many")

	var cfg testConfig
	err := Parse(&cfg)

	var invalid ErrInvalidValue
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "TEST_LIMIT", invalid.EnvVar)
}

func TestParseNotStructPointer(t *testing.T) {
	var n int
	require.Error(t, Parse(&n))
	require.Error(t, Parse(testConfig{}))
}

type validatedConfig struct {
	Mode string `env:"TEST_MODE" default:"none"`
}

var errBadMode = errors.New("bad mode")

func (c *validatedConfig) Validate() error {
	if c.Mode != "fs" && c.Mode != "none" {
		return errBadMode
	}
	return nil
}

func TestParseRunsValidation(t *testing.T) {
	t.Setenv("TEST_MODE", "gcs")

	var cfg validatedConfig
	require.ErrorIs(t, Parse(&cfg), errBadMode)
}
