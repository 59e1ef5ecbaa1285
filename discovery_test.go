// FILE: lixenwraith/iniconf/discovery_test.go
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDiscoverFile tests lookup precedence
func TestDiscoverFile(t *testing.T) {
	dir := t.TempDir()
	found := filepath.Join(dir, "mailer.conf")
	require.NoError(t, os.WriteFile(found, []byte("k = v\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "mailer.ini"), 0755))

	opts := DefaultDiscoveryOptions("mailer")
	opts.UseXDG = false
	opts.UseCurrentDir = false
	opts.Paths = []string{filepath.Join(dir, "missing"), dir}

	t.Run("Defaults", func(t *testing.T) {
		defaults := DefaultDiscoveryOptions("mailer")
		assert.Equal(t, "MAILER_CONFIG", defaults.EnvVar)
		assert.Equal(t, "--config", defaults.CLIFlag)
		assert.Equal(t, []string{".ini", ".conf", ".cfg"}, defaults.Extensions)
	})

	t.Run("SearchPathsSkipDirectories", func(t *testing.T) {
		t.Setenv("MAILER_CONFIG", "")
		assert.Equal(t, found, DiscoverFile(opts, nil))
	})

	t.Run("EnvOverridesSearch", func(t *testing.T) {
		t.Setenv("MAILER_CONFIG", "/from/env.ini")
		assert.Equal(t, "/from/env.ini", DiscoverFile(opts, nil))
	})

	t.Run("FlagOverridesEnv", func(t *testing.T) {
		t.Setenv("MAILER_CONFIG", "/from/env.ini")
		assert.Equal(t, "/from/flag.ini", DiscoverFile(opts, []string{"-v", "--config", "/from/flag.ini"}))
		assert.Equal(t, "/from/eq.ini", DiscoverFile(opts, []string{"--config=/from/eq.ini"}))
	})

	t.Run("Sources", func(t *testing.T) {
		t.Setenv("MAILER_CONFIG", "")
		assert.Equal(t, Discovery{Path: found, Source: DiscoveredSearch}, Discover(opts, nil))
		assert.Equal(t, Discovery{Path: "x.ini", Source: DiscoveredFlag}, Discover(opts, []string{"--config=x.ini"}))

		t.Setenv("MAILER_CONFIG", " y.ini ")
		assert.Equal(t, Discovery{Path: "y.ini", Source: DiscoveredEnv}, Discover(opts, nil))
		assert.Equal(t, "env", DiscoveredEnv.String())
		assert.Equal(t, "none", Discovery{}.Source.String())
	})

	t.Run("DanglingFlagIsIgnored", func(t *testing.T) {
		t.Setenv("MAILER_CONFIG", "")
		assert.Equal(t, found, DiscoverFile(opts, []string{"--config"}))
	})

	t.Run("NothingFound", func(t *testing.T) {
		t.Setenv("MAILER_CONFIG", "")
		none := opts
		none.Paths = []string{filepath.Join(dir, "missing")}
		assert.Equal(t, "", DiscoverFile(none, nil))
	})
}

// TestXDGConfigPaths tests XDG directory resolution
func TestXDGConfigPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/home")
	t.Setenv("XDG_CONFIG_DIRS", "/xdg/a"+string(os.PathListSeparator)+"/xdg/b")
	assert.Equal(t, []string{
		filepath.Join("/xdg/home", "mailer"),
		filepath.Join("/xdg/a", "mailer"),
		filepath.Join("/xdg/b", "mailer"),
	}, getXDGConfigPaths("mailer"))

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", "")
	t.Setenv("HOME", "/home/user")
	assert.Equal(t, []string{
		filepath.Join("/home/user", ".config", "mailer"),
		filepath.Join("/etc/xdg", "mailer"),
		filepath.Join("/etc", "mailer"),
	}, getXDGConfigPaths("mailer"))
}

// TestBuilderFileDiscovery tests discovery wired through the builder
func TestBuilderFileDiscovery(t *testing.T) {
	path := writeSample(t, sampleINI)

	opts := DefaultDiscoveryOptions("mailer")
	opts.UseXDG = false
	opts.UseCurrentDir = false
	t.Setenv("MAILER_CONFIG", "")

	var logs bytes.Buffer
	cfg, err := NewBuilder().
		WithArgs([]string{"--config", path}).
		WithFileDiscovery(opts).
		WithLogger(zerolog.New(&logs)).
		Build()
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"source":"flag"`)
	assert.Equal(t, path, cfg.Path())
	assert.True(t, cfg.Has("mailer", "sender"))

	fallback := filepath.Join(t.TempDir(), "fallback.ini")
	cfg, err = NewBuilder().
		WithArgs(nil).
		WithFile(fallback).
		WithFileDiscovery(opts).
		Build()
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.Equal(t, fallback, cfg.Path(), "WithFile is kept when discovery finds nothing")
}
