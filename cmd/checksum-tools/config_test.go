package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/folbricht/checksum-tools"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// Restores the global config once the test is done.
func resetConfig(t *testing.T) {
	saved, savedFile := cfg, cfgFile
	saved.Digests = append([]string(nil), cfg.Digests...)
	t.Cleanup(func() {
		cfg, cfgFile = saved, savedFile
	})
}

func TestConfigFile(t *testing.T) {
	resetConfig(t)
	cfgFile = filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{"digests": ["sha256"], "ssh-command": "/usr/local/bin/ssh"}`), 0644))

	// Call init, this should use the custom config file and global "cfg"
	// should contain the values
	initConfig()
	require.Equal(t, []string{"sha256"}, cfg.Digests)
	require.Equal(t, "/usr/local/bin/ssh", cfg.SSHCommand)

	// Not in the file, so the default remains
	require.Equal(t, checksum.DefaultExtension, cfg.Extension)

	// Without -d, the digests come from the config
	require.Equal(t, []checksum.DigestType{"sha256"}, cmdToolOptions{}.digestTypes())
	require.Equal(t, []checksum.DigestType{"md5"}, cmdToolOptions{digests: []string{"MD5"}}.digestTypes())
}

func TestConfigMissingFile(t *testing.T) {
	resetConfig(t)
	cfgFile = filepath.Join(t.TempDir(), "nothing-here.json")
	require.NoError(t, loadConfigIfPresent())
	require.Equal(t, []string{"md5", "sha1"}, cfg.Digests)
}

func TestConfigCommand(t *testing.T) {
	resetConfig(t)
	cfgFile = filepath.Join(t.TempDir(), "sub", "config.json")

	cmd := newConfigCommand(context.Background())
	cmd.SetArgs([]string{})
	b := new(bytes.Buffer)
	stdout = b
	_, err := cmd.ExecuteC()
	require.NoError(t, err)
	var shown Config
	require.NoError(t, json.Unmarshal(b.Bytes(), &shown))
	require.Equal(t, cfg, shown)

	// Write it, then read it back
	cmd = newConfigCommand(context.Background())
	cmd.SetArgs([]string{"-w"})
	stderr = new(bytes.Buffer)
	_, err = cmd.ExecuteC()
	require.NoError(t, err)

	cfg = Config{}
	require.NoError(t, loadConfigIfPresent())
	require.Equal(t, shown, cfg)
}
