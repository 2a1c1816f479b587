package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Writes a small tree of files and returns its root.
func writeTree(t *testing.T) string {
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":     alphabet,
		"b.log":     "log line\n",
		"sub/c.txt": "nested",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return dir
}

func TestGenerateCommand(t *testing.T) {
	dir := writeTree(t)

	cmd := newGenerateCommand(context.Background())
	cmd.SetArgs([]string{"-d", "md5,sha1", dir, "*.txt"})
	_, err := cmd.ExecuteC()
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "a.txt.digest"))
	require.NoError(t, err)
	require.Equal(t,
		"MD5(a.txt)= c3fcd3d76192e4007dfb496cca67e13b\nSHA1(a.txt)= 32d10c7b8cf96570ca04ce37f2a19d84240d3a89\n",
		string(b))

	// Not matching the mask, and not recursive
	_, err = os.Stat(filepath.Join(dir, "b.log.digest"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "sub", "c.txt.digest"))
	require.True(t, os.IsNotExist(err))

	// Recursive with a custom extension
	cmd = newGenerateCommand(context.Background())
	cmd.SetArgs([]string{"-r", "-e", ".md", "-x", "*.digest", "-d", "sha256", dir})
	_, err = cmd.ExecuteC()
	require.NoError(t, err)
	for _, name := range []string{"a.txt.md", "b.log.md", "sub/c.txt.md"} {
		_, err = os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
	// Excluded explicitly
	_, err = os.Stat(filepath.Join(dir, "a.txt.digest.md"))
	require.True(t, os.IsNotExist(err))
}

func TestGenerateOverwrite(t *testing.T) {
	dir := writeTree(t)
	manifest := filepath.Join(dir, "a.txt.digest")
	require.NoError(t, os.WriteFile(manifest, []byte("MD5(a.txt)= 00\n"), 0644))

	// Existing manifests are left alone by default
	cmd := newGenerateCommand(context.Background())
	cmd.SetArgs([]string{"-d", "md5", dir, "a.txt"})
	_, err := cmd.ExecuteC()
	require.NoError(t, err)
	b, err := os.ReadFile(manifest)
	require.NoError(t, err)
	require.Equal(t, "MD5(a.txt)= 00\n", string(b))

	cmd = newGenerateCommand(context.Background())
	cmd.SetArgs([]string{"-o", "-d", "md5", dir, "a.txt"})
	_, err = cmd.ExecuteC()
	require.NoError(t, err)
	b, err = os.ReadFile(manifest)
	require.NoError(t, err)
	require.Equal(t, "MD5(a.txt)= c3fcd3d76192e4007dfb496cca67e13b\n", string(b))
}

func TestGenerateInvalidOptions(t *testing.T) {
	dir := writeTree(t)

	cmd := newGenerateCommand(context.Background())
	cmd.SetArgs([]string{"-d", "nosuchdigest", dir})
	cmd.SetErr(new(bytes.Buffer))
	_, err := cmd.ExecuteC()
	require.Error(t, err)

	cmd = newGenerateCommand(context.Background())
	cmd.SetArgs([]string{"-e", "..", dir})
	cmd.SetErr(new(bytes.Buffer))
	_, err = cmd.ExecuteC()
	require.Error(t, err)

	cmd = newGenerateCommand(context.Background())
	cmd.SetArgs([]string{filepath.Join(dir, "does-not-exist")})
	cmd.SetErr(new(bytes.Buffer))
	_, err = cmd.ExecuteC()
	require.Error(t, err)
}

func TestGenerateConfiguredExtension(t *testing.T) {
	resetConfig(t)
	dir := writeTree(t)

	// Only dots in the config file would make digest files replace content
	cfg.Extension = "."
	cmd := newGenerateCommand(context.Background())
	cmd.SetArgs([]string{dir})
	cmd.SetErr(new(bytes.Buffer))
	_, err := cmd.ExecuteC()
	require.Error(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, alphabet, string(b))
}
