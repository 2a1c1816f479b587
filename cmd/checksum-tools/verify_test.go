package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyCommand(t *testing.T) {
	dir := writeTree(t)

	cmd := newGenerateCommand(context.Background())
	cmd.SetArgs([]string{"-r", "-d", "md5,sha1", dir})
	_, err := cmd.ExecuteC()
	require.NoError(t, err)

	// Everything should be fine right after generating
	cmd = newVerifyCommand(context.Background())
	cmd.SetArgs([]string{"-r", dir})
	b := new(bytes.Buffer)
	stdout = b
	_, err = cmd.ExecuteC()
	require.NoError(t, err)
	require.Contains(t, b.String(), "OK      "+filepath.Join(dir, "a.txt"))
	require.Contains(t, b.String(), "OK      "+filepath.Join(dir, "sub", "c.txt"))

	// Modify one of the files
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.log"), []byte("changed\n"), 0644))
	cmd = newVerifyCommand(context.Background())
	cmd.SetArgs([]string{"-r", dir})
	cmd.SetErr(new(bytes.Buffer))
	b = new(bytes.Buffer)
	stdout = b
	_, err = cmd.ExecuteC()
	require.Error(t, err)
	require.Contains(t, b.String(), "FAILED  "+filepath.Join(dir, "b.log")+" (md5,sha1)")
	require.Contains(t, b.String(), "OK      "+filepath.Join(dir, "a.txt"))
}

func TestVerifyMissing(t *testing.T) {
	dir := writeTree(t)

	cmd := newGenerateCommand(context.Background())
	cmd.SetArgs([]string{dir, "a.txt"})
	_, err := cmd.ExecuteC()
	require.NoError(t, err)

	cmd = newVerifyCommand(context.Background())
	cmd.SetArgs([]string{dir})
	cmd.SetErr(new(bytes.Buffer))
	b := new(bytes.Buffer)
	stdout = b
	_, err = cmd.ExecuteC()
	require.Error(t, err)
	require.Contains(t, b.String(), "MISSING "+filepath.Join(dir, "b.log"))

	cmd = newVerifyCommand(context.Background())
	cmd.SetArgs([]string{"--allow-missing", dir})
	b = new(bytes.Buffer)
	stdout = b
	_, err = cmd.ExecuteC()
	require.NoError(t, err)
	require.Contains(t, b.String(), "MISSING "+filepath.Join(dir, "b.log"))
	require.Contains(t, b.String(), "OK      "+filepath.Join(dir, "a.txt"))
}

func TestVerifySingleAlgorithmManifest(t *testing.T) {
	dir := writeTree(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "a.txt.md5"),
		[]byte("c3fcd3d76192e4007dfb496cca67e13b  a.txt\n"), 0644))

	cmd := newVerifyCommand(context.Background())
	cmd.SetArgs([]string{"-e", "md5", dir, "a.txt"})
	b := new(bytes.Buffer)
	stdout = b
	_, err := cmd.ExecuteC()
	require.NoError(t, err)
	require.Contains(t, b.String(), "OK      "+filepath.Join(dir, "a.txt"))
}
