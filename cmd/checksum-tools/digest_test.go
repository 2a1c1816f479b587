package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigestCommand(t *testing.T) {
	dir := writeTree(t)

	cmd := newDigestCommand(context.Background())
	cmd.SetArgs([]string{"-d", "sha1,md5", dir, "a.txt"})
	b := new(bytes.Buffer)
	stdout = b
	_, err := cmd.ExecuteC()
	require.NoError(t, err)

	name := filepath.Join(dir, "a.txt")
	require.Equal(t,
		"SHA1("+name+")= 32d10c7b8cf96570ca04ce37f2a19d84240d3a89\n"+
			"MD5("+name+")= c3fcd3d76192e4007dfb496cca67e13b\n",
		b.String())

	// Nothing is written
	_, err = os.Stat(name + ".digest")
	require.True(t, os.IsNotExist(err))
}

func TestDigestFormat(t *testing.T) {
	dir := writeTree(t)

	cmd := newDigestCommand(context.Background())
	cmd.SetArgs([]string{"-d", "md5", "-f", "{hex}  {base} ({type})", dir, "a.txt"})
	b := new(bytes.Buffer)
	stdout = b
	_, err := cmd.ExecuteC()
	require.NoError(t, err)
	require.Equal(t, "c3fcd3d76192e4007dfb496cca67e13b  a.txt (md5)\n", b.String())

	// Unterminated placeholder
	cmd = newDigestCommand(context.Background())
	cmd.SetArgs([]string{"-f", "{hex", dir})
	cmd.SetErr(new(bytes.Buffer))
	_, err = cmd.ExecuteC()
	require.Error(t, err)
}

func TestDigestsCommand(t *testing.T) {
	cmd := newDigestsCommand(context.Background())
	cmd.SetArgs([]string{})
	b := new(bytes.Buffer)
	stdout = b
	_, err := cmd.ExecuteC()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Contains(t, lines, "md5")
	require.Contains(t, lines, "sha256")

	cmd = newDigestsCommand(context.Background())
	cmd.SetArgs([]string{"-l"})
	b = new(bytes.Buffer)
	stdout = b
	_, err = cmd.ExecuteC()
	require.NoError(t, err)
	require.Regexp(t, `(?m)^md5\s+32$`, b.String())
	require.Regexp(t, `(?m)^sha512\s+128$`, b.String())
}
