package checksum

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

var alphabetDigests = DigestResult{
	"md5":  "c3fcd3d76192e4007dfb496cca67e13b",
	"sha1": "32d10c7b8cf96570ca04ce37f2a19d84240d3a89",
}

func TestDigestStream(t *testing.T) {
	b := NewLocalBackend(nil)
	var positions []int64

	result, err := DigestStream(b, []DigestType{"md5", "sha1"}, strings.NewReader(alphabet), func(pos int64) {
		positions = append(positions, pos)
	})
	require.NoError(t, err)
	require.Equal(t, alphabetDigests, result)
	require.Equal(t, []int64{26}, positions)
}

func TestDigestStreamChunks(t *testing.T) {
	b := NewLocalBackend(nil)
	data := make([]byte, 2*ChunkSize+ChunkSize/2)
	var positions []int64

	_, err := DigestStream(b, []DigestType{"sha256"}, bytes.NewReader(data), func(pos int64) {
		positions = append(positions, pos)
	})
	require.NoError(t, err)
	require.Equal(t, []int64{ChunkSize, 2 * ChunkSize, int64(len(data))}, positions)
}

func TestDigestStreamEmpty(t *testing.T) {
	b := NewLocalBackend(nil)
	called := false

	result, err := DigestStream(b, []DigestType{"md5"}, strings.NewReader(""), func(int64) { called = true })
	require.NoError(t, err)
	require.False(t, called, "no progress expected for an empty stream")
	require.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", result["md5"])
}

func TestDigestStreamRewinds(t *testing.T) {
	b := NewLocalBackend(nil)
	r := strings.NewReader(alphabet)

	// Consume part of the stream, the digest has to cover all of it regardless
	_, err := io.CopyN(io.Discard, r, 10)
	require.NoError(t, err)

	result, err := DigestStream(b, []DigestType{"md5"}, r, nil)
	require.NoError(t, err)
	require.Equal(t, alphabetDigests["md5"], result["md5"])
}

func TestDigestStreamUnknownType(t *testing.T) {
	b := NewLocalBackend(nil)
	_, err := DigestStream(b, []DigestType{"md5", "sha999"}, strings.NewReader(alphabet), nil)
	require.IsType(t, UnknownDigestType{}, err)
}

func TestDigestFileProgress(t *testing.T) {
	dir := writeTestTree(t)
	b := NewLocalBackend(nil)

	for _, test := range []struct {
		name      string
		size      int64
		positions []int64
	}{
		{filepath.Join(dir, "one", "two", "report.pdf"), reportSize, []int64{0, reportSize}},
		{filepath.Join(dir, "three", "video.mp4"), videoSize, []int64{0, ChunkSize, 2 * ChunkSize, videoSize}},
	} {
		t.Run(filepath.Base(test.name), func(t *testing.T) {
			var rec progressRecorder
			result, err := DigestFile(b, []DigestType{"md5", "sha1"}, test.name, rec.record)
			require.NoError(t, err)
			require.Equal(t, referenceDigests(t, test.name), result)

			var positions []int64
			for _, e := range rec.forFile(test.name) {
				require.Equal(t, test.size, e.size)
				require.Nil(t, e.result)
				positions = append(positions, e.pos)
			}
			require.Equal(t, test.positions, positions)
		})
	}
}

func TestDigestFileNotFound(t *testing.T) {
	b := NewLocalBackend(nil)
	_, err := DigestFile(b, []DigestType{"md5"}, filepath.Join(t.TempDir(), "nonexistent.txt"), nil)
	require.Error(t, err)
	require.True(t, IsNotFound(err))
}

func TestVerifyStream(t *testing.T) {
	b := NewLocalBackend(nil)

	// Comparison ignores case
	expected := DigestResult{
		"md5":  strings.ToUpper(alphabetDigests["md5"]),
		"sha1": alphabetDigests["sha1"],
	}
	var positions []int64
	result, err := VerifyStream(b, strings.NewReader(alphabet), expected, func(pos int64) {
		positions = append(positions, pos)
	})
	require.NoError(t, err)
	require.Equal(t, map[DigestType]bool{"md5": true, "sha1": true}, result)
	require.Equal(t, []int64{26}, positions)

	// Only the expected types are calculated
	result, err = VerifyStream(b, strings.NewReader(alphabet), DigestResult{"sha1": "0000"}, nil)
	require.NoError(t, err)
	require.Equal(t, map[DigestType]bool{"sha1": false}, result)
}
