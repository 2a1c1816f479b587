package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobMatch(t *testing.T) {
	for _, test := range []struct {
		pattern string
		name    string
		match   bool
	}{
		{"*", "report.pdf", true},
		{"*.pdf", "report.pdf", true},
		{"*.pdf", "report.pdf.digest", false},
		{"*.pdf", "reportxpdf", false},
		{"report.???", "report.pdf", true},
		{"report.???", "report.pd", false},
		{"*.digest", "video.mp4.digest", true},
		{"*.digest", "digest", false},
		{`a\*b`, "a*b", true},
		{`a\*b`, "axxb", false},
		{`a\?b`, "a?b", true},
		{`a\?b`, "axb", false},
		{"a+b(1).txt", "a+b(1).txt", true},
		{"[ab].txt", "a.txt", false},
		{"[ab].txt", "[ab].txt", true},
		{"*", ".hidden", false},
		{".*", ".hidden", true},
	} {
		t.Run(test.pattern+" "+test.name, func(t *testing.T) {
			g, err := CompileGlob(test.pattern)
			require.NoError(t, err)
			require.Equal(t, test.match, g.Match(test.name))
		})
	}
}

func TestGlobsMatchAny(t *testing.T) {
	globs, err := CompileGlobs([]string{"*.pdf", "*.mp4"})
	require.NoError(t, err)
	require.True(t, globs.Match("video.mp4"))
	require.True(t, globs.Match("report.pdf"))
	require.False(t, globs.Match("ignore.doc"))

	var none Globs
	require.False(t, none.Match("anything"))
}

func TestGlobsExcludes(t *testing.T) {
	globs, err := CompileGlobs([]string{"*.digest"})
	require.NoError(t, err)
	require.False(t, globs.Match(".a.digest"))
	require.True(t, globs.Excludes(".a.digest"))
	require.True(t, globs.Excludes("a.digest"))
	require.False(t, globs.Excludes(".a"))
}
