package checksum

import (
	"regexp"
	"strings"
)

// Glob matches base names of files against a shell-style pattern. '*' matches
// any run of characters, '?' exactly one character. Everything else, including
// '.', is literal. A backslash escapes the following character, so '\*' matches
// a literal star. Like in a shell, names starting with a dot are only matched
// if the pattern starts with a dot as well.
type Glob struct {
	pattern string
	re      *regexp.Regexp
}

// CompileGlob translates a glob pattern into a matcher.
func CompileGlob(pattern string) (Glob, error) {
	re, err := regexp.Compile(globToRegexp(pattern))
	if err != nil {
		return Glob{}, InvalidArgument{"bad glob pattern " + pattern + ": " + err.Error()}
	}
	return Glob{pattern: pattern, re: re}, nil
}

// Match returns true if the name matches the whole pattern.
func (g Glob) Match(name string) bool {
	if strings.HasPrefix(name, ".") && !strings.HasPrefix(g.pattern, ".") {
		return false
	}
	return g.re.MatchString(name)
}

// MatchHidden is Match without the dot-file rule.
func (g Glob) MatchHidden(name string) bool {
	return g.re.MatchString(name)
}

func (g Glob) String() string { return g.pattern }

func globToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("(?s)^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '\\':
			if i+1 < len(runes) {
				i++
				b.WriteString(regexp.QuoteMeta(string(runes[i])))
			} else {
				b.WriteString(`\\`)
			}
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// Globs is a set of patterns, a name matches if any one of them matches.
type Globs []Glob

// CompileGlobs compiles a list of patterns.
func CompileGlobs(patterns []string) (Globs, error) {
	globs := make(Globs, 0, len(patterns))
	for _, p := range patterns {
		g, err := CompileGlob(p)
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Match returns true if at least one of the patterns matches the name.
func (gs Globs) Match(name string) bool {
	for _, g := range gs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Excludes returns true if at least one of the patterns matches the name,
// including names starting with a dot. "*.digest" covers ".a.digest" too.
func (gs Globs) Excludes(name string) bool {
	for _, g := range gs {
		if g.MatchHidden(name) {
			return true
		}
	}
	return false
}
