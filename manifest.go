package checksum

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Dialect identifies the layout of a manifest.
type Dialect int

const (
	// Canonical manifests have one "TYPE(filename)= hexdigest" line per digest
	// type. That's what gets written.
	Canonical Dialect = iota

	// SingleAlgorithm manifests are named after a digest type (.md5, .sha1).
	// The first hex string of the right length is the digest, anything else in
	// the file is ignored.
	SingleAlgorithm

	// Legacy manifests were written by older releases. The first line holds the
	// file name, followed by "type::hexdigest" lines.
	Legacy
)

func (d Dialect) String() string {
	switch d {
	case Canonical:
		return "canonical"
	case SingleAlgorithm:
		return "single-algorithm"
	case Legacy:
		return "legacy"
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

var (
	canonicalLine = regexp.MustCompile(`^([A-Za-z0-9_-]+)\((.*)\)= ?([0-9A-Fa-f]+)\s*$`)
	legacyLine    = regexp.MustCompile(`^([A-Za-z0-9_-]+)::([0-9A-Fa-f]+)\s*$`)
	hexGroup      = regexp.MustCompile(`(?i)\b((?:[0-9a-f]{4})+)\b`)
)

// EncodeManifest returns the canonical manifest for a file, with the digests in
// the given order.
func EncodeManifest(name string, types []DigestType, result DigestResult) string {
	var b strings.Builder
	base := filepath.Base(name)
	for _, t := range types {
		fmt.Fprintf(&b, "%s(%s)= %s\n", strings.ToUpper(string(t)), base, result[t])
	}
	return b.String()
}

// DetectDialect determines the layout of a manifest from its name and content.
// If the manifest extension is one of the known digest types, it's a
// single-algorithm manifest of that type.
func DetectDialect(manifest, content string, known []DigestType) (Dialect, DigestType) {
	ext := ParseDigestType(strings.TrimPrefix(filepath.Ext(manifest), "."))
	for _, t := range known {
		if ext != "" && t == ext {
			return SingleAlgorithm, t
		}
	}
	var canonical, legacy int
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case canonicalLine.MatchString(line):
			canonical++
		case legacyLine.MatchString(line):
			legacy++
		}
	}
	if legacy > 0 && canonical == 0 {
		return Legacy, ""
	}
	return Canonical, ""
}

// ParseManifest reads the expected digests of the file name from the content
// of its manifest. If the manifest refers to a file with a different base
// name, a warning is logged but the digests are used anyway.
func ParseManifest(manifest, name, content string, catalog DigestCatalog) (DigestResult, error) {
	known, err := catalog.Digests()
	if err != nil {
		return nil, err
	}
	dialect, t := DetectDialect(manifest, content, known)
	log := Log.WithFields(logrus.Fields{
		"manifest": manifest,
		"file":     name,
		"dialect":  dialect,
	})

	expected := make(DigestResult)
	switch dialect {
	case SingleAlgorithm:
		length, err := catalog.DigestLength(t)
		if err != nil {
			return nil, err
		}
		// The first hex string of the right length wins
		for _, s := range hexGroup.FindAllString(content, -1) {
			if len(s) == length {
				expected[t] = strings.ToLower(s)
				break
			}
		}
		if _, ok := expected[t]; !ok {
			log.Warnf("no %s digest of length %d found", t, length)
			expected[t] = ""
		}
		return expected, nil

	case Legacy:
		lines := strings.Split(content, "\n")
		if first := strings.TrimSpace(lines[0]); filepath.Base(first) != filepath.Base(name) {
			log.WithField("hashed-file", first).Warn("filename mismatch in manifest")
		}
		for _, line := range lines[1:] {
			m := legacyLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
			if m == nil {
				continue
			}
			expected[ParseDigestType(m[1])] = strings.ToLower(m[2])
		}

	default:
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimRight(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			m := canonicalLine.FindStringSubmatch(line)
			if m == nil {
				log.WithField("line", line).Warn("skipping malformed manifest line")
				continue
			}
			if hashed := filepath.Base(m[2]); hashed != filepath.Base(name) {
				log.WithField("hashed-file", hashed).Warn("filename mismatch in manifest")
			}
			expected[ParseDigestType(m[1])] = strings.ToLower(m[3])
		}
	}
	if len(expected) == 0 {
		return nil, InvalidManifest{manifest, "no digests found"}
	}
	return expected, nil
}
