package checksum

import (
	"sort"
	"strings"
)

// DigestType is the canonical, lower-case name of a hash algorithm, such as
// md5 or sha256.
type DigestType string

// ParseDigestType normalizes a digest name as found in manifests or on the
// command line.
func ParseDigestType(s string) DigestType {
	return DigestType(strings.ToLower(strings.TrimSpace(s)))
}

func (t DigestType) String() string { return string(t) }

// DigestResult holds the lower-case hex digest of one file for each requested
// digest type.
type DigestResult map[DigestType]string

// Types returns the digest types in the result, sorted by name.
func (r DigestResult) Types() []DigestType {
	types := make([]DigestType, 0, len(r))
	for t := range r {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// VerifyResult is the outcome of verifying one file against its manifest. If
// the manifest doesn't exist, DigestFileMissing is set and Match is nil.
type VerifyResult struct {
	DigestFileMissing bool
	Match             map[DigestType]bool
}

// OK returns true if the manifest was present and every digest in it matched.
func (r VerifyResult) OK() bool {
	if r.DigestFileMissing || len(r.Match) == 0 {
		return false
	}
	for _, ok := range r.Match {
		if !ok {
			return false
		}
	}
	return true
}

// Failed returns the digest types that did not match, sorted by name.
func (r VerifyResult) Failed() []DigestType {
	var failed []DigestType
	for t, ok := range r.Match {
		if !ok {
			failed = append(failed, t)
		}
	}
	sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
	return failed
}

// ProgressFunc is called while files are processed. A size and position of -1
// means processing of the file is about to start. During digest calculation
// it's called with the file size and the number of bytes consumed so far,
// starting at 0. After a file was verified, it's called once more with
// size -1, position 0 and the result of the verification.
type ProgressFunc func(path string, size, pos int64, result *VerifyResult)

// uniqueTypes removes duplicates from a list of digest types while preserving
// the order.
func uniqueTypes(types []DigestType) []DigestType {
	seen := make(map[DigestType]struct{}, len(types))
	out := make([]DigestType, 0, len(types))
	for _, t := range types {
		t = ParseDigestType(string(t))
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
