package checksum

import "strings"

// Options influence how a Tool selects files and writes manifests. Use
// NewOptions to build a usable value.
type Options struct {
	// Replace existing manifests when generating digests. Without it, files
	// that already have a manifest are skipped.
	Overwrite bool

	// Descend into sub-directories when looking for files.
	Recursive bool

	// Glob patterns of files to leave out. The pattern matching manifests is
	// always part of this list.
	Exclude []string

	// Suffix of manifest files, with or without the leading dot.
	Extension string
}

// NewOptions returns a copy of the options with the extension defaulted and the
// manifest pattern added to the excludes, so that manifests are never treated
// as content.
func NewOptions(o Options) Options {
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	exclude := make([]string, 0, len(o.Exclude)+1)
	seen := make(map[string]struct{})
	for _, p := range append(append([]string{}, o.Exclude...), o.DigestFilename("*")) {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		exclude = append(exclude, p)
	}
	o.Exclude = exclude
	return o
}

// DigestFilename returns the name of the manifest for a content file. If the
// extension consists of nothing but dots, the content file name itself is
// returned which is rejected when writing manifests.
func (o Options) DigestFilename(name string) string {
	ext := strings.TrimLeft(o.Extension, ".")
	if ext == "" {
		return name
	}
	return name + "." + ext
}
