package checksum

import (
	"hash"
	"io"
	"regexp"
)

// Backend provides access to the files that are digested, either on the local
// filesystem or on a remote host. The same traversal, generation and
// verification logic runs on top of either one.
//
// A backend is not safe for concurrent use.
type Backend interface {
	DigestCatalog

	// Exists returns true if the path is present.
	Exists(path string) (bool, error)

	// Size returns the size of a file. Fails with NotFound if it's absent.
	Size(path string) (int64, error)

	// Open returns a stream of the file's content. Fails with NotFound if the
	// file is absent.
	Open(path string) (io.ReadCloser, error)

	// List returns the regular files in dir whose base name matches any of the
	// masks. Symlinks to regular files count as files. Sub-directories, except
	// hidden ones, are included if recursive is set.
	List(dir string, masks []string, recursive bool) ([]string, error)

	// ReadText returns the whole content of a (small) file.
	ReadText(path string) (string, error)

	// WriteText creates or truncates a file and writes the content into it.
	WriteText(path, content string) error

	Close() error
	String() string
}

// DigestCatalog describes the digest types a backend is able to calculate.
type DigestCatalog interface {
	// Digests returns the names of the supported digest types.
	Digests() ([]DigestType, error)

	// DigestLength returns the length of a hex digest of the given type.
	DigestLength(t DigestType) (int, error)
}

// HashProvider is implemented by backends that calculate digests locally by
// streaming file content through hash accumulators.
type HashProvider interface {
	NewHash(t DigestType) (hash.Hash, error)
}

// FileDigester is implemented by backends that calculate digests of a file
// without streaming it, one request per digest type. Progress can only be
// reported at the start and the end of a file.
type FileDigester interface {
	DigestFile(path string, types []DigestType) (DigestResult, error)
}

// PathInfo is the parsed form of a location in the form [user@][host:]directory.
type PathInfo struct {
	User string
	Host string
	Dir  string
}

var pathSpec = regexp.MustCompile(`^(?:([^@/]+)@)?(?:([^:/]+):)?(.*)$`)

// ParsePath splits a location string into user, host and directory. Without a
// host, the location is local. The directory defaults to the current one.
func ParsePath(s string) PathInfo {
	var info PathInfo
	if m := pathSpec.FindStringSubmatch(s); m != nil {
		info = PathInfo{User: m[1], Host: m[2], Dir: m[3]}
	}
	if info.Host == "" {
		// A user without a host doesn't make a location, treat it all as path
		info = PathInfo{Dir: s}
	}
	if info.Dir == "" {
		info.Dir = "."
	}
	return info
}

// IsRemote returns true if the location names a host.
func (p PathInfo) IsRemote() bool { return p.Host != "" }

func (p PathInfo) String() string {
	if !p.IsRemote() {
		return p.Dir
	}
	s := p.Host + ":" + p.Dir
	if p.User != "" {
		s = p.User + "@" + s
	}
	return s
}

// NewBackend returns a local backend using the registry if the location has no
// host, and a remote one otherwise.
func NewBackend(info PathInfo, registry *Registry, opt RemoteOptions) (Backend, error) {
	if !info.IsRemote() {
		return NewLocalBackend(registry), nil
	}
	return NewRemoteBackend(info.User, info.Host, opt)
}
