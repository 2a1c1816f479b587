package checksum

import (
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalBackend accesses files on the local filesystem and calculates digests
// with the hash implementations in its registry.
type LocalBackend struct {
	registry *Registry
}

var _ Backend = &LocalBackend{}
var _ HashProvider = &LocalBackend{}

// NewLocalBackend returns a backend for the local filesystem. If registry is
// nil, the default registry is used.
func NewLocalBackend(registry *Registry) *LocalBackend {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &LocalBackend{registry: registry}
}

// Registry returns the digest registry used by the backend.
func (b *LocalBackend) Registry() *Registry { return b.registry }

func (b *LocalBackend) Exists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (b *LocalBackend) Size(name string) (int64, error) {
	info, err := os.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, NotFound{name}
		}
		return 0, err
	}
	return info.Size(), nil
}

func (b *LocalBackend) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFound{name}
		}
		return nil, err
	}
	return f, nil
}

func (b *LocalBackend) List(dir string, masks []string, recursive bool) ([]string, error) {
	globs, err := CompileGlobs(masks)
	if err != nil {
		return nil, err
	}
	var list []string
	err = filepath.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			if name == dir && os.IsNotExist(err) {
				return NotFound{dir}
			}
			return err
		}
		if name == dir {
			return nil
		}
		if d.IsDir() {
			if !recursive || isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !globs.Match(d.Name()) {
			return nil
		}
		// Follow symlinks, only regular files are of interest
		if !d.Type().IsRegular() {
			info, err := os.Stat(name)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		}
		list = append(list, name)
		return nil
	})
	return list, err
}

func (b *LocalBackend) ReadText(name string) (string, error) {
	content, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", NotFound{name}
		}
		return "", err
	}
	return string(content), nil
}

func (b *LocalBackend) WriteText(name, content string) error {
	return errors.Wrap(os.WriteFile(name, []byte(content), 0644), "writing "+name)
}

func (b *LocalBackend) Digests() ([]DigestType, error) {
	return b.registry.Names(), nil
}

func (b *LocalBackend) DigestLength(t DigestType) (int, error) {
	h, err := b.registry.New(t)
	if err != nil {
		return 0, err
	}
	return h.Size() * 2, nil
}

func (b *LocalBackend) NewHash(t DigestType) (hash.Hash, error) {
	return b.registry.New(t)
}

func (b *LocalBackend) Close() error { return nil }

func (b *LocalBackend) String() string { return "local" }

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}
