package checksum

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Tool generates and verifies manifests for files on a backend, using a fixed
// list of digest types.
type Tool struct {
	backend Backend
	types   []DigestType
	opts    Options
}

// NewTool returns a tool for the backend. The options are normalized with
// NewOptions. The digest types are validated right away, against the hash
// implementations for local backends and against the digest catalog
// otherwise. An extension without anything but dots fails with
// InvalidArgument since manifests would overwrite their content files.
func NewTool(b Backend, opts Options, types ...DigestType) (*Tool, error) {
	opts = NewOptions(opts)
	if strings.TrimLeft(opts.Extension, ".") == "" {
		return nil, InvalidArgument{"digest file extension " + strconv.Quote(opts.Extension) + " would clobber content files"}
	}
	types = uniqueTypes(types)
	if err := checkTypes(b, types); err != nil {
		return nil, err
	}
	return &Tool{backend: b, types: types, opts: opts}, nil
}

func checkTypes(b Backend, types []DigestType) error {
	if len(types) == 0 {
		return nil
	}
	if hp, ok := b.(HashProvider); ok {
		for _, t := range types {
			if _, err := hp.NewHash(t); err != nil {
				return err
			}
		}
		return nil
	}
	known, err := b.Digests()
	if err != nil {
		return err
	}
	for _, t := range types {
		if !hasType(known, t) {
			return UnknownDigestType{t}
		}
	}
	return nil
}

func hasType(types []DigestType, t DigestType) bool {
	for _, k := range types {
		if k == t {
			return true
		}
	}
	return false
}

// Backend returns the backend the tool operates on.
func (t *Tool) Backend() Backend { return t.backend }

// Types returns the digest types used when generating manifests.
func (t *Tool) Types() []DigestType { return t.types }

// Options returns the normalized options.
func (t *Tool) Options() Options { return t.opts }

// DigestFilename returns the name of the manifest for a file.
func (t *Tool) DigestFilename(name string) string { return t.opts.DigestFilename(name) }

func (t *Tool) process(ctx context.Context, dir string, masks []string, fn func(name string) error) error {
	return ProcessFiles(ctx, t.backend, dir, masks, t.opts.Exclude, t.opts.Recursive, fn)
}

// CreateDigestFiles writes manifests for all files in dir matching the masks.
func (t *Tool) CreateDigestFiles(ctx context.Context, dir string, masks []string, progress ProgressFunc) error {
	return t.process(ctx, dir, masks, func(name string) error {
		if progress != nil {
			progress(name, -1, -1, nil)
		}
		_, err := t.CreateDigestFile(name, progress)
		return err
	})
}

// CreateDigestFile calculates the digests of a file and writes them into its
// manifest. If the manifest exists and overwriting isn't enabled, nothing is
// done and false is returned.
func (t *Tool) CreateDigestFile(name string, progress ProgressFunc) (bool, error) {
	manifest := t.DigestFilename(name)
	if samePath(name, manifest) {
		return false, InvalidArgument{"digest file " + manifest + " would clobber content file " + name}
	}
	if !t.opts.Overwrite {
		exists, err := t.backend.Exists(manifest)
		if err != nil {
			return false, err
		}
		if exists {
			Log.WithField("manifest", manifest).Debug("manifest exists, skipping")
			return false, nil
		}
	}
	result, err := DigestFile(t.backend, t.types, name, progress)
	if err != nil {
		return false, err
	}
	if err := t.backend.WriteText(manifest, EncodeManifest(name, t.types, result)); err != nil {
		return false, err
	}
	return true, nil
}

// DigestFiles calculates the digests of all files in dir matching the masks,
// without writing manifests.
func (t *Tool) DigestFiles(ctx context.Context, dir string, masks []string, progress ProgressFunc) (map[string]DigestResult, error) {
	results := make(map[string]DigestResult)
	err := t.process(ctx, dir, masks, func(name string) error {
		if progress != nil {
			progress(name, -1, -1, nil)
		}
		r, err := t.DigestFile(name, progress)
		if err != nil {
			return err
		}
		results[name] = r
		return nil
	})
	return results, err
}

// DigestFile calculates the digests of one file.
func (t *Tool) DigestFile(name string, progress ProgressFunc) (DigestResult, error) {
	return DigestFile(t.backend, t.types, name, progress)
}

// VerifyDigestFiles verifies all files in dir matching the masks against their
// manifests. Once a file is done, progress is called with its result.
func (t *Tool) VerifyDigestFiles(ctx context.Context, dir string, masks []string, progress ProgressFunc) (map[string]VerifyResult, error) {
	results := make(map[string]VerifyResult)
	err := t.process(ctx, dir, masks, func(name string) error {
		if progress != nil {
			progress(name, -1, -1, nil)
		}
		r, err := t.VerifyDigestFile(name, progress)
		if err != nil {
			return err
		}
		results[name] = r
		if progress != nil {
			progress(name, -1, 0, &r)
		}
		return nil
	})
	return results, err
}

// VerifyDigestFile verifies a file against its manifest. A missing manifest
// is not an error, it's reported in the result.
func (t *Tool) VerifyDigestFile(name string, progress ProgressFunc) (VerifyResult, error) {
	manifest := t.DigestFilename(name)
	exists, err := t.backend.Exists(manifest)
	if err != nil {
		return VerifyResult{}, err
	}
	if !exists {
		return VerifyResult{DigestFileMissing: true}, nil
	}
	content, err := t.backend.ReadText(manifest)
	if err != nil {
		return VerifyResult{}, err
	}
	expected, err := ParseManifest(manifest, name, content, t.backend)
	if err != nil {
		return VerifyResult{}, err
	}
	match, err := t.VerifyFile(name, expected, progress)
	if err != nil {
		return VerifyResult{}, err
	}
	r := VerifyResult{Match: match}
	if !r.OK() {
		Log.WithFields(logrus.Fields{
			"file":   name,
			"failed": r.Failed(),
		}).Info("verification failed")
	}
	return r, nil
}

// VerifyFile compares the digests of a file with the expected ones. Only the
// types in expected are calculated.
func (t *Tool) VerifyFile(name string, expected DigestResult, progress ProgressFunc) (map[DigestType]bool, error) {
	return VerifyFile(t.backend, name, expected, progress)
}

// VerifyStream compares the digests of a stream with the expected ones. Only
// available with backends that calculate digests locally.
func (t *Tool) VerifyStream(r io.Reader, expected DigestResult, progress func(pos int64)) (map[DigestType]bool, error) {
	hp, ok := t.backend.(HashProvider)
	if !ok {
		return nil, InvalidArgument{"backend " + t.backend.String() + " can't digest streams"}
	}
	return VerifyStream(hp, r, expected, progress)
}

// DigestStream calculates the digests of a stream. Only available with
// backends that calculate digests locally.
func (t *Tool) DigestStream(r io.Reader, progress func(pos int64)) (DigestResult, error) {
	hp, ok := t.backend.(HashProvider)
	if !ok {
		return nil, InvalidArgument{"backend " + t.backend.String() + " can't digest streams"}
	}
	return DigestStream(hp, t.types, r, progress)
}

func samePath(a, b string) bool {
	pa, err := filepath.Abs(a)
	if err != nil {
		pa = filepath.Clean(a)
	}
	pb, err := filepath.Abs(b)
	if err != nil {
		pb = filepath.Clean(b)
	}
	return pa == pb
}
