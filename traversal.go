package checksum

import (
	"context"
	"path/filepath"
	"sort"
)

// ResolveTargets lists the files in dir matching any of the include masks but
// none of the exclude masks. The result is sorted and free of duplicates. An
// empty include list means "*".
func ResolveTargets(b Backend, dir string, include, exclude []string, recursive bool) ([]string, error) {
	if len(include) == 0 {
		include = []string{"*"}
	}
	excludes, err := CompileGlobs(exclude)
	if err != nil {
		return nil, err
	}
	list, err := b.List(dir, include, recursive)
	if err != nil {
		return nil, err
	}
	sort.Strings(list)

	targets := make([]string, 0, len(list))
	for i, name := range list {
		if i > 0 && list[i-1] == name {
			continue
		}
		if excludes.Excludes(filepath.Base(name)) {
			continue
		}
		targets = append(targets, name)
	}
	return targets, nil
}

// ProcessFiles resolves the target files and calls fn for each of them, one
// after the other. Processing stops at the first error returned by fn, or when
// the context is cancelled.
func ProcessFiles(ctx context.Context, b Backend, dir string, include, exclude []string, recursive bool, fn func(name string) error) error {
	if fn == nil {
		return InvalidArgument{"no file callback given"}
	}
	targets, err := ResolveTargets(b, dir, include, exclude, recursive)
	if err != nil {
		return err
	}
	for _, name := range targets {
		// See if we're meant to stop
		select {
		case <-ctx.Done():
			return Interrupted{}
		default:
		}
		if err := fn(name); err != nil {
			return err
		}
	}
	return nil
}
