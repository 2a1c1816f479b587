package main

import (
	"errors"
	"strings"

	"github.com/folbricht/checksum-tools"
	"github.com/spf13/pflag"
)

// cmdToolOptions are used to build a checksum.Tool from the commandline. These
// generally override settings from the config file.
type cmdToolOptions struct {
	digests   []string
	recursive bool
	exclude   []string
	extension string
	openssl   string
}

// Validate the command line options are sensical and return an error if they aren't.
func (o cmdToolOptions) validate() error {
	for _, d := range o.digests {
		if strings.TrimSpace(d) == "" {
			return errors.New("empty digest type in --digest")
		}
	}
	if o.extension != "" && strings.Trim(o.extension, ".") == "" {
		return errors.New("--extension needs to contain more than dots")
	}
	return nil
}

// Digest types from the command line, or the configured defaults.
func (o cmdToolOptions) digestTypes() []checksum.DigestType {
	names := o.digests
	if len(names) == 0 {
		names = cfg.Digests
	}
	types := make([]checksum.DigestType, 0, len(names))
	for _, n := range names {
		types = append(types, checksum.ParseDigestType(n))
	}
	return types
}

// MergedWith applies command line options on top of the ones from the config.
func (o cmdToolOptions) MergedWith(opt checksum.Options) checksum.Options {
	opt.Recursive = o.recursive
	opt.Exclude = append(opt.Exclude, o.exclude...)
	if o.extension != "" {
		opt.Extension = o.extension
	}
	return opt
}

// Open a backend for the location and return it together with the directory
// part of the location.
func (o cmdToolOptions) backend(location string) (checksum.Backend, string, error) {
	info := checksum.ParsePath(location)
	b, err := checksum.NewBackend(info, checksum.DefaultRegistry(), checksum.RemoteOptions{
		SSHCommand: cfg.SSHCommand,
		OpenSSL:    o.openssl,
	})
	return b, info.Dir, err
}

// Build a tool for the location. The caller is responsible for closing the
// tool's backend.
func (o cmdToolOptions) newTool(location string, opt checksum.Options) (*checksum.Tool, string, error) {
	b, dir, err := o.backend(location)
	if err != nil {
		return nil, "", err
	}
	opt.Extension = cfg.Extension
	t, err := checksum.NewTool(b, o.MergedWith(opt), o.digestTypes()...)
	if err != nil {
		b.Close()
		return nil, "", err
	}
	return t, dir, nil
}

// Add common tool option flags to a command flagset.
func addToolOptions(o *cmdToolOptions, f *pflag.FlagSet) {
	f.StringSliceVarP(&o.digests, "digest", "d", nil, "digest types to use, defaults to the config")
	f.BoolVarP(&o.recursive, "recursive", "r", false, "descend into sub-directories")
	f.StringSliceVarP(&o.exclude, "exclude", "x", nil, "glob pattern of files to skip, can be repeated")
	f.StringVarP(&o.extension, "extension", "e", "", "extension of digest files, defaults to the config")
	f.StringVar(&o.openssl, "openssl", "", "location of openssl on the remote host, stored on the host for later use")
}
