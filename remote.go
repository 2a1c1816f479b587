package checksum

import (
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
)

// RemoteOptions configure access to a remote host.
type RemoteOptions struct {
	// Command used to start SSH sessions, defaults to CHECKSUM_SSH_PATH or ssh.
	SSHCommand string

	// Location of the openssl binary on the remote host. If set, it's stored
	// in the remote settings file so later sessions can find it.
	OpenSSL string

	// Establishes the connection. Defaults to DialSSH(SSHCommand).
	Dialer Dialer
}

// RemoteBackend accesses files on a remote host via SFTP and calculates digests
// by running openssl on the host. The connection is established on first use
// and kept open until Close is called. The location of openssl, the list of
// digests it supports and the digest lengths are looked up once and cached.
type RemoteBackend struct {
	User string
	Host string

	dial      Dialer
	transport Transport
	settings  *RemoteSettings
	digests   []DigestType
	lengths   map[DigestType]int
}

var _ Backend = &RemoteBackend{}
var _ FileDigester = &RemoteBackend{}

// NewRemoteBackend returns a backend for a remote host. If an openssl location
// is given in the options, it connects right away to store it in the remote
// settings file.
func NewRemoteBackend(user, host string, opt RemoteOptions) (*RemoteBackend, error) {
	dial := opt.Dialer
	if dial == nil {
		dial = DialSSH(opt.SSHCommand)
	}
	b := &RemoteBackend{
		User:    user,
		Host:    host,
		dial:    dial,
		lengths: make(map[DigestType]int),
	}
	if opt.OpenSSL != "" {
		b.settings = &RemoteSettings{OpenSSL: opt.OpenSSL}
		if err := b.writeSettings(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *RemoteBackend) connect() (Transport, error) {
	if b.transport != nil {
		return b.transport, nil
	}
	t, err := b.dial(b.User, b.Host)
	if err != nil {
		return nil, err
	}
	b.transport = t
	return t, nil
}

// Execute runs a command in the remote shell and returns its output.
func (b *RemoteBackend) Execute(command string) (string, error) {
	t, err := b.connect()
	if err != nil {
		return "", err
	}
	return t.Execute(command)
}

// OpenSSL returns the location of the openssl binary on the remote host, as
// read from the settings file. Fails with ConfigurationError if there's no
// settings file.
func (b *RemoteBackend) OpenSSL() (string, error) {
	if b.settings == nil {
		name, err := b.settingsFile()
		if err != nil {
			return "", err
		}
		ok, err := b.Exists(name)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ConfigurationError{"checksum tools not configured for " + b.String() +
				", specify the location of the remote openssl binary"}
		}
		content, err := b.ReadText(name)
		if err != nil {
			return "", err
		}
		s, err := ParseRemoteSettings(content)
		if err != nil {
			return "", err
		}
		b.settings = &s
	}
	if b.settings.OpenSSL == "" {
		return "", ConfigurationError{"no openssl location in remote settings for " + b.String()}
	}
	return b.settings.OpenSSL, nil
}

func (b *RemoteBackend) settingsFile() (string, error) {
	home, err := b.Execute("echo $HOME")
	if err != nil {
		return "", err
	}
	return path.Join(strings.TrimSpace(home), RemoteSettingsFile), nil
}

func (b *RemoteBackend) writeSettings() error {
	name, err := b.settingsFile()
	if err != nil {
		return err
	}
	content, err := b.settings.Encode()
	if err != nil {
		return err
	}
	return b.WriteText(name, content)
}

func (b *RemoteBackend) Exists(name string) (bool, error) {
	t, err := b.connect()
	if err != nil {
		return false, err
	}
	if _, err := t.SFTP().Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, TransportFailure{"stat " + name, err}
	}
	return true, nil
}

func (b *RemoteBackend) Size(name string) (int64, error) {
	t, err := b.connect()
	if err != nil {
		return 0, err
	}
	info, err := t.SFTP().Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, NotFound{name}
		}
		return 0, TransportFailure{"stat " + name, err}
	}
	return info.Size(), nil
}

func (b *RemoteBackend) Open(name string) (io.ReadCloser, error) {
	t, err := b.connect()
	if err != nil {
		return nil, err
	}
	f, err := t.SFTP().Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFound{name}
		}
		return nil, TransportFailure{"open " + name, err}
	}
	return f, nil
}

func (b *RemoteBackend) List(dir string, masks []string, recursive bool) ([]string, error) {
	globs, err := CompileGlobs(masks)
	if err != nil {
		return nil, err
	}
	t, err := b.connect()
	if err != nil {
		return nil, err
	}
	client := t.SFTP()
	var list []string

	if !recursive {
		infos, err := client.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, NotFound{dir}
			}
			return nil, TransportFailure{"readdir " + dir, err}
		}
		for _, info := range infos {
			name := path.Join(dir, info.Name())
			if globs.Match(info.Name()) && isRegularFile(client, name, info) {
				list = append(list, name)
			}
		}
		return list, nil
	}

	walker := client.Walk(dir)
	for walker.Step() {
		if err := walker.Err(); err != nil {
			if walker.Path() == dir && os.IsNotExist(err) {
				return nil, NotFound{dir}
			}
			return nil, TransportFailure{"walk " + walker.Path(), err}
		}
		name := walker.Path()
		if name == dir {
			continue
		}
		info := walker.Stat()
		if info.IsDir() {
			if isHidden(info.Name()) {
				walker.SkipDir()
			}
			continue
		}
		if globs.Match(info.Name()) && isRegularFile(client, name, info) {
			list = append(list, name)
		}
	}
	return list, nil
}

// isRegularFile follows symlinks, like the local backend does.
func isRegularFile(client *sftp.Client, name string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := client.Stat(name)
		if err != nil {
			return false
		}
		info = target
	}
	return info.Mode().IsRegular()
}

func (b *RemoteBackend) ReadText(name string) (string, error) {
	f, err := b.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return "", TransportFailure{"read " + name, err}
	}
	return string(content), nil
}

func (b *RemoteBackend) WriteText(name, content string) error {
	t, err := b.connect()
	if err != nil {
		return err
	}
	f, err := t.SFTP().Create(name)
	if err != nil {
		return TransportFailure{"create " + name, err}
	}
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return TransportFailure{"write " + name, err}
	}
	if err := f.Close(); err != nil {
		return TransportFailure{"close " + name, err}
	}
	return nil
}

var (
	// Old versions of openssl list one digest per line in the help text
	opensslDigestHelp = regexp.MustCompile(`(?m)-(\S+?)\s+to use the .+ message digest algorithm`)

	// Newer ones have a block of names following this header
	opensslDigestList = regexp.MustCompile(`(?i)supported digests:\s*\n`)
)

// Digests returns the digest types supported by the remote openssl binary.
func (b *RemoteBackend) Digests() ([]DigestType, error) {
	if b.digests != nil {
		return b.digests, nil
	}
	openssl, err := b.OpenSSL()
	if err != nil {
		return nil, err
	}
	out, err := b.Execute(openssl + " dgst -h 2>&1")
	if err != nil {
		return nil, err
	}
	digests := parseOpenSSLDigests(out)
	if len(digests) == 0 {
		if out, err = b.Execute(openssl + " dgst -list 2>&1"); err != nil {
			return nil, err
		}
		digests = parseOpenSSLDigests(out)
	}
	b.digests = digests
	return digests, nil
}

// checkDigest fails with UnknownDigestType if the remote openssl doesn't
// support t.
func (b *RemoteBackend) checkDigest(t DigestType) error {
	digests, err := b.Digests()
	if err != nil {
		return err
	}
	if !hasType(digests, t) {
		return UnknownDigestType{t}
	}
	return nil
}

func parseOpenSSLDigests(out string) []DigestType {
	var names []DigestType
	for _, m := range opensslDigestHelp.FindAllStringSubmatch(out, -1) {
		names = append(names, ParseDigestType(m[1]))
	}
	if loc := opensslDigestList.FindStringIndex(out); loc != nil {
		for _, field := range strings.Fields(out[loc[1]:]) {
			if !strings.HasPrefix(field, "-") {
				break
			}
			names = append(names, ParseDigestType(strings.TrimPrefix(field, "-")))
		}
	}
	return uniqueTypes(names)
}

// DigestLength probes the remote openssl for the length of a hex digest. The
// result is cached.
func (b *RemoteBackend) DigestLength(t DigestType) (int, error) {
	if l, ok := b.lengths[t]; ok {
		return l, nil
	}
	if err := b.checkDigest(t); err != nil {
		return 0, err
	}
	openssl, err := b.OpenSSL()
	if err != nil {
		return 0, err
	}
	out, err := b.Execute("echo - | " + openssl + " dgst -" + string(t))
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0, UnknownDigestType{t}
	}
	l := len(fields[len(fields)-1])
	b.lengths[t] = l
	return l, nil
}

// DigestFile runs openssl on the remote host once for every digest type.
func (b *RemoteBackend) DigestFile(name string, types []DigestType) (DigestResult, error) {
	openssl, err := b.OpenSSL()
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if err := b.checkDigest(t); err != nil {
			return nil, err
		}
	}
	result := make(DigestResult, len(types))
	for _, t := range types {
		out, err := b.Execute(openssl + " dgst -" + string(t) + " " + shellQuote(name))
		if err != nil {
			return nil, err
		}
		i := strings.LastIndex(out, "= ")
		if i < 0 {
			return nil, TransportFailure{"dgst", errors.Errorf("unexpected output from openssl for %s: %q", name, out)}
		}
		result[t] = strings.ToLower(strings.TrimSpace(out[i+2:]))
		Log.WithFields(logrus.Fields{
			"host":   b.Host,
			"file":   name,
			"type":   t,
			"digest": result[t],
		}).Debug("calculated remote digest")
	}
	return result, nil
}

// Close terminates the connection, if one was established.
func (b *RemoteBackend) Close() error {
	if b.transport == nil {
		return nil
	}
	err := b.transport.Close()
	b.transport = nil
	return err
}

func (b *RemoteBackend) String() string {
	if b.User != "" {
		return b.User + "@" + b.Host
	}
	return b.Host
}

// shellQuote wraps a string in single quotes for use in a shell command.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
