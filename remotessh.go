package checksum

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
)

// Executor runs shell commands on a remote host and returns what they print
// on stdout, without the trailing newline.
type Executor interface {
	Execute(command string) (string, error)
}

// Transport is an established connection to a remote host, offering file
// access via SFTP and command execution.
type Transport interface {
	Executor
	SFTP() *sftp.Client
	Close() error
}

// Dialer establishes a transport to a host. user can be blank.
type Dialer func(user, host string) (Transport, error)

// SSHTransport uses the local ssh binary to talk to a remote host. It runs one
// SFTP subsystem and one login shell that commands are fed into, both for the
// lifetime of the transport.
type SSHTransport struct {
	client *sftp.Client
	shell  *ShellSession
	cancel context.CancelFunc
	stderr io.Closer
}

var _ Transport = &SSHTransport{}

// DialSSH returns a Dialer that starts sessions with the given ssh command.
// If sshCmd is blank, CHECKSUM_SSH_PATH is used, or "ssh" if that isn't set
// either.
func DialSSH(sshCmd string) Dialer {
	if sshCmd == "" {
		sshCmd = os.Getenv("CHECKSUM_SSH_PATH")
	}
	if sshCmd == "" {
		sshCmd = "ssh"
	}
	return func(user, host string) (Transport, error) {
		target := host
		if user != "" {
			target = user + "@" + host
		}
		ctx, cancel := context.WithCancel(context.Background())
		stderr := remoteStderr(target, "sftp")
		client, err := startSFTP(ctx, sshCmd, target, stderr)
		if err != nil {
			cancel()
			stderr.Close()
			return nil, TransportFailure{"sftp " + target, err}
		}
		shell, err := StartShellSession(ctx, sshCmd, target)
		if err != nil {
			client.Close()
			cancel()
			stderr.Close()
			return nil, TransportFailure{"ssh " + target, err}
		}
		return &SSHTransport{client: client, shell: shell, cancel: cancel, stderr: stderr}, nil
	}
}

// remoteStderr returns a writer that sends the stderr output of a remote
// process to the log, one debug entry per line.
func remoteStderr(target, session string) *io.PipeWriter {
	return Log.WithFields(logrus.Fields{
		"host":    target,
		"session": session,
	}).WriterLevel(logrus.DebugLevel)
}

func startSFTP(ctx context.Context, sshCmd, target string, stderr io.Writer) (*sftp.Client, error) {
	c := exec.CommandContext(ctx, sshCmd, target, "-s", "sftp")
	c.Stderr = stderr
	r, err := c.StdoutPipe()
	if err != nil {
		return nil, err
	}
	w, err := c.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err = c.Start(); err != nil {
		return nil, err
	}
	return sftp.NewClientPipe(r, w)
}

func (t *SSHTransport) SFTP() *sftp.Client { return t.client }

func (t *SSHTransport) Execute(command string) (string, error) {
	return t.shell.Execute(command)
}

// Close terminates the SFTP session and the remote shell.
func (t *SSHTransport) Close() error {
	defer t.stderr.Close()
	defer t.cancel()
	err := t.client.Close()
	if serr := t.shell.Close(); err == nil {
		err = serr
	}
	return err
}

// ShellSession is a login shell on a remote host, reading commands from
// stdin. The output of each command is delimited by a marker line carrying
// the command's exit status.
type ShellSession struct {
	c      *exec.Cmd
	r      *bufio.Reader
	w      io.WriteCloser
	stderr io.Closer
	marker string
}

// StartShellSession starts "bash -l" on the target host via ssh. Whatever the
// shell prints on stderr is logged at debug level.
func StartShellSession(ctx context.Context, sshCmd, target string) (*ShellSession, error) {
	stderr := remoteStderr(target, "shell")
	c := exec.CommandContext(ctx, sshCmd, target, "bash", "-l")
	c.Stderr = stderr
	r, err := c.StdoutPipe()
	if err != nil {
		stderr.Close()
		return nil, err
	}
	w, err := c.StdinPipe()
	if err != nil {
		stderr.Close()
		return nil, err
	}
	if err = c.Start(); err != nil {
		stderr.Close()
		return nil, err
	}
	s := NewShellSession(c, r, w)
	s.stderr = stderr
	return s, nil
}

// NewShellSession wraps the stdout and stdin of an already running shell. c
// can be nil if there's no local process to wait for.
func NewShellSession(c *exec.Cmd, r io.Reader, w io.WriteCloser) *ShellSession {
	return &ShellSession{
		c:      c,
		r:      bufio.NewReader(r),
		w:      w,
		marker: fmt.Sprintf("__checksum_tools_%d__", rand.Int63()),
	}
}

// Execute sends a command to the shell and waits for its output. A non-zero
// exit status is not an error, the output is returned regardless.
func (s *ShellSession) Execute(command string) (string, error) {
	if _, err := fmt.Fprintf(s.w, "%s\nprintf '\\n%s %%d\\n' $?\n", command, s.marker); err != nil {
		return "", TransportFailure{"exec", errors.Wrap(err, "sending command")}
	}
	var out strings.Builder
	for {
		line, err := s.r.ReadString('\n')
		if strings.HasPrefix(line, s.marker+" ") {
			status, _ := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, s.marker+" ")))
			Log.WithFields(logrus.Fields{
				"command": command,
				"status":  status,
			}).Debug("executed remote command")
			break
		}
		out.WriteString(line)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return "", TransportFailure{"exec", errors.Wrap(err, "reading output of "+command)}
		}
	}
	// Drop the newline added in front of the marker, then the command's own
	result := strings.TrimSuffix(out.String(), "\n")
	return strings.TrimSuffix(result, "\n"), nil
}

// Close ends the shell and waits for the process to terminate.
func (s *ShellSession) Close() error {
	fmt.Fprintln(s.w, "exit")
	err := s.w.Close()
	if s.c != nil {
		if werr := s.c.Wait(); err == nil {
			err = werr
		}
	}
	if s.stderr != nil {
		s.stderr.Close()
	}
	return err
}
