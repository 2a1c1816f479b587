package checksum

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFound is returned by a backend when a file or directory does not exist.
type NotFound struct {
	Path string
}

func (e NotFound) Error() string {
	return fmt.Sprintf("%s: no such file or directory", e.Path)
}

// UnknownDigestType is returned when a digest type is requested that is not
// registered.
type UnknownDigestType struct {
	Type DigestType
}

func (e UnknownDigestType) Error() string {
	return fmt.Sprintf("undefined digest type: %s", e.Type)
}

// InvalidArgument is returned when an operation is called with arguments that
// can't work, like a manifest name that would overwrite the content file.
type InvalidArgument struct {
	Msg string
}

func (e InvalidArgument) Error() string {
	return "invalid argument: " + e.Msg
}

// ConfigurationError means a remote backend doesn't know where to find the
// openssl binary on the remote host.
type ConfigurationError struct {
	Msg string
}

func (e ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// TransportFailure wraps any error that occurred while talking to a remote
// host, be it in the SFTP session or while executing a command.
type TransportFailure struct {
	Op  string
	Err error
}

func (e TransportFailure) Error() string {
	return fmt.Sprintf("transport failure (%s): %s", e.Op, e.Err)
}

func (e TransportFailure) Unwrap() error { return e.Err }

// InvalidManifest is returned when a manifest could be read but doesn't
// contain any usable digests.
type InvalidManifest struct {
	Path string
	Msg  string
}

func (e InvalidManifest) Error() string {
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, e.Msg)
}

// Interrupted is returned when a user interrupted a long-running operation, for
// example by pressing Ctrl+C
type Interrupted struct{}

func (e Interrupted) Error() string { return "interrupted" }

// IsNotFound returns true if the error, or any error it wraps, is NotFound.
func IsNotFound(err error) bool {
	var e NotFound
	return errors.As(err, &e)
}
