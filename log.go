package checksum

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log is used by the library to report warnings, such as filename mismatches
// in manifests, and debug information. Output is discarded unless configured
// otherwise by the caller.
var Log = logrus.New()

func init() {
	Log.SetOutput(io.Discard)
}
