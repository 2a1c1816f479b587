package checksum

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// RemoteSettings are the properties of a remote host that are stored in the
// settings file in the remote user's home directory.
type RemoteSettings struct {
	OpenSSL string `yaml:"openssl"`
}

// ParseRemoteSettings decodes the YAML content of a settings file. Older
// releases wrote the key with a leading colon (":openssl"), that's accepted as
// well.
func ParseRemoteSettings(content string) (RemoteSettings, error) {
	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(content), &m); err != nil {
		return RemoteSettings{}, errors.Wrap(err, "parsing remote settings")
	}
	var s RemoteSettings
	for _, key := range []string{"openssl", ":openssl"} {
		if v, ok := m[key]; ok && v != nil {
			s.OpenSSL = fmt.Sprint(v)
			break
		}
	}
	return s, nil
}

// Encode returns the YAML representation of the settings.
func (s RemoteSettings) Encode() (string, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "encoding remote settings")
	}
	return string(b), nil
}
