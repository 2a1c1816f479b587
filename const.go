package checksum

const (
	// ChunkSize is the size of the blocks read from a stream while calculating
	// digests. Progress is reported once per chunk.
	ChunkSize = 1 << 20

	// DefaultExtension is appended to a content file name to form the name of
	// its manifest.
	DefaultExtension = ".digest"

	// RemoteSettingsFile is the name of the settings file in the home directory
	// of the remote user. It holds the location of the openssl binary.
	RemoteSettingsFile = ".checksum-tools-system"
)
