package checksum

import (
	"crypto"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// HashFunc returns a new, empty hash accumulator.
type HashFunc func() hash.Hash

// Registry maps digest type names to hash constructors. Types are registered
// once and can't be replaced.
type Registry struct {
	digests map[DigestType]HashFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{digests: make(map[DigestType]HashFunc)}
}

// DefaultRegistry returns a registry with all the digest types provided by the
// standard library and golang.org/x/crypto. The names match what openssl uses.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("md5", crypto.MD5.Available, md5.New)
	r.Register("sha1", crypto.SHA1.Available, sha1.New)
	r.Register("sha224", crypto.SHA224.Available, sha256.New224)
	r.Register("sha256", crypto.SHA256.Available, sha256.New)
	r.Register("sha384", crypto.SHA384.Available, sha512.New384)
	r.Register("sha512", crypto.SHA512.Available, sha512.New)
	r.Register("sha3-256", crypto.SHA3_256.Available, func() hash.Hash { return sha3.New256() })
	r.Register("sha3-512", crypto.SHA3_512.Available, func() hash.Hash { return sha3.New512() })
	r.Register("blake2b512", crypto.BLAKE2b_512.Available, func() hash.Hash {
		h, _ := blake2b.New512(nil) // only fails for oversized keys
		return h
	})
	return r
}

// Register adds a digest type. Returns false if the name is already taken or
// if the available probe reports the implementation is missing.
func (r *Registry) Register(name DigestType, available func() bool, fn HashFunc) bool {
	name = ParseDigestType(string(name))
	if _, ok := r.digests[name]; ok {
		return false
	}
	if available != nil && !available() {
		return false
	}
	r.digests[name] = fn
	return true
}

// New returns a new hash accumulator for the given type.
func (r *Registry) New(name DigestType) (hash.Hash, error) {
	fn, ok := r.digests[ParseDigestType(string(name))]
	if !ok {
		return nil, UnknownDigestType{name}
	}
	return fn(), nil
}

// Has returns true if the type is registered.
func (r *Registry) Has(name DigestType) bool {
	_, ok := r.digests[ParseDigestType(string(name))]
	return ok
}

// Names returns all registered digest types, sorted.
func (r *Registry) Names() []DigestType {
	names := make([]DigestType, 0, len(r.digests))
	for n := range r.digests {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
