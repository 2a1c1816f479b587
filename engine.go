package checksum

import (
	"encoding/hex"
	"hash"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// DigestStream reads the stream from the start in chunks of ChunkSize and
// feeds every chunk into one hash accumulator per digest type. After each
// chunk, progress is called with the number of bytes read so far, if it's
// not nil.
func DigestStream(hp HashProvider, types []DigestType, r io.Reader, progress func(pos int64)) (DigestResult, error) {
	hashes := make([]hash.Hash, len(types))
	writers := make([]io.Writer, len(types))
	for i, t := range types {
		h, err := hp.NewHash(t)
		if err != nil {
			return nil, err
		}
		hashes[i] = h
		writers[i] = h
	}
	if s, ok := r.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, errors.Wrap(err, "rewinding stream")
		}
	}
	var (
		w   = io.MultiWriter(writers...)
		buf = make([]byte, ChunkSize)
		pos int64
	)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			w.Write(buf[:n]) // hashes never return errors
			pos += int64(n)
			if progress != nil {
				progress(pos)
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading stream")
		}
	}
	result := make(DigestResult, len(types))
	for i, t := range types {
		result[t] = hex.EncodeToString(hashes[i].Sum(nil))
	}
	return result, nil
}

// DigestFile calculates the digests of a file on a backend. Progress is
// reported with the file size and position 0 before reading. Backends that
// stream the content report progress after every chunk, others only once
// more when done.
func DigestFile(b Backend, types []DigestType, name string, progress ProgressFunc) (DigestResult, error) {
	size, err := b.Size(name)
	if err != nil {
		return nil, err
	}
	report := func(pos int64) {
		if progress != nil {
			progress(name, size, pos, nil)
		}
	}

	if d, ok := b.(FileDigester); ok {
		report(0)
		result, err := d.DigestFile(name, types)
		if err != nil {
			return nil, err
		}
		report(size)
		return result, nil
	}

	hp, ok := b.(HashProvider)
	if !ok {
		return nil, InvalidArgument{"backend " + b.String() + " can't calculate digests"}
	}
	f, err := b.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	report(0)
	return DigestStream(hp, types, f, report)
}

// VerifyStream recalculates the digests of a stream for exactly the types in
// expected and compares them, ignoring case.
func VerifyStream(hp HashProvider, r io.Reader, expected DigestResult, progress func(pos int64)) (map[DigestType]bool, error) {
	actual, err := DigestStream(hp, expected.Types(), r, progress)
	if err != nil {
		return nil, err
	}
	return compareDigests(expected, actual), nil
}

// VerifyFile recalculates the digests of a file for exactly the types in
// expected and compares them, ignoring case.
func VerifyFile(b Backend, name string, expected DigestResult, progress ProgressFunc) (map[DigestType]bool, error) {
	actual, err := DigestFile(b, expected.Types(), name, progress)
	if err != nil {
		return nil, err
	}
	return compareDigests(expected, actual), nil
}

func compareDigests(expected, actual DigestResult) map[DigestType]bool {
	result := make(map[DigestType]bool, len(expected))
	for t, want := range expected {
		got, ok := actual[t]
		result[t] = ok && want != "" && strings.EqualFold(want, got)
	}
	return result
}
