package vesper

import (
	"bytes"
	"io"
	"os"
)

// Stream caters for a generic reader type so decoders can run over
// either a lazily-read *os.File or a fully in-memory *bytes.Reader.
// All a decoder cares about is Read and Seek, which both implement.
type Stream interface {
	io.Reader
	io.Seeker
}

// OpenStream opens path and returns a Stream, plus the total file
// size in bytes and a close func the caller must defer.
//
// inMemory selects the naive decode path (§5): the whole file is read
// into a *bytes.Reader up front, which makes the audio footer scan a
// single linear pass over a flat buffer. With inMemory false the
// *os.File itself is returned for the caller to read from directly.
// Every decoder in this package passes inMemory true.
func OpenStream(path string, inMemory bool) (stream Stream, size int64, closeFn func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil, newDecodeError(path, ErrFileMissing, err)
		}
		return nil, 0, nil, newDecodeError(path, ErrFileMissing, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, nil, newDecodeError(path, ErrFileMissing, err)
	}
	size = info.Size()

	if !inMemory {
		return f, size, f.Close, nil
	}

	buffer := make([]byte, size)
	if _, err := io.ReadFull(f, buffer); err != nil {
		_ = f.Close()
		return nil, 0, nil, newDecodeError(path, ErrTruncated, err)
	}
	_ = f.Close()

	return bytes.NewReader(buffer), size, func() error { return nil }, nil
}

// tell is a small helper for telling the current position within a
// stream opened for reading.
func tell(stream Stream) (int64, error) {
	return stream.Seek(0, io.SeekCurrent)
}
