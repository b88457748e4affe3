package vesper

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	gpsPreambleSize = 1024
	gpsMagic        uint32 = 0xA55AA55A
)

// GpsSnapshot is the result of decoding one GPS .BIN file: the
// calendar instant and filename derived from the 1024-byte preamble,
// plus the word-swapped payload ready to be written as a .dat file
// (§3, §4.4).
type GpsSnapshot struct {
	Filename string
	Words    []uint32
}

// DecodeGps validates the 1024-byte preamble (magic word, direct-byte
// rather than BCD date/time) and streams the remainder as
// little-endian 32-bit words, each run through the high/low 16-bit
// swap (§4.4).
//
// The returned Filename is a bare basename, not a full path.
// WriteGpsSnapshot joins it under <outRoot>/gps/snapshots per §6.
func DecodeGps(path string, log *slog.Logger) (GpsSnapshot, error) {
	stream, size, closeFn, err := OpenStream(path, true)
	if err != nil {
		return GpsSnapshot{}, err
	}
	defer closeFn()

	if size < 16 {
		return GpsSnapshot{}, newDecodeError(path, ErrTruncated, nil)
	}

	preamble := make([]byte, gpsPreambleSize)
	n, err := io.ReadFull(stream, preamble)
	if err != nil && n < 16 {
		return GpsSnapshot{}, newDecodeError(path, ErrTruncated, err)
	}
	preamble = preamble[:n]

	magic := binary.LittleEndian.Uint32(preamble[0:4])
	if magic != gpsMagic {
		return GpsSnapshot{}, newDecodeError(path, ErrBadMagic, nil)
	}

	h, m, s := preamble[4], preamble[5], preamble[6]
	mon, day, yr := preamble[9], preamble[10], preamble[11]
	filename := fmt.Sprintf("snap.%d_%02d_%02d_%02d_%02d_%02d_GC0.dat",
		2000+int(yr), mon, day, h, m, s)

	if n < gpsPreambleSize {
		// preamble ran into EOF; no payload follows.
		return GpsSnapshot{}, newDecodeError(path, ErrEmptyPayload, nil)
	}

	rest, err := io.ReadAll(stream)
	if err != nil {
		return GpsSnapshot{}, newDecodeError(path, ErrTruncated, err)
	}
	if len(rest) == 0 {
		return GpsSnapshot{}, newDecodeError(path, ErrEmptyPayload, nil)
	}

	nwords := len(rest) / 4
	words := make([]uint32, nwords)
	for i := 0; i < nwords; i++ {
		w := binary.LittleEndian.Uint32(rest[i*4:])
		words[i] = swapWord(w)
	}

	return GpsSnapshot{Filename: filename, Words: words}, nil
}

// swapWord performs the word-swap transform (§3, §4.4 step 4):
// w -> (w<<16)|(w>>16), truncated to 32 bits. It is its own inverse.
func swapWord(w uint32) uint32 {
	return (w << 16) | (w >> 16)
}

// WriteGpsSnapshot writes snap under <outRoot>/gps/snapshots/, little
// endian u32 per word. If a file with that name already exists the
// write is skipped (idempotent-skip, §4.4 step 3) and ok is false
// with a nil error; this is not a failure.
func WriteGpsSnapshot(outRoot string, snap GpsSnapshot, log *slog.Logger) (ok bool, err error) {
	dir := filepath.Join(outRoot, "gps", "snapshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, newDecodeError(dir, ErrWriteFailed, err)
	}

	outPath := filepath.Join(dir, snap.Filename)
	if _, err := os.Stat(outPath); err == nil {
		if log != nil {
			log.Info("GPS snapshot already exists, skipping", "file", outPath)
		}
		return false, nil
	}

	buf := make([]byte, len(snap.Words)*4)
	for i, w := range snap.Words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}

	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		return false, newDecodeError(outPath, ErrWriteFailed, err)
	}

	return true, nil
}
