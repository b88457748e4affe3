package vesper

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSwapWordInvolution is §8 property 5.
func TestSwapWordInvolution(t *testing.T) {
	for _, w := range []uint32{0, 1, 0xAABBCCDD, 0xFFFFFFFF, 0x12345678} {
		assert.Equal(t, w, swapWord(swapWord(w)))
	}
}

// TestSwapWordScenario is S4.
func TestSwapWordScenario(t *testing.T) {
	assert.Equal(t, uint32(0xCCDDAABB), swapWord(0xAABBCCDD))
}

func buildGpsPreamble(h, m, s, mon, day, yr byte) []byte {
	buf := make([]byte, gpsPreambleSize)
	binary.LittleEndian.PutUint32(buf[0:], gpsMagic)
	buf[4], buf[5], buf[6] = h, m, s
	buf[9], buf[10], buf[11] = mon, day, yr
	return buf
}

func TestDecodeGpsFilenameAndSwap(t *testing.T) {
	preamble := buildGpsPreamble(7, 34, 51, 9, 29, 25)
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload[0:], 0xAABBCCDD)
	binary.LittleEndian.PutUint32(payload[4:], 0x11223344)

	path := writeTempFile(t, "gps.bin", append(preamble, payload...))

	snap, err := DecodeGps(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "snap.2025_09_29_07_34_51_GC0.dat", snap.Filename)
	require.Len(t, snap.Words, 2)
	assert.Equal(t, uint32(0xCCDDAABB), snap.Words[0])
	assert.Equal(t, uint32(0x33441122), snap.Words[1])
}

func TestDecodeGpsBadMagicFails(t *testing.T) {
	preamble := buildGpsPreamble(0, 0, 0, 1, 1, 25)
	binary.LittleEndian.PutUint32(preamble[0:], 0)
	path := writeTempFile(t, "gps.bin", append(preamble, make([]byte, 8)...))

	_, err := DecodeGps(path, nil)
	assert.ErrorIs(t, err, ErrBadMagic)
}

// TestWriteGpsSnapshotIdempotent is §8 property 6.
func TestWriteGpsSnapshotIdempotent(t *testing.T) {
	root := t.TempDir()
	snap := GpsSnapshot{Filename: "snap.2025_09_29_07_34_51_GC0.dat", Words: []uint32{1, 2, 3}}

	wrote, err := WriteGpsSnapshot(root, snap, nil)
	require.NoError(t, err)
	assert.True(t, wrote)

	outPath := filepath.Join(root, "gps", "snapshots", snap.Filename)
	before, err := os.ReadFile(outPath)
	require.NoError(t, err)

	wrote, err = WriteGpsSnapshot(root, GpsSnapshot{Filename: snap.Filename, Words: []uint32{9, 9, 9}}, nil)
	require.NoError(t, err)
	assert.False(t, wrote)

	after, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
