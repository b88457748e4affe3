package vesper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunSessionIsolatesPartialFailure is scenario S6: one file with
// a bad BCD month substitutes mtime and succeeds, one truncated file
// is recorded as a failure, and the session as a whole still
// produces output for the files that succeeded.
func TestRunSessionIsolatesPartialFailure(t *testing.T) {
	dir := t.TempDir()

	validHeader := buildHeader(1, "IMU10", 50, 0, [4]uint32{}, 0x07, 0x34, 0x51, 0x09, 0x29, 0x25)
	badBcdHeader := buildHeader(1, "IMU10", 50, 0, [4]uint32{}, 0, 0, 0, 13, 1, 25) // invalid month
	record := imuRecordBytes([3]float32{}, [3]float32{}, [3]float32{})

	badBcdPath := filepath.Join(dir, "01M.BIN")
	require.NoError(t, os.WriteFile(badBcdPath, append(badBcdHeader, record...), 0o644))

	truncatedPath := filepath.Join(dir, "02M.BIN")
	require.NoError(t, os.WriteFile(truncatedPath, validHeader[:140], 0o644))

	outRoot := t.TempDir()
	session := SessionFiles{SessionID: "s1", Imu: []string{badBcdPath, truncatedPath}}

	result := RunSession(context.Background(), outRoot, session, nil)

	require.Len(t, result.Imu.Failed, 1)
	assert.Equal(t, truncatedPath, result.Imu.Failed[0].File)
	assert.Equal(t, 1, result.Imu.Succeeded)
}

func TestRunSessionEmptySession(t *testing.T) {
	outRoot := t.TempDir()
	result := RunSession(context.Background(), outRoot, SessionFiles{SessionID: "empty"}, nil)
	assert.Equal(t, 0, result.Imu.Found)
	assert.Empty(t, result.Imu.Failed)
}
