package vesper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcdToInt(t *testing.T) {
	for b := byte(0); b <= 0x99; b++ {
		hi, lo := b>>4, b&0x0F
		if hi > 9 || lo > 9 {
			continue
		}
		assert.Equal(t, int(hi)*10+int(lo), bcdToInt(b))
	}
}

func TestBcdToIntOutOfRangeNibbleDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		bcdToInt(0xFA)
	})
}

func TestBcdInstantValid(t *testing.T) {
	// 07:34:51 on 2025-09-29
	ts, err := bcdInstant(0x07, 0x34, 0x51, 0x09, 0x29, 0x25)
	require.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, 9, int(ts.Month()))
	assert.Equal(t, 29, ts.Day())
	assert.Equal(t, 7, ts.Hour())
	assert.Equal(t, 34, ts.Minute())
	assert.Equal(t, 51, ts.Second())
}

func TestBcdInstantRejectsFeb29OnNonLeapYear(t *testing.T) {
	_, err := bcdInstant(0x00, 0x00, 0x00, 0x02, 0x29, 0x25)
	assert.ErrorIs(t, err, ErrBadBcd)
}

func TestBcdInstantAcceptsFeb29OnLeapYear(t *testing.T) {
	_, err := bcdInstant(0x00, 0x00, 0x00, 0x02, 0x29, 0x24)
	assert.NoError(t, err)
}

func TestBcdInstantRejectsOutOfRangeMonth(t *testing.T) {
	_, err := bcdInstant(0x00, 0x00, 0x00, 0x13, 0x01, 0x25)
	assert.ErrorIs(t, err, ErrBadBcd)
}
