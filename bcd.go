package vesper

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// bcdToInt converts a single binary-coded-decimal byte to its decimal
// value. Out-of-range nibbles (either nibble > 9) are not BCD and the
// caller is expected to treat the result as meaningless rather than
// crash; this function never panics.
func bcdToInt(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// bcdInstant decodes the six BCD bytes of the IMU/AUD header into a
// calendar instant. hh/mm/ss/mon/day/yy are raw BCD bytes in that
// order; yy is offset from 2000. (The GPS preamble's date/time bytes
// are read as plain values by DecodeGps, not through this function.)
//
// Returns ErrBadBcd if month is outside [1,12], day outside [1,31],
// hour/minute/second outside their clock bounds, or the date is Feb 29
// on a non-leap year. Other days past the end of their month (Feb 30,
// Apr 31, ...) are not rejected; time.Date rolls them into the next
// month.
func bcdInstant(hh, mm, ss, mon, day, yy byte) (time.Time, error) {
	h, m, s := bcdToInt(hh), bcdToInt(mm), bcdToInt(ss)
	month, d, y := bcdToInt(mon), bcdToInt(day), 2000+bcdToInt(yy)

	if month < 1 || month > 12 {
		return time.Time{}, ErrBadBcd
	}
	if d < 1 || d > 31 {
		return time.Time{}, ErrBadBcd
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return time.Time{}, ErrBadBcd
	}
	if month == 2 && d == 29 && !julian.LeapYearGregorian(y) {
		return time.Time{}, ErrBadBcd
	}

	return time.Date(y, time.Month(month), d, h, m, s, 0, time.UTC), nil
}
