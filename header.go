package vesper

import (
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// HeaderSize is the fixed preamble width shared by both the IMU and
// AUD wire formats (§4.1). One audio draft in the prototype used 142;
// that is treated as a bug, not a second format. Both families use
// 150.
const HeaderSize = 150

const (
	imuAudMagic   uint32 = 0xDEAFDAC0
	headerSync    uint32 = 0x5AA55AA5
	offsetMagic          = 0
	offsetDevice         = 4
	offsetSensor         = 8
	sensorNameLen        = 16
	offsetRate           = 28
	offsetBitmask        = 40
	offsetConfig0        = 44
	configWidth          = 4
	offsetSync           = 128
	offsetBcdH           = 132
	offsetBcdM           = 133
	offsetBcdS           = 134
	offsetBcdPad         = 136
	offsetBcdMon         = 137
	offsetBcdDay         = 138
	offsetBcdYear        = 139
)

// SensorHeader is the fixed-layout record parsed from bytes [0,150)
// of an IMU or AUD file (§3). Field names follow the wire-format's
// own lower_snake vocabulary where the teacher pack does the same
// (Byte_index, Record_Index, ...) rather than flattening everything
// to strict Go casing.
type SensorHeader struct {
	Magic       uint32
	Device_id   uint32
	Sensor_name string
	Sample_rate uint32
	Bitmask     uint32
	Config      [4]uint32
	Sync_word   uint32
	Start       time.Time
}

// DeviceIDHex renders Device_id as uppercase hex, the form every
// artifact filename and sidecar field uses.
func (h SensorHeader) DeviceIDHex() string {
	return strings.ToUpper(hexNoPrefix(uint64(h.Device_id)))
}

// DecodeHeader reads and validates the 150-byte preamble from stream.
// It does not reject on a magic mismatch; the caller decides what to
// do with an unexpected Magic value (§4.1). The one condition that
// does fail decode is a stream shorter than HeaderSize (ErrTruncated).
// A bad BCD calendar does not fail it: mtime is substituted for Start
// and a warning logged.
func DecodeHeader(stream Stream, path string, mtime time.Time, log *slog.Logger) (SensorHeader, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(stream, buf); err != nil {
		return SensorHeader{}, newDecodeError(path, ErrTruncated, err)
	}

	h := SensorHeader{
		Magic:       binary.LittleEndian.Uint32(buf[offsetMagic:]),
		Device_id:   binary.LittleEndian.Uint32(buf[offsetDevice:]),
		Sensor_name: nulTerminated(buf[offsetSensor : offsetSensor+sensorNameLen]),
		Sample_rate: binary.LittleEndian.Uint32(buf[offsetRate:]),
		Bitmask:     binary.LittleEndian.Uint32(buf[offsetBitmask:]),
		Sync_word:   binary.LittleEndian.Uint32(buf[offsetSync:]),
	}
	for i := 0; i < 4; i++ {
		off := offsetConfig0 + i*configWidth
		h.Config[i] = binary.LittleEndian.Uint32(buf[off:])
	}

	start, err := bcdInstant(buf[offsetBcdH], buf[offsetBcdM], buf[offsetBcdS],
		buf[offsetBcdMon], buf[offsetBcdDay], buf[offsetBcdYear])
	if err != nil {
		if log != nil {
			log.Warn("BCD header timestamp invalid, substituting file mtime",
				"file", path, "device_id", h.DeviceIDHex())
		}
		start = mtime
	}
	h.Start = start

	return h, nil
}

// headerMtime returns the modification time of path, or the zero
// time if path cannot be stat'ed.
func headerMtime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func nulTerminated(b []byte) string {
	if i := indexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func hexNoPrefix(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	var buf [16]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xF]
		v >>= 4
	}
	return string(buf[i:])
}
