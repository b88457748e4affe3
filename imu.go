package vesper

import (
	"encoding/binary"
	"log/slog"
	"math"
	"time"
)

// imuRecordSize is the width of one fixed IMU payload record: three
// float32 triples (gyro, acc, mag) plus 6 reserved bytes (§3).
const imuRecordSize = 3*3*4 + 6

// ImuSample is one decoded 42-byte record. Gyro precedes Acc in
// memory, the reverse of the common convention (§4.2 step 3). Kept
// as-is rather than silently reordered, since downstream consumers of
// the wire format expect it.
type ImuSample struct {
	Gyro [3]float32
	Acc  [3]float32
	Mag  [3]float32
	Time time.Time
}

// ImuChunk is the ordered sequence of samples decoded from one IMU
// file, plus the header that produced it.
type ImuChunk struct {
	Header  SensorHeader
	Samples []ImuSample
}

// DecodeImu decodes path as an IMU file: a 150-byte SensorHeader
// followed by a whole number of 42-byte records. A trailing partial
// record is dropped without error (§4.2 step 2). sample_rate == 0
// fails the file; zero records is not an error. The caller (the
// Session Aggregator) drops an empty chunk without writing anything
// (§4.2 edge cases, S1).
func DecodeImu(path string, log *slog.Logger) (ImuChunk, error) {
	stream, size, closeFn, err := OpenStream(path, true)
	if err != nil {
		return ImuChunk{}, err
	}
	defer closeFn()

	header, err := DecodeHeader(stream, path, headerMtime(path), log)
	if err != nil {
		return ImuChunk{}, err
	}

	if header.Sample_rate == 0 {
		return ImuChunk{}, newDecodeError(path, ErrBadPreamble, nil)
	}

	payload := size - HeaderSize
	if payload < 0 {
		return ImuChunk{}, newDecodeError(path, ErrTruncated, nil)
	}

	nrecords := int(payload / imuRecordSize)
	samples := make([]ImuSample, nrecords)
	buf := make([]byte, imuRecordSize)
	period := time.Duration(float64(time.Second) / float64(header.Sample_rate))

	for i := 0; i < nrecords; i++ {
		if _, err := stream.Read(buf); err != nil {
			return ImuChunk{}, newDecodeError(path, ErrTruncated, err)
		}
		var s ImuSample
		for j := 0; j < 3; j++ {
			s.Gyro[j] = readFloat32LE(buf[j*4:])
		}
		for j := 0; j < 3; j++ {
			s.Acc[j] = readFloat32LE(buf[12+j*4:])
		}
		for j := 0; j < 3; j++ {
			s.Mag[j] = readFloat32LE(buf[24+j*4:])
		}
		s.Time = header.Start.Add(time.Duration(i) * period)
		samples[i] = s
	}

	return ImuChunk{Header: header, Samples: samples}, nil
}

func readFloat32LE(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
