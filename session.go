package vesper

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// SessionFiles is the crawler contract the Pipeline Coordinator
// consumes (§6): every path ends in .BIN (case-insensitive), grouped
// by sensor family for one session. Directory crawling itself is an
// external collaborator; this type is the boundary.
type SessionFiles struct {
	SessionID string
	Imu       []string
	Aud       []string
	Gps       []string
}

// ImuRow is one row of the merged per-session IMU table (§4.2 step
// 4). Struct tags declare the CSV column name and value formatter for
// the Artifact Writer's stagparser-driven schema (SPEC_FULL §4.6),
// the same "col=...,fmt=..." directive shape the teacher uses for its
// "dtype=...,ftype=..." TileDB attribute tags.
type ImuRow struct {
	Time        time.Time `csv:"col=Time,fmt=time"`
	Minute      int       `csv:"col=Minute,fmt=int"`
	Second      int       `csv:"col=Second,fmt=int"`
	Millisecond int       `csv:"col=Milisecond,fmt=int"`
	AccX        float32   `csv:"col=Acc X [mg],fmt=float"`
	AccY        float32   `csv:"col=Acc Y [mg],fmt=float"`
	AccZ        float32   `csv:"col=Acc Z [mg],fmt=float"`
	GyroX       float32   `csv:"col=Gyro X [dps],fmt=float"`
	GyroY       float32   `csv:"col=Gyro Y [dps],fmt=float"`
	GyroZ       float32   `csv:"col=Gyro Z [dps],fmt=float"`
	MagX        float32   `csv:"col=Mag X [mGauss],fmt=float"`
	MagY        float32   `csv:"col=Mag Y [mGauss],fmt=float"`
	MagZ        float32   `csv:"col=Mag Z [mGauss],fmt=float"`
	Temperature float32   `csv:"col=Temperature [C],fmt=float"`
	BarPressure float32   `csv:"col=Bar Pressure [hPa],fmt=float"`
}

// SessionImu is the aggregated result of merging every IMU chunk for
// one session into a single chronologically-ordered table (§4.5).
type SessionImu struct {
	Header SensorHeader
	Rows   []ImuRow
}

var leadingNumber = regexp.MustCompile(`\d+`)

// sortImuFiles orders files by the first integer token in their
// basename, falling back to lexical order when none is found (§4.5),
// matching original_source/src/main.py's extract_file_number.
func sortImuFiles(files []string) []string {
	sorted := append([]string(nil), files...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ni, oki := firstNumber(sorted[i])
		nj, okj := firstNumber(sorted[j])
		if oki && okj && ni != nj {
			return ni < nj
		}
		if oki != okj {
			return oki
		}
		return filepath.Base(sorted[i]) < filepath.Base(sorted[j])
	})
	return sorted
}

func firstNumber(path string) (int, bool) {
	m := leadingNumber.FindString(filepath.Base(path))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// AggregateImu concatenates the rows of already-decoded IMU chunks in
// the order given (the coordinator decodes them in basename-number
// order via sortImuFiles), then re-sorts by Time as a safety net
// (§4.5). Chunks with zero samples are dropped. An empty input list,
// or one whose chunks all have zero samples, returns ok == false and
// the caller writes nothing.
func AggregateImu(chunks []ImuChunk) (SessionImu, bool) {
	chunks = lo.Filter(chunks, func(c ImuChunk, _ int) bool {
		return len(c.Samples) > 0
	})
	if len(chunks) == 0 {
		return SessionImu{}, false
	}

	header := chunks[0].Header

	rowCount := lo.SumBy(chunks, func(c ImuChunk) int { return len(c.Samples) })
	rows := make([]ImuRow, 0, rowCount)
	for _, c := range chunks {
		for _, s := range c.Samples {
			rows = append(rows, ImuRow{
				Time:        s.Time,
				Minute:      s.Time.Minute(),
				Second:      s.Time.Second(),
				Millisecond: s.Time.Nanosecond() / 1_000_000,
				AccX:        s.Acc[0],
				AccY:        s.Acc[1],
				AccZ:        s.Acc[2],
				GyroX:       s.Gyro[0],
				GyroY:       s.Gyro[1],
				GyroZ:       s.Gyro[2],
				MagX:        s.Mag[0],
				MagY:        s.Mag[1],
				MagZ:        s.Mag[2],
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })

	header.Start = rows[0].Time
	return SessionImu{Header: header, Rows: rows}, true
}

// SessionSummary holds per-session figures (file counts per family,
// merged IMU row count, audio duration, GPS snapshot count). Nothing
// in this package populates it: RunSession returns a SessionResult,
// and WriteRunReport builds the run report from SessionResult alone.
type SessionSummary struct {
	SessionID      string
	ImuRowCount    int
	AudioDuration  time.Duration
	GpsSnapshots   int
	ImuFilesFound  int
	AudFilesFound  int
	GpsFilesFound  int
}

// audioDuration computes the playback duration of a decoded audio
// stream from its sample count and header sample rate.
func audioDuration(a AudioStream) time.Duration {
	if a.Header.Sample_rate == 0 {
		return 0
	}
	return time.Duration(float64(len(a.PCM)) / float64(a.Header.Sample_rate) * float64(time.Second))
}
