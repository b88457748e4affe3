package vesper

import (
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fileTimeFormat = "20060102_150405"

// artifactDirs is the fixed output layout from §6.
type artifactDirs struct {
	Root string
}

func (d artifactDirs) imu() string         { return filepath.Join(d.Root, "imu") }
func (d artifactDirs) imuMeta() string     { return filepath.Join(d.Root, "imu", "metadata") }
func (d artifactDirs) aud() string         { return filepath.Join(d.Root, "aud") }
func (d artifactDirs) audMeta() string     { return filepath.Join(d.Root, "aud", "metadata") }
func (d artifactDirs) gpsSnapshots() string { return filepath.Join(d.Root, "gps", "snapshots") }
func (d artifactDirs) reportCards() string { return filepath.Join(d.Root, "report_cards") }

// WriteImuSession serializes an aggregated IMU session to CSV plus
// its sidecar metadata text file (§4.6). Filenames are a total
// function of the session's start/end instants and device id (§8
// property 7), so re-running on unchanged input is filename-stable.
func WriteImuSession(dirs artifactDirs, session SessionImu, log *slog.Logger) error {
	if len(session.Rows) == 0 {
		return nil
	}
	if err := os.MkdirAll(dirs.imu(), 0o755); err != nil {
		return newDecodeError(dirs.imu(), ErrWriteFailed, err)
	}
	if err := os.MkdirAll(dirs.imuMeta(), 0o755); err != nil {
		return newDecodeError(dirs.imuMeta(), ErrWriteFailed, err)
	}

	start := session.Rows[0].Time
	end := session.Rows[len(session.Rows)-1].Time
	stem := fmt.Sprintf("%s-%s_%s", start.Format(fileTimeFormat), end.Format(fileTimeFormat), session.Header.DeviceIDHex())

	csvPath := filepath.Join(dirs.imu(), stem+".csv")
	if err := writeImuCSV(csvPath, session.Rows); err != nil {
		return err
	}
	if log != nil {
		log.Info("wrote IMU CSV", "file", csvPath, "rows", len(session.Rows))
	}

	sidecarPath := filepath.Join(dirs.imuMeta(), stem+".txt")
	return writeSidecarIfAbsent(sidecarPath, session.Header, nil)
}

func writeImuCSV(path string, rows []ImuRow) error {
	cols, err := csvSchema(ImuRow{})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return newDecodeError(path, ErrWriteFailed, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return newDecodeError(path, ErrWriteFailed, err)
	}

	record := make([]string, len(cols))
	for _, row := range rows {
		v := interfaceFields(row)
		for i, c := range cols {
			record[i] = formatCSVField(c.Formatter, v[c.FieldIdx])
		}
		if err := w.Write(record); err != nil {
			return newDecodeError(path, ErrWriteFailed, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return newDecodeError(path, ErrWriteFailed, err)
	}
	return nil
}

// interfaceFields returns the exported fields of row in declaration
// order as boxed values, matched up against csvSchema's FieldIdx.
func interfaceFields(row ImuRow) []any {
	return []any{
		row.Time, row.Minute, row.Second, row.Millisecond,
		row.AccX, row.AccY, row.AccZ,
		row.GyroX, row.GyroY, row.GyroZ,
		row.MagX, row.MagY, row.MagZ,
		row.Temperature, row.BarPressure,
	}
}

// formatCSVField formats one value per the column's fmt directive.
// The Time column uses DD/MM/YYYY HH:MM:SS.mmm (§4.6).
func formatCSVField(kind string, v any) string {
	switch kind {
	case "time":
		t := v.(time.Time)
		ms := t.Nanosecond() / 1_000_000
		return fmt.Sprintf("%02d/%02d/%04d %02d:%02d:%02d.%03d",
			t.Day(), t.Month(), t.Year(), t.Hour(), t.Minute(), t.Second(), ms)
	case "int":
		return fmt.Sprintf("%d", v)
	case "float":
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// WriteAudioSession serializes a decoded audio stream to WAV plus its
// sidecar metadata text file, including embedded drift timestamps
// (§4.6). end = start + num_samples/sample_rate.
func WriteAudioSession(dirs artifactDirs, audio AudioStream, log *slog.Logger) error {
	if len(audio.PCM) == 0 {
		return nil
	}
	if err := os.MkdirAll(dirs.aud(), 0o755); err != nil {
		return newDecodeError(dirs.aud(), ErrWriteFailed, err)
	}
	if err := os.MkdirAll(dirs.audMeta(), 0o755); err != nil {
		return newDecodeError(dirs.audMeta(), ErrWriteFailed, err)
	}

	start := audio.Header.Start
	end := start.Add(audioDuration(audio))
	stem := fmt.Sprintf("%s-%s_%s", start.Format(fileTimeFormat), end.Format(fileTimeFormat), audio.Header.DeviceIDHex())

	wavPath := filepath.Join(dirs.aud(), stem+".wav")
	if err := writeWav(wavPath, audio.PCM, audio.Header.Sample_rate); err != nil {
		return err
	}
	if log != nil {
		log.Info("wrote audio WAV", "file", wavPath, "samples", len(audio.PCM))
	}

	sidecarPath := filepath.Join(dirs.audMeta(), stem+".txt")
	return writeSidecarIfAbsent(sidecarPath, audio.Header, audio.Timestamps)
}

// writeWav assembles a canonical mono, 16-bit-PCM RIFF/WAVE file by
// hand (no WAV-writing dependency in the pack fits "serialize one
// finished PCM buffer"; see DESIGN.md).
func writeWav(path string, pcm []int16, sampleRate uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return newDecodeError(path, ErrWriteFailed, err)
	}
	defer f.Close()

	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := uint16(numChannels * bitsPerSample / 8)
	dataSize := uint32(len(pcm) * 2)

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], 36+dataSize)
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], numChannels)
	binary.LittleEndian.PutUint32(hdr[24:28], sampleRate)
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], blockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], dataSize)

	if _, err := f.Write(hdr[:]); err != nil {
		return newDecodeError(path, ErrWriteFailed, err)
	}

	body := make([]byte, dataSize)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(body[i*2:], uint16(s))
	}
	if _, err := f.Write(body); err != nil {
		return newDecodeError(path, ErrWriteFailed, err)
	}

	return nil
}

// writeSidecarIfAbsent writes the Key:Value sidecar text file
// described in §4.6. Existing sidecars are left in place (idempotent
// skip).
func writeSidecarIfAbsent(path string, h SensorHeader, timestamps []time.Time) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DeviceID:%s\n", h.DeviceIDHex())
	fmt.Fprintf(&b, "HWID:%s\n", strings.ToUpper(hexNoPrefix(uint64(h.Config[0]))))
	fmt.Fprintf(&b, "FWID:%s\n", strings.ToUpper(hexNoPrefix(uint64(h.Config[1]))))
	fmt.Fprintf(&b, "Sensor:%s\n", h.Sensor_name)
	fmt.Fprintf(&b, "SampleRate:%d\n", h.Sample_rate)
	fmt.Fprintf(&b, "WinRate:%d\n", h.Config[2])
	fmt.Fprintf(&b, "WinLen:%d\n", h.Config[3])
	for i, c := range h.Config {
		fmt.Fprintf(&b, "Config%d:%s\n", i, strings.ToUpper(hexNoPrefix(uint64(c))))
	}
	fmt.Fprintf(&b, "Bitmask:%s\n", strings.ToUpper(hexNoPrefix(uint64(h.Bitmask))))

	if len(timestamps) > 0 {
		b.WriteString("\n=== EMBEDDED BLOCK TIMESTAMPS (Audio Drift Check) ===\n")
		for i, ts := range timestamps {
			fmt.Fprintf(&b, "Block_%d: %s\n", i+1, ts.Format("2006-01-02 15:04:05"))
		}
	}

	if err := os.WriteFile(path, []byte(strings.TrimRight(b.String(), "\n")), 0o644); err != nil {
		return newDecodeError(path, ErrWriteFailed, err)
	}
	return nil
}
