package vesper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteRunReport renders every session's SessionResult into a single
// report_cards/processing_report_<timestamp>.txt file (§4.7, §6),
// grounded on original_source/src/main.py's end-of-run summary log.
// stamp is caller-supplied (rather than time.Now) so report generation
// stays a pure function of its inputs.
func WriteRunReport(outRoot string, results []SessionResult, stamp time.Time) (string, error) {
	dir := filepath.Join(outRoot, "report_cards")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", newDecodeError(dir, ErrWriteFailed, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("processing_report_%s.txt", stamp.Format(fileTimeFormat)))

	var b strings.Builder
	fmt.Fprintf(&b, "Processing Report - %s\n", stamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Sessions processed: %d\n", len(results))

	for _, r := range results {
		fmt.Fprintf(&b, "\n-- Session: %s --\n", r.SessionID)
		writeFamilyLine(&b, "IMU", r.Imu)
		writeFamilyLine(&b, "AUD", r.Aud)
		writeFamilyLine(&b, "GPS", r.Gps)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", newDecodeError(path, ErrWriteFailed, err)
	}
	return path, nil
}

func writeFamilyLine(b *strings.Builder, family string, r FamilyResult) {
	fmt.Fprintf(b, "%s: found=%d succeeded=%d failed=%d\n", family, r.Found, r.Succeeded, len(r.Failed))
	for _, f := range r.Failed {
		fmt.Fprintf(b, "  FAILED %s: %s\n", f.File, f.Err.Error())
	}
}
