// Package crawl discovers session folders under a raw-data root and
// classifies every .BIN file beneath each one by sensor family. It is
// the external collaborator boundary that produces a vesper.SessionFiles
// per session (§6); the core decoders never touch the filesystem
// layout themselves.
//
// Grounded on the teacher's search.go trawl/FindGsf pair, generalized
// from a single TileDB-VFS pattern match to the three-way family
// classification original_source/src/core/crawler.py performs with
// plain os.walk.
package crawl

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sixy6e/vesper"
)

// Sessions scans root for its immediate subdirectories, treating each
// as one session tag, then walks every file beneath it and classifies
// .BIN files (case-insensitive) by the first of "gps", "aud", "imu"
// found in the lowercased path. A file matching none of the three is
// logged and dropped, mirroring the prototype's "SENSOR TYPE NOT
// FOUND" warning.
func Sessions(root string, log *slog.Logger) ([]vesper.SessionFiles, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var sessions []vesper.SessionFiles
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sf := vesper.SessionFiles{SessionID: e.Name()}
		sessionPath := filepath.Join(root, e.Name())

		err := filepath.WalkDir(sessionPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".bin") {
				return nil
			}

			lower := strings.ToLower(path)
			switch {
			case strings.Contains(lower, "gps"):
				sf.Gps = append(sf.Gps, path)
			case strings.Contains(lower, "aud"):
				sf.Aud = append(sf.Aud, path)
			case strings.Contains(lower, "imu"):
				sf.Imu = append(sf.Imu, path)
			default:
				if log != nil {
					log.Warn("file does not match a known sensor family", "file", path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		sort.Strings(sf.Gps)
		sort.Strings(sf.Aud)
		sort.Strings(sf.Imu)

		if log != nil {
			log.Info("scanned session",
				"session", sf.SessionID, "gps", len(sf.Gps), "aud", len(sf.Aud), "imu", len(sf.Imu))
		}
		sessions = append(sessions, sf)
	}

	return sessions, nil
}
