package vesper

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alitto/pond"
)

// FamilyResult is the per-family outcome of processing one session:
// how many files were found, how many produced a written artifact,
// and every per-file failure with the error that caused it (§4.7,
// §6 report_cards/).
type FamilyResult struct {
	Found     int
	Succeeded int
	Failed    []FileFailure
}

// FileFailure pairs a path with the error that stopped it from
// becoming an artifact. A single bad file never aborts a session or a
// family (§4.7's isolation guarantee).
type FileFailure struct {
	File string
	Err  error
}

// SessionResult is the complete accounting for one session, handed to
// the run-report generator.
type SessionResult struct {
	SessionID string
	Imu       FamilyResult
	Aud       FamilyResult
	Gps       FamilyResult
}

// RunSession processes every file of one session: IMU files are
// decoded and aggregated into a single table, audio files are decoded
// and written one-to-one, GPS files are decoded and written
// one-to-one (§4.5-§4.7). Work within a session fans out across a
// bounded worker pool sized like the teacher's convert_gsf_list
// (2*NumCPU), cancellable via ctx.
func RunSession(ctx context.Context, outRoot string, session SessionFiles, log *slog.Logger) SessionResult {
	result := SessionResult{
		SessionID: session.SessionID,
		Imu:       FamilyResult{Found: len(session.Imu)},
		Aud:       FamilyResult{Found: len(session.Aud)},
		Gps:       FamilyResult{Found: len(session.Gps)},
	}
	dirs := artifactDirs{Root: outRoot}

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(ctx))

	var mu sync.Mutex

	runImuAggregation(pool, &mu, dirs, session, &result, log)
	runAudioFiles(pool, &mu, dirs, session, &result, log)
	runGpsFiles(pool, &mu, dirs, session, &result, log)

	pool.StopAndWait()
	return result
}

func runImuAggregation(pool *pond.WorkerPool, mu *sync.Mutex, dirs artifactDirs, session SessionFiles, result *SessionResult, log *slog.Logger) {
	if len(session.Imu) == 0 {
		return
	}
	pool.Submit(func() {
		ordered := sortImuFiles(session.Imu)
		chunks := make([]ImuChunk, 0, len(ordered))
		var failures []FileFailure

		for _, path := range ordered {
			chunk, err := DecodeImu(path, log)
			if err != nil {
				failures = append(failures, FileFailure{File: path, Err: err})
				continue
			}
			chunks = append(chunks, chunk)
		}

		sessionImu, ok := AggregateImu(chunks)
		var succeeded int
		if ok {
			if err := WriteImuSession(dirs, sessionImu, log); err != nil {
				failures = append(failures, FileFailure{File: dirs.imu(), Err: err})
			} else {
				succeeded = 1
			}
		}

		mu.Lock()
		result.Imu.Succeeded += succeeded
		result.Imu.Failed = append(result.Imu.Failed, failures...)
		mu.Unlock()
	})
}

func runAudioFiles(pool *pond.WorkerPool, mu *sync.Mutex, dirs artifactDirs, session SessionFiles, result *SessionResult, log *slog.Logger) {
	for _, path := range session.Aud {
		path := path
		pool.Submit(func() {
			audio, err := DecodeAudio(path, log)
			if err == nil {
				err = WriteAudioSession(dirs, audio, log)
			}

			mu.Lock()
			if err != nil {
				result.Aud.Failed = append(result.Aud.Failed, FileFailure{File: path, Err: err})
			} else {
				result.Aud.Succeeded++
			}
			mu.Unlock()
		})
	}
}

func runGpsFiles(pool *pond.WorkerPool, mu *sync.Mutex, dirs artifactDirs, session SessionFiles, result *SessionResult, log *slog.Logger) {
	for _, path := range session.Gps {
		path := path
		pool.Submit(func() {
			snap, err := DecodeGps(path, log)
			var wrote bool
			if err == nil {
				wrote, err = WriteGpsSnapshot(dirs.Root, snap, log)
			}

			mu.Lock()
			switch {
			case err != nil:
				result.Gps.Failed = append(result.Gps.Failed, FileFailure{File: path, Err: err})
			case wrote:
				result.Gps.Succeeded++
			}
			mu.Unlock()
		})
	}
}
