// Command vesperconvert walks a raw-data root, decodes every IMU,
// AUD, and GPS file it finds session by session, and writes CSV/WAV/DAT
// artifacts under a processed-data root (§6). Its CLI surface and pool
// wiring follow the teacher's cmd/main.go convert/convert-trawl
// commands; its logging setup follows DMRHub's tint-based slog handler
// selection.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	"github.com/sixy6e/vesper"
	"github.com/sixy6e/vesper/config"
	"github.com/sixy6e/vesper/crawl"
)

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
}

func convertOnce(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	sessions, err := crawl.Sessions(cfg.RawDataFolder, log)
	if err != nil {
		return fmt.Errorf("scanning raw data folder: %w", err)
	}
	log.Info("discovered sessions", "count", len(sessions))

	results := make([]vesper.SessionResult, 0, len(sessions))
	for _, session := range sessions {
		select {
		case <-ctx.Done():
			log.Warn("interrupted, stopping before next session")
			return ctx.Err()
		default:
		}

		log.Info("processing session", "session", session.SessionID)
		results = append(results, vesper.RunSession(ctx, cfg.ProcessedFolder, session, log))
	}

	reportPath, err := vesper.WriteRunReport(cfg.ProcessedFolder, results, time.Now())
	if err != nil {
		return err
	}
	log.Info("wrote run report", "file", reportPath)

	return nil
}

func run(cCtx *cli.Context) error {
	log := newLogger(cCtx.Bool("debug"))

	cfg, err := config.Load(cCtx.String("config"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return convertOnce(ctx, cfg, log)
}

// watch re-runs convertOnce on a fixed interval until interrupted. The
// core pipeline has no notion of watching (§5: the process runs to
// completion and surfaces a final report); this loop lives entirely
// in the external launcher layer.
func watch(cCtx *cli.Context) error {
	log := newLogger(cCtx.Bool("debug"))

	cfg, err := config.Load(cCtx.String("config"))
	if err != nil {
		return err
	}

	interval := cCtx.Duration("interval")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := convertOnce(ctx, cfg, log); err != nil {
			log.Error("convert pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func main() {
	app := &cli.App{
		Name:  "vesperconvert",
		Usage: "decode wildlife telemetry docking-station captures into CSV/WAV/DAT artifacts",
		Commands: []*cli.Command{
			{
				Name:  "convert",
				Usage: "scan a raw data folder and convert every session found beneath it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Usage:    "path to the YAML config file (raw_data_folder, processed_folder)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "enable debug-level logging",
					},
				},
				Action: run,
			},
			{
				Name:  "watch",
				Usage: "re-run convert on a fixed interval until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Usage:    "path to the YAML config file (raw_data_folder, processed_folder)",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "time between re-scans",
						Value: 5 * time.Minute,
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "enable debug-level logging",
					},
				},
				Action: watch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("vesperconvert failed", "error", err)
		os.Exit(1)
	}
}
