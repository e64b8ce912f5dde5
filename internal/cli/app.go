package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/avolkov/qrforge/internal/batch"
	"github.com/avolkov/qrforge/internal/logging"
	"github.com/avolkov/qrforge/internal/render"
)

type App struct {
	config *Config
	logger logging.Logger
}

func NewApp(c *Config) *App {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	sl := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return &App{config: c, logger: logging.NewSlogLogger(sl)}
}

// Run executes one batch: read rows, encode them through the pipeline, and
// write the archive. With -template it just writes the sample CSV.
func (app *App) Run(ctx context.Context) error {
	if app.config.WriteTemplate {
		if err := os.WriteFile(app.config.OutputPath, []byte(batch.Template), 0o644); err != nil {
			return fmt.Errorf("writing template: %w", err)
		}
		app.logger.Info(ctx, "template written", "path", app.config.OutputPath)
		return nil
	}

	if app.config.InputPath == "" {
		return fmt.Errorf("no input file: pass -i rows.csv or -template")
	}

	f, err := os.Open(app.config.InputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	rows, err := batch.ReadRows(f)
	if err != nil {
		return err
	}
	items := batch.ItemsFromRows(rows)

	format := batch.FormatText
	if app.config.Format == "png" {
		format = batch.FormatPNG
	}

	pipeline := &batch.Pipeline{
		Workers:  app.config.Workers,
		MaxItems: app.config.BatchLimit,
		Logger:   app.logger,
		Encoder: &batch.Encoder{
			Format: format,
			Render: render.PNG,
			Options: render.Options{
				SizePx:  app.config.SizePx,
				ECLevel: app.config.ECLevel,
			},
		},
		OnProgress: func(p batch.Progress) {
			app.logger.Info(ctx, "progress", "completed", p.Completed, "total", p.Total, "percent", fmt.Sprintf("%.0f", p.Percent))
		},
	}
	if err := pipeline.Run(ctx, items); err != nil {
		return err
	}

	archive, err := batch.BuildArchive(items)
	if err != nil {
		return err
	}
	if err := writeOutput(app.config.OutputPath, archive); err != nil {
		return err
	}

	failed := 0
	for _, it := range items {
		if it.Status == batch.StatusFailed {
			failed++
		}
	}
	app.logger.Info(ctx, "batch finished",
		"path", app.config.OutputPath, "items", len(items), "failed", failed)
	return nil
}

// writeOutput creates the output's parent directory if needed.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	return nil
}
