package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/srodi/hotspot-nmon/pkg/chart"
	"github.com/srodi/hotspot-nmon/pkg/collector/annotation"
	"github.com/srodi/hotspot-nmon/pkg/collector/nmon"
	"github.com/srodi/hotspot-nmon/pkg/config"
	"github.com/srodi/hotspot-nmon/pkg/report"
	"github.com/srodi/hotspot-nmon/pkg/types"
	"github.com/srodi/hotspot-nmon/pkg/ui"
)

type inputs struct {
	capturePath string
	detailsPath string
	start       string
	end         string
}

// analyze runs the whole pipeline: parse, filter, aggregate, report, chart.
func analyze(in inputs, cfg config.Config, stdout, stderr io.Writer, log zerolog.Logger) error {
	ui.PrintBanner(stdout)

	parseOpts := []nmon.Option{nmon.WithLogger(log)}
	if cfg.Progress {
		parseOpts = append(parseOpts, nmon.WithProgress(stderr))
	}
	capture, err := nmon.Parse(in.capturePath, parseOpts...)
	if err != nil {
		return fileError(err, nmon.ErrFileNotFound)
	}
	if len(capture.Skipped) > 0 {
		log.Warn().Int("lines", len(capture.Skipped)).Str("file", in.capturePath).Msg("skipped malformed lines")
	}

	details, err := annotation.Load(in.detailsPath)
	if err != nil {
		return fileError(err, annotation.ErrFileNotFound)
	}

	rng := report.FilterRange(capture.Timestamps, in.start, in.end)
	for _, warning := range rng.Warnings() {
		log.Warn().Msg(warning)
	}
	if len(rng.Timestamps) == 0 {
		return report.ErrEmptyRange
	}
	records := report.RestrictRecords(capture.Records, rng.Timestamps)

	report.WriteCaptureSummary(stdout, report.CaptureStats{
		CapturePath:     in.capturePath,
		Timestamps:      capture.Timestamps,
		Records:         len(capture.Records),
		Filtered:        rng.Timestamps,
		FilteredRecords: len(records),
		DetailsPath:     in.detailsPath,
		Details:         len(details),
		CPUCount:        capture.CPUCount,
	})

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	charts := []struct {
		metric  types.Metric
		path    string
		ceiling float64
	}{
		{types.MetricCPU, cfg.CPUChartPath(), float64(capture.CPUCount * 100)},
		{types.MetricMemory, cfg.MemChartPath(), 0},
	}
	exported := make([]report.Series, 0, len(charts))
	for _, c := range charts {
		series := report.Aggregate(records, rng.Timestamps, c.metric, details, cfg.TopK)
		if err := report.WriteSummary(stdout, series); err != nil {
			return err
		}
		result, err := chart.Render(series, chart.Options{
			Path:          c.path,
			Ceiling:       c.ceiling,
			MaxTimestamps: cfg.MaxTimestamps,
			Out:           stdout,
		})
		if err != nil {
			return err
		}
		log.Debug().
			Str("metric", c.metric.String()).
			Int("processes", len(result.Colors.PIDs())).
			Bool("written", result.Written).
			Msg("chart done")
		exported = append(exported, series)
	}

	if cfg.Export != "" {
		if err := exportSeries(cfg.Export, exported); err != nil {
			return err
		}
		log.Info().Str("file", cfg.Export).Msg("exported aggregated series")
	}
	return nil
}

func exportSeries(path string, series []report.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := report.ExportYAML(f, series...); err != nil {
		f.Close()
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return f.Close()
}

// fileError turns a missing input file into a usage error.
func fileError(err, notFound error) error {
	if errors.Is(err, notFound) {
		return &usageError{err}
	}
	return err
}
