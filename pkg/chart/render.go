package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/srodi/hotspot-nmon/pkg/report"
	"github.com/srodi/hotspot-nmon/pkg/types"
)

const (
	canvasWidth  = 16 * vg.Inch
	canvasHeight = 9 * vg.Inch
	plotWidth    = 14 * vg.Inch
	maxBarWidth  = vg.Inch
	barFill      = 0.8
	headroom     = 1.12
)

// Options controls a single Render call.
type Options struct {
	// Path is the output file; the extension picks the image format.
	Path string
	// Ceiling is shown in the title when positive (CPU count x 100).
	Ceiling float64
	// MaxTimestamps caps the number of bars; 0 means types.DefaultMaxTimestamps.
	MaxTimestamps int
	// Out receives the guard warning and the "saved" notice. May be nil.
	Out io.Writer
}

// Result reports what Render did.
type Result struct {
	Legend  []LegendEntry
	Colors  *ColorAssignment
	Written bool
}

// Render draws one stacked bar per bucket. When the series has more buckets
// than MaxTimestamps it only warns, but the legend is still returned.
func Render(series report.Series, opts Options) (Result, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	limit := opts.MaxTimestamps
	if limit <= 0 {
		limit = types.DefaultMaxTimestamps
	}

	colors := AssignColors(series)
	result := Result{Legend: CollectLegend(series, colors), Colors: colors}

	title := series.Metric.Title()
	if len(series.Buckets) > limit {
		fmt.Fprintf(out, "\nWARNING: To draw the graph you must choose %d or fewer timestamps (got %d).\n", limit, len(series.Buckets))
		fmt.Fprintf(out, "We recommend you to choose a range of timestamps around the highest %s consumption moments.\n", title)
		return result, nil
	}
	if len(series.Buckets) == 0 {
		return result, nil
	}

	p, err := build(series, colors, result.Legend, opts.Ceiling)
	if err != nil {
		return result, err
	}
	if err := p.Save(canvasWidth, canvasHeight, opts.Path); err != nil {
		return result, fmt.Errorf("saving %s chart: %w", title, err)
	}
	fmt.Fprintf(out, "Graph saved as: %s\n", opts.Path)
	result.Written = true
	return result, nil
}

// Title is the chart heading for metric, with the ceiling when known.
func Title(metric types.Metric, ceiling float64) string {
	title := metric.Title() + " Consumption by Timestamp - Top 5 Processes"
	if ceiling > 0 {
		title += " (Max: " + strconv.FormatFloat(ceiling, 'f', -1, 64) + "%)"
	}
	return title
}

func build(series report.Series, colors *ColorAssignment, legend []LegendEntry, ceiling float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title(series.Metric, ceiling)
	p.X.Label.Text = "Timestamps"
	p.Y.Label.Text = series.Metric.Title() + " Consumption (%)"

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	width := barWidth(len(series.Buckets))
	ticks := make([]string, 0, len(series.Buckets))
	totals := plotter.XYLabels{}
	maxTotal := 0.0
	for i, b := range series.Buckets {
		if err := addStack(p, i, b, colors, width); err != nil {
			return nil, err
		}
		ticks = append(ticks, b.HourMinute())
		totals.XYs = append(totals.XYs, plotter.XY{X: float64(i), Y: b.Total})
		totals.Labels = append(totals.Labels, fmt.Sprintf("%.1f%%", b.Total))
		maxTotal = math.Max(maxTotal, b.Total)
	}

	labels, err := plotter.NewLabels(totals)
	if err != nil {
		return nil, fmt.Errorf("building total labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
	}
	labels.Offset = vg.Point{Y: vg.Points(3)}
	p.Add(labels)

	p.NominalX(ticks...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.Y.Min = 0
	if maxTotal > 0 {
		p.Y.Max = maxTotal * headroom
	}

	p.Legend.Top = true
	for _, entry := range legend {
		swatch, err := plotter.NewBarChart(plotter.Values{0}, width)
		if err != nil {
			return nil, fmt.Errorf("building legend swatch: %w", err)
		}
		swatch.Color = entry.Color
		swatch.LineStyle.Width = 0
		p.Legend.Add(entry.Label(), swatch)
	}
	return p, nil
}

// addStack chains the bucket's segments at x with StackOn so they share one bar.
func addStack(p *plot.Plot, x int, b report.Bucket, colors *ColorAssignment, width vg.Length) error {
	var below *plotter.BarChart
	push := func(value float64, fill color.Color) error {
		bar, err := plotter.NewBarChart(plotter.Values{value}, width)
		if err != nil {
			return fmt.Errorf("building bar for %s: %w", b.TimestampID, err)
		}
		if below != nil {
			bar.StackOn(below)
		} else {
			bar.XMin = float64(x)
		}
		bar.LineStyle.Width = 0
		bar.Color = fill
		p.Add(bar)
		below = bar
		return nil
	}

	for _, c := range b.Top {
		if c.Value == 0 {
			continue
		}
		if err := push(c.Value, colors.Color(c.PID)); err != nil {
			return err
		}
	}
	if b.HasOther() {
		return push(b.Residual, otherColor)
	}
	return nil
}

func barWidth(n int) vg.Length {
	if n <= 0 {
		return maxBarWidth
	}
	w := vg.Length(float64(plotWidth) / float64(n) * barFill)
	if w > maxBarWidth {
		return maxBarWidth
	}
	return w
}
