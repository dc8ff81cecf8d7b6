package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/srodi/hotspot-nmon/pkg/types"
)

const (
	rule          = "------------------------------------------------------------"
	peakCount     = 5
	histogramBins = 10
	histogramBar  = 40
)

var highlight = color.New(color.FgYellow, color.Bold)

// CaptureStats is what we learned from the input files before aggregating.
type CaptureStats struct {
	CapturePath     string
	Timestamps      []types.Timestamp
	Records         int
	Filtered        []types.Timestamp
	FilteredRecords int
	DetailsPath     string
	Details         int
	CPUCount        int
}

// WriteCaptureSummary prints the parsing and filtering overview.
func WriteCaptureSummary(w io.Writer, stats CaptureStats) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Analyzing file: %s\n", stats.CapturePath)
	fmt.Fprintf(w, "\n- Found %d timestamps\n", len(stats.Timestamps))
	writeSpan(w, stats.Timestamps)
	fmt.Fprintf(w, "- Found %d pieces of information about processes in %d timestamps\n", stats.Records, len(stats.Timestamps))

	fmt.Fprintf(w, "\n- Filtering timestamps: %d -> %d\n", len(stats.Timestamps), len(stats.Filtered))
	writeSpan(w, stats.Filtered)
	fmt.Fprintf(w, "- Found %d pieces of information about processes in the %d filtered timestamps\n", stats.FilteredRecords, len(stats.Filtered))
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "Analyzing file: %s\n", stats.DetailsPath)
	fmt.Fprintf(w, "\n- Loaded %d PID processes\n", stats.Details)
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "Information about the system:")
	if stats.CPUCount > 0 {
		fmt.Fprintf(w, "\n- CPU system detected: %d CPUs (Maximum: %d%%)\n", stats.CPUCount, stats.CPUCount*100)
	} else {
		fmt.Fprintln(w, "\n- CPU count not declared in the capture")
	}
	fmt.Fprintln(w, rule)
}

func writeSpan(w io.Writer, index []types.Timestamp) {
	if len(index) == 0 {
		return
	}
	first, last := index[0], index[len(index)-1]
	fmt.Fprintf(w, "\t- From %s at %s\n", first.ID, first.Label)
	fmt.Fprintf(w, "\t- To %s at %s\n", last.ID, last.Label)
}

// WriteSummary prints the full series, the distribution of totals and the
// busiest timestamps with their top processes.
func WriteSummary(w io.Writer, series Series) error {
	title := series.Metric.Title()

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "- %s Consumption by Timestamp\n", title)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Timestamp", "Time", "Total " + title + " (%)"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, b := range series.Buckets {
		table.Append([]string{b.TimestampID, b.Label, formatPercent(b.Total)})
	}
	table.Render()

	if totals := series.Totals(); spread(totals) {
		fmt.Fprintf(w, "\n- Distribution of total %s per timestamp\n", title)
		if err := histogram.Fprint(w, histogram.Hist(histogramBins, totals), histogram.Linear(histogramBar)); err != nil {
			return fmt.Errorf("printing histogram: %w", err)
		}
	}

	fmt.Fprintf(w, "\n- More consumption %s moments and processes:\n", title)
	for _, b := range series.Peaks(peakCount) {
		highlight.Fprintf(w, "\nTimestamp: %s (%s) - Total %s: %s\n", b.TimestampID, b.Label, title, formatPercent(b.Total))
		for _, c := range b.Top {
			fmt.Fprintf(w, "\tPID %s - %s - %s%%\n", c.PID, c.Command, formatPercent(c.Value))
		}
		if b.HasOther() {
			fmt.Fprintf(w, "\tOther processes - %s%%\n", formatPercent(b.Residual))
		}
	}
	fmt.Fprintln(w, rule)
	return nil
}

// spread reports whether a histogram of values would have more than one bucket.
func spread(values []float64) bool {
	if len(values) < 2 {
		return false
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return true
		}
	}
	return false
}

// formatPercent rounds to two decimals and drops trailing zeros.
func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
