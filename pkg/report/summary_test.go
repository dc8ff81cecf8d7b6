package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srodi/hotspot-nmon/pkg/types"
)

func TestWriteSummaryOrdersSeriesAndPeaks(t *testing.T) {
	index := []types.Timestamp{
		{ID: "T0001", Label: "10:00:00-01-JAN-2024"},
		{ID: "T0002", Label: "10:05:00-01-JAN-2024"},
		{ID: "T0003", Label: "10:10:00-01-JAN-2024"},
	}
	records := []types.ProcessRecord{
		rec("T0001", "1", 40, 0, "small"),
		rec("T0002", "2", 100, 0, "big"),
		rec("T0002", "3", 50, 0, "mid"),
		rec("T0003", "4", 80, 0, "medium"),
	}
	series := Aggregate(records, index, types.MetricCPU, nil, 5)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, series))
	out := buf.String()

	assert.Contains(t, out, "CPU Consumption by Timestamp")
	first := strings.Index(out, "T0001")
	second := strings.Index(out, "T0002")
	third := strings.Index(out, "T0003")
	require.True(t, first >= 0 && second > first && third > second, "series must follow index order:\n%s", out)

	peaks := out[strings.Index(out, "More consumption"):]
	p150 := strings.Index(peaks, "Total CPU: 150")
	p80 := strings.Index(peaks, "Total CPU: 80")
	p40 := strings.Index(peaks, "Total CPU: 40")
	require.True(t, p150 >= 0 && p80 > p150 && p40 > p80, "peaks must rank by total:\n%s", peaks)
	assert.Contains(t, peaks, "PID 2 - big - 100%")
}

func TestWriteSummaryHandlesFlatSeries(t *testing.T) {
	series := Series{Metric: types.MetricMemory, Buckets: []Bucket{{TimestampID: "T1", Label: "01:00:00-x", Total: 5}}}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, series))
	assert.Contains(t, buf.String(), "Memory Consumption by Timestamp")
	assert.NotContains(t, buf.String(), "Distribution")
}

func TestWriteCaptureSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteCaptureSummary(&buf, CaptureStats{
		CapturePath:     "capture.nmon",
		Timestamps:      index("T1", "T2", "T3"),
		Records:         30,
		Filtered:        index("T2"),
		FilteredRecords: 10,
		DetailsPath:     "details.txt",
		Details:         4,
		CPUCount:        8,
	})
	out := buf.String()
	assert.Contains(t, out, "Found 3 timestamps")
	assert.Contains(t, out, "Filtering timestamps: 3 -> 1")
	assert.Contains(t, out, "Loaded 4 PID processes")
	assert.Contains(t, out, "8 CPUs (Maximum: 800%)")
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "150", formatPercent(150))
	assert.Equal(t, "12.5", formatPercent(12.5))
	assert.Equal(t, "0.33", formatPercent(1.0/3))
}
