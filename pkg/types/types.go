package types

import "strings"

// DefaultTopK controls how many top processes we keep per sampling interval.
const DefaultTopK = 5

// DefaultMaxTimestamps is the largest number of bars a chart will draw.
const DefaultMaxTimestamps = 100

// UnknownCommand is used when a sample line carries no command name.
const UnknownCommand = "unknown"

// Timestamp is one entry of the ordered sampling index (a ZZZZ line).
type Timestamp struct {
	ID    string
	Label string
}

// HourMinute returns the HH:MM part of the label ("12:34:56-01-JAN-2024" -> "12:34").
func (t Timestamp) HourMinute() string {
	clock, _, _ := strings.Cut(t.Label, "-")
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return clock
	}
	return parts[0] + ":" + parts[1]
}

// ProcessRecord holds one process observation at a given sampling interval.
type ProcessRecord struct {
	TimestampID string
	PID         string
	CPUPercent  float64
	MemPercent  float64
	Command     string
}

// Metric selects which utilization column is ranked.
type Metric int

const (
	MetricCPU Metric = iota
	MetricMemory
)

// Value extracts the metric from a record.
func (m Metric) Value(r ProcessRecord) float64 {
	if m == MetricMemory {
		return r.MemPercent
	}
	return r.CPUPercent
}

// Title is the human name used in chart titles and reports.
func (m Metric) Title() string {
	if m == MetricMemory {
		return "Memory"
	}
	return "CPU"
}

func (m Metric) String() string {
	if m == MetricMemory {
		return "mem"
	}
	return "cpu"
}

// Annotations maps a normalized PID to an operator supplied description.
type Annotations map[string]string
