package report

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/srodi/hotspot-nmon/pkg/collector/annotation"
	"github.com/srodi/hotspot-nmon/pkg/types"
)

// residualEpsilon is the share of the total below which the leftover after
// subtracting the top-K sum is float noise.
const residualEpsilon = 1e-9

// Contributor is one of the top processes at a timestamp.
type Contributor struct {
	PID         string  `yaml:"pid"`
	Command     string  `yaml:"command"`
	Description string  `yaml:"description"`
	Value       float64 `yaml:"value"`
}

// Bucket condenses every process observation for one timestamp.
type Bucket struct {
	TimestampID string        `yaml:"timestamp"`
	Label       string        `yaml:"label"`
	Total       float64       `yaml:"total"`
	Top         []Contributor `yaml:"top"`
	Residual    float64       `yaml:"other"`
}

// HasOther reports whether the processes outside the top set used anything.
func (b Bucket) HasOther() bool {
	return b.Residual > 0
}

// HourMinute is the HH:MM part of the bucket label.
func (b Bucket) HourMinute() string {
	return types.Timestamp{ID: b.TimestampID, Label: b.Label}.HourMinute()
}

// Series is the per-timestamp breakdown of one metric, in index order.
type Series struct {
	Metric  types.Metric
	Buckets []Bucket
}

// Totals returns the per-bucket totals in series order.
func (s Series) Totals() []float64 {
	return lo.Map(s.Buckets, func(b Bucket, _ int) float64 { return b.Total })
}

// Peaks returns the n buckets with the highest total, ties kept in series order.
func (s Series) Peaks(n int) []Bucket {
	peaks := make([]Bucket, len(s.Buckets))
	copy(peaks, s.Buckets)
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Total > peaks[j].Total })
	if n > 0 && len(peaks) > n {
		peaks = peaks[:n]
	}
	return peaks
}

// Aggregate ranks the processes of every timestamp in index by metric, keeps
// the topK largest and folds the remainder into Bucket.Residual.
func Aggregate(
	records []types.ProcessRecord,
	index []types.Timestamp,
	metric types.Metric,
	details types.Annotations,
	topK int,
) Series {
	if topK <= 0 {
		topK = types.DefaultTopK
	}
	byTimestamp := lo.GroupBy(records, func(r types.ProcessRecord) string { return r.TimestampID })

	series := Series{Metric: metric, Buckets: make([]Bucket, 0, len(index))}
	for _, ts := range index {
		matching := byTimestamp[ts.ID]
		values := lo.Map(matching, func(r types.ProcessRecord, _ int) float64 { return metric.Value(r) })

		top := topContributors(matching, metric, topK)
		for i := range top {
			top[i].Description = annotation.Describe(details, top[i].PID, top[i].Command)
		}

		total := floats.Sum(values)
		residual := total - floats.Sum(lo.Map(top, func(c Contributor, _ int) float64 { return c.Value }))
		if residual <= residualEpsilon*math.Abs(total) {
			residual = 0
		}

		series.Buckets = append(series.Buckets, Bucket{
			TimestampID: ts.ID,
			Label:       ts.Label,
			Total:       total,
			Top:         top,
			Residual:    residual,
		})
	}
	return series
}

// topContributors returns the highest metric rows up to topK, ties broken by
// record order.
func topContributors(records []types.ProcessRecord, metric types.Metric, topK int) []Contributor {
	candidates := make([]types.ProcessRecord, len(records))
	copy(candidates, records)
	sort.SliceStable(candidates, func(i, j int) bool {
		return metric.Value(candidates[i]) > metric.Value(candidates[j])
	})
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return lo.Map(candidates, func(r types.ProcessRecord, _ int) Contributor {
		return Contributor{PID: r.PID, Command: r.Command, Value: metric.Value(r)}
	})
}
