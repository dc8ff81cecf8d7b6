package report

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/srodi/hotspot-nmon/pkg/types"
)

// ErrEmptyRange means no timestamp survived range filtering.
var ErrEmptyRange = errors.New("no timestamps in the specified range")

// RangeResult is the outcome of FilterRange.
type RangeResult struct {
	Timestamps []types.Timestamp
	Start      string
	End        string
	StartFound bool
	EndFound   bool
}

// Warnings lists the requested boundaries that never appeared in the index.
func (r RangeResult) Warnings() []string {
	var warnings []string
	if r.Start != "" && !r.StartFound {
		warnings = append(warnings, fmt.Sprintf("start timestamp not found: %q", r.Start))
	}
	if r.End != "" && !r.EndFound {
		warnings = append(warnings, fmt.Sprintf("end timestamp not found: %q", r.End))
	}
	return warnings
}

// FilterRange keeps the inclusive [start, end] slice of the ordered index.
// An empty boundary means "from the beginning" or "to the end".
func FilterRange(index []types.Timestamp, start, end string) RangeResult {
	result := RangeResult{Start: start, End: end}
	if start == "" && end == "" {
		result.Timestamps = index
		return result
	}

	inRange := start == ""
	for _, ts := range index {
		if !inRange {
			if ts.ID != start {
				continue
			}
			inRange = true
			result.StartFound = true
		}
		result.Timestamps = append(result.Timestamps, ts)
		if end != "" && ts.ID == end {
			result.EndFound = true
			break
		}
	}
	return result
}

// RestrictRecords drops records whose timestamp is not in the retained index.
func RestrictRecords(records []types.ProcessRecord, index []types.Timestamp) []types.ProcessRecord {
	keep := lo.SliceToMap(index, func(ts types.Timestamp) (string, struct{}) {
		return ts.ID, struct{}{}
	})
	return lo.Filter(records, func(r types.ProcessRecord, _ int) bool {
		_, ok := keep[r.TimestampID]
		return ok
	})
}
