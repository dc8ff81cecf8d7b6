package nmon

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// NormalizePID strips leading zeros from numeric PIDs so "007" and "7" match.
// Non-numeric values are returned unchanged.
func NormalizePID(pid string) string {
	s := strings.TrimSpace(pid)
	if s == "" {
		return pid
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	// Very long digit runs still normalise.
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n.String()
	}
	return pid
}

// parsePercent parses a utilisation column, reporting whether the value was usable.
// Only finite, non-negative values are usable.
func parsePercent(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseCPUCount extracts the count from "AAA,cpus,<n>".
func parseCPUCount(fields []string) (int, bool) {
	n, err := strconv.Atoi(unquote(field(fields, 2)))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseLscpuCount extracts the count from a "BBBP,...,lscpu,CPU(s): <n>" line.
func parseLscpuCount(fields []string) (int, bool) {
	for _, f := range fields[1:] {
		v := unquote(strings.TrimSpace(f))
		rest, ok := strings.CutPrefix(v, "CPU(s):")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}

func unquote(s string) string {
	return strings.Trim(s, `"`)
}
