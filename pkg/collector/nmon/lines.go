package nmon

import "strings"

// lineKind is the closed set of record types we recognise in an NMON capture.
type lineKind int

const (
	kindOther lineKind = iota
	kindCapacity
	kindLscpu
	kindTimeIndex
	kindProcessHeader
	kindProcessSample
)

const (
	markerTimeIndex = "ZZZZ"
	markerProcess   = "TOP"
	markerCapacity  = "AAA"
	markerBuild     = "BBBP"

	// minProcessFields is the shortest TOP sample line we accept.
	minProcessFields = 15
	minTimeFields    = 4

	fieldPID       = 1
	fieldTimestamp = 2
	fieldCPU       = 3
	fieldMem       = 4
	fieldCommand   = 13
)

func (k lineKind) String() string {
	switch k {
	case kindCapacity:
		return "capacity"
	case kindLscpu:
		return "lscpu"
	case kindTimeIndex:
		return "time-index"
	case kindProcessHeader:
		return "process-header"
	case kindProcessSample:
		return "process-sample"
	default:
		return "other"
	}
}

// classify tags a split line by its first field. Header detection is positional
// so a command containing "%CPU" is still treated as data.
func classify(fields []string) lineKind {
	if len(fields) == 0 {
		return kindOther
	}
	switch fields[0] {
	case markerTimeIndex:
		return kindTimeIndex
	case markerProcess:
		if isProcessHeader(fields) {
			return kindProcessHeader
		}
		return kindProcessSample
	case markerCapacity:
		if len(fields) >= 2 && fields[1] == "cpus" {
			return kindCapacity
		}
	case markerBuild:
		if containsLscpu(fields) {
			return kindLscpu
		}
	}
	return kindOther
}

func isProcessHeader(fields []string) bool {
	if len(fields) > fieldPID && strings.HasPrefix(fields[fieldPID], "+PID") {
		return true
	}
	return len(fields) > fieldCPU && fields[fieldCPU] == "%CPU"
}

func containsLscpu(fields []string) bool {
	for _, f := range fields[1:] {
		if strings.Contains(f, "lscpu") {
			return true
		}
	}
	return false
}

// field returns fields[i] trimmed, or "" when the line is too short.
func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
