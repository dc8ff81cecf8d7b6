package nmon

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srodi/hotspot-nmon/pkg/types"
)

// topLine builds a 15+ field TOP sample line.
func topLine(pid, ts, cpu, mem, command string) string {
	fields := []string{"TOP", pid, ts, cpu, mem, "0.1", "0.2", "100", "200", "10", "20", "0", "0", command, "cmd", "extra"}
	return strings.Join(fields, ",")
}

func writeCapture(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.nmon")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestParseBuildsOrderedIndexAndRecords(t *testing.T) {
	path := writeCapture(t,
		"AAA,progname,topas_nmon",
		"AAA,cpus,8",
		"TOP,+PID,Time,%CPU,%Usr,%Sys,Size,ResSet,ResText,ResData,ShdLib,MinorFault,MajorFault,Command",
		"ZZZZ,T0001,10:00:05,01-JAN-2024",
		topLine("0042", "T0001", "12.5", "3.0", "java"),
		topLine("7", "T0001", "1.5", "0.5", "sshd"),
		"ZZZZ,T0002,10:05:05,01-JAN-2024",
		topLine("0042", "T0002", "40", "3.1", "java"),
		"TOPZZZZ,T0002,ignored",
		"ZZZZ,T0003,10:10:05,01-JAN-2024",
	)

	capture, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, []types.Timestamp{
		{ID: "T0001", Label: "10:00:05-01-JAN-2024"},
		{ID: "T0002", Label: "10:05:05-01-JAN-2024"},
		{ID: "T0003", Label: "10:10:05-01-JAN-2024"},
	}, capture.Timestamps)
	require.Len(t, capture.Records, 3)
	assert.Equal(t, types.ProcessRecord{TimestampID: "T0001", PID: "0042", CPUPercent: 12.5, MemPercent: 3.0, Command: "java"}, capture.Records[0])
	assert.Equal(t, "T0002", capture.Records[2].TimestampID)
	assert.Equal(t, 8, capture.CPUCount)
	assert.Empty(t, capture.Skipped)
}

func TestParseSkipsMalformedLinesAndContinues(t *testing.T) {
	path := writeCapture(t,
		"ZZZZ,T0001",
		"ZZZZ,T0002,10:05:05,01-JAN-2024",
		"TOP,1,T0002,5.0",
		topLine("2", "T0002", "5.0", "1.0", "ok"),
	)

	capture, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, capture.Timestamps, 1)
	assert.Equal(t, "T0002", capture.Timestamps[0].ID)
	require.Len(t, capture.Records, 1)
	assert.Equal(t, "2", capture.Records[0].PID)
	require.Len(t, capture.Skipped, 2)
	assert.Equal(t, 1, capture.Skipped[0].Line)
	assert.Equal(t, 3, capture.Skipped[1].Line)
}

func TestParseDefaultsUnparsableFields(t *testing.T) {
	path := writeCapture(t,
		"ZZZZ,T0001,10:00:00,01-JAN-2024",
		topLine("9", "T0001", "n/a", "", ""),
	)

	capture, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, capture.Records, 1)
	rec := capture.Records[0]
	assert.Zero(t, rec.CPUPercent)
	assert.Zero(t, rec.MemPercent)
	assert.Equal(t, types.UnknownCommand, rec.Command)
	assert.Zero(t, capture.CPUCount)
}

func TestParseDefaultsNonFinitePercentages(t *testing.T) {
	path := writeCapture(t,
		"ZZZZ,T0001,10:00:00,01-JAN-2024",
		topLine("1", "T0001", "NaN", "Inf", "a"),
		topLine("2", "T0001", "-Inf", "infinity", "b"),
	)

	capture, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, capture.Records, 2)
	for _, rec := range capture.Records {
		assert.Zero(t, rec.CPUPercent, rec.PID)
		assert.Zero(t, rec.MemPercent, rec.PID)
	}
}

func TestParseKeepsDataLinesThatMentionHeaderText(t *testing.T) {
	path := writeCapture(t,
		"ZZZZ,T0001,10:00:00,01-JAN-2024",
		topLine("11", "T0001", "3.0", "1.0", "report-%CPU-+PID"),
	)

	capture, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, capture.Records, 1)
	assert.Equal(t, "report-%CPU-+PID", capture.Records[0].Command)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.nmon"))
	require.ErrorIs(t, err, ErrFileNotFound)

	_, err = CPUCount(filepath.Join(t.TempDir(), "missing.nmon"))
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestParseWithProgressWritesBar(t *testing.T) {
	path := writeCapture(t, "ZZZZ,T0001,10:00:00,01-JAN-2024")
	var buf bytes.Buffer

	capture, err := Parse(path, WithProgress(&buf))
	require.NoError(t, err)
	assert.Len(t, capture.Timestamps, 1)
	assert.NotZero(t, buf.Len())
}

func TestCPUCount(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		want  int
	}{
		{"aaa", []string{"AAA,host,box", "AAA,cpus,32"}, 32},
		{"lscpu", []string{"BBBP,001,lscpu,\"Architecture: x86_64\"", "BBBP,002,lscpu,\"CPU(s):              16\""}, 16},
		{"firstWins", []string{"AAA,cpus,4", "BBBP,002,lscpu,CPU(s): 16"}, 4},
		{"absent", []string{"ZZZZ,T0001,10:00:00,01-JAN-2024"}, 0},
		{"numaIgnored", []string{"BBBP,010,lscpu,\"NUMA node0 CPU(s):   0-7\""}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CPUCount(writeCapture(t, tc.lines...))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
