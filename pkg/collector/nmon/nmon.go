package nmon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/srodi/hotspot-nmon/pkg/types"
)

// ErrFileNotFound is returned when the capture file does not exist.
var ErrFileNotFound = errors.New("monitoring file not found")

const maxLineBytes = 1 << 20

// ParseError describes a line that was skipped while scanning.
type ParseError struct {
	Line    int
	Content string
	Reason  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Capture is everything extracted from one NMON file.
type Capture struct {
	Timestamps []types.Timestamp
	Records    []types.ProcessRecord
	// CPUCount is 0 when the capture does not declare it.
	CPUCount int
	Skipped  []ParseError
}

type options struct {
	log      zerolog.Logger
	progress io.Writer
}

// Option tweaks Parse.
type Option func(*options)

// WithLogger routes per-line diagnostics to log.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithProgress draws a byte progress bar on w while scanning.
func WithProgress(w io.Writer) Option {
	return func(o *options) { o.progress = w }
}

// Parse reads the capture in a single pass, building the ordered timestamp
// index, the process records and the CPU count at once.
func Parse(path string, opts ...Option) (*Capture, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	file, info, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if o.progress != nil {
		bar := progressbar.NewOptions64(info.Size(),
			progressbar.OptionSetWriter(o.progress),
			progressbar.OptionSetDescription("scanning "+info.Name()),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionClearOnFinish(),
		)
		defer func() {
			if err := bar.Finish(); err != nil {
				o.log.Warn().Err(err).Msg("finishing progress bar")
			}
		}()
		r = io.TeeReader(file, bar)
	}

	capture, err := scan(r, o.log)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return capture, nil
}

// CPUCount probes the capture for the number of logical CPUs. It returns 0
// when neither the AAA nor the lscpu form is present.
func CPUCount(path string) (int, error) {
	file, _, err := open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	scanner := newScanner(file)
	for scanner.Scan() {
		fields := splitLine(scanner.Text())
		if n, ok := capacityOf(fields); ok {
			return n, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return 0, nil
}

func open(path string) (*os.File, fs.FileInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return file, info, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return scanner
}

func splitLine(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return strings.Split(line, ",")
}

func capacityOf(fields []string) (int, bool) {
	switch classify(fields) {
	case kindCapacity:
		return parseCPUCount(fields)
	case kindLscpu:
		return parseLscpuCount(fields)
	}
	return 0, false
}

func scan(r io.Reader, log zerolog.Logger) (*Capture, error) {
	capture := &Capture{}
	cpuKnown := false
	skip := func(lineNum int, line, reason string) {
		capture.Skipped = append(capture.Skipped, ParseError{Line: lineNum, Content: line, Reason: reason})
		log.Warn().Int("line", lineNum).Str("reason", reason).Msg("skipping malformed line")
	}

	scanner := newScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := splitLine(line)
		kind := classify(fields)

		switch kind {
		case kindCapacity, kindLscpu:
			if cpuKnown {
				continue
			}
			if n, ok := capacityOf(fields); ok {
				capture.CPUCount = n
				cpuKnown = true
			}
		case kindTimeIndex:
			if len(fields) < minTimeFields {
				skip(lineNum, line, fmt.Sprintf("time index needs %d fields, got %d", minTimeFields, len(fields)))
				continue
			}
			capture.Timestamps = append(capture.Timestamps, types.Timestamp{
				ID:    field(fields, 1),
				Label: field(fields, 2) + "-" + field(fields, 3),
			})
		case kindProcessSample:
			if len(fields) < minProcessFields {
				skip(lineNum, line, fmt.Sprintf("process sample needs %d fields, got %d", minProcessFields, len(fields)))
				continue
			}
			capture.Records = append(capture.Records, sampleFrom(fields, lineNum, log))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return capture, nil
}

func sampleFrom(fields []string, lineNum int, log zerolog.Logger) types.ProcessRecord {
	cpu, ok := parsePercent(field(fields, fieldCPU))
	if !ok {
		log.Debug().Int("line", lineNum).Str("value", field(fields, fieldCPU)).Msg("cpu percent defaulted to 0")
	}
	mem, ok := parsePercent(field(fields, fieldMem))
	if !ok {
		log.Debug().Int("line", lineNum).Str("value", field(fields, fieldMem)).Msg("memory percent defaulted to 0")
	}
	command := field(fields, fieldCommand)
	if command == "" {
		command = types.UnknownCommand
	}
	return types.ProcessRecord{
		TimestampID: field(fields, fieldTimestamp),
		PID:         field(fields, fieldPID),
		CPUPercent:  cpu,
		MemPercent:  mem,
		Command:     command,
	}
}
