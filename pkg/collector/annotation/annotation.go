package annotation

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/srodi/hotspot-nmon/pkg/collector/nmon"
	"github.com/srodi/hotspot-nmon/pkg/types"
)

// ErrFileNotFound is returned when the annotation file does not exist.
var ErrFileNotFound = errors.New("process details file not found")

const maxLineBytes = 1 << 20

// openFile allows tests to stub opening the details file.
var openFile = os.Open

// Load reads "<pid>,<description>" lines into a normalized PID map.
// Later lines for the same PID overwrite earlier ones.
func Load(path string) (types.Annotations, error) {
	f, err := openFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	details := make(types.Annotations)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		pid, desc, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		details[nmon.NormalizePID(strings.TrimSpace(pid))] = strings.TrimSpace(desc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return details, nil
}

// Describe returns the annotation for pid, or fallback when there is none.
func Describe(details types.Annotations, pid, fallback string) string {
	if desc, ok := details[nmon.NormalizePID(pid)]; ok {
		return desc
	}
	return fallback
}
