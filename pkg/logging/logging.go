package logging

import (
	"io"
	"os"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	xterm "golang.org/x/term"
)

const timeLayout = time.TimeOnly

// New returns a console logger writing to w at the given level ("debug",
// "info", "warn", ...). Colors are used only when w is a terminal.
func New(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	colored := IsTerminal(w)
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !colored,
		TimeFormat: timeLayout,
	}
	if colored {
		output.FormatLevel = formatLevel
	}

	return zerolog.New(output).Level(lvl).With().Timestamp().Logger(), nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && xterm.IsTerminal(int(f.Fd()))
}

func formatLevel(i interface{}) string {
	level, _ := i.(string)
	switch level {
	case zerolog.LevelTraceValue, zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WRN]")
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return term.Redf("[ERR]")
	default:
		return term.Whitef("[???]")
	}
}
