package ui

import (
	"io"
	"strings"

	"github.com/srodi/hotspot-nmon/pkg/logging"
)

const (
	reset        = "\033[0m"
	bold         = "\033[1m"
	beeYellow    = "\033[38;5;226m"
	honeyOrange  = "\033[38;5;214m"
	cobalt       = "\033[38;5;33m"
	fuchsia      = "\033[38;5;177m"
	hotspotFlame = "\033[38;5;208m"
)

var (
	glyphN = []string{"███╗   ██╗", "████╗  ██║", "██╔██╗ ██║", "██║╚██╗██║", "██║ ╚████║", "╚═╝  ╚═══╝"}
	glyphM = []string{"███╗   ███╗", "████╗ ████║", "██╔████╔██║", "██║╚██╔╝██║", "██║ ╚═╝ ██║", "╚═╝     ╚═╝"}
	glyphO = []string{" ██████╗ ", "██╔═══██╗", "██║   ██║", "██║   ██║", "╚██████╔╝", " ╚═════╝ "}
)

// Banner renders the colored NMON wordmark.
func Banner() string {
	var b strings.Builder

	letters := [][]string{glyphN, glyphM, glyphO, glyphN}
	gradient := []string{hotspotFlame, honeyOrange, beeYellow, cobalt}
	rows := make([]string, len(glyphN))
	for i, letter := range letters {
		color := gradient[i%len(gradient)]
		for row := range letter {
			rows[row] += color + letter[row] + " "
		}
	}
	for _, line := range rows {
		b.WriteString(bold + line + reset + "\n")
	}

	b.WriteString("\n")
	b.WriteString(bold + hotspotFlame + "hotspot-nmon" + reset + "  •  " + fuchsia + "NMON process lens" + reset + "\n\n")

	return b.String()
}

// PrintBanner writes the banner to w when it is an interactive terminal.
func PrintBanner(w io.Writer) bool {
	if !logging.IsTerminal(w) {
		return false
	}
	io.WriteString(w, Banner())
	return true
}
