package chart

import (
	"fmt"
	"image/color"

	"github.com/StudioSol/set"

	"github.com/srodi/hotspot-nmon/pkg/report"
)

// palette is cycled in first-seen order; identities past its end reuse colors.
var palette = mustParseHex(
	"#F5917D", "#CEED51", "#ED8C13", "#93F27C", "#6EF5F5", "#F5EF78",
	"#62CBF5", "#619AFA", "#9FC2FC", "#6F6BFA", "#804E44", "#9D6BFA", "#EC6BFA",
	"#ED4424", "#045959", "#780885", "#FAA5DC", "#C2B906", "#F2BD7C", "#748F07", "#1F8F04", "#0CA6A6",
)

var otherColor = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// OtherLabel names the aggregated remainder in legends.
const OtherLabel = "Other processes"

// ColorAssignment maps a PID to its bar color for one chart.
type ColorAssignment struct {
	order  []string
	colors map[string]color.Color
}

// AssignColors sweeps the series in order and gives each PID a color the first
// time it shows up in a top set.
func AssignColors(series report.Series) *ColorAssignment {
	ca := &ColorAssignment{colors: make(map[string]color.Color)}
	for _, b := range series.Buckets {
		for _, c := range b.Top {
			ca.assign(c.PID)
		}
	}
	return ca
}

func (ca *ColorAssignment) assign(pid string) color.Color {
	if c, ok := ca.colors[pid]; ok {
		return c
	}
	c := palette[len(ca.order)%len(palette)]
	ca.colors[pid] = c
	ca.order = append(ca.order, pid)
	return c
}

// Color returns the color for pid, or the "other" grey when it was never assigned.
func (ca *ColorAssignment) Color(pid string) color.Color {
	if c, ok := ca.colors[pid]; ok {
		return c
	}
	return otherColor
}

// PIDs lists assigned identities in assignment order.
func (ca *ColorAssignment) PIDs() []string {
	return append([]string(nil), ca.order...)
}

// LegendEntry is one swatch in the chart legend.
type LegendEntry struct {
	PID         string
	Description string
	Color       color.Color
	Other       bool
}

// Label is the legend text.
func (e LegendEntry) Label() string {
	if e.Other {
		return OtherLabel
	}
	return fmt.Sprintf("PID %s - %s", e.PID, e.Description)
}

const legendKeySep = "\x00"

// CollectLegend lists every (PID, description) pair that made a top set, in
// first-seen order, followed by the "other" entry.
func CollectLegend(series report.Series, colors *ColorAssignment) []LegendEntry {
	seen := set.NewLinkedHashSetString()
	entries := make(map[string]LegendEntry)
	for _, b := range series.Buckets {
		for _, c := range b.Top {
			key := c.PID + legendKeySep + c.Description
			if _, ok := entries[key]; ok {
				continue
			}
			entries[key] = LegendEntry{PID: c.PID, Description: c.Description, Color: colors.Color(c.PID)}
			seen.Add(key)
		}
	}

	legend := make([]LegendEntry, 0, len(entries)+1)
	for key := range seen.Iter() {
		legend = append(legend, entries[key])
	}
	return append(legend, LegendEntry{Description: OtherLabel, Color: otherColor, Other: true})
}

func mustParseHex(codes ...string) []color.Color {
	out := make([]color.Color, 0, len(codes))
	for _, code := range codes {
		var r, g, b uint8
		if _, err := fmt.Sscanf(code, "#%02x%02x%02x", &r, &g, &b); err != nil {
			panic(fmt.Sprintf("bad palette color %q: %v", code, err))
		}
		out = append(out, color.RGBA{R: r, G: g, B: b, A: 0xff})
	}
	return out
}
