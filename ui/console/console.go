package console

import (
	"fmt"
	"io"
	"strings"

	"minerdash/internal/output"
	"minerdash/internal/projector"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorOrange = "\033[38;5;214m"
	colorSalmon = "\033[38;5;173m"
)

// terminalColors approximates each status table color, keyed by status code.
var terminalColors = map[int]string{
	10: colorGreen,
	20: colorBlue,
	30: colorYellow,
	40: colorOrange,
	50: colorSalmon,
	60: colorRed,
}

// Print renders the dashboard view to the writer in a compact format:
// one line per PDU with a colored marker per reporting port, then the histogram.
func Print(w io.Writer, view output.DashboardView) {
	title := view.Title
	if title == "" {
		title = "no snapshot"
	}
	fmt.Fprintf(w, "%s■ MINERDASH REPORT%s %s\n", colorCyan, colorReset, title)

	for _, sec := range view.Sections {
		var marks []string
		for _, p := range sec.Ports {
			marks = append(marks, fmt.Sprintf("%s●%s%s", colorFor(projector.StatusOf(p.Device)), p.Label, colorReset))
		}
		if len(marks) == 0 {
			marks = append(marks, colorGray+"-"+colorReset)
		}
		fmt.Fprintf(w, "%s─ %-7s%s %s\n", colorCyan, sec.Title, colorReset, strings.Join(marks, " "))
	}

	// Single-line Summary
	var parts []string
	for _, b := range view.Histogram {
		parts = append(parts, fmt.Sprintf("%s%s%s: %d", colorFor(&b.Category.Code), b.Category.Label, colorReset, b.Count))
	}
	fmt.Fprintf(w, "%s─ Summary%s: %s | reporting %d/%d\n\n", colorCyan, colorReset, strings.Join(parts, " | "), view.Eligible, view.Devices)
}

// colorFor returns the terminal color for a status code. Codes outside the status table are gray.
func colorFor(code *int) string {
	if code == nil {
		return colorGray
	}
	if color, ok := terminalColors[*code]; ok {
		return color
	}
	return colorGray
}
