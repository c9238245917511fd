package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Level classifies a status line.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Failure
)

var levelColors = map[Level]color.Attribute{
	Info:    color.FgCyan,
	Success: color.FgGreen,
	Warning: color.FgYellow,
	Failure: color.FgRed,
}

// Notice writes a one-line status message to w. Status lines are kept off
// the report stream so JSON and TOON output stay parseable.
func Notice(w io.Writer, colored bool, level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if colored {
		color.New(levelColors[level]).Fprintln(w, msg)
		return
	}
	fmt.Fprintln(w, msg)
}
