package ui

import "github.com/fatih/color"

type ColorFn func(format string, a ...interface{}) string

type TerminalColors struct {
	Normal      ColorFn
	Red         ColorFn
	Yellow      ColorFn
	Blue        ColorFn
	Green       ColorFn
	Bold        ColorFn
	Dim         ColorFn
	Highlighted ColorFn
}

var Colors = TerminalColors{
	Normal:      color.New().SprintfFunc(),
	Red:         color.New(color.FgRed).SprintfFunc(),
	Yellow:      color.New(color.FgYellow).SprintfFunc(),
	Blue:        color.New(color.FgBlue).SprintfFunc(),
	Green:       color.New(color.FgGreen).SprintfFunc(),
	Bold:        color.New(color.Bold).SprintfFunc(),
	Dim:         color.New(color.Faint).SprintfFunc(),
	Highlighted: color.New(color.FgHiGreen, color.Bold, color.Underline).SprintfFunc(),
}

// DisableColors turns every color function into plain formatting. Used for
// --plain and when stdout is not a terminal.
func DisableColors() {
	color.NoColor = true
}
