package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives status lines. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Styles shared by the commands.
var (
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const iconArrow = "→"

// status is a glyph and its color for one kind of status line.
type status struct {
	glyph string
	style lipgloss.Style
	body  lipgloss.Style // applied to the message; zero style leaves it plain
}

var (
	amber = lipgloss.NewStyle().Foreground(colorAmber)

	statusSuccess = status{glyph: "✓", style: lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = status{glyph: "✗", style: lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = status{glyph: "!", style: amber, body: amber}
	statusInfo    = status{glyph: "›", style: lipgloss.NewStyle().Foreground(colorGray)}
)

func (s status) print(format string, args ...any) {
	fmt.Fprintln(stdout, s.style.Render(s.glyph)+" "+s.body.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { statusSuccess.print(format, args...) }
func printError(format string, args ...any) { statusError.print(format, args...) }
func printWarning(format string, args ...any) { statusWarning.print(format, args...) }
func printInfo(format string, args ...any) { statusInfo.print(format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints one field of a created post, term, or upload.
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printNextStep suggests the command that fixes the current state, e.g. a
// login when no credentials are stored.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
