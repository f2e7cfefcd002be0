package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DevOrc/mini/internal/discovery"
)

// Detail is one key/value line in a header or result box. A slice keeps the
// order stable, unlike a map.
type Detail struct {
	Key   string
	Value string
}

// Printer writes styled components to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width.
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Width returns the current width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, details []Detail) {
	p.Println(RenderHeader(title, command, details, p.width))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details []Detail) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(RenderErrorBox(title, err, troubleshooting, p.width))
}

// PrintWarning prints a single warning line
func (p *Printer) PrintWarning(message string) {
	p.Println(WarningStyle.Render(WarningMarker + " " + message))
}

// PrintRelays prints discovered relays as a table
func (p *Printer) PrintRelays(relays []*discovery.Relay) {
	p.Println(RenderRelayTable(relays))
}

// RenderHeader renders a command header box
func RenderHeader(title, command string, details []Detail, width int) string {
	titleLine := HeaderTitleStyle.Render(strings.ToUpper(title))
	commandLine := HeaderCommandStyle.Render(command)
	sections := []string{titleLine, commandLine}

	if len(details) > 0 {
		dividerWidth := width - 6
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		sections = append(sections, RenderHorizontalDivider(dividerWidth, "─"), renderDetails("  ", details))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return HeaderBorderStyle(width).Render(content)
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details []Detail, width int) string {
	lines := []string{
		"",
		SuccessTitleStyle.Render(SuccessMarker + "  " + title),
		"",
	}
	if len(details) > 0 {
		lines = append(lines, renderDetails("", details), "")
	}
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with troubleshooting
func RenderErrorBox(title string, err error, troubleshooting []string, width int) string {
	lines := []string{
		"",
		ErrorTitleStyle.Render(FailureMarker + "  FAILED  ─  " + title),
		"",
	}

	if err != nil {
		lines = append(lines, ErrorMessageStyle.Render("Error: "+err.Error()), "")
	}

	if len(troubleshooting) > 0 {
		trouble := []string{TroubleshootingTitleStyle.Render("Troubleshooting:"), ""}
		for _, tip := range troubleshooting {
			trouble = append(trouble, TroubleshootingItemStyle.Render("  • "+tip))
		}
		lines = append(lines, TroubleshootingBoxStyle(width).Render(strings.Join(trouble, "\n")), "")
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderRelayTable renders relays with their dial URLs
func RenderRelayTable(relays []*discovery.Relay) string {
	if len(relays) == 0 {
		return WarningStyle.Render(WarningMarker + " No relays found on the local network")
	}

	nameWidth := len("RELAY")
	for _, r := range relays {
		if n := lipgloss.Width(r.Instance); n > nameWidth {
			nameWidth = n
		}
	}
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)

	lines := []string{
		TableHeaderStyle.Render(nameCol.Render("RELAY") + "URL"),
	}
	for _, r := range relays {
		url := r.URL()
		if v := r.GetMetadata("version"); v != "" {
			url += lipgloss.NewStyle().Foreground(MutedColor).Render("  (" + v + ")")
		}
		lines = append(lines, nameCol.Render(r.Instance)+url)
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(MutedColor).Render(
		strconv.Itoa(len(relays))+" relay(s) found. Connect with: mini --server <URL>"))
	return strings.Join(lines, "\n")
}

func renderDetails(indent string, details []Detail) string {
	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, indent+KeyStyle.Render(d.Key+":")+" "+ValueStyle.Render(d.Value))
	}
	return strings.Join(lines, "\n")
}
