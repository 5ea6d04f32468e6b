package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	headStyle  = lipgloss.NewStyle().Bold(true)
)

// NodeLine prints one line of a specification outline, indented by depth.
func NodeLine(w io.Writer, depth int, keyword, name string) {
	fmt.Fprintln(w, strings.Repeat("  ", depth)+faintStyle.Render(keyword+":")+" "+name)
}

func StepLine(w io.Writer, depth int, keyword, text string) {
	fmt.Fprintln(w, strings.Repeat("  ", depth)+faintStyle.Render(keyword)+" "+text)
}

func ParseErrorLine(w io.Writer, path string, err error) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path+": "+err.Error())
}

func CheckSummary(w io.Writer, files, scenarios, steps, failed int) {
	line := fmt.Sprintf("checked %d files: %d scenarios, %d steps", files, scenarios, steps)
	if failed > 0 {
		fmt.Fprintln(w, line+", "+errStyle.Render(fmt.Sprintf("%d unparsable", failed)))
		return
	}
	fmt.Fprintln(w, line)
}

// RunRow prints one history row. Column widths are computed by the caller.
func RunRow(w io.Writer, runID, startedAt string, documents, errorCount, idWidth int) {
	status := okStyle.Render("ok  ")
	if errorCount > 0 {
		status = errStyle.Render("fail")
	}
	fmt.Fprintf(w, "%s  %-*s  %s  %d documents, %d errors\n", status, idWidth, runID, faintStyle.Render(startedAt), documents, errorCount)
}

func RunHeader(w io.Writer, runID, startedAt string) {
	fmt.Fprintln(w, headStyle.Render("run "+runID)+"  "+faintStyle.Render(startedAt))
}

func RunErrorLine(w io.Writer, kind, nodeType, nodeName, filePath string) {
	fmt.Fprintf(w, "  %s  %s %q at %s\n", errStyle.Render(kind), nodeType, nodeName, filePath)
}

func NoErrors(w io.Writer) {
	fmt.Fprintln(w, okStyle.Render("every node bound"))
}
