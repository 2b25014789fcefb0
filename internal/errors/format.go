package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
	colorWhite = "\033[37m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() { colorEnabled = false }

// EnableColors enables ANSI color output.
func EnableColors() { colorEnabled = true }

func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string   { return color(colorRed, text) }
func blue(text string) string  { return color(colorBlue, text) }
func cyan(text string) string  { return color(colorCyan, text) }
func white(text string) string { return color(colorWhite, text) }
func gray(text string) string  { return color(colorGray, text) }
func bold(text string) string  { return color(colorBold, text) }

// detailWidth is the column at which Format wraps the detail paragraph.
const detailWidth = 70

// Format returns the error formatted for terminal display: a header, the
// source excerpt around Location, the wrapped detail, the hint and the
// cause.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		fmt.Fprintf(&b, "%s%s%s\n\n", red(bold("ERROR ")), white(bold(e.Code+": ")), white(e.Message))
	} else {
		fmt.Fprintf(&b, "%s%s\n\n", red(bold("ERROR: ")), white(e.Message))
	}

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", cyan(e.Location.String()))
		e.writeExcerpt(&b)
	}

	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", cyan("Hint: "), e.Suggestion)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n", gray("Caused by: "), blue(e.Wrapped.Error()))
	}
	return b.String()
}

// writeExcerpt prints the context lines with numbers, marking the error
// line with an arrow and the column with a caret.
func (e *Error) writeExcerpt(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}

	first := e.Location.Line - len(e.Context)/2
	for i, line := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, gray(" │ "), line)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", red("→ "), n, gray(" │ "), line)
		if e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", gray("│ "), strings.Repeat(" ", e.Location.Column-1), red("^"))
		}
	}
	b.WriteString("\n")
}

// FormatCompact returns a compact single-line error format.
func (e *Error) FormatCompact() string {
	var b strings.Builder
	if e.Location != nil {
		b.WriteString(e.Location.String() + ": ")
	}
	if e.Code != "" {
		b.WriteString(e.Code + ": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// jsonError is the wire shape of FormatJSON.
type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	Cause      string        `json:"cause,omitempty"`
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Location != nil {
		out.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText greedily breaks text into lines no longer than width, except
// for single words that are longer on their own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}
	for _, word := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(word) > width {
			lines = append(lines, word)
			continue
		}
		*last += " " + word
	}
	return lines
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}

// Fprint writes err to w, using Format for coded errors.
func Fprint(w io.Writer, err error) {
	if fe, ok := err.(*Error); ok {
		fmt.Fprint(w, fe.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", red(bold("ERROR:")), err.Error())
}
