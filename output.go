package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/shu-go/git-coco/conventional"
)

func newLogger(w io.Writer, verbose, debug, noColor bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor || termenv.EnvNoColor(),
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

type printer struct {
	w io.Writer

	severity map[conventional.Severity]lipgloss.Style
	label    lipgloss.Style
	excerpt  lipgloss.Style
	good     lipgloss.Style
}

func newPrinter(w io.Writer, noColor bool) *printer {
	r := lipgloss.NewRenderer(w)
	if noColor || termenv.EnvNoColor() {
		r.SetColorProfile(termenv.Ascii)
	}

	return &printer{
		w: w,
		severity: map[conventional.Severity]lipgloss.Style{
			conventional.Error:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			conventional.Warning:    r.NewStyle().Foreground(lipgloss.Color("11")),
			conventional.Info:       r.NewStyle().Foreground(lipgloss.Color("12")),
			conventional.Suggestion: r.NewStyle().Foreground(lipgloss.Color("10")),
		},
		label:   r.NewStyle().Bold(true),
		excerpt: r.NewStyle().Faint(true),
		good:    r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// lint prints the diagnostics of result under label, if any.
func (p *printer) lint(label string, result conventional.LintResult) {
	if label != "" {
		fmt.Fprintln(p.w, p.label.Render(label))
	}

	for _, d := range result.Diagnostics {
		name := fmt.Sprintf("%-10s", strings.ToLower(d.Severity.String()))
		fmt.Fprintf(p.w, "  %s %s\n", p.severity[d.Severity].Render(name), d.Message)

		if ex := conventional.Excerpt(result.Source, d.Location); ex != "" {
			fmt.Fprintf(p.w, "  %-10s at %d: %s\n", "", d.Location, p.excerpt.Render(strconv.Quote(ex)))
		}
		if d.Description != "" {
			for _, line := range strings.Split(d.Description, "\n") {
				fmt.Fprintf(p.w, "  %-10s %s\n", "", line)
			}
		}
	}
}

func (p *printer) passed(msg string) {
	fmt.Fprintln(p.w, p.good.Render("✔ "+msg))
}

func (p *printer) failed(msg string) {
	fmt.Fprintln(p.w, p.severity[conventional.Error].Render("✘ "+msg))
}
