// internal/tui/report.go
//
// Progress lines for an assembly run and the `examforge list` catalog.

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/examforge/internal/library"
	"github.com/kingrea/examforge/internal/selector"
)

const (
	colorOK    = "#6BCB77"
	colorError = "#FF6B6B"
	colorWarn  = "#FFD479"
	colorTitle = "#5B8DEF"
	colorHint  = "#AAAAAA"
	colorDim   = "#888888"
)

// Reporter implements assembly.Reporter by printing styled lines to w.
type Reporter struct {
	w io.Writer

	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	dim   lipgloss.Style
}

// NewReporter styles output for whatever w is; plain text when w is not a
// terminal.
func NewReporter(w io.Writer) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:     w,
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color(colorTitle)),
		ok:    r.NewStyle().Foreground(lipgloss.Color(colorOK)),
		warn:  r.NewStyle().Foreground(lipgloss.Color(colorWarn)),
		err:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(colorError)),
		dim:   r.NewStyle().Foreground(lipgloss.Color(colorDim)),
	}
}

func (r *Reporter) Creating(exam string) {
	fmt.Fprintln(r.w, r.title.Render(fmt.Sprintf("Creating %s ...", exam)))
}

func (r *Reporter) LevelDone(ordinal int, exercise string) {
	fmt.Fprintf(r.w, "  Level %d: %s\n", ordinal, r.ok.Render("✓ "+exercise))
}

func (r *Reporter) LevelSkipped(level library.Level) {
	fmt.Fprintln(r.w, r.warn.Render(fmt.Sprintf("⚠ No exercises found in %s", level.Path)))
}

func (r *Reporter) Cancelled(string) {
	fmt.Fprintln(r.w, r.dim.Render("Operation cancelled."))
}

func (r *Reporter) Finished(exam string, plan *selector.Plan) {
	fmt.Fprintln(r.w, r.ok.Bold(true).Render("Exam structure created successfully!"))
	ordinals := plan.Ordinals()
	if len(ordinals) == 0 {
		fmt.Fprintln(r.w, r.dim.Render(fmt.Sprintf("%s has no exercises; nothing was scaffolded.", exam)))
		return
	}
	picks := make([]string, 0, len(ordinals))
	for _, ordinal := range ordinals {
		ex, _ := plan.Get(ordinal)
		picks = append(picks, fmt.Sprintf("%d/%s", ordinal, ex.Name))
	}
	fmt.Fprintln(r.w, r.dim.Render(fmt.Sprintf("%s: %s", exam, strings.Join(picks, " · "))))
}

// Error prints a fatal error line.
func (r *Reporter) Error(err error) {
	fmt.Fprintln(r.w, r.err.Render("Error: "+err.Error()))
}

// RenderCatalog lists every exam with its levels and exercises.
func RenderCatalog(root string, cat library.Catalog) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorTitle)).
		Render("Exam library")
	path := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim)).Render(root)
	examStyle := lipgloss.NewStyle().Bold(true)
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorHint))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarn))

	lines := []string{title, path, ""}
	for _, exam := range cat.Exams {
		levels := cat.Levels[exam]
		lines = append(lines, fmt.Sprintf("%s %s",
			examStyle.Render(exam),
			countStyle.Render(fmt.Sprintf("(%d levels, %d exercises)", len(levels), cat.ExerciseCount(exam)))))
		for _, entry := range levels {
			if len(entry.Exercises) == 0 {
				lines = append(lines, fmt.Sprintf("  %d [%s] %s", entry.Level.Ordinal, entry.Level.Name, emptyStyle.Render("empty")))
				continue
			}
			names := make([]string, 0, len(entry.Exercises))
			for _, ex := range entry.Exercises {
				names = append(names, ex.Name)
			}
			lines = append(lines, fmt.Sprintf("  %d [%s] %s", entry.Level.Ordinal, entry.Level.Name, strings.Join(names, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

// DescribeExam summarizes an exam for the picker.
func DescribeExam(cat library.Catalog, exam string) string {
	return fmt.Sprintf("%d levels · %d exercises", len(cat.Levels[exam]), cat.ExerciseCount(exam))
}

// RenderLog shows the newest logbook entries. total is the number of
// entries in the whole file.
func RenderLog(path string, lines []string, total int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorTitle)).
		Render("Assembly log")
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
	if total == 0 {
		return strings.Join([]string{title, dim.Render(path), "", dim.Render("No runs recorded yet.")}, "\n")
	}
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarn))
	bad := lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	out := []string{title, dim.Render(fmt.Sprintf("%s (last %d of %d entries)", path, len(lines), total)), ""}
	for _, line := range lines {
		switch {
		case strings.Contains(line, " ERROR "):
			out = append(out, bad.Render(line))
		case strings.Contains(line, " WARN "):
			out = append(out, warn.Render(line))
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
