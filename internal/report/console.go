package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/macrolens/shelflife/internal/domain"
)

const (
	reportWidth = 80
	reportTitle = "USDA FoodKeeper Shelf-Life Mapping Test Report"

	successIcon = "✓"
	failureIcon = "✗"
)

// Hypothesis states what a run is testing for the given threshold
func Hypothesis(threshold float64) string {
	return fmt.Sprintf("FoodKeeper provides mapping for at least %s of tested items", percent(threshold*100, 0))
}

// Printer writes the human-readable report. Colors are only emitted when the
// destination is a terminal.
type Printer struct {
	out io.Writer

	titleStyle   lipgloss.Style
	sectionStyle lipgloss.Style
	passStyle    lipgloss.Style
	failStyle    lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:          out,
		titleStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		sectionStyle: r.NewStyle().Bold(true),
		passStyle:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		failStyle:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		mutedStyle:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Linef prints an unstyled line
func (p *Printer) Linef(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(p.out, "%s\n", fmt.Sprintf(format, args...))
	return err
}

// Success prints a "✓ msg" status line
func (p *Printer) Success(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(p.out, "%s %s\n", p.passStyle.Render(successIcon), fmt.Sprintf(format, args...))
	return err
}

// Failure prints a "✗ msg" status line
func (p *Printer) Failure(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(p.out, "%s %s\n", p.failStyle.Render(failureIcon), fmt.Sprintf(format, args...))
	return err
}

// Detail prints an indented secondary line under a status line
func (p *Printer) Detail(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(p.out, "  %s\n", p.mutedStyle.Render(fmt.Sprintf(format, args...)))
	return err
}

// Banner prints a full-width rule of '='
func (p *Printer) Banner() error {
	_, err := fmt.Fprintln(p.out, strings.Repeat("=", reportWidth))
	return err
}

// PrintReport renders summary as run at the given time
func (p *Printer) PrintReport(summary domain.RunSummary, at time.Time) error {
	var b strings.Builder
	heavy := strings.Repeat("=", reportWidth)
	light := strings.Repeat("-", reportWidth)

	section := func(title string) {
		b.WriteString("\n" + light + "\n")
		b.WriteString(p.sectionStyle.Render(title) + "\n")
		b.WriteString(light + "\n")
	}

	b.WriteString(heavy + "\n")
	b.WriteString(p.titleStyle.Render(reportTitle) + "\n")
	b.WriteString(heavy + "\n")
	fmt.Fprintf(&b, "\nTest Date: %s\n", at.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "\nHypothesis: %s\n", Hypothesis(summary.Threshold))

	section("SUMMARY STATISTICS")
	fmt.Fprintf(&b, "Total Items Tested: %d\n", summary.Total)
	fmt.Fprintf(&b, "Successfully Matched: %d\n", summary.Matched)
	fmt.Fprintf(&b, "Unmatched: %d\n", summary.Unmatched)
	fmt.Fprintf(&b, "Match Rate: %s\n", percent(summary.RatePercent(), 1))

	verdict := p.passStyle.Render(successIcon + " PASS")
	if !summary.PassesThreshold {
		verdict = p.failStyle.Render(failureIcon + " FAIL")
	}
	fmt.Fprintf(&b, "\nResult: %s\n", verdict)
	fmt.Fprintf(&b, "Threshold: %s | Achieved: %s\n",
		percent(summary.Threshold*100, 0), percent(summary.RatePercent(), 1))

	b.WriteString("\nMatch Type Breakdown:\n")
	for _, mt := range domain.MatchTypes {
		if n := summary.MatchTypes[mt]; n > 0 {
			fmt.Fprintf(&b, "  - %s: %d\n", mt, n)
		}
	}

	section("SUCCESSFUL MATCHES")
	for _, o := range summary.Outcomes {
		if !o.Matched {
			continue
		}
		fmt.Fprintf(&b, "\n%s %s\n", p.passStyle.Render(successIcon), o.TestItem)
		fmt.Fprintf(&b, "  Matched: %s (ID: %s)\n", o.FoodKeeperName, o.FoodKeeperID)
		fmt.Fprintf(&b, "  Match Type: %s\n", o.MatchType)
		fmt.Fprintf(&b, "  Matched Term: %s\n", o.MatchedTerm)
		if life := o.ShelfLife; life != nil {
			writeField(&b, "Refrigerate", life.Refrigerate)
			writeField(&b, "Freeze", life.Freeze)
			writeField(&b, "Pantry", life.Pantry)
		}
	}

	if summary.Unmatched > 0 {
		section("UNMATCHED ITEMS")
		for _, o := range summary.Outcomes {
			if !o.Matched {
				fmt.Fprintf(&b, "%s %s\n", p.failStyle.Render(failureIcon), o.TestItem)
			}
		}
	}

	b.WriteString("\n" + heavy + "\n")

	_, err := io.WriteString(p.out, b.String())
	return err
}

func writeField(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "  %s: %s\n", label, value)
	}
}

// percent formats v with the given number of decimals and a trailing '%'
func percent(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v)
}
