// Package style formats the driver's end-of-run summary line the way
// a small CLI from the charmbracelet stack would, without pulling in a
// full TUI (the pipeline itself stays single-shot and non-interactive,
// per §5).
package style

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Summary renders the driver's final one-line report.
func Summary(processed, generated, errored, pruned int) string {
	status := okStyle.Render("done")
	if errored > 0 {
		status = warnStyle.Render("done with errors")
	}

	return fmt.Sprintf(
		"%s %s",
		status,
		dimStyle.Render(fmt.Sprintf(
			"processed=%d generated=%d errors=%d pruned=%d",
			processed, generated, errored, pruned,
		)),
	)
}
