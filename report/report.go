package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ernesto27/typeadd/resolve"
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("red"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
)

// Render formats outcomes as a grouped status report, one line per
// package in the form "<tag>: <package> <message>", groups printed in
// order error, warn, ok.
func Render(outcomes []resolve.Outcome) string {
	var errors, warns, oks []string

	for _, o := range outcomes {
		switch o.Status {
		case resolve.StatusError:
			errors = append(errors, errorStyle.Render("error:")+" "+o.Package+" "+o.Message)
		case resolve.StatusWarn:
			warns = append(warns, warnStyle.Render("warn:")+" "+o.Package+" "+o.Message)
		case resolve.StatusOK:
			oks = append(oks, okStyle.Render("ok:")+" "+o.Package+" "+o.Message)
		}
	}

	var lines []string
	lines = append(lines, errors...)
	lines = append(lines, warns...)
	lines = append(lines, oks...)

	return strings.Join(lines, "\n")
}

// Error styles a standalone error message, used for subprocess failures.
func Error(msg string) string {
	return errorStyle.Render(msg)
}

// Targets holds the install sets derived from the outcomes.
type Targets struct {
	// Regular is the non-dev packages to install, version specs attached.
	Regular []string

	// Dev is the declaration companions followed by the dev-marked
	// packages, in encounter order.
	Dev []string
}

func (t Targets) Empty() bool {
	return len(t.Regular) == 0 && len(t.Dev) == 0
}

// ComputeTargets partitions the installable outcomes into the regular and
// dev sets. Errored packages are excluded entirely; declaration companions
// always go to the dev set.
func ComputeTargets(outcomes []resolve.Outcome) Targets {
	var declarations, dev, regular []string

	for _, o := range outcomes {
		if o.DeclarationPackage != "" {
			declarations = append(declarations, o.DeclarationPackage)
		}
	}

	for _, o := range outcomes {
		if o.Status == resolve.StatusError {
			continue
		}

		target := o.Package
		if o.Version != "" {
			target += "@" + o.Version
		}

		if o.Dev {
			dev = append(dev, target)
		} else {
			regular = append(regular, target)
		}
	}

	return Targets{
		Regular: regular,
		Dev:     append(declarations, dev...),
	}
}
