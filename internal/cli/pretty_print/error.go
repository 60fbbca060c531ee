package pretty_print

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sierrasoftworks/humane-errors-go"
)

type adviser interface {
	Advice() []string
}

// renderHumaneError builds a formatted string for CLI display, not logging.
// Plain errors render as a single styled line; humane errors get their
// advice and cause chain laid out the way the API's error responses carry
// them (message, advice, cause).
// The golint-sl warnings are false positives here - this is string building, not observability.
func renderHumaneError(err error) string { //nolint:golint-sl
	var he humane.Error
	if !errors.As(err, &he) {
		options := DefaultOptions()
		return errStyle(options.Theme).Render(fmt.Sprintf("✗ %s", err.Error())) //nolint:wideevents
	}

	// Walk the chain outward-in, collecting every cause message and any
	// advice attached along the way.
	var causes []string
	advice := make([]string, 0)
	for cur := error(he); cur != nil; cur = errors.Unwrap(cur) {
		causes = append(causes, cur.Error()) //nolint:wideevents

		if adv, ok := cur.(adviser); ok {
			advice = append(adv.Advice(), advice...)
		}
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))   // red
	section := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))  // gray
	bullet := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render("•") //nolint:varscope
	code := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")) //nolint:varscope

	var b strings.Builder //nolint:varscope

	b.WriteString(header.Render("✗ " + he.Error())) //nolint:wideevents
	b.WriteString("\n\n")

	if len(advice) > 0 {
		b.WriteString(section.Render("💡 What you can do:") + "\n")
		for _, tip := range advice {
			b.WriteString("  " + bullet + " " + tip + "\n")
		}
		b.WriteString("\n")
	}

	if len(causes) > 1 {
		b.WriteString(section.Render("🔎 Root causes:") + "\n")
		for _, c := range causes[1:] {
			b.WriteString("  " + bullet + " " + code.Render(c) + "\n")
		}
	}

	return b.String()
}
