package pretty_print

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quansight/conda-store-operator/pkg/outputs"
)

// PrintOutputs renders the share outputs in a bordered box: the NFS
// endpoint, the cluster IP, and one line per service token.
func PrintOutputs(out *outputs.Outputs) {
	options := DefaultOptions()

	services := make([]string, 0, len(out.ServiceTokens))
	for svc := range out.ServiceTokens {
		services = append(services, svc)
	}
	sort.Strings(services)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n",
		boldStyle(options.Theme).Render("Endpoint:   "),
		normalStyle(options.Theme).Render(out.Endpoint),
	))
	b.WriteString(fmt.Sprintf("%s %s",
		boldStyle(options.Theme).Render("Endpoint IP:"),
		normalStyle(options.Theme).Render(out.EndpointIP),
	))

	for _, svc := range services {
		b.WriteString(fmt.Sprintf("\n%s %s",
			boldStyle(options.Theme).Render(fmt.Sprintf("%-12s", svc+":")),
			secondaryStyle(options.Theme).Render(out.ServiceTokens[svc]),
		))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(okColor(options.Theme)).
		Padding(0, 1).
		MarginTop(0).
		MarginBottom(0).
		MarginLeft(2)

	_, _ = fmt.Fprintln(os.Stdout, boxStyle.Render(b.String()))
}
