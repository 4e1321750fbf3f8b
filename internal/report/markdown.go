package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/snapshot"
)

// Markdown renders snap as a human-readable report: a summary table,
// then one section per smell grouped by severity (critical first),
// each with its explanation. Grounded on the original report/markdown.rs's
// summary-then-grouped-findings structure.
func Markdown(snap snapshot.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Architecture report\n\n")
	fmt.Fprintf(&b, "**Grade:** %s (%.1f/100)\n\n", snap.Grade, snap.Score)
	fmt.Fprintf(&b, "| Metric | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Files analyzed | %d |\n", snap.Summary.FilesAnalyzed)
	fmt.Fprintf(&b, "| Total smells | %d |\n", snap.Summary.TotalSmells)
	fmt.Fprintf(&b, "| Cyclic dependencies | %d |\n", snap.Summary.Cycles)
	fmt.Fprintf(&b, "| God modules | %d |\n", snap.Summary.GodModules)
	fmt.Fprintf(&b, "| Dead code | %d |\n", snap.Summary.DeadCode)
	fmt.Fprintf(&b, "| Dead symbols | %d |\n", snap.Summary.DeadSymbols)
	fmt.Fprintf(&b, "| Layer violations | %d |\n", snap.Summary.LayerViolations)
	fmt.Fprintf(&b, "| High complexity | %d |\n", snap.Summary.HighComplexity)
	fmt.Fprintf(&b, "| Hub modules | %d |\n\n", snap.Summary.HubModules)

	if len(snap.Smells) == 0 {
		b.WriteString("No smells detected.\n")
		return b.String()
	}

	smells := append([]snapshot.Smell(nil), snap.Smells...)
	sort.SliceStable(smells, func(i, j int) bool { return smells[i].Severity > smells[j].Severity })

	b.WriteString("## Findings\n\n")
	for _, s := range smells {
		exp := explanationFor(s)
		fmt.Fprintf(&b, "### [%s] %s\n\n", severityLabel(s.Severity), exp.Problem)
		if len(s.Files) > 0 {
			fmt.Fprintf(&b, "**Location:** `%s`\n\n", locationOrFile(s))
		}
		fmt.Fprintf(&b, "%s\n\n", exp.Reason)
		if len(exp.Risks) > 0 {
			b.WriteString("**Risks:**\n")
			for _, r := range exp.Risks {
				fmt.Fprintf(&b, "- %s\n", r)
			}
			b.WriteString("\n")
		}
		if len(exp.Recommendations) > 0 {
			b.WriteString("**Recommendations:**\n")
			for _, r := range exp.Recommendations {
				fmt.Fprintf(&b, "- %s\n", r)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func severityLabel(s archmodel.Severity) string {
	return strings.ToUpper(s.String())
}

func locationOrFile(s snapshot.Smell) string {
	if len(s.Locations) > 0 {
		return formatLocation(s.Locations[0])
	}
	if len(s.Files) > 0 {
		return s.Files[0]
	}
	return "-"
}
