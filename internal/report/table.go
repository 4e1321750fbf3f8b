package report

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/archlinter/archlint/internal/snapshot"
)

// Table renders snap as a terminal table, the format a developer reads
// straight off a local `archlint scan` invocation. Grounded on the
// original report/mod.rs's comfy_table rendering, reimplemented here with
// go-pretty since no pack repo wraps comfy_table's Go equivalent directly.
func Table(snap snapshot.Snapshot) string {
	var b strings.Builder

	summary := table.NewWriter()
	summary.SetOutputMirror(&b)
	summary.AppendHeader(table.Row{"Metric", "Count"})
	summary.AppendRows([]table.Row{
		{"Files analyzed", snap.Summary.FilesAnalyzed},
		{"Total smells", snap.Summary.TotalSmells},
		{"Cyclic dependencies", snap.Summary.Cycles},
		{"God modules", snap.Summary.GodModules},
		{"Dead code", snap.Summary.DeadCode},
		{"Dead symbols", snap.Summary.DeadSymbols},
		{"Layer violations", snap.Summary.LayerViolations},
		{"High complexity", snap.Summary.HighComplexity},
		{"Hub modules", snap.Summary.HubModules},
	})
	summary.Render()
	b.WriteString("\n")

	if len(snap.Smells) == 0 {
		b.WriteString("No smells detected.\n")
		return b.String()
	}

	smells := append([]snapshot.Smell(nil), snap.Smells...)
	sort.SliceStable(smells, func(i, j int) bool { return smells[i].Severity > smells[j].Severity })

	findings := table.NewWriter()
	findings.SetOutputMirror(&b)
	findings.AppendHeader(table.Row{"Severity", "Type", "Location", "Symbol"})
	for _, s := range smells {
		findings.AppendRow(table.Row{
			severityLabel(s.Severity),
			string(s.Type),
			locationOrFile(s),
			s.SymbolName,
		})
	}
	findings.Render()

	return b.String()
}
