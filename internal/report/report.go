// Package report renders a scan's smells into the output formats the CLI
// and CI integrations consume: JSON, Markdown, SARIF, and a terminal
// table. Grounded on the original report/mod.rs, report/markdown.rs, and
// report/sarif.rs.
package report

import (
	"fmt"

	"github.com/archlinter/archlint/internal/diff"
	"github.com/archlinter/archlint/internal/snapshot"
)

// Format names the supported rendering formats, mirroring the CLI's
// `--format` flag values.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatSARIF    Format = "sarif"
	FormatTable    Format = "table"
)

// formatLocation renders a file:line[:col] reference the way a terminal
// or editor can jump to, matching the original's format_location_parts.
func formatLocation(l snapshot.Location) string {
	if l.Line == 0 {
		return l.File
	}
	loc := fmt.Sprintf("%s:%d", l.File, l.Line)
	if l.Column != nil {
		loc = fmt.Sprintf("%s:%d", loc, *l.Column)
	}
	if l.Description != "" {
		loc = fmt.Sprintf("%s (%s)", loc, l.Description)
	}
	return loc
}

// explanationFor renders diff.Explain for a snapshot smell, giving every
// renderer access to the same problem/reason/risks/recommendations
// write-up without each one depending on internal/diff directly for
// anything but this lookup.
func explanationFor(s snapshot.Smell) diff.Explanation {
	return diff.Explain(s)
}
