// Package detectors exists purely so a binary can import one path and
// pull in every detector's init()-time registration with detect.Register,
// instead of every command that needs the full registry (the CLI, the
// MCP server) having to blank-import each detector package individually.
package detectors

import (
	_ "github.com/archlinter/archlint/internal/detectors/clone"
	_ "github.com/archlinter/archlint/internal/detectors/complexitysmell"
	_ "github.com/archlinter/archlint/internal/detectors/cycles"
	_ "github.com/archlinter/archlint/internal/detectors/deadcode"
	_ "github.com/archlinter/archlint/internal/detectors/godmodule"
	_ "github.com/archlinter/archlint/internal/detectors/hub"
	_ "github.com/archlinter/archlint/internal/detectors/layering"
	_ "github.com/archlinter/archlint/internal/detectors/longparams"
	_ "github.com/archlinter/archlint/internal/detectors/orphan"
	_ "github.com/archlinter/archlint/internal/detectors/primitiveobsession"
	_ "github.com/archlinter/archlint/internal/detectors/shotgun"
)
