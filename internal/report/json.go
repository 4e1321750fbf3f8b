package report

import (
	"encoding/json"

	"github.com/archlinter/archlint/internal/snapshot"
)

// JSON renders snap as indented JSON, the machine-readable default format
// every other renderer is a view onto.
func JSON(snap snapshot.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}
