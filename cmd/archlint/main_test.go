package main

import (
	"strings"
	"testing"
)

func TestPresetNames_ListsEveryKnownPreset(t *testing.T) {
	names := presetNames()
	for _, want := range []string{"nestjs", "nextjs", "react", "oclif"} {
		if !strings.Contains(names, want) {
			t.Errorf("presetNames() = %q, missing %q", names, want)
		}
	}
}
