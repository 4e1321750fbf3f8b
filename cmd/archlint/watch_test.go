package main

import "testing"

func TestIsSourceFile(t *testing.T) {
	cases := map[string]bool{
		"a.ts":          true,
		"a.tsx":         true,
		"a.js":          true,
		"a.jsx":         true,
		"a.mjs":         true,
		"a.cjs":         true,
		"a.mts":         true,
		"a.cts":         true,
		"README.md":     false,
		"package.json":  false,
		"noext":         false,
	}
	for path, want := range cases {
		if got := isSourceFile(path); got != want {
			t.Errorf("isSourceFile(%q) = %v, want %v", path, got, want)
		}
	}
}
