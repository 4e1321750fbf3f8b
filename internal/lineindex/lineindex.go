// Package lineindex converts byte offsets into 1-based (line, column) pairs.
// It is built once per file and handed to the visitor and the clone
// tokenizer so every diagnostic carries a precise source position.
package lineindex

import "sort"

// Index maps byte offsets in a source buffer to line/column pairs.
type Index struct {
	// newlineOffsets[i] is the byte offset of the i-th '\n' in the source.
	newlineOffsets []int
}

// Build scans src for newlines and returns an Index over it.
func Build(src []byte) *Index {
	idx := &Index{}
	for i, b := range src {
		if b == '\n' {
			idx.newlineOffsets = append(idx.newlineOffsets, i)
		}
	}
	return idx
}

// Line returns the 1-based line number containing offset off.
func (idx *Index) Line(off int) int {
	// The index of the first newline offset at or after off is the number
	// of newlines strictly before off, which is exactly (line-1); a newline
	// byte belongs to the line it ends.
	n := sort.Search(len(idx.newlineOffsets), func(i int) bool {
		return idx.newlineOffsets[i] >= off
	})
	return n + 1
}

// LineCol returns the 1-based (line, column) pair for offset off.
func (idx *Index) LineCol(off int) (line, col int) {
	line = idx.Line(off)
	lineStart := 0
	if line > 1 {
		lineStart = idx.newlineOffsets[line-2] + 1
	}
	return line, off - lineStart + 1
}

// LineCount returns the total number of lines in the indexed source
// (1 if the source has no trailing newline but is non-empty).
func (idx *Index) LineCount() int {
	return len(idx.newlineOffsets) + 1
}
