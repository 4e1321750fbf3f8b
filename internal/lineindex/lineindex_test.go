package lineindex

import "testing"

func TestIndex_LineCol(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	idx := Build(src)

	cases := []struct {
		off        int
		line, col  int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
		{10, 3, 3},
	}

	for _, c := range cases {
		line, col := idx.LineCol(c.off)
		if line != c.line || col != c.col {
			t.Errorf("LineCol(%d) = (%d,%d), want (%d,%d)", c.off, line, col, c.line, c.col)
		}
	}
}

func TestIndex_LineCount(t *testing.T) {
	idx := Build([]byte("one\ntwo\nthree"))
	if got := idx.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
}

func TestIndex_Empty(t *testing.T) {
	idx := Build(nil)
	if got := idx.LineCount(); got != 1 {
		t.Errorf("LineCount() on empty source = %d, want 1", got)
	}
	line, col := idx.LineCol(0)
	if line != 1 || col != 1 {
		t.Errorf("LineCol(0) on empty source = (%d,%d), want (1,1)", line, col)
	}
}
