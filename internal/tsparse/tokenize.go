package tsparse

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/lineindex"
)

// TokenMode selects how identifiers and literals are normalized, per
// the clone detector.
type TokenMode int

const (
	// ModeType2 replaces identifiers with $ID and string/number literals
	// with $STR/$NUM, so renamed-but-structurally-identical code aligns.
	ModeType2 TokenMode = iota
	// ModeExact keeps identifiers and literals as their literal source
	// text, so only byte-for-byte-identical structures align.
	ModeExact
)

// structuralMarkers injects a fixed placeholder token at the node kinds
// that most need one to prevent misaligned clusters across dissimilar
// constructs.
var structuralMarkers = map[string]string{
	"call_expression":        "$CALL",
	"new_expression":          "$NEW",
	"if_statement":            "$IF",
	"for_statement":            "$FOR",
	"for_in_statement":         "$FOR",
	"while_statement":          "$WHILE",
	"function_declaration":    "$FUNC",
	"function_expression":     "$FUNC",
	"arrow_function":          "$FUNC",
	"method_definition":       "$METHOD",
	"return_statement":        "$RETURN",
	"member_expression":       "$MEMBER",
	"subscript_expression":    "$MEMBER",
	"this":                    "this",
	"super":                   "super",
}

var binaryOperatorMarker = map[string]string{
	"&&": "$AND", "||": "$OR", "??": "$COALESCE",
	"==": "$EQ", "===": "$EQ", "!=": "$NEQ", "!==": "$NEQ",
	"<": "$LT", ">": "$GT", "<=": "$LE", ">=": "$GE",
	"+": "$ADD", "-": "$SUB", "*": "$MUL", "/": "$DIV", "%": "$MOD",
}

// Tokenize walks root and emits the normalized token stream used by the
// code-clone detector. Import declarations and `export *`/`export
// default` headers are skipped to avoid false positives from
// identical import lists.
func Tokenize(root *tree_sitter.Node, content []byte, idx *lineindex.Index, mode TokenMode) []archmodel.Token {
	t := &tokenizer{content: content, idx: idx, mode: mode}
	t.walk(root)
	return t.tokens
}

type tokenizer struct {
	content []byte
	idx     *lineindex.Index
	mode    TokenMode
	tokens  []archmodel.Token
	seq     int
}

func (t *tokenizer) emit(n *tree_sitter.Node, normalized string) {
	sl, sc := t.idx.LineCol(int(n.StartByte()))
	el, ec := t.idx.LineCol(int(n.EndByte()))
	t.tokens = append(t.tokens, archmodel.Token{
		Normalized: normalized, Line: sl, Col: sc, EndLine: el, EndCol: ec, Seq: t.seq,
	})
	t.seq++
}

func (t *tokenizer) text(n *tree_sitter.Node) string {
	return string(t.content[n.StartByte():n.EndByte()])
}

func (t *tokenizer) walk(n *tree_sitter.Node) {
	if n == nil {
		return
	}

	switch n.Kind() {
	case "import_statement", "export_statement":
		if n.Kind() == "export_statement" {
			if decl := n.ChildByFieldName("declaration"); decl != nil {
				t.walk(decl)
			}
		}
		return

	case "identifier", "property_identifier", "type_identifier", "shorthand_property_identifier":
		if t.mode == ModeExact {
			t.emit(n, t.text(n))
		} else {
			t.emit(n, "$ID")
		}
		return

	case "string", "template_string":
		if t.mode == ModeExact {
			t.emit(n, t.text(n))
		} else {
			t.emit(n, "$STR")
		}
		return

	case "number":
		if t.mode == ModeExact {
			t.emit(n, t.text(n))
		} else {
			t.emit(n, "$NUM")
		}
		return

	case "binary_expression":
		if n.ChildCount() >= 3 {
			if op := n.Child(1); op != nil {
				if marker, ok := binaryOperatorMarker[op.Kind()]; ok {
					t.emit(n, marker)
				}
			}
		}
	}

	if marker, ok := structuralMarkers[n.Kind()]; ok {
		t.emit(n, marker)
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		t.walk(n.Child(uint(i)))
	}
}
