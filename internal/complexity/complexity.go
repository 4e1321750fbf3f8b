// Package complexity computes cyclomatic and cognitive complexity, and
// maximum nesting depth, for a single function body. It walks the concrete
// syntax tree produced by tree-sitter directly (see internal/tsparse),
// rather than redefining its own AST, since the grammar's node-kind
// vocabulary is already the shape every other visitor in this module uses.
package complexity

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Result is the per-function outcome of Calculate.
type Result struct {
	Cyclomatic int
	Cognitive  int
	MaxDepth   int
}

// Calculate walks body (a function/method body node) and computes
// cyclomatic complexity (starting at 1), cognitive complexity, and the
// maximum nesting depth reached.
func Calculate(body *tree_sitter.Node) Result {
	c := &calculator{cyclomatic: 1}
	if body != nil {
		c.walk(body, 0)
	}
	return Result{Cyclomatic: c.cyclomatic, Cognitive: c.cognitive, MaxDepth: c.maxDepth}
}

type calculator struct {
	cyclomatic int
	cognitive  int
	depth      int
	maxDepth   int
	// lastLogicalOp tracks the most recently seen logical operator at the
	// current run of binary_expression nodes, so a sequence of the same
	// operator (a && b && c) counts once for cognitive complexity.
	lastLogicalOp string
}

func (c *calculator) enterNesting() {
	c.depth++
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
}

func (c *calculator) exitNesting() {
	c.depth--
}

// walk visits node and its children. nestingPenalty is the nesting depth at node's
// own level (used for the cognitive-complexity penalty), independent of
// c.depth which this function also maintains for MaxDepth tracking.
func (c *calculator) walk(node *tree_sitter.Node, nestingPenalty int) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "if_statement":
		c.cyclomatic++
		c.cognitive += 1 + nestingPenalty
		c.enterNesting()
		c.walkChildren(node, nestingPenalty+1)
		c.exitNesting()
		return

	case "while_statement", "do_statement":
		c.cyclomatic++
		c.cognitive += 1 + nestingPenalty
		c.enterNesting()
		c.walkChildren(node, nestingPenalty+1)
		c.exitNesting()
		return

	case "for_statement", "for_in_statement":
		// tree-sitter-javascript's for_in_statement covers both for-in and
		// for-of (an `operator` field distinguishes them); either way it is
		// one loop construct for complexity purposes.
		c.cyclomatic++
		c.cognitive += 1 + nestingPenalty
		c.enterNesting()
		c.walkChildren(node, nestingPenalty+1)
		c.exitNesting()
		return

	case "switch_case":
		// tree-sitter-javascript only emits switch_case for `case X:` arms;
		// `default:` is a distinct switch_default node with no test, so
		// every switch_case here has a test expression.
		c.cyclomatic++
		c.cognitive += 1 + nestingPenalty
		c.enterNesting()
		c.walkChildren(node, nestingPenalty+1)
		c.exitNesting()
		return

	case "catch_clause":
		c.cyclomatic++
		c.cognitive += 1 + nestingPenalty
		c.enterNesting()
		c.walkChildren(node, nestingPenalty+1)
		c.exitNesting()
		return

	case "ternary_expression":
		c.cyclomatic++
		c.cognitive += 1 + nestingPenalty

	case "binary_expression":
		if op := logicalOperator(node); op != "" {
			c.cyclomatic++
			if op != c.lastLogicalOp {
				c.cognitive += 1 + nestingPenalty
			}
			c.lastLogicalOp = op
			c.walkChildren(node, nestingPenalty)
			c.lastLogicalOp = ""
			return
		}
		c.lastLogicalOp = ""

	case "member_expression", "subscript_expression":
		if isOptionalChain(node) {
			c.cyclomatic++
		}

	case "call_expression":
		if isOptionalCall(node) {
			c.cyclomatic++
		}
	}

	c.walkChildren(node, nestingPenalty)
}

func (c *calculator) walkChildren(node *tree_sitter.Node, nestingPenalty int) {
	n := int(node.ChildCount())
	for i := 0; i < n; i++ {
		c.walk(node.Child(uint(i)), nestingPenalty)
	}
}

func logicalOperator(binExpr *tree_sitter.Node) string {
	if binExpr.ChildCount() < 3 {
		return ""
	}
	op := binExpr.Child(1)
	if op == nil {
		return ""
	}
	switch op.Kind() {
	case "&&", "||", "??":
		return op.Kind()
	default:
		return ""
	}
}

// isOptionalChain reports whether a member/subscript expression uses `?.`.
// tree-sitter-javascript exposes this as an anonymous "?." token child
// rather than a named field, so we scan direct children for it.
func isOptionalChain(node *tree_sitter.Node) bool {
	n := int(node.ChildCount())
	for i := 0; i < n; i++ {
		if child := node.Child(uint(i)); child != nil && child.Kind() == "?." {
			return true
		}
	}
	return false
}

func isOptionalCall(node *tree_sitter.Node) bool {
	return isOptionalChain(node)
}
