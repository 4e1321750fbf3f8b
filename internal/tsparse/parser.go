// Package tsparse is the default implementation of the parsing-service
// contract it implements. It wraps tree-sitter's TypeScript,
// TSX, and JavaScript grammars behind the same lazy, mutex-guarded
// per-extension parser map the teacher's internal/parser package uses for
// its larger multi-language grammar set.
package tsparse

import (
	"fmt"
	"path/filepath"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/lineindex"
)

// Grammar names the tree-sitter grammar a file extension maps to.
type Grammar int

const (
	GrammarJavaScript Grammar = iota
	GrammarTypeScript
	GrammarTSX
)

func grammarFor(path string) (Grammar, bool) {
	switch filepath.Ext(path) {
	case ".ts", ".mts", ".cts":
		return GrammarTypeScript, true
	case ".tsx":
		return GrammarTSX, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return GrammarJavaScript, true
	default:
		return 0, false
	}
}

// Config mirrors the parser's configurable knobs.
type Config struct {
	CollectComplexity      bool
	CollectPrimitiveParams bool
	CollectClasses         bool
	CollectEnvVars         bool
	CollectUsedSymbols     bool
}

// DefaultConfig enables every collection pass.
func DefaultConfig() Config {
	return Config{
		CollectComplexity:      true,
		CollectPrimitiveParams: true,
		CollectClasses:         true,
		CollectEnvVars:         true,
		CollectUsedSymbols:     true,
	}
}

// Result is what Parse returns: the parsing-service contract's
// { FileSymbols, []FunctionComplexity, lines, ignoredLines }.
type Result struct {
	Symbols      *archmodel.FileSymbols
	Complexity   []archmodel.FunctionComplexity
	Tokens       []archmodel.Token
	Lines        int
	IgnoredLines int
}

// Parser parses TypeScript/JavaScript source into FileSymbols and
// per-function complexity. One Parser is safe for concurrent use; each
// Parse call borrows a per-grammar *tree_sitter.Parser under a lock, since
// go-tree-sitter's Parser is not itself safe for concurrent Parse calls.
type Parser struct {
	mu      sync.Mutex
	once    sync.Once
	parsers map[Grammar]*tree_sitter.Parser
	langs   map[Grammar]*tree_sitter.Language
}

// New returns a Parser. Grammars are initialized lazily on first use.
func New() *Parser {
	return &Parser{}
}

func (p *Parser) ensureInit() {
	p.once.Do(func() {
		p.parsers = make(map[Grammar]*tree_sitter.Parser)
		p.langs = make(map[Grammar]*tree_sitter.Language)

		jsLang := tree_sitter.NewLanguage(tree_sitter_javascript.Language())
		p.langs[GrammarJavaScript] = jsLang

		tsLang := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		p.langs[GrammarTypeScript] = tsLang

		tsxLang := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		p.langs[GrammarTSX] = tsxLang

		for g, lang := range p.langs {
			parser := tree_sitter.NewParser()
			if err := parser.SetLanguage(lang); err == nil {
				p.parsers[g] = parser
			}
		}
	})
}

// Close releases the underlying tree-sitter parsers.
func (p *Parser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, parser := range p.parsers {
		parser.Close()
	}
}

// Parse implements the parsing-service contract for one file. path is used
// only to select the grammar by extension; it is not read from disk here.
func (p *Parser) Parse(path string, content []byte, cfg Config) (*Result, error) {
	p.ensureInit()

	grammar, ok := grammarFor(path)
	if !ok {
		return nil, fmt.Errorf("tsparse: unsupported extension for %s", path)
	}

	p.mu.Lock()
	parser, ok := p.parsers[grammar]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("tsparse: grammar %d not initialized", grammar)
	}

	p.mu.Lock()
	tree := parser.Parse(content, nil)
	p.mu.Unlock()
	if tree == nil {
		return nil, fmt.Errorf("tsparse: parse failed for %s", path)
	}
	defer tree.Close()

	idx := lineindex.Build(content)
	v := newVisitor(content, idx, grammar == GrammarTypeScript || grammar == GrammarTSX, cfg)
	v.walkProgram(tree.RootNode())

	var fns []archmodel.FunctionComplexity
	if cfg.CollectComplexity {
		fns = v.functions
	}

	tokens := Tokenize(tree.RootNode(), content, idx, ModeType2)

	return &Result{
		Symbols:      v.symbols,
		Complexity:   fns,
		Tokens:       tokens,
		Lines:        idx.LineCount(),
		IgnoredLines: 0,
	}, nil
}

// Hash fingerprints content for the cache-service contract, using the
// same non-cryptographic hash the teacher uses for its content cache keys.
func Hash(content []byte) uint64 {
	return xxhashSum(content)
}
