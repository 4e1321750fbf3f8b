package tsparse

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/complexity"
	"github.com/archlinter/archlint/internal/lineindex"
)

// visitor implements the symbol-extraction rules over a
// tree-sitter concrete syntax tree. It maintains an explicit stack of the
// export/class/method currently being visited so nested identifier
// references can be attributed back to the right used_symbols/used_fields/
// used_methods bucket, per a design note on visitor ownership of
// traversal state.
type visitor struct {
	content      []byte
	idx          *lineindex.Index
	isTypeScript bool
	cfg          Config

	symbols   *archmodel.FileSymbols
	functions []archmodel.FunctionComplexity

	exportStack []*archmodel.ExportedSymbol
	classStack  []*archmodel.ClassSymbol
	methodStack []*archmodel.MethodSymbol

	currentClassFields map[string]struct{}
}

func newVisitor(content []byte, idx *lineindex.Index, isTypeScript bool, cfg Config) *visitor {
	return &visitor{
		content:      content,
		idx:          idx,
		isTypeScript: isTypeScript,
		cfg:          cfg,
		symbols:      archmodel.NewFileSymbols(),
	}
}

func (v *visitor) text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(v.content[n.StartByte():n.EndByte()])
}

func (v *visitor) pos(n *tree_sitter.Node) (line, col int) {
	return v.idx.LineCol(int(n.StartByte()))
}

func (v *visitor) rangeOf(n *tree_sitter.Node) archmodel.Range {
	sl, sc := v.pos(n)
	el, ec := v.idx.LineCol(int(n.EndByte()))
	return archmodel.Range{StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}

func stringLiteralValue(n *tree_sitter.Node, content []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	raw := string(content[n.StartByte():n.EndByte()])
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1], true
	}
	return "", false
}

func childByKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(uint(i))
		if c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

func childrenByKind(n *tree_sitter.Node, kind string) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	if n == nil {
		return out
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(uint(i))
		if c != nil && c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// walkProgram is the entry point: walk every top-level statement.
func (v *visitor) walkProgram(root *tree_sitter.Node) {
	if root == nil {
		return
	}
	v.walkStatement(root)
}

// walkStatement dispatches on node kind. It covers every construct the
// spec's visitor rules name; unhandled kinds just recurse into children so
// nested declarations are still found.
func (v *visitor) walkStatement(n *tree_sitter.Node) {
	if n == nil {
		return
	}

	switch n.Kind() {
	case "import_statement":
		v.visitImportStatement(n)
		v.markRuntimeIfSideEffect(n)
		return

	case "export_statement":
		v.visitExportStatement(n)
		return

	case "class_declaration", "class":
		v.visitClassDeclaration(n, false)
		return

	case "function_declaration", "generator_function_declaration":
		v.visitFunctionDeclaration(n)
		return

	case "lexical_declaration", "variable_declaration":
		v.visitVariableDeclaration(n)
		return

	case "interface_declaration":
		v.visitTypeOnlyDeclaration(n, archmodel.ExportInterface)
		return

	case "type_alias_declaration":
		v.visitTypeOnlyDeclaration(n, archmodel.ExportType)
		return

	case "enum_declaration":
		v.symbols.HasRuntimeCode = true
		v.visitTypeOnlyDeclaration(n, archmodel.ExportEnum)
		return

	case "call_expression":
		v.visitCallExpression(n)
	case "member_expression":
		v.visitMemberExpression(n)
	case "identifier":
		v.recordUsage(v.text(n))
	}

	v.markRuntimeIfExecutable(n)
	v.walkChildren(n)
}

func (v *visitor) walkChildren(n *tree_sitter.Node) {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		v.walkStatement(n.Child(uint(i)))
	}
}

// markRuntimeIfExecutable sets HasRuntimeCode for any node kind that is a
// value expression or executable declaration, under the rule that
// type-only declarations (type alias, interface) do not, while everything
// else (including enum) does.
func (v *visitor) markRuntimeIfExecutable(n *tree_sitter.Node) {
	switch n.Kind() {
	case "expression_statement", "call_expression", "assignment_expression",
		"if_statement", "for_statement", "for_in_statement", "while_statement",
		"do_statement", "return_statement", "throw_statement", "new_expression",
		"function_declaration", "generator_function_declaration",
		"class_declaration", "variable_declarator":
		v.symbols.HasRuntimeCode = true
	}
}

func (v *visitor) markRuntimeIfSideEffect(n *tree_sitter.Node) {
	if childByKind(n, "import_clause") == nil && childByKind(n, "string") != nil {
		v.symbols.HasRuntimeCode = true
	}
}

// recordUsage attributes an identifier reference to whichever scope is
// currently open: a method's used_fields/used_methods (if name matches a
// declared class field), an export's used_symbols, or the file-wide
// local_usages fallback used by the dead-symbol name-based fallback.
func (v *visitor) recordUsage(name string) {
	if name == "" {
		return
	}
	v.symbols.LocalUsages[name] = struct{}{}

	if len(v.methodStack) > 0 {
		m := v.methodStack[len(v.methodStack)-1]
		if v.currentClassFields != nil {
			if _, ok := v.currentClassFields[name]; ok {
				m.UsedFields = append(m.UsedFields, name)
			} else {
				m.UsedMethods = append(m.UsedMethods, name)
			}
		} else {
			m.UsedMethods = append(m.UsedMethods, name)
		}
	}

	if len(v.exportStack) > 0 {
		e := v.exportStack[len(v.exportStack)-1]
		e.UsedSymbols = append(e.UsedSymbols, name)
	}
}

// --- imports -----------------------------------------------------------

func (v *visitor) visitImportStatement(n *tree_sitter.Node) {
	line, col := v.pos(n)
	rng := v.rangeOf(n)
	source := ""
	if s := n.ChildByFieldName("source"); s != nil {
		source, _ = stringLiteralValue(s, v.content)
	} else if s := childByKind(n, "string"); s != nil {
		source, _ = stringLiteralValue(s, v.content)
	}

	isTypeOnly := false
	if v.isTypeScript {
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			c := n.Child(uint(i))
			if c != nil && v.text(c) == "type" {
				isTypeOnly = true
				break
			}
		}
	}

	clause := childByKind(n, "import_clause")
	if clause == nil {
		// Bare side-effect import: import './x';
		v.symbols.Imports = append(v.symbols.Imports, archmodel.ImportedSymbol{
			Name: "*", Source: source, Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
		})
		return
	}

	emitted := false

	// Default import slot: the bare identifier child of import_clause.
	if def := childByKind(clause, "identifier"); def != nil {
		v.symbols.Imports = append(v.symbols.Imports, archmodel.ImportedSymbol{
			Name: "default", Alias: v.text(def), Source: source,
			Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
		})
		emitted = true
	}

	if named := childByKind(clause, "named_imports"); named != nil {
		for _, spec := range childrenByKind(named, "import_specifier") {
			nameNode := spec.ChildByFieldName("name")
			aliasNode := spec.ChildByFieldName("alias")
			name := v.text(nameNode)
			alias := name
			if aliasNode != nil {
				alias = v.text(aliasNode)
			}
			if name == "" {
				continue
			}
			v.symbols.Imports = append(v.symbols.Imports, archmodel.ImportedSymbol{
				Name: name, Alias: alias, Source: source,
				Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
			})
			emitted = true
		}
	}

	if ns := childByKind(clause, "namespace_import"); ns != nil {
		alias := ""
		for _, c := range childrenByKind(ns, "identifier") {
			alias = v.text(c)
		}
		v.symbols.Imports = append(v.symbols.Imports, archmodel.ImportedSymbol{
			Name: "*", Alias: alias, Source: source, Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
		})
		emitted = true
	}

	if !emitted {
		v.symbols.Imports = append(v.symbols.Imports, archmodel.ImportedSymbol{
			Name: "*", Source: source, Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
		})
	}
}

// visitCallExpression catches dynamic import() and require('...') calls
// (Dynamic imports and require(...) calls emit an import with
// name=\"*\", is_dynamic=true").
func (v *visitor) visitCallExpression(n *tree_sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}

	isImportCall := fn.Kind() == "import"
	isRequireCall := fn.Kind() == "identifier" && v.text(fn) == "require"
	if !isImportCall && !isRequireCall {
		return
	}

	args := n.ChildByFieldName("arguments")
	if args == nil {
		return
	}
	strArg := childByKind(args, "string")
	if strArg == nil {
		return
	}
	source, ok := stringLiteralValue(strArg, v.content)
	if !ok {
		return
	}

	line, col := v.pos(n)
	v.symbols.Imports = append(v.symbols.Imports, archmodel.ImportedSymbol{
		Name: "*", Source: source, Line: line, Col: col, Range: v.rangeOf(n), IsDynamic: true,
	})
	v.symbols.HasRuntimeCode = true
}

// --- exports -------------------------------------------------------------

func (v *visitor) visitExportStatement(n *tree_sitter.Node) {
	line, col := v.pos(n)
	rng := v.rangeOf(n)

	isTypeOnly := false
	isDefault := false
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(uint(i))
		if c == nil {
			continue
		}
		if v.text(c) == "type" {
			isTypeOnly = true
		}
		if c.Kind() == "default" || v.text(c) == "default" {
			isDefault = true
		}
	}

	if isDefault {
		v.symbols.HasRuntimeCode = true
		exp := &archmodel.ExportedSymbol{
			Name: "default", Kind: archmodel.ExportUnknown, IsDefault: true,
			Line: line, Col: col, Range: rng,
		}
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			exp.Kind = exportKindOf(decl.Kind())
		}
		v.withExport(exp, func() {
			if decl := n.ChildByFieldName("declaration"); decl != nil {
				v.walkStatement(decl)
			}
			if val := n.ChildByFieldName("value"); val != nil {
				v.walkStatement(val)
			}
		})
		v.symbols.Exports = append(v.symbols.Exports, *exp)
		return
	}

	// export * from '...'; export { a, b } from '...'; export { a, b };
	if source := n.ChildByFieldName("source"); source != nil {
		src, _ := stringLiteralValue(source, v.content)
		if clause := n.ChildByFieldName("declaration"); clause == nil {
			if ec := childByKind(n, "export_clause"); ec != nil {
				for _, spec := range childrenByKind(ec, "export_specifier") {
					nameNode := spec.ChildByFieldName("name")
					aliasNode := spec.ChildByFieldName("alias")
					name := v.text(nameNode)
					exported := name
					if aliasNode != nil {
						exported = v.text(aliasNode)
					}
					v.symbols.Exports = append(v.symbols.Exports, archmodel.ExportedSymbol{
						Name: exported, Kind: archmodel.ExportUnknown, IsReexport: true,
						Source: src, Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
					})
				}
			} else {
				// export * from '...': a namespace re-export.
				v.symbols.Exports = append(v.symbols.Exports, archmodel.ExportedSymbol{
					Name: "*", Kind: archmodel.ExportUnknown, IsReexport: true,
					Source: src, Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
				})
			}
		}
		// A re-export is also an import edge: re-exports ... also
		// emit a corresponding import edge so the dependency graph includes
		// them."
		v.symbols.Imports = append(v.symbols.Imports, archmodel.ImportedSymbol{
			Name: "*", Source: src, Line: line, Col: col, Range: rng,
			IsReexport: true, IsTypeOnly: isTypeOnly,
		})
		return
	}

	if ec := childByKind(n, "export_clause"); ec != nil {
		for _, spec := range childrenByKind(ec, "export_specifier") {
			nameNode := spec.ChildByFieldName("name")
			aliasNode := spec.ChildByFieldName("alias")
			name := v.text(nameNode)
			exported := name
			if aliasNode != nil {
				exported = v.text(aliasNode)
			}
			v.symbols.Exports = append(v.symbols.Exports, archmodel.ExportedSymbol{
				Name: exported, Kind: archmodel.ExportUnknown,
				Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
			})
		}
		return
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		v.symbols.HasRuntimeCode = decl.Kind() != "interface_declaration" && decl.Kind() != "type_alias_declaration" || v.symbols.HasRuntimeCode
		names := v.declaredNames(decl)
		for _, nm := range names {
			exp := &archmodel.ExportedSymbol{
				Name: nm.name, Kind: exportKindOf(decl.Kind()), IsMutable: nm.mutable,
				Line: line, Col: col, Range: rng, IsTypeOnly: isTypeOnly,
			}
			if len(names) == 1 {
				v.withExport(exp, func() { v.walkStatement(decl) })
			}
			v.symbols.Exports = append(v.symbols.Exports, *exp)
		}
		if len(names) != 1 {
			v.walkStatement(decl)
		}
	}
}

type declaredName struct {
	name    string
	mutable bool
}

func (v *visitor) declaredNames(decl *tree_sitter.Node) []declaredName {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration", "class_declaration",
		"interface_declaration", "type_alias_declaration", "enum_declaration":
		if name := decl.ChildByFieldName("name"); name != nil {
			return []declaredName{{name: v.text(name)}}
		}
	case "lexical_declaration", "variable_declaration":
		mutable := strings.HasPrefix(v.text(decl), "var") || strings.HasPrefix(v.text(decl), "let")
		var out []declaredName
		for _, decltor := range childrenByKind(decl, "variable_declarator") {
			if target := decltor.ChildByFieldName("name"); target != nil {
				out = append(out, declaredName{name: v.text(target), mutable: mutable})
			}
		}
		return out
	}
	return nil
}

func exportKindOf(nodeKind string) archmodel.ExportKind {
	switch nodeKind {
	case "function_declaration", "generator_function_declaration":
		return archmodel.ExportFunction
	case "class_declaration":
		return archmodel.ExportClass
	case "interface_declaration":
		return archmodel.ExportInterface
	case "type_alias_declaration":
		return archmodel.ExportType
	case "enum_declaration":
		return archmodel.ExportEnum
	case "lexical_declaration", "variable_declaration":
		return archmodel.ExportVariable
	default:
		return archmodel.ExportUnknown
	}
}

func (v *visitor) withExport(e *archmodel.ExportedSymbol, body func()) {
	v.exportStack = append(v.exportStack, e)
	body()
	v.exportStack = v.exportStack[:len(v.exportStack)-1]
}

// visitTypeOnlyDeclaration handles top-level (non-exported) interface,
// type alias, and enum declarations. Only enum sets
// HasRuntimeCode.
func (v *visitor) visitTypeOnlyDeclaration(n *tree_sitter.Node, kind archmodel.ExportKind) {
	if name := n.ChildByFieldName("name"); name != nil {
		v.symbols.LocalDefs = append(v.symbols.LocalDefs, v.text(name))
	}
	v.walkChildren(n)
}

// --- functions & variables -------------------------------------------------

func (v *visitor) visitFunctionDeclaration(n *tree_sitter.Node) {
	v.symbols.HasRuntimeCode = true
	name := ""
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		name = v.text(nameNode)
		v.symbols.LocalDefs = append(v.symbols.LocalDefs, name)
	}
	v.collectFunctionComplexity(n, name, false)
	v.walkChildren(n)
}

func (v *visitor) visitVariableDeclaration(n *tree_sitter.Node) {
	for _, decltor := range childrenByKind(n, "variable_declarator") {
		if target := decltor.ChildByFieldName("name"); target != nil {
			v.symbols.LocalDefs = append(v.symbols.LocalDefs, v.text(target))
		}
		if val := decltor.ChildByFieldName("value"); val != nil {
			switch val.Kind() {
			case "arrow_function", "function_expression", "generator_function":
				name := ""
				if target := decltor.ChildByFieldName("name"); target != nil {
					name = v.text(target)
				}
				v.collectFunctionComplexity(val, name, false)
			}
		}
	}
	v.walkChildren(n)
}

func (v *visitor) collectFunctionComplexity(fn *tree_sitter.Node, name string, isCtor bool) {
	if !v.cfg.CollectComplexity {
		return
	}
	body := fn.ChildByFieldName("body")
	result := complexity.Calculate(body)
	line, _ := v.pos(fn)

	params := fn.ChildByFieldName("parameters")
	paramCount, primitiveParams := countParams(params, v.content, v.isTypeScript)
	if !v.cfg.CollectPrimitiveParams {
		primitiveParams = 0
	}

	v.functions = append(v.functions, archmodel.FunctionComplexity{
		Name: name, Line: line, Range: v.rangeOf(fn),
		Cyclomatic: result.Cyclomatic, Cognitive: result.Cognitive, MaxDepth: result.MaxDepth,
		ParamCount: paramCount, PrimitiveParams: primitiveParams, IsConstructor: isCtor,
	})
}

var primitiveTypeNames = map[string]struct{}{
	"string": {}, "number": {}, "boolean": {}, "bigint": {}, "symbol": {},
}

func countParams(params *tree_sitter.Node, content []byte, isTypeScript bool) (count, primitive int) {
	if params == nil {
		return 0, 0
	}
	n := int(params.ChildCount())
	for i := 0; i < n; i++ {
		p := params.Child(uint(i))
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "required_parameter", "optional_parameter", "identifier", "rest_pattern":
			count++
			if isTypeScript {
				if t := p.ChildByFieldName("type"); t != nil {
					txt := string(content[t.StartByte():t.EndByte()])
					txt = strings.TrimPrefix(strings.TrimSpace(txt), ":")
					txt = strings.TrimSpace(txt)
					if _, ok := primitiveTypeNames[txt]; ok {
						primitive++
					}
				}
			}
		}
	}
	return count, primitive
}

// --- classes ---------------------------------------------------------------

func (v *visitor) visitClassDeclaration(n *tree_sitter.Node, isExpr bool) {
	v.symbols.HasRuntimeCode = true
	cls := &archmodel.ClassSymbol{Range: v.rangeOf(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		cls.Name = v.text(name)
		v.symbols.LocalDefs = append(v.symbols.LocalDefs, cls.Name)
	}

	if heritage := childByKind(n, "class_heritage"); heritage != nil {
		if ext := childByKind(heritage, "extends_clause"); ext != nil {
			if val := ext.ChildByFieldName("value"); val != nil {
				cls.SuperClass = v.text(val)
			}
		}
		if impl := childByKind(heritage, "implements_clause"); impl != nil {
			for i := 0; i < int(impl.ChildCount()); i++ {
				c := impl.Child(uint(i))
				if c != nil && (c.Kind() == "type_identifier" || c.Kind() == "identifier") {
					cls.Implements = append(cls.Implements, v.text(c))
				}
			}
		}
	}

	fieldSet := make(map[string]struct{})
	body := n.ChildByFieldName("body")
	if body != nil {
		count := int(body.ChildCount())
		for i := 0; i < count; i++ {
			member := body.Child(uint(i))
			if member == nil {
				continue
			}
			switch member.Kind() {
			case "public_field_definition", "field_definition", "property_definition":
				if nameNode := member.ChildByFieldName("property"); nameNode != nil {
					name := v.text(nameNode)
					cls.Fields = append(cls.Fields, name)
					fieldSet[name] = struct{}{}
				} else if nameNode := member.ChildByFieldName("name"); nameNode != nil {
					name := v.text(nameNode)
					cls.Fields = append(cls.Fields, name)
					fieldSet[name] = struct{}{}
				}
			}
		}
		// Constructor parameter properties (public/private/protected/readonly
		// modifiers on a constructor parameter) are recorded as class fields
		// regardless of modifier, matching the dependency-injection
		// accommodation — collected in a second pass once we know which
		// member is the constructor.
		for i := 0; i < count; i++ {
			member := body.Child(uint(i))
			if member == nil || member.Kind() != "method_definition" {
				continue
			}
			if nameNode := member.ChildByFieldName("name"); nameNode == nil || v.text(nameNode) != "constructor" {
				continue
			}
			params := member.ChildByFieldName("parameters")
			for _, name := range constructorParamProperties(params, v.content) {
				if _, ok := fieldSet[name]; !ok {
					cls.Fields = append(cls.Fields, name)
					fieldSet[name] = struct{}{}
				}
			}
		}
	}

	v.classStack = append(v.classStack, cls)
	prevFields := v.currentClassFields
	v.currentClassFields = fieldSet

	if body != nil {
		count := int(body.ChildCount())
		for i := 0; i < count; i++ {
			member := body.Child(uint(i))
			if member == nil {
				continue
			}
			if member.Kind() == "method_definition" {
				v.visitMethodDefinition(member, cls)
			}
		}
	}

	v.currentClassFields = prevFields
	v.classStack = v.classStack[:len(v.classStack)-1]

	v.symbols.Classes = append(v.symbols.Classes, *cls)
}

func constructorParamProperties(params *tree_sitter.Node, content []byte) []string {
	var out []string
	if params == nil {
		return out
	}
	n := int(params.ChildCount())
	for i := 0; i < n; i++ {
		p := params.Child(uint(i))
		if p == nil {
			continue
		}
		hasModifier := false
		pn := int(p.ChildCount())
		for j := 0; j < pn; j++ {
			c := p.Child(uint(j))
			if c == nil {
				continue
			}
			switch c.Kind() {
			case "accessibility_modifier", "readonly":
				hasModifier = true
			}
		}
		if !hasModifier {
			continue
		}
		if name := p.ChildByFieldName("pattern"); name != nil {
			out = append(out, string(content[name.StartByte():name.EndByte()]))
		} else if name := p.ChildByFieldName("name"); name != nil {
			out = append(out, string(content[name.StartByte():name.EndByte()]))
		}
	}
	return out
}

func (v *visitor) visitMethodDefinition(n *tree_sitter.Node, cls *archmodel.ClassSymbol) {
	m := &archmodel.MethodSymbol{Range: v.rangeOf(n)}
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		m.Name = v.text(nameNode)
	}
	m.IsAccessor = childByKind(n, "get") != nil || childByKind(n, "set") != nil
	m.Accessibility = archmodel.AccessibilityNone

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(uint(i))
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "accessibility_modifier":
			switch v.text(c) {
			case "public":
				m.Accessibility = archmodel.AccessibilityPublic
			case "protected":
				m.Accessibility = archmodel.AccessibilityProtected
			case "private":
				m.Accessibility = archmodel.AccessibilityPrivate
			}
		case "abstract":
			m.IsAbstract = true
		case "decorator":
			m.HasDecorators = true
		}
	}

	isCtor := m.Name == "constructor"
	if body := n.ChildByFieldName("body"); body != nil {
		v.collectFunctionComplexity(n, m.Name, isCtor)
	}

	v.methodStack = append(v.methodStack, m)
	if body := n.ChildByFieldName("body"); body != nil {
		v.walkStatement(body)
	}
	v.methodStack = v.methodStack[:len(v.methodStack)-1]

	// Only identifiers matching a declared class field remain in used_fields
	// once the class closes; this.x member accesses already only
	// ever add to used_fields when the name matched, so no further filtering
	// is needed here beyond de-duplication.
	m.UsedFields = dedupe(m.UsedFields)
	m.UsedMethods = dedupe(m.UsedMethods)

	cls.Methods = append(cls.Methods, *m)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// --- member expressions & env vars -----------------------------------------

func (v *visitor) visitMemberExpression(n *tree_sitter.Node) {
	obj := n.ChildByFieldName("object")
	prop := n.ChildByFieldName("property")
	if obj == nil || prop == nil {
		v.walkChildren(n)
		return
	}

	objText := v.text(obj)
	propName := v.text(prop)

	if v.cfg.CollectEnvVars && isEnvAccessRoot(objText) {
		v.symbols.EnvVars[propName] = struct{}{}
		return
	}

	if objText == "this" && len(v.methodStack) > 0 {
		m := v.methodStack[len(v.methodStack)-1]
		if v.currentClassFields != nil {
			if _, ok := v.currentClassFields[propName]; ok {
				m.UsedFields = append(m.UsedFields, propName)
				return
			}
		}
		m.UsedMethods = append(m.UsedMethods, propName)
		return
	}

	v.walkChildren(n)
}

func isEnvAccessRoot(objText string) bool {
	return objText == "process.env" || objText == "import.meta.env"
}
