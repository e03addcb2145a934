package lsp

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/riva/internal/ast"
	"github.com/tangzhangming/riva/internal/diag"
	"github.com/tangzhangming/riva/internal/parser"
	"github.com/tangzhangming/riva/internal/resolver"
	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// 诊断生成
// ============================================================================
//
// 对内存中的文档跑 扫描→解析→静态解析，把三类诊断转换为 LSP 形式：
// 词法/语法/解析错误为 Error，未使用变量为 Warning。
// 另外做一个轻量的全局名检查：没有深度条目、又不在顶层声明和内置
// 函数之内的变量引用标记为 Warning，并附带 "Did you mean ...?" 建议
//（脚本的全局绑定要到运行时才真正确定，所以只能是警告）。
//
// ============================================================================

const diagnosticSource = "riva"

// builtinNames 全局环境中预先注入的内置函数名
var builtinNames = []string{"clock", "stringify"}

// depthRecorder 收集解析器写出的深度条目（resolver.Binder 实现）
type depthRecorder map[ast.NodeID]int

func (d depthRecorder) Resolve(id ast.NodeID, depth int) {
	d[id] = depth
}

// Analyze 对文档内容生成诊断列表
func Analyze(docURI, text string, warnUnused bool) []protocol.Diagnostic {
	filename := uri.URI(docURI).Filename()

	p := parser.New(text, filename)
	statements := p.Parse()

	diagnostics := make([]protocol.Diagnostic, 0)

	for _, e := range p.LexErrors() {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeAt(e.Pos, 1),
			Severity: protocol.DiagnosticSeverityError,
			Source:   diagnosticSource,
			Message:  e.Message,
		})
	}

	for _, e := range p.Errors() {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeForToken(e.Token),
			Severity: protocol.DiagnosticSeverityError,
			Source:   diagnosticSource,
			Message:  e.Message,
		})
	}

	depths := make(depthRecorder)
	res := resolver.New(depths, warnUnused)
	res.Resolve(statements)

	for _, e := range res.Errors() {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeForToken(e.Token),
			Severity: protocol.DiagnosticSeverityError,
			Source:   diagnosticSource,
			Message:  e.Message,
		})
	}

	for _, w := range res.Warnings() {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeForToken(w.Token),
			Severity: protocol.DiagnosticSeverityWarning,
			Source:   diagnosticSource,
			Message:  w.Message,
		})
	}

	// 静态阶段没有错误时再做全局名检查，避免在残缺的 AST 上误报
	hasErrors := false
	for _, d := range diagnostics {
		if d.Severity == protocol.DiagnosticSeverityError {
			hasErrors = true
			break
		}
	}
	if !hasErrors {
		diagnostics = append(diagnostics, checkGlobals(statements, depths)...)
	}

	return diagnostics
}

// checkGlobals 对没有深度条目的变量引用做全局名检查
func checkGlobals(statements []ast.Statement, depths depthRecorder) []protocol.Diagnostic {
	globals := make(map[string]bool)
	for _, name := range builtinNames {
		globals[name] = true
	}
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ast.VarStmt:
			globals[s.Name.Literal] = true
		case *ast.FunctionStmt:
			globals[s.Name.Literal] = true
		case *ast.ClassStmt:
			globals[s.Name.Literal] = true
		}
	}

	candidates := make([]string, 0, len(globals))
	for name := range globals {
		candidates = append(candidates, name)
	}

	var diagnostics []protocol.Diagnostic
	for _, ref := range collectGlobalRefs(statements, depths) {
		if globals[ref.Literal] {
			continue
		}
		message := "Undefined variable '" + ref.Literal + "'."
		if hint := diag.DidYouMean(ref.Literal, candidates); hint != "" {
			message += " " + hint
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rangeForToken(ref),
			Severity: protocol.DiagnosticSeverityWarning,
			Source:   diagnosticSource,
			Message:  message,
		})
	}
	return diagnostics
}

// globalRef 一个按全局解析的变量引用
type globalRef = token.Token

// collectGlobalRefs 遍历 AST，收集没有深度条目的 Variable/Assign 引用
func collectGlobalRefs(statements []ast.Statement, depths depthRecorder) []globalRef {
	var refs []globalRef

	var walkStmt func(ast.Statement)
	var walkExpr func(ast.Expression)

	walkExpr = func(expr ast.Expression) {
		switch e := expr.(type) {
		case *ast.Variable:
			if _, ok := depths[e.ID]; !ok {
				refs = append(refs, e.Name)
			}
		case *ast.Assign:
			if _, ok := depths[e.ID]; !ok {
				refs = append(refs, e.Name)
			}
			walkExpr(e.Value)
		case *ast.Unary:
			walkExpr(e.Right)
		case *ast.Binary:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.Logical:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.Grouping:
			walkExpr(e.Expr)
		case *ast.Ternary:
			walkExpr(e.Predicate)
			walkExpr(e.Then)
			walkExpr(e.Else)
		case *ast.Call:
			walkExpr(e.Callee)
			for _, arg := range e.Args {
				walkExpr(arg)
			}
		case *ast.Get:
			walkExpr(e.Object)
		case *ast.Set:
			walkExpr(e.Object)
			walkExpr(e.Value)
		case *ast.Lambda:
			for _, stmt := range e.Body {
				walkStmt(stmt)
			}
		}
	}

	walkStmt = func(stmt ast.Statement) {
		switch s := stmt.(type) {
		case *ast.ExprStmt:
			walkExpr(s.Expr)
		case *ast.PrintStmt:
			walkExpr(s.Expr)
		case *ast.VarStmt:
			if s.Initializer != nil {
				walkExpr(s.Initializer)
			}
		case *ast.BlockStmt:
			for _, inner := range s.Statements {
				walkStmt(inner)
			}
		case *ast.IfStmt:
			walkExpr(s.Cond)
			walkStmt(s.Then)
			if s.Else != nil {
				walkStmt(s.Else)
			}
		case *ast.WhileStmt:
			walkExpr(s.Cond)
			walkStmt(s.Body)
		case *ast.FunctionStmt:
			for _, inner := range s.Lambda.Body {
				walkStmt(inner)
			}
		case *ast.ReturnStmt:
			if s.Value != nil {
				walkExpr(s.Value)
			}
		case *ast.ClassStmt:
			if s.Superclass != nil {
				walkExpr(s.Superclass)
			}
			for _, method := range s.Methods {
				for _, inner := range method.Lambda.Body {
					walkStmt(inner)
				}
			}
		}
	}

	for _, stmt := range statements {
		walkStmt(stmt)
	}

	return refs
}

// ============================================================================
// 位置转换
// ============================================================================

// rangeForToken 把 token 位置转换为 LSP Range
func rangeForToken(tok token.Token) protocol.Range {
	length := len(tok.Literal)
	if length == 0 {
		length = 1
	}
	return rangeAt(tok.Pos, length)
}

// rangeAt 从 1-based 的 Position 构造 0-based 的 LSP Range
func rangeAt(pos token.Position, length int) protocol.Range {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	return protocol.Range{
		Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
		End:   protocol.Position{Line: uint32(line), Character: uint32(col + length)},
	}
}
