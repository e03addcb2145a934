package runtime

import (
	"io"

	"github.com/tangzhangming/riva/internal/ast"
	"github.com/tangzhangming/riva/internal/diag"
	"github.com/tangzhangming/riva/internal/interp"
	"github.com/tangzhangming/riva/internal/parser"
	"github.com/tangzhangming/riva/internal/resolver"
	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// Runtime - 流水线编排
// ============================================================================
//
// Runtime 把各阶段串成单向流水线：
//
//	Scanner → Parser → Resolver → Interpreter
//
// 解析器把深度条目写入求值器的副表；没有反向边。
// 诊断接收器作为显式协作者贯穿各阶段；hadError 置位时不进入求值。
// 求值器（连同全局环境）在多次 Run 之间保持存活，交互模式依赖这一点。
//
// ============================================================================

// Runtime 解释器运行时
type Runtime struct {
	reporter   *diag.Reporter
	interp     *interp.Interpreter
	stdout     io.Writer
	warnUnused bool
}

// New 创建运行时
//
// stdout 接收 print 输出，stderr 接收诊断。
// warnUnused 控制未使用变量警告（配置项 diagnostics.warn_unused）。
func New(stdout, stderr io.Writer, warnUnused bool) *Runtime {
	return &Runtime{
		reporter:   diag.NewReporter(stderr),
		interp:     interp.New(stdout),
		stdout:     stdout,
		warnUnused: warnUnused,
	}
}

// Run 以脚本模式执行源代码
func (r *Runtime) Run(source, filename string) {
	r.run(source, filename, false)
}

// RunSingleExpression 以单表达式模式执行源代码（交互模式）
//
// 紧跟 EOF 的顶层表达式语句无需结尾 ';'。
func (r *Runtime) RunSingleExpression(source, filename string) {
	r.run(source, filename, true)
}

func (r *Runtime) run(source, filename string, allowSingleExpression bool) {
	p := parser.NewSingleExpression(source, filename, allowSingleExpression)
	statements := p.Parse()

	for _, e := range p.LexErrors() {
		r.reporter.ErrorAt(e.Pos.Line, e.Message)
	}
	for _, e := range p.Errors() {
		r.reporter.Error(e.Token, e.Message)
	}

	res := resolver.New(r.interp, r.warnUnused)
	res.Resolve(statements)

	for _, w := range res.Warnings() {
		r.reporter.Warn(w.Token, w.Message)
	}
	for _, e := range res.Errors() {
		r.reporter.Error(e.Token, e.Message)
	}

	// 静态阶段出错后不进入求值
	if r.reporter.HadError() {
		return
	}

	if err := r.interp.Interpret(statements); err != nil {
		r.reporter.Runtime(err.Token.Pos.Line, err.Message)
	}
}

// Parse 只做扫描和解析，返回语句列表（-ast 调试输出用）
//
// 诊断照常上报。
func (r *Runtime) Parse(source, filename string) []ast.Statement {
	p := parser.New(source, filename)
	statements := p.Parse()

	for _, e := range p.LexErrors() {
		r.reporter.ErrorAt(e.Pos.Line, e.Message)
	}
	for _, e := range p.Errors() {
		r.reporter.Error(e.Token, e.Message)
	}

	return statements
}

// Tokens 只做扫描，返回 Token 序列（-tokens 调试输出用）
func (r *Runtime) Tokens(source, filename string) []token.Token {
	p := parser.New(source, filename)
	for _, e := range p.LexErrors() {
		r.reporter.ErrorAt(e.Pos.Line, e.Message)
	}
	return p.Tokens()
}

// Reporter 返回诊断接收器（驱动据此计算退出码）
func (r *Runtime) Reporter() *diag.Reporter {
	return r.reporter
}

// Reset 丢弃全局环境，重建求值器（REPL 的 :reset）
func (r *Runtime) Reset() {
	r.interp = interp.New(r.stdout)
}
