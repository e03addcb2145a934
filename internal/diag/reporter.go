package diag

import (
	"fmt"
	"io"

	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// 诊断接收器
// ============================================================================
//
// Reporter 收集编译期（扫描/解析/静态解析）错误和运行时错误，
// 并按固定格式写到 stderr：
//
//	[line N] ERROR<where>: <message>
//
// <where> 为空（扫描错误与运行时错误）、" at end"（EOF 处的错误）
// 或 " at '<lexeme>'"。
//
// 两个标志驱动退出码：hadError → 65，hadRuntimeError → 70。
// 警告也打印，但不置位 hadError。
//
// Reporter 作为显式协作者传入 scanner/parser/resolver/interpreter 的
// 编排层，不做进程级全局状态，便于嵌入和测试。
//
// ============================================================================

// Reporter 诊断接收器
type Reporter struct {
	out             io.Writer
	hadError        bool
	hadRuntimeError bool
}

// NewReporter 创建诊断接收器，out 通常是 os.Stderr
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Report 按固定格式输出一条诊断并置位 hadError
func (r *Reporter) Report(line int, where, message string) {
	fmt.Fprintf(r.out, "[line %d] ERROR%s: %s\n", line, where, message)
	r.hadError = true
}

// Error 报告与 token 关联的错误
//
// EOF token 的错误标注 " at end"，其余标注 " at '<lexeme>'"。
func (r *Reporter) Error(tok token.Token, message string) {
	if tok.Type == token.EOF {
		r.Report(tok.Pos.Line, " at end", message)
	} else {
		r.Report(tok.Pos.Line, fmt.Sprintf(" at '%s'", tok.Literal), message)
	}
}

// ErrorAt 报告只有行号的错误（扫描阶段）
func (r *Reporter) ErrorAt(line int, message string) {
	r.Report(line, "", message)
}

// Warn 报告警告：输出格式与错误相同，但不置位 hadError
func (r *Reporter) Warn(tok token.Token, message string) {
	prev := r.hadError
	r.Error(tok, message)
	r.hadError = prev
}

// Runtime 报告运行时错误并置位 hadRuntimeError
func (r *Reporter) Runtime(line int, message string) {
	fmt.Fprintf(r.out, "[line %d] ERROR: %s\n", line, message)
	r.hadRuntimeError = true
}

// HadError 是否有编译期错误
func (r *Reporter) HadError() bool {
	return r.hadError
}

// HadRuntimeError 是否有运行时错误
func (r *Reporter) HadRuntimeError() bool {
	return r.hadRuntimeError
}

// Reset 清除两个标志（交互模式每行输入前调用）
func (r *Reporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}
