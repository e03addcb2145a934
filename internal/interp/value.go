package interp

import (
	"strconv"
	"strings"

	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// 运行时值
// ============================================================================
//
// 值是带标签的联合：nil、bool、float64（数字）、string、
// Callable（函数/内置函数）、*Class、*Instance。
// 真值判断：nil 和 false 为假，其余（包括 0 和 ""）为真。
//
// ============================================================================

// Value 运行时值
type Value = interface{}

// RuntimeError 运行时错误
//
// 携带出错的 token 以便诊断定位行号。作为 panic 信号抛出，
// 在顶层 Interpret 处被捕获；与非本地控制流信号严格区分。
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// ============================================================================
// 非本地控制流信号
// ============================================================================
//
// return/break/continue 以独立的信号类型沿调用栈展开，
// 分别在函数调用帧和最近的 while 帧被捕获。
// 它们不是错误，不走错误通道。
//
// ============================================================================

type returnSignal struct {
	value Value
}

type breakSignal struct{}

type continueSignal struct {
	loop loopKindTag
}

// loopKindTag 与 ast.LoopKind 对应，避免信号类型泄漏 AST 依赖细节
type loopKindTag int

const (
	loopTagWhile loopKindTag = iota
	loopTagFor
)

// ============================================================================
// 真值与相等
// ============================================================================

// IsTruthy 真值判断：nil 和 false 为假，其余为真
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual 相等判断：nil 只等于 nil；同类型按结构相等；跨类型不等
func IsEqual(left, right Value) bool {
	if left == nil && right == nil {
		return true
	}
	if left == nil || right == nil {
		return false
	}
	return left == right
}

// ============================================================================
// 打印形式
// ============================================================================

// Stringify 返回值的打印形式
//
//	nil        → "nil"
//	数字       → 文本形式，结尾的 ".0" 被去掉
//	布尔/字符串 → 自然形式
//	实例       → "<ClassName> instance"
//	函数       → "<fn NAME>"
//	类         → 类名
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case float64:
		text := strconv.FormatFloat(val, 'f', -1, 64)
		return strings.TrimSuffix(text, ".0")
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return val
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return "<unknown>"
	}
}
