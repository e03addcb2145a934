package interp

import (
	"time"
)

// ============================================================================
// 内置函数注册
// ============================================================================
//
// 内置函数面只有两个：
//   clock()      当前墙钟时间（毫秒，double）
//   stringify(v) v 的打印形式
//
// ============================================================================

// registerBuiltins 在全局环境中注册内置函数（求值器构造时调用）
func (in *Interpreter) registerBuiltins() {
	in.globals.Define("clock", &NativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []Value) Value {
			return float64(time.Now().UnixMilli())
		},
	})

	in.globals.Define("stringify", &NativeFunction{
		name:  "stringify",
		arity: 1,
		fn: func(_ *Interpreter, args []Value) Value {
			return Stringify(args[0])
		},
	})
}
