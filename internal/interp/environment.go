package interp

import (
	"github.com/tangzhangming/riva/internal/i18n"
	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// Environment - 作用域环境链
// ============================================================================
//
// 环境是名字到值的映射，外加一条指向外层环境的链接（全局环境是链尾）。
// 闭包按引用捕获环境对象：外层作用域里的变动通过闭包仍然可见，
// 闭包也可以在创建它的语法作用域结束之后继续存活。
//
// GetAt/AssignAt 是深度索引的快速路径：解析器已经证明绑定存在于
// 第 depth 层，直接走链而不做逐层名字查找。
//
// ============================================================================

// Environment 作用域环境
type Environment struct {
	values    map[string]Value
	enclosing *Environment // 外层环境，全局环境为 nil
}

// NewEnvironment 创建一个新环境，链接到外层环境
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]Value),
		enclosing: enclosing,
	}
}

// Define 在当前环境中定义名字（已存在则覆盖，从不失败）
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get 沿环境链向外查找名字的值
//
// 名字在任何一层都不存在时抛出运行时错误。
func (e *Environment) Get(name token.Token) Value {
	if v, ok := e.values[name.Literal]; ok {
		return v
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	panic(&RuntimeError{
		Token:   name,
		Message: i18n.T(i18n.ErrUndefinedVariable, name.Literal),
	})
}

// Assign 沿环境链向外给已绑定的名字赋值
//
// 名字在任何一层都不存在时抛出运行时错误。
func (e *Environment) Assign(name token.Token, value Value) {
	if _, ok := e.values[name.Literal]; ok {
		e.values[name.Literal] = value
		return
	}
	if e.enclosing != nil {
		e.enclosing.Assign(name, value)
		return
	}
	panic(&RuntimeError{
		Token:   name,
		Message: i18n.T(i18n.ErrUndefinedVariable, name.Literal),
	})
}

// GetAt 直接读取第 depth 层环境中的名字
//
// 解析器已证明绑定存在；不会继续向外查找。
func (e *Environment) GetAt(depth int, name string) Value {
	return e.ancestor(depth).values[name]
}

// AssignAt 直接写入第 depth 层环境中的名字
func (e *Environment) AssignAt(depth int, name token.Token, value Value) {
	e.ancestor(depth).values[name.Literal] = value
}

// ancestor 沿链走 depth 步
func (e *Environment) ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		env = env.enclosing
	}
	return env
}
