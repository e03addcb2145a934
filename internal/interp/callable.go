package interp

import (
	"github.com/tangzhangming/riva/internal/ast"
	"github.com/tangzhangming/riva/internal/i18n"
	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// 可调用值
// ============================================================================
//
// 四种可调用：用户函数（含方法与 lambda）、被绑定的方法（Bind 的产物）、
// 类（作为构造器）、内置函数。调用点校验元数后统一经 Call 分派。
//
// ============================================================================

// Callable 可调用值的公共接口
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) Value
}

// ============================================================================
// Function - 用户函数
// ============================================================================

// Function 用户定义的函数、方法或 lambda
//
// closure 是函数定义处的环境；isInitializer 当且仅当函数源自
// 名为 init 的方法并被绑定进实例。
type Function struct {
	name          string
	declaration   *ast.Lambda
	closure       *Environment
	isInitializer bool
}

// NewFunction 创建函数值
func NewFunction(name string, declaration *ast.Lambda, closure *Environment, isInitializer bool) *Function {
	return &Function{
		name:          name,
		declaration:   declaration,
		closure:       closure,
		isInitializer: isInitializer,
	}
}

// Bind 返回绑定了 this 的新函数
//
// 新函数的闭包在原闭包之上扩展一层，其中 this → instance
//（若方法属于子类，super 已经在再外一层就位）。
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{
		name:          f.name,
		declaration:   f.declaration,
		closure:       env,
		isInitializer: f.isInitializer,
	}
}

// Arity 返回形参个数
func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

// Call 执行函数体
//
// 打开一个链接到闭包的新环境，按位置绑定形参，把函数体当作块执行。
// 自然结束返回 nil；return 信号在这里被捕获并取出载荷；
// 初始化器无论如何都返回闭包外一层绑定的 this。
func (f *Function) Call(in *Interpreter, args []Value) (result Value) {
	env := NewEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Literal, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			ret, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			if f.isInitializer {
				result = f.closure.GetAt(0, "this")
			} else {
				result = ret.value
			}
		}
	}()

	in.executeBlock(f.declaration.Body, env)

	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}
	return nil
}

func (f *Function) String() string {
	return "<fn " + f.name + ">"
}

// ============================================================================
// Class - 类（作为构造器可调用）
// ============================================================================

// Class 类值
//
// 方法表只属于类；实例只有字段。方法查找沿父类链向上。
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// FindMethod 查找方法，沿父类链向上
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity 类调用的元数等于 init 方法的元数，没有 init 则为 0
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call 分配新实例；若存在 init 方法则绑定并调用；返回实例
func (c *Class) Call(in *Interpreter, args []Value) Value {
	instance := &Instance{
		class:  c,
		fields: make(map[string]Value),
	}
	if init := c.FindMethod("init"); init != nil {
		init.Bind(instance).Call(in, args)
	}
	return instance
}

func (c *Class) String() string {
	return c.Name
}

// ============================================================================
// Instance - 实例
// ============================================================================

// Instance 类的实例
//
// 字段由赋值创建。属性读取先查字段，再查类的方法表；
// 方法查找的结果是绑定了 this 的新函数值。
type Instance struct {
	class  *Class
	fields map[string]Value
}

// Get 读取属性
func (i *Instance) Get(name token.Token) Value {
	if v, ok := i.fields[name.Literal]; ok {
		return v
	}

	if method := i.class.FindMethod(name.Literal); method != nil {
		return method.Bind(i)
	}

	panic(&RuntimeError{
		Token:   name,
		Message: i18n.T(i18n.ErrUndefinedProperty, name.Literal),
	})
}

// Set 写入字段
func (i *Instance) Set(name token.Token, value Value) {
	i.fields[name.Literal] = value
}

// Class 返回实例所属的类
func (i *Instance) Class() *Class {
	return i.class
}

func (i *Instance) String() string {
	return i.class.Name + " instance"
}

// ============================================================================
// NativeFunction - 内置函数
// ============================================================================

// NativeFunction 宿主实现的内置函数
type NativeFunction struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []Value) Value
}

// Arity 返回元数
func (n *NativeFunction) Arity() int {
	return n.arity
}

// Call 直接分派到宿主实现
func (n *NativeFunction) Call(in *Interpreter, args []Value) Value {
	return n.fn(in, args)
}

func (n *NativeFunction) String() string {
	return "<fn " + n.name + ">"
}
