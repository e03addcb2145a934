package interp

import (
	"fmt"
	"io"

	"github.com/tangzhangming/riva/internal/ast"
	"github.com/tangzhangming/riva/internal/i18n"
	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// Interpreter - 树遍历求值器
// ============================================================================
//
// 求值器消费语句列表、解析器写入的深度副表和环境链。
// 表达式和语句各用一个 type switch 分派（代数形状上的单次匹配，
// 等价于双分派 visitor，但没有继承）。
//
// 求值顺序是词法顺序：Call 先求 callee 再从左到右求实参；
// Binary 先左后右；Set 先对象后值。
//
// 运行时错误以 *RuntimeError 信号展开到顶层 Interpret 并作为 error
// 返回；return/break/continue 用各自的信号类型，在正确的帧被捕获，
// 与错误通道互不混淆。
//
// ============================================================================

// Interpreter 求值器
type Interpreter struct {
	globals *Environment
	env     *Environment

	// 深度副表：引用型节点编号 → 词法深度。
	// 解析器写入（Resolve），求值器只读。没有条目的引用按全局处理。
	depths map[ast.NodeID]int

	stdout io.Writer
}

// New 创建求值器
//
// 全局环境在构造时注入内置函数。stdout 是 print 的目标，
// 由驱动传入（测试和 REPL 会注入自己的 writer）。
func New(stdout io.Writer) *Interpreter {
	in := &Interpreter{
		globals: NewEnvironment(nil),
		depths:  make(map[ast.NodeID]int),
		stdout:  stdout,
	}
	in.env = in.globals
	in.registerBuiltins()
	return in
}

// Resolve 写入一个深度条目（resolver.Binder 的实现）
func (in *Interpreter) Resolve(id ast.NodeID, depth int) {
	in.depths[id] = depth
}

// Globals 返回全局环境
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Interpret 执行一组顶层语句
//
// 自然完成返回 nil；第一个未处理的运行时错误终止本次调用并作为
// *RuntimeError 返回。全局环境在多次 Interpret 调用之间保持存活
//（交互模式依赖这一点）。
func (in *Interpreter) Interpret(statements []ast.Statement) (err *RuntimeError) {
	defer func() {
		if r := recover(); r != nil {
			if rte, ok := r.(*RuntimeError); ok {
				err = rte
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range statements {
		in.execute(stmt)
	}
	return nil
}

// ============================================================================
// 语句求值
// ============================================================================

func (in *Interpreter) execute(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		in.evaluate(s.Expr)

	case *ast.PrintStmt:
		value := in.evaluate(s.Expr)
		fmt.Fprintln(in.stdout, Stringify(value))

	case *ast.VarStmt:
		var value Value
		if s.Initializer != nil {
			value = in.evaluate(s.Initializer)
		}
		in.env.Define(s.Name.Literal, value)

	case *ast.BlockStmt:
		in.executeBlock(s.Statements, NewEnvironment(in.env))

	case *ast.IfStmt:
		if IsTruthy(in.evaluate(s.Cond)) {
			in.execute(s.Then)
		} else if s.Else != nil {
			in.execute(s.Else)
		}

	case *ast.WhileStmt:
		in.executeWhile(s)

	case *ast.BreakStmt:
		panic(breakSignal{})

	case *ast.ContinueStmt:
		tag := loopTagWhile
		if s.Loop == ast.LoopFor {
			tag = loopTagFor
		}
		panic(continueSignal{loop: tag})

	case *ast.FunctionStmt:
		fn := NewFunction(s.Name.Literal, s.Lambda, in.env, false)
		in.env.Define(s.Name.Literal, fn)

	case *ast.ReturnStmt:
		var value Value
		if s.Value != nil {
			value = in.evaluate(s.Value)
		}
		panic(returnSignal{value: value})

	case *ast.ClassStmt:
		in.executeClass(s)
	}
}

// executeBlock 在给定环境中执行语句序列
//
// 进入时切换当前环境，退出时无条件恢复——信号展开经过这里
// 也不会破坏环境链。
func (in *Interpreter) executeBlock(statements []ast.Statement, env *Environment) {
	previous := in.env
	defer func() { in.env = previous }()

	in.env = env
	for _, stmt := range statements {
		in.execute(stmt)
	}
}

// executeWhile 执行 while 循环，处理 break/continue 信号
//
// break 结束循环。continue 重新开始迭代；若信号来自 for 脱糖的
// 循环（body 是解析器构造的块，最后一条语句是步进表达式），
// 先把步进语句包进一条单语句块执行——包一层块是为了让步进表达式
// 里的变量解析仍落在正确的作用域深度上。
func (in *Interpreter) executeWhile(s *ast.WhileStmt) {
	for IsTruthy(in.evaluate(s.Cond)) {
		if in.runLoopBody(s) {
			break
		}
	}
}

// runLoopBody 执行一次循环体；返回 true 表示循环应当结束
func (in *Interpreter) runLoopBody(s *ast.WhileStmt) (stop bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch sig := r.(type) {
		case breakSignal:
			stop = true
		case continueSignal:
			if sig.loop == loopTagFor {
				if block, ok := s.Body.(*ast.BlockStmt); ok && len(block.Statements) > 0 {
					increment := block.Statements[len(block.Statements)-1]
					in.execute(&ast.BlockStmt{
						LBrace:     block.LBrace,
						Statements: []ast.Statement{increment},
					})
				}
			}
		default:
			panic(r)
		}
	}()

	in.execute(s.Body)
	return false
}

// executeClass 求值类声明
//
// 先求父类表达式（必须是类值），再定义类名；若有父类，
// 方法闭包的外面包一层绑定 super 的环境；每个方法闭合该环境；
// 最后把构造好的类赋给已定义的名字。
func (in *Interpreter) executeClass(s *ast.ClassStmt) {
	var superclass *Class
	if s.Superclass != nil {
		value := in.evaluate(s.Superclass)
		sc, ok := value.(*Class)
		if !ok {
			panic(&RuntimeError{
				Token:   s.Superclass.Name,
				Message: i18n.T(i18n.ErrSuperclassNotClass),
			})
		}
		superclass = sc
	}

	in.env.Define(s.Name.Literal, nil)

	if superclass != nil {
		in.env = NewEnvironment(in.env)
		in.env.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, method := range s.Methods {
		isInit := method.Name.Literal == "init"
		methods[method.Name.Literal] = NewFunction(method.Name.Literal, method.Lambda, in.env, isInit)
	}

	class := &Class{
		Name:       s.Name.Literal,
		Superclass: superclass,
		Methods:    methods,
	}

	if superclass != nil {
		in.env = in.env.enclosing
	}

	in.env.Assign(s.Name, class)
}

// ============================================================================
// 表达式求值
// ============================================================================

func (in *Interpreter) evaluate(expr ast.Expression) Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value

	case *ast.Grouping:
		return in.evaluate(e.Expr)

	case *ast.Variable:
		return in.lookupVariable(e.ID, e.Name)

	case *ast.Assign:
		value := in.evaluate(e.Value)
		if depth, ok := in.depths[e.ID]; ok {
			in.env.AssignAt(depth, e.Name, value)
		} else {
			in.globals.Assign(e.Name, value)
		}
		return value

	case *ast.Unary:
		return in.evalUnary(e)

	case *ast.Binary:
		return in.evalBinary(e)

	case *ast.Logical:
		left := in.evaluate(e.Left)
		if e.Operator.Type == token.OR {
			if IsTruthy(left) {
				return left
			}
		} else {
			if !IsTruthy(left) {
				return left
			}
		}
		return in.evaluate(e.Right)

	case *ast.Ternary:
		if IsTruthy(in.evaluate(e.Predicate)) {
			return in.evaluate(e.Then)
		}
		return in.evaluate(e.Else)

	case *ast.Call:
		return in.evalCall(e)

	case *ast.Get:
		object := in.evaluate(e.Object)
		if instance, ok := object.(*Instance); ok {
			return instance.Get(e.Name)
		}
		panic(&RuntimeError{
			Token:   e.Name,
			Message: i18n.T(i18n.ErrOnlyInstancesProps),
		})

	case *ast.Set:
		object := in.evaluate(e.Object)
		instance, ok := object.(*Instance)
		if !ok {
			panic(&RuntimeError{
				Token:   e.Name,
				Message: i18n.T(i18n.ErrOnlyInstancesFields),
			})
		}
		value := in.evaluate(e.Value)
		instance.Set(e.Name, value)
		return value

	case *ast.This:
		return in.lookupVariable(e.ID, e.Keyword)

	case *ast.Super:
		return in.evalSuper(e)

	case *ast.Lambda:
		return NewFunction("lambda", e, in.env, false)
	}

	return nil
}

// lookupVariable 按深度副表查找变量；没有条目则按全局查找
func (in *Interpreter) lookupVariable(id ast.NodeID, name token.Token) Value {
	if depth, ok := in.depths[id]; ok {
		return in.env.GetAt(depth, name.Literal)
	}
	return in.globals.Get(name)
}

func (in *Interpreter) evalUnary(e *ast.Unary) Value {
	value := in.evaluate(e.Right)

	switch e.Operator.Type {
	case token.MINUS:
		n := in.checkNumberOperand(e.Operator, value)
		return -n
	case token.BANG:
		return !IsTruthy(value)
	}
	return nil
}

func (in *Interpreter) evalBinary(e *ast.Binary) Value {
	left := in.evaluate(e.Left)
	right := in.evaluate(e.Right)

	switch e.Operator.Type {
	case token.COMMA:
		// 左侧已求值并丢弃
		return right

	case token.MINUS:
		l, r := in.checkNumberOperands(e.Operator, left, right)
		return l - r

	case token.STAR:
		l, r := in.checkNumberOperands(e.Operator, left, right)
		return l * r

	case token.SLASH:
		l, r := in.checkNumberOperands(e.Operator, left, right)
		if r == 0 {
			panic(&RuntimeError{
				Token:   e.Operator,
				Message: i18n.T(i18n.ErrDivisionByZero),
			})
		}
		return l / r

	case token.PLUS:
		if lf, ok := left.(float64); ok {
			if rf, ok := right.(float64); ok {
				return lf + rf
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs
			}
		}
		panic(&RuntimeError{
			Token:   e.Operator,
			Message: i18n.T(i18n.ErrOperandsAddable),
		})

	case token.EQ:
		return IsEqual(left, right)

	case token.NE:
		return !IsEqual(left, right)

	case token.LT, token.LE, token.GT, token.GE:
		return in.compare(e.Operator, left, right)
	}

	return nil
}

// compare 比较运算
//
// 操作数必须都是数字、都是字符串，或恰好一侧为 nil。
// nil 视为严格最小值：nil < x 为真，nil > x 为假（对称地处理另一侧）。
func (in *Interpreter) compare(operator token.Token, left, right Value) Value {
	in.checkComparable(operator, left, right)

	if left == nil || right == nil {
		switch operator.Type {
		case token.LT:
			return left == nil && right != nil
		case token.LE:
			return left == nil
		case token.GT:
			return right == nil && left != nil
		case token.GE:
			return right == nil
		}
	}

	if lf, ok := left.(float64); ok {
		rf := right.(float64)
		switch operator.Type {
		case token.LT:
			return lf < rf
		case token.LE:
			return lf <= rf
		case token.GT:
			return lf > rf
		case token.GE:
			return lf >= rf
		}
	}

	ls := left.(string)
	rs := right.(string)
	switch operator.Type {
	case token.LT:
		return ls < rs
	case token.LE:
		return ls <= rs
	case token.GT:
		return ls > rs
	case token.GE:
		return ls >= rs
	}

	return nil
}

func (in *Interpreter) evalCall(e *ast.Call) Value {
	callee := in.evaluate(e.Callee)

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		args = append(args, in.evaluate(arg))
	}

	fn, ok := callee.(Callable)
	if !ok {
		panic(&RuntimeError{
			Token:   e.Paren,
			Message: i18n.T(i18n.ErrNotCallable),
		})
	}

	if len(args) != fn.Arity() {
		panic(&RuntimeError{
			Token:   e.Paren,
			Message: i18n.T(i18n.ErrArityMismatch, fn.Arity(), len(args)),
		})
	}

	return fn.Call(in, args)
}

// evalSuper 求值 super.method
//
// 解析器记录的深度定位环境链中的 super；this 在 depth-1 层。
// 方法在父类上查找，找到后绑定到当前 this。
func (in *Interpreter) evalSuper(e *ast.Super) Value {
	depth := in.depths[e.ID]
	superclass := in.env.GetAt(depth, "super").(*Class)
	object := in.env.GetAt(depth-1, "this").(*Instance)

	method := superclass.FindMethod(e.Method.Literal)
	if method == nil {
		panic(&RuntimeError{
			Token:   e.Method,
			Message: i18n.T(i18n.ErrUndefinedProperty, e.Method.Literal),
		})
	}

	return method.Bind(object)
}

// ============================================================================
// 类型检查
// ============================================================================

func (in *Interpreter) checkNumberOperand(operator token.Token, operand Value) float64 {
	if n, ok := operand.(float64); ok {
		return n
	}
	panic(&RuntimeError{
		Token:   operator,
		Message: i18n.T(i18n.ErrOperandNumber),
	})
}

func (in *Interpreter) checkNumberOperands(operator token.Token, left, right Value) (float64, float64) {
	lf, lok := left.(float64)
	rf, rok := right.(float64)
	if lok && rok {
		return lf, rf
	}
	panic(&RuntimeError{
		Token:   operator,
		Message: i18n.T(i18n.ErrOperandsNumbers),
	})
}

// checkComparable 允许：两个数字、两个字符串、或恰好一侧为 nil 而
// 另一侧是数字或字符串。nil 与 nil 不可比较。
func (in *Interpreter) checkComparable(operator token.Token, left, right Value) {
	if isNumber(left) && isNumber(right) {
		return
	}
	if isString(left) && isString(right) {
		return
	}
	if (isNumber(left) || isString(left)) && right == nil {
		return
	}
	if (isNumber(right) || isString(right)) && left == nil {
		return
	}

	panic(&RuntimeError{
		Token:   operator,
		Message: i18n.T(i18n.ErrOperandsComparable),
	})
}

func isNumber(v Value) bool {
	_, ok := v.(float64)
	return ok
}

func isString(v Value) bool {
	_, ok := v.(string)
	return ok
}
