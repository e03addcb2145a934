package resolver

import (
	"fmt"

	"github.com/tangzhangming/riva/internal/ast"
	"github.com/tangzhangming/riva/internal/i18n"
	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// Resolver - 静态解析器
// ============================================================================
//
// 解析器在求值前对 AST 做一次静态遍历：
//
// 1. 为每个局部变量引用（Variable/Assign/This/Super）计算词法深度，
//    写入求值器的深度副表。没有条目的引用在运行时按全局查找。
// 2. 诊断作用域误用：初始化器中读取自身、重复声明、顶层 return、
//    初始化器返回值、类继承自身、类外 this/super 等。
// 3. 作用域关闭时对从未使用的局部值变量发出警告（警告不计入 hadError）。
//
// 解析器从不修改 AST；深度副表通过 Binder 接口写出。
//
// ============================================================================

// Binder 接收解析出的深度条目（由求值器实现）
type Binder interface {
	Resolve(id ast.NodeID, depth int)
}

// functionType 当前所在函数的种类
type functionType int

const (
	funcNone functionType = iota
	funcFunction
	funcMethod
	funcInitializer
)

// classType 当前所在类的种类
type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// varState 局部变量的解析状态
type varState int

const (
	stateDeclared varState = iota // 已声明，初始化器尚未解析完
	stateDefined                  // 已定义，可以被引用
	stateUsed                     // 至少被引用过一次
)

// varKind 局部绑定的种类；只有 kindValue 参与未使用警告
type varKind int

const (
	kindValue varKind = iota
	kindFunction
	kindClass
	kindSpecial // this / super
)

// localVar 一个作用域内的局部绑定
type localVar struct {
	name  token.Token
	kind  varKind
	state varState
}

// Error 解析错误
type Error struct {
	Token   token.Token
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Token.Pos, e.Message)
}

// Warning 解析警告（不阻止执行）
type Warning struct {
	Token   token.Token
	Message string
}

// Resolver 静态解析器
type Resolver struct {
	binder Binder
	scopes []map[string]*localVar

	currentFunction functionType
	currentClass    classType

	warnUnused bool

	errors   []Error
	warnings []Warning
}

// New 创建解析器
//
// warnUnused 控制未使用变量警告（配置项 diagnostics.warn_unused）。
func New(binder Binder, warnUnused bool) *Resolver {
	return &Resolver{
		binder:     binder,
		warnUnused: warnUnused,
	}
}

// Resolve 解析一组语句
func (r *Resolver) Resolve(statements []ast.Statement) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

// Errors 返回所有解析错误
func (r *Resolver) Errors() []Error {
	return r.errors
}

// HasErrors 检查是否有错误
func (r *Resolver) HasErrors() bool {
	return len(r.errors) > 0
}

// Warnings 返回所有解析警告
func (r *Resolver) Warnings() []Warning {
	return r.warnings
}

// ============================================================================
// 语句解析
// ============================================================================

func (r *Resolver) resolveStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.Resolve(s.Statements)
		r.endScope()

	case *ast.VarStmt:
		r.declare(s.Name, kindValue)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.FunctionStmt:
		// 函数名在函数体解析前就已定义，允许递归引用
		r.declare(s.Name, kindFunction)
		r.define(s.Name)
		r.resolveFunction(s.Lambda, funcFunction)

	case *ast.ClassStmt:
		r.resolveClass(s)

	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)

	case *ast.PrintStmt:
		r.resolveExpr(s.Expr)

	case *ast.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	case *ast.ReturnStmt:
		if r.currentFunction == funcNone {
			r.error(s.Keyword, i18n.ErrReturnTopLevel)
		}
		if s.Value != nil {
			if r.currentFunction == funcInitializer {
				r.error(s.Keyword, i18n.ErrReturnFromInit)
			}
			r.resolveExpr(s.Value)
		}

	case *ast.BreakStmt, *ast.ContinueStmt:
		// 循环上下文检查在解析期由 parser 完成
	}
}

func (r *Resolver) resolveClass(s *ast.ClassStmt) {
	enclosing := r.currentClass
	r.currentClass = classClass

	r.declare(s.Name, kindClass)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Name.Literal == s.Superclass.Name.Literal {
			r.error(s.Superclass.Name, i18n.ErrInheritSelf)
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)

		// super 活在方法闭包外面一层的作用域里
		r.beginScope()
		r.currentScope()["super"] = &localVar{
			name:  s.Superclass.Name,
			kind:  kindSpecial,
			state: stateUsed,
		}
	}

	r.beginScope()
	r.currentScope()["this"] = &localVar{
		name:  s.Name,
		kind:  kindSpecial,
		state: stateUsed,
	}

	for _, method := range s.Methods {
		declaration := funcMethod
		if method.Name.Literal == "init" {
			declaration = funcInitializer
		}
		r.resolveFunction(method.Lambda, declaration)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosing
}

func (r *Resolver) resolveFunction(lambda *ast.Lambda, fnType functionType) {
	enclosing := r.currentFunction
	r.currentFunction = fnType

	r.beginScope()
	for _, param := range lambda.Params {
		r.declare(param, kindValue)
		r.define(param)
	}
	r.Resolve(lambda.Body)
	r.endScope()

	r.currentFunction = enclosing
}

// ============================================================================
// 表达式解析
// ============================================================================

func (r *Resolver) resolveExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Literal:
		// 无事可做

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if v, ok := r.currentScope()[e.Name.Literal]; ok && v.state == stateDeclared {
				r.error(e.Name, i18n.ErrReadInInitializer)
			}
		}
		r.resolveLocal(e.ID, e.Name)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.ID, e.Name)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Grouping:
		r.resolveExpr(e.Expr)

	case *ast.Ternary:
		r.resolveExpr(e.Predicate)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.This:
		if r.currentClass == classNone {
			r.error(e.Keyword, i18n.ErrThisOutsideClass)
			return
		}
		r.resolveLocal(e.ID, e.Keyword)

	case *ast.Super:
		if r.currentClass == classNone {
			r.error(e.Keyword, i18n.ErrSuperOutsideClass)
			return
		}
		if r.currentClass != classSubclass {
			r.error(e.Keyword, i18n.ErrSuperNoSuperclass)
			return
		}
		r.resolveLocal(e.ID, e.Keyword)

	case *ast.Lambda:
		r.resolveFunction(e, funcFunction)
	}
}

// resolveLocal 从最内层作用域向外查找绑定
//
// 找到即标记 USED 并记录深度；找不到则视为全局（不记录条目）。
func (r *Resolver) resolveLocal(id ast.NodeID, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if v, ok := r.scopes[i][name.Literal]; ok {
			v.state = stateUsed
			r.binder.Resolve(id, len(r.scopes)-1-i)
			return
		}
	}
}

// ============================================================================
// 作用域管理
// ============================================================================

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]*localVar))
}

// endScope 关闭当前作用域，对从未使用的局部值变量发出警告
func (r *Resolver) endScope() {
	scope := r.currentScope()
	r.scopes = r.scopes[:len(r.scopes)-1]

	if !r.warnUnused {
		return
	}
	for _, v := range scope {
		if v.state != stateUsed && v.kind == kindValue {
			r.warnings = append(r.warnings, Warning{
				Token:   v.name,
				Message: i18n.T(i18n.WarnUnusedVariable),
			})
		}
	}
}

func (r *Resolver) currentScope() map[string]*localVar {
	return r.scopes[len(r.scopes)-1]
}

// declare 在当前作用域声明一个名字（全局不入作用域栈）
func (r *Resolver) declare(name token.Token, kind varKind) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.currentScope()
	if _, ok := scope[name.Literal]; ok {
		r.error(name, i18n.ErrAlreadyDeclared)
	}
	scope[name.Literal] = &localVar{name: name, kind: kind, state: stateDeclared}
}

// define 把当前作用域中的名字标记为已定义
func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	if v, ok := r.currentScope()[name.Literal]; ok {
		v.state = stateDefined
	}
}

func (r *Resolver) error(tok token.Token, msgID string) {
	r.errors = append(r.errors, Error{
		Token:   tok,
		Message: i18n.T(msgID),
	})
}
