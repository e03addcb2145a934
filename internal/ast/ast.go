package ast

import (
	"strings"

	"github.com/tangzhangming/riva/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置
	End() token.Position // 返回节点结束位置
	String() string      // 返回节点的字符串表示（用于调试）
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// ============================================================================
// 节点标识
// ============================================================================
//
// NodeID 是解析期分配给引用型表达式节点（Variable、Assign、This、Super）
// 的稳定编号。解析器的深度副表以 NodeID 为键，而不是节点的结构相等性，
// 因此两个字面上相同的引用可以各自解析到不同的作用域深度。
//
// ============================================================================

// NodeID 引用型表达式节点的稳定编号（从1开始，0 表示未分配）
type NodeID int

// LoopKind 标记 continue 所在循环的来源
//
// for 循环在解析期被脱糖为 while，但 continue 仍需执行 for 的
// 步进表达式；LoopKind 让求值器能区分两种情况。
type LoopKind int

const (
	LoopNone  LoopKind = iota // 不在循环中
	LoopWhile                 // 普通 while 循环
	LoopFor                   // 由带步进子句的 for 脱糖而来
)

// ============================================================================
// 表达式节点
// ============================================================================

// Literal 字面量 (数字、字符串、true、false、nil)
type Literal struct {
	Token token.Token
	Value interface{} // float64、string、bool 或 nil
}

func (e *Literal) Pos() token.Position { return e.Token.Pos }
func (e *Literal) End() token.Position { return e.Token.Pos }
func (e *Literal) String() string {
	if e.Value == nil {
		return "nil"
	}
	if s, ok := e.Value.(string); ok {
		return `"` + s + `"`
	}
	return e.Token.Literal
}
func (e *Literal) exprNode() {}

// Variable 变量引用
type Variable struct {
	ID   NodeID
	Name token.Token
}

func (e *Variable) Pos() token.Position { return e.Name.Pos }
func (e *Variable) End() token.Position { return e.Name.Pos }
func (e *Variable) String() string      { return e.Name.Literal }
func (e *Variable) exprNode()           {}

// Assign 赋值表达式 (name = value)
type Assign struct {
	ID    NodeID
	Name  token.Token
	Value Expression
}

func (e *Assign) Pos() token.Position { return e.Name.Pos }
func (e *Assign) End() token.Position { return e.Value.End() }
func (e *Assign) String() string      { return e.Name.Literal + " = " + e.Value.String() }
func (e *Assign) exprNode()           {}

// Unary 一元表达式 (!x, -x)
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (e *Unary) Pos() token.Position { return e.Operator.Pos }
func (e *Unary) End() token.Position { return e.Right.End() }
func (e *Unary) String() string      { return "(" + e.Operator.Literal + e.Right.String() + ")" }
func (e *Unary) exprNode()           {}

// Binary 二元表达式 (a + b, a == b, a , b)
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e *Binary) Pos() token.Position { return e.Left.Pos() }
func (e *Binary) End() token.Position { return e.Right.End() }
func (e *Binary) String() string {
	return "(" + e.Left.String() + " " + e.Operator.Literal + " " + e.Right.String() + ")"
}
func (e *Binary) exprNode() {}

// Logical 短路逻辑表达式 (a and b, a or b)
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (e *Logical) Pos() token.Position { return e.Left.Pos() }
func (e *Logical) End() token.Position { return e.Right.End() }
func (e *Logical) String() string {
	return "(" + e.Left.String() + " " + e.Operator.Literal + " " + e.Right.String() + ")"
}
func (e *Logical) exprNode() {}

// Grouping 括号表达式
type Grouping struct {
	LParen token.Token
	Expr   Expression
}

func (e *Grouping) Pos() token.Position { return e.LParen.Pos }
func (e *Grouping) End() token.Position { return e.Expr.End() }
func (e *Grouping) String() string      { return "(group " + e.Expr.String() + ")" }
func (e *Grouping) exprNode()           {}

// Ternary 三元表达式 (cond ? then : else)
type Ternary struct {
	Question  token.Token // ? token
	Predicate Expression
	Then      Expression
	Else      Expression
}

func (e *Ternary) Pos() token.Position { return e.Predicate.Pos() }
func (e *Ternary) End() token.Position { return e.Else.End() }
func (e *Ternary) String() string {
	return "(" + e.Predicate.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}
func (e *Ternary) exprNode() {}

// Call 函数/方法调用
//
// Paren 是右括号 token，运行时错误（如元数不匹配）以它定位。
type Call struct {
	Callee Expression
	Paren  token.Token
	Args   []Expression
}

func (e *Call) Pos() token.Position { return e.Callee.Pos() }
func (e *Call) End() token.Position { return e.Paren.Pos }
func (e *Call) String() string {
	var args []string
	for _, a := range e.Args {
		args = append(args, a.String())
	}
	return e.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (e *Call) exprNode() {}

// Get 属性读取 (obj.name)
type Get struct {
	Object Expression
	Name   token.Token
}

func (e *Get) Pos() token.Position { return e.Object.Pos() }
func (e *Get) End() token.Position { return e.Name.Pos }
func (e *Get) String() string      { return e.Object.String() + "." + e.Name.Literal }
func (e *Get) exprNode()           {}

// Set 属性写入 (obj.name = value)
type Set struct {
	Object Expression
	Name   token.Token
	Value  Expression
}

func (e *Set) Pos() token.Position { return e.Object.Pos() }
func (e *Set) End() token.Position { return e.Value.End() }
func (e *Set) String() string {
	return e.Object.String() + "." + e.Name.Literal + " = " + e.Value.String()
}
func (e *Set) exprNode() {}

// This this 引用
type This struct {
	ID      NodeID
	Keyword token.Token
}

func (e *This) Pos() token.Position { return e.Keyword.Pos }
func (e *This) End() token.Position { return e.Keyword.Pos }
func (e *This) String() string      { return "this" }
func (e *This) exprNode()           {}

// Super super 方法引用 (super.name)
type Super struct {
	ID      NodeID
	Keyword token.Token
	Method  token.Token
}

func (e *Super) Pos() token.Position { return e.Keyword.Pos }
func (e *Super) End() token.Position { return e.Method.Pos }
func (e *Super) String() string      { return "super." + e.Method.Literal }
func (e *Super) exprNode()           {}

// Lambda 函数字面量
//
// 具名函数声明在解析期脱糖为 Function(name, Lambda)，
// 因此求值器只需要一种函数体表示。
type Lambda struct {
	Fun    token.Token // fun token
	Params []token.Token
	Body   []Statement
}

func (e *Lambda) Pos() token.Position { return e.Fun.Pos }
func (e *Lambda) End() token.Position {
	if n := len(e.Body); n > 0 {
		return e.Body[n-1].End()
	}
	return e.Fun.Pos
}
func (e *Lambda) String() string {
	var params []string
	for _, p := range e.Params {
		params = append(params, p.Literal)
	}
	return "fun (" + strings.Join(params, ", ") + ") {...}"
}
func (e *Lambda) exprNode() {}

// ============================================================================
// 语句节点
// ============================================================================

// ExprStmt 表达式语句
type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) Pos() token.Position { return s.Expr.Pos() }
func (s *ExprStmt) End() token.Position { return s.Expr.End() }
func (s *ExprStmt) String() string      { return s.Expr.String() + ";" }
func (s *ExprStmt) stmtNode()           {}

// PrintStmt print 语句
type PrintStmt struct {
	Keyword token.Token
	Expr    Expression
}

func (s *PrintStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *PrintStmt) End() token.Position { return s.Expr.End() }
func (s *PrintStmt) String() string      { return "print " + s.Expr.String() + ";" }
func (s *PrintStmt) stmtNode()           {}

// VarStmt 变量声明
type VarStmt struct {
	Name        token.Token
	Initializer Expression // 可为 nil
}

func (s *VarStmt) Pos() token.Position { return s.Name.Pos }
func (s *VarStmt) End() token.Position {
	if s.Initializer != nil {
		return s.Initializer.End()
	}
	return s.Name.Pos
}
func (s *VarStmt) String() string {
	if s.Initializer != nil {
		return "var " + s.Name.Literal + " = " + s.Initializer.String() + ";"
	}
	return "var " + s.Name.Literal + ";"
}
func (s *VarStmt) stmtNode() {}

// BlockStmt 代码块
type BlockStmt struct {
	LBrace     token.Token
	Statements []Statement
}

func (s *BlockStmt) Pos() token.Position { return s.LBrace.Pos }
func (s *BlockStmt) End() token.Position {
	if n := len(s.Statements); n > 0 {
		return s.Statements[n-1].End()
	}
	return s.LBrace.Pos
}
func (s *BlockStmt) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, st := range s.Statements {
		sb.WriteString(st.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}
func (s *BlockStmt) stmtNode() {}

// IfStmt if 语句
type IfStmt struct {
	Keyword token.Token
	Cond    Expression
	Then    Statement
	Else    Statement // 可为 nil
}

func (s *IfStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *IfStmt) End() token.Position {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Then.End()
}
func (s *IfStmt) String() string { return "if (...) {...}" }
func (s *IfStmt) stmtNode()      {}

// WhileStmt while 循环
//
// for 循环没有独立的 AST 节点：解析器把 for 脱糖为
// Block{init?, While(cond, body')}，有步进子句时 body' 为 Block{body, increment}，
// 否则就是原 body；没有初始化子句时不包外层 Block。
type WhileStmt struct {
	Keyword token.Token
	Cond    Expression
	Body    Statement
}

func (s *WhileStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *WhileStmt) End() token.Position { return s.Body.End() }
func (s *WhileStmt) String() string      { return "while (...) {...}" }
func (s *WhileStmt) stmtNode()           {}

// BreakStmt break 语句
type BreakStmt struct {
	Keyword token.Token
}

func (s *BreakStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *BreakStmt) End() token.Position { return s.Keyword.Pos }
func (s *BreakStmt) String() string      { return "break;" }
func (s *BreakStmt) stmtNode()           {}

// ContinueStmt continue 语句
//
// Loop 记录包围它的循环种类；求值器据此决定 continue 是否要
// 先执行 for 的步进表达式。
type ContinueStmt struct {
	Keyword token.Token
	Loop    LoopKind
}

func (s *ContinueStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *ContinueStmt) End() token.Position { return s.Keyword.Pos }
func (s *ContinueStmt) String() string      { return "continue;" }
func (s *ContinueStmt) stmtNode()           {}

// FunctionStmt 具名函数声明
type FunctionStmt struct {
	Name   token.Token
	Lambda *Lambda
}

func (s *FunctionStmt) Pos() token.Position { return s.Name.Pos }
func (s *FunctionStmt) End() token.Position { return s.Lambda.End() }
func (s *FunctionStmt) String() string      { return "fun " + s.Name.Literal + "(...) {...}" }
func (s *FunctionStmt) stmtNode()           {}

// ReturnStmt return 语句
type ReturnStmt struct {
	Keyword token.Token
	Value   Expression // 可为 nil
}

func (s *ReturnStmt) Pos() token.Position { return s.Keyword.Pos }
func (s *ReturnStmt) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.Keyword.Pos
}
func (s *ReturnStmt) String() string {
	if s.Value != nil {
		return "return " + s.Value.String() + ";"
	}
	return "return;"
}
func (s *ReturnStmt) stmtNode() {}

// ClassStmt 类声明
type ClassStmt struct {
	Name       token.Token
	Superclass *Variable // 可为 nil
	Methods    []*FunctionStmt
}

func (s *ClassStmt) Pos() token.Position { return s.Name.Pos }
func (s *ClassStmt) End() token.Position {
	if n := len(s.Methods); n > 0 {
		return s.Methods[n-1].End()
	}
	return s.Name.Pos
}
func (s *ClassStmt) String() string {
	if s.Superclass != nil {
		return "class " + s.Name.Literal + " < " + s.Superclass.Name.Literal + " {...}"
	}
	return "class " + s.Name.Literal + " {...}"
}
func (s *ClassStmt) stmtNode() {}
