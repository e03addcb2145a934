package parser

import (
	"fmt"

	"github.com/tangzhangming/riva/internal/ast"
	"github.com/tangzhangming/riva/internal/i18n"
	"github.com/tangzhangming/riva/internal/lexer"
	"github.com/tangzhangming/riva/internal/token"
)

// ============================================================================
// Parser - 语法分析器
// ============================================================================
//
// 预测式递归下降解析器。错误恢复采用 panic 模式：
// 解析函数在出错处 panic 一个 parseError 信号，declaration 捕获它并
// 调用 synchronize 丢弃 token 直到下一个语句边界，然后继续解析。
// 所有错误都被收集，调用方通过 HasErrors 决定是否继续执行。
//
// 文法（优先级从低到高）:
//
//	program    → declaration* EOF
//	declaration→ varDecl | funDecl | classDecl | statement
//	statement  → exprStmt | printStmt | ifStmt | whileStmt | forStmt
//	           | block | breakStmt | continueStmt | returnStmt
//	expression → comma
//	comma      → assignment ( "," assignment )*
//	assignment → ( call "." IDENT | IDENT ) "=" assignment | ternary
//	ternary    → or ( "?" expression ":" ternary )?
//	or         → and ( "or" and )*
//	and        → equality ( "and" equality )*
//	equality   → comparison ( ("!="|"==") comparison )*
//	comparison → term ( (">"|">="|"<"|"<=") term )*
//	term       → factor ( ("-"|"+") factor )*
//	factor     → unary ( ("/"|"*") unary )*
//	unary      → ("!"|"-") unary | call
//	call       → primary ( "(" args? ")" | "." IDENT )*
//	primary    → NUMBER|STRING|"true"|"false"|"nil"|"this"|IDENT
//	           | "(" expression ")" | "super" "." IDENT | lambda
//
// ============================================================================

// maxArity 函数参数和调用实参的数量上限
const maxArity = 255

// Parser 语法分析器
type Parser struct {
	lexer   *lexer.Lexer
	tokens  []token.Token
	current int
	errors  []Error

	// 单表达式模式：交互模式下，紧跟 EOF 的顶层表达式可以省略 ';'。
	// 消费掉一条语句后该标志自动清除。
	allowSingleExpression bool
	foundSingleExpression bool

	// 循环上下文栈，用于 break/continue 检查和 continue 的 LoopKind
	loopStack []ast.LoopKind

	// 引用型节点的编号计数器（解析器深度副表的键）
	nextID ast.NodeID
}

// Error 语法分析错误
type Error struct {
	Token   token.Token
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Token.Pos, e.Message)
}

// parseError 是 panic 模式错误恢复的内部信号，
// 只在 declaration 处被捕获，与运行时 panic 严格区分。
type parseError struct{}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的语法分析器
func New(source, filename string) *Parser {
	return NewSingleExpression(source, filename, false)
}

// NewSingleExpression 创建一个语法分析器，并设置单表达式模式标志
//
// 交互模式的驱动传 true：紧跟 EOF 的顶层表达式语句无需结尾 ';'。
func NewSingleExpression(source, filename string, allowSingleExpression bool) *Parser {
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()

	return &Parser{
		lexer:                 l,
		tokens:                tokens,
		allowSingleExpression: allowSingleExpression,
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// Parse 解析整个 token 序列，返回语句列表
func (p *Parser) Parse() []ast.Statement {
	var statements []ast.Statement

	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
		if p.allowSingleExpression && p.foundSingleExpression {
			return statements
		}
		p.allowSingleExpression = false
	}

	return statements
}

// Errors 返回所有语法错误
func (p *Parser) Errors() []Error {
	return p.errors
}

// HasErrors 检查是否有语法错误
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

// LexErrors 返回词法阶段收集的错误
func (p *Parser) LexErrors() []lexer.Error {
	return p.lexer.Errors()
}

// Tokens 返回扫描得到的 Token 序列（用于 -tokens 调试输出）
func (p *Parser) Tokens() []token.Token {
	return p.tokens
}

// ============================================================================
// 声明
// ============================================================================

// declaration 解析一条声明或语句
//
// 这是 panic 模式错误恢复的同步点：解析途中抛出的 parseError
// 在这里被捕获，跳过 token 直到下一个语句边界后返回 nil。
func (p *Parser) declaration() (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.VAR):
		p.allowSingleExpression = false
		return p.varDeclaration()
	case p.check(token.FUN) && p.checkNext(token.IDENT):
		p.advance()
		p.allowSingleExpression = false
		return p.function(p.previous(), funKindFunction)
	case p.match(token.CLASS):
		p.allowSingleExpression = false
		return p.classDeclaration()
	default:
		return p.statement()
	}
}

// varDeclaration 解析变量声明（var 已被消费）
func (p *Parser) varDeclaration() ast.Statement {
	name := p.consume(token.IDENT, i18n.ErrExpectVarName)

	var initializer ast.Expression
	if p.match(token.ASSIGN) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, i18n.ErrExpectSemiVar)
	return &ast.VarStmt{Name: name, Initializer: initializer}
}

// funKind 区分具名函数和方法（只影响诊断消息）
type funKind int

const (
	funKindFunction funKind = iota
	funKindMethod
)

// function 解析函数声明或方法（名字尚未被消费）
//
// 具名声明脱糖为 Function(name, Lambda)，与 lambda 表达式共享函数体表示。
func (p *Parser) function(funTok token.Token, kind funKind) *ast.FunctionStmt {
	nameMsg := i18n.ErrExpectFunName
	if kind == funKindMethod {
		nameMsg = i18n.ErrExpectMethodName
	}
	name := p.consume(token.IDENT, nameMsg)

	p.consume(token.LPAREN, i18n.ErrExpectLParenFun)
	params := p.parameters()
	p.consume(token.LBRACE, i18n.ErrExpectLBraceBody)

	// 函数体有自己的循环上下文：外层循环不透过函数边界
	savedLoops := p.loopStack
	p.loopStack = nil
	body := p.blockStatements()
	p.loopStack = savedLoops

	return &ast.FunctionStmt{
		Name:   name,
		Lambda: &ast.Lambda{Fun: funTok, Params: params, Body: body},
	}
}

// parameters 解析形参列表（左括号已被消费，消费到右括号为止）
func (p *Parser) parameters() []token.Token {
	var params []token.Token

	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArity {
				// 报告但不 panic：超限不破坏解析
				p.error(p.peek(), i18n.ErrTooManyParameters)
			}
			params = append(params, p.consume(token.IDENT, i18n.ErrExpectParamName))
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	p.consume(token.RPAREN, i18n.ErrExpectRParenParams)
	return params
}

// classDeclaration 解析类声明（class 已被消费）
func (p *Parser) classDeclaration() ast.Statement {
	name := p.consume(token.IDENT, i18n.ErrExpectClassName)

	var superclass *ast.Variable
	if p.match(token.LT) {
		superName := p.consume(token.IDENT, i18n.ErrExpectSuperName)
		superclass = &ast.Variable{ID: p.newID(), Name: superName}
	}

	p.consume(token.LBRACE, i18n.ErrExpectLBraceClass)

	var methods []*ast.FunctionStmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		methods = append(methods, p.function(p.peek(), funKindMethod))
	}

	p.consume(token.RBRACE, i18n.ErrExpectRBraceClass)
	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}

// ============================================================================
// 语句
// ============================================================================

func (p *Parser) statement() ast.Statement {
	switch p.peek().Type {
	case token.PRINT, token.IF, token.WHILE, token.FOR, token.LBRACE,
		token.BREAK, token.CONTINUE, token.RETURN:
		p.allowSingleExpression = false
	}

	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.check(token.LBRACE):
		lbrace := p.advance()
		return &ast.BlockStmt{LBrace: lbrace, Statements: p.blockStatements()}
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.CONTINUE):
		return p.continueStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Statement {
	keyword := p.previous()
	expr := p.expression()
	p.consume(token.SEMICOLON, i18n.ErrExpectSemiValue)
	return &ast.PrintStmt{Keyword: keyword, Expr: expr}
}

func (p *Parser) ifStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.LPAREN, i18n.ErrExpectLParenIf)
	cond := p.expression()
	p.consume(token.RPAREN, i18n.ErrExpectRParenIf)

	thenBranch := p.statement()
	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.IfStmt{Keyword: keyword, Cond: cond, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.LPAREN, i18n.ErrExpectLParenWhile)
	cond := p.expression()
	p.consume(token.RPAREN, i18n.ErrExpectRParenCond)

	p.loopStack = append(p.loopStack, ast.LoopWhile)
	body := p.statement()
	p.loopStack = p.loopStack[:len(p.loopStack)-1]

	return &ast.WhileStmt{Keyword: keyword, Cond: cond, Body: body}
}

// forStatement 解析 for 循环并脱糖为 while
//
// for (init; cond; inc) body
// 变成
//	{ init; while (cond) { body; inc; } }
//
// 没有步进子句的 for 不包裹 body，循环种类记为 while：
// continue 没有步进可执行，直接重新开始迭代即可。
func (p *Parser) forStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.LPAREN, i18n.ErrExpectLParenFor)

	var init ast.Statement
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expression
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, i18n.ErrExpectSemiLoopCond)

	var increment ast.Expression
	if !p.check(token.RPAREN) {
		increment = p.expression()
	}
	p.consume(token.RPAREN, i18n.ErrExpectRParenFor)

	kind := ast.LoopWhile
	if increment != nil {
		kind = ast.LoopFor
	}

	p.loopStack = append(p.loopStack, kind)
	body := p.statement()
	p.loopStack = p.loopStack[:len(p.loopStack)-1]

	if increment != nil {
		// 把步进表达式追加为 body 块的最后一条语句；
		// continue 的处理依赖这个位置（见求值器的 while 处理）。
		body = &ast.BlockStmt{
			LBrace:     keyword,
			Statements: []ast.Statement{body, &ast.ExprStmt{Expr: increment}},
		}
	}

	if cond == nil {
		cond = &ast.Literal{
			Token: token.New(token.TRUE, "true", keyword.Pos),
			Value: true,
		}
	}

	var loop ast.Statement = &ast.WhileStmt{Keyword: keyword, Cond: cond, Body: body}

	if init != nil {
		loop = &ast.BlockStmt{
			LBrace:     keyword,
			Statements: []ast.Statement{init, loop},
		}
	}

	return loop
}

func (p *Parser) breakStatement() ast.Statement {
	keyword := p.previous()
	if len(p.loopStack) == 0 {
		p.error(keyword, i18n.ErrBreakOutsideLoop)
	}
	p.consume(token.SEMICOLON, i18n.ErrExpectSemiBreak)
	return &ast.BreakStmt{Keyword: keyword}
}

func (p *Parser) continueStatement() ast.Statement {
	keyword := p.previous()
	kind := ast.LoopNone
	if len(p.loopStack) > 0 {
		kind = p.loopStack[len(p.loopStack)-1]
	} else {
		p.error(keyword, i18n.ErrContinueOutsideLoop)
	}
	p.consume(token.SEMICOLON, i18n.ErrExpectSemiContinue)
	return &ast.ContinueStmt{Keyword: keyword, Loop: kind}
}

func (p *Parser) returnStatement() ast.Statement {
	keyword := p.previous()

	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}

	p.consume(token.SEMICOLON, i18n.ErrExpectSemiReturn)
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

// blockStatements 解析块内的语句序列（左大括号已被消费）
func (p *Parser) blockStatements() []ast.Statement {
	var statements []ast.Statement

	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}

	p.consume(token.RBRACE, i18n.ErrExpectRBraceBlock)
	return statements
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()

	if p.allowSingleExpression && p.isAtEnd() {
		p.foundSingleExpression = true
	} else {
		p.consume(token.SEMICOLON, i18n.ErrExpectSemiExpr)
	}

	return &ast.ExprStmt{Expr: expr}
}

// ============================================================================
// 表达式
// ============================================================================

func (p *Parser) expression() ast.Expression {
	return p.comma()
}

// comma 逗号运算符：求值左侧并丢弃，返回右侧
func (p *Parser) comma() ast.Expression {
	expr := p.assignment()

	for p.match(token.COMMA) {
		operator := p.previous()
		right := p.assignment()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

// assignment 赋值：先按表达式解析左侧，看到 '=' 后再检查它是否是
// 合法的赋值目标（Variable → Assign，Get → Set）。
// 无效目标只报告诊断，不 panic。
func (p *Parser) assignment() ast.Expression {
	expr := p.ternary()

	if p.match(token.ASSIGN) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{ID: p.newID(), Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		}

		p.error(equals, i18n.ErrInvalidAssignTarget)
	}

	return expr
}

// ternary 三元条件表达式，右结合
func (p *Parser) ternary() ast.Expression {
	expr := p.or()

	if p.match(token.QUESTION) {
		question := p.previous()
		then := p.expression()
		p.consume(token.COLON, i18n.ErrExpectColonTernary)
		elseBranch := p.ternary()
		return &ast.Ternary{Question: question, Predicate: expr, Then: then, Else: elseBranch}
	}

	return expr
}

func (p *Parser) or() ast.Expression {
	expr := p.and()

	for p.match(token.OR) {
		operator := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()

	for p.match(token.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) equality() ast.Expression {
	expr := p.comparison()

	for p.match(token.NE, token.EQ) {
		operator := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) comparison() ast.Expression {
	expr := p.term()

	for p.match(token.GT, token.GE, token.LT, token.LE) {
		operator := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) term() ast.Expression {
	expr := p.factor()

	for p.match(token.MINUS, token.PLUS) {
		operator := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) factor() ast.Expression {
	expr := p.unary()

	for p.match(token.SLASH, token.STAR) {
		operator := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.BANG, token.MINUS) {
		operator := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: operator, Right: right}
	}

	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LPAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENT, i18n.ErrExpectPropertyName)
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

// finishCall 解析实参列表（左括号已被消费）
//
// 实参以 assignment 优先级解析，逗号运算符不会渗入实参；
// 若某个实参是逗号二元表达式，它的两半被拆成两个实参；
// 带括号的逗号表达式是 Grouping 节点，保持为单个实参。
func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	var args []ast.Expression

	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxArity {
				// 报告但不 panic
				p.error(p.peek(), i18n.ErrTooManyArguments)
			}
			args = appendCommaOperands(args, p.assignment())
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	paren := p.consume(token.RPAREN, i18n.ErrExpectRParenArgs)
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

// appendCommaOperands 把表达式追加为实参，逗号二元表达式按左右两半展开
func appendCommaOperands(args []ast.Expression, expr ast.Expression) []ast.Expression {
	if b, ok := expr.(*ast.Binary); ok && b.Operator.Type == token.COMMA {
		args = appendCommaOperands(args, b.Left)
		return appendCommaOperands(args, b.Right)
	}
	return append(args, expr)
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Token: p.previous(), Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Token: p.previous(), Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Token: p.previous(), Value: nil}
	case p.match(token.NUMBER, token.STRING):
		return &ast.Literal{Token: p.previous(), Value: p.previous().Value}
	case p.match(token.THIS):
		return &ast.This{ID: p.newID(), Keyword: p.previous()}
	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOT, i18n.ErrExpectDotSuper)
		method := p.consume(token.IDENT, i18n.ErrExpectSuperMethod)
		return &ast.Super{ID: p.newID(), Keyword: keyword, Method: method}
	case p.match(token.IDENT):
		return &ast.Variable{ID: p.newID(), Name: p.previous()}
	case p.match(token.LPAREN):
		lparen := p.previous()
		expr := p.expression()
		p.consume(token.RPAREN, i18n.ErrExpectRParenExpr)
		return &ast.Grouping{LParen: lparen, Expr: expr}
	case p.match(token.FUN):
		return p.lambda()
	}

	panic(p.error(p.peek(), i18n.ErrExpectExpression))
}

// lambda 解析函数字面量（fun 已被消费，后面没有名字）
func (p *Parser) lambda() ast.Expression {
	funTok := p.previous()
	p.consume(token.LPAREN, i18n.ErrExpectLParenFun)
	params := p.parameters()
	p.consume(token.LBRACE, i18n.ErrExpectLBraceBody)

	savedLoops := p.loopStack
	p.loopStack = nil
	body := p.blockStatements()
	p.loopStack = savedLoops

	return &ast.Lambda{Fun: funTok, Params: params, Body: body}
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) checkNext(t token.TokenType) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == t
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume 消费期望的 token，否则抛出解析错误
func (p *Parser) consume(t token.TokenType, msgID string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.error(p.peek(), msgID))
}

// error 记录一条语法错误并返回可供 panic 的信号
//
// 调用方决定是否 panic：consume/primary 抛出以进入恢复流程，
// 赋值目标、元数上限等检查只记录不中断。
func (p *Parser) error(tok token.Token, msgID string, args ...interface{}) parseError {
	p.errors = append(p.errors, Error{
		Token:   tok,
		Message: i18n.T(msgID, args...),
	})
	return parseError{}
}

// newID 为引用型表达式节点分配稳定编号
func (p *Parser) newID() ast.NodeID {
	p.nextID++
	return p.nextID
}

// synchronize 丢弃 token 直到下一个语句边界
//
// 边界：上一个 token 是 ';'，或下一个 token 是语句起始关键字。
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}

		switch p.peek().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.advance()
	}
}
