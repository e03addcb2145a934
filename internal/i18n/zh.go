package i18n

var messagesZH = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "意外字符。",
	ErrUnterminatedString:  "未闭合的字符串。",
	ErrUnterminatedComment: "未闭合的块注释。",

	// ========== Parser ==========
	ErrExpectVarName:       "期望变量名。",
	ErrExpectSemiVar:       "变量声明后期望 ';'。",
	ErrExpectSemiExpr:      "表达式后期望 ';'。",
	ErrExpectSemiValue:     "值后期望 ';'。",
	ErrExpectSemiReturn:    "返回值后期望 ';'。",
	ErrExpectSemiBreak:     "'break' 后期望 ';'。",
	ErrExpectSemiContinue:  "'continue' 后期望 ';'。",
	ErrExpectSemiLoopCond:  "循环条件后期望 ';'。",
	ErrExpectRBraceBlock:   "代码块后期望 '}'。",
	ErrExpectLParenIf:      "'if' 后期望 '('。",
	ErrExpectRParenIf:      "if 条件后期望 ')'。",
	ErrExpectLParenWhile:   "'while' 后期望 '('。",
	ErrExpectRParenCond:    "条件后期望 ')'。",
	ErrExpectLParenFor:     "'for' 后期望 '('。",
	ErrExpectRParenFor:     "for 子句后期望 ')'。",
	ErrExpectRParenExpr:    "表达式后期望 ')'。",
	ErrExpectRParenArgs:    "参数后期望 ')'。",
	ErrExpectRParenParams:  "形参后期望 ')'。",
	ErrExpectColonTernary:  "三元表达式 then 分支后期望 ':'。",
	ErrExpectExpression:    "期望表达式。",
	ErrInvalidAssignTarget: "无效的赋值目标。",
	ErrExpectFunName:       "期望函数名。",
	ErrExpectMethodName:    "期望方法名。",
	ErrExpectParamName:     "期望参数名。",
	ErrExpectLParenFun:     "'fun' 后期望 '('。",
	ErrExpectLBraceBody:    "函数体前期望 '{'。",
	ErrExpectClassName:     "期望类名。",
	ErrExpectSuperName:     "期望父类名。",
	ErrExpectLBraceClass:   "类体前期望 '{'。",
	ErrExpectRBraceClass:   "类体后期望 '}'。",
	ErrExpectDotSuper:      "'super' 后期望 '.'。",
	ErrExpectSuperMethod:   "期望父类方法名。",
	ErrExpectPropertyName:  "'.' 后期望属性名。",
	ErrTooManyArguments:    "实参不能超过 255 个。",
	ErrTooManyParameters:   "形参不能超过 255 个。",
	ErrBreakOutsideLoop:    "不能在循环外使用 'break'。",
	ErrContinueOutsideLoop: "不能在循环外使用 'continue'。",

	// ========== Resolver ==========
	ErrReadInInitializer: "不能在局部变量自身的初始化器中读取它。",
	ErrAlreadyDeclared:   "当前作用域已存在同名变量。",
	ErrReturnTopLevel:    "不能在顶层代码中 return。",
	ErrReturnFromInit:    "不能从初始化器返回值。",
	ErrInheritSelf:       "类不能继承自身。",
	ErrThisOutsideClass:  "不能在类外使用 'this'。",
	ErrSuperOutsideClass: "不能在类外使用 'super'。",
	ErrSuperNoSuperclass: "不能在没有父类的类中使用 'super'。",
	WarnUnusedVariable:   "未使用的变量。",

	// ========== Runtime ==========
	ErrOperandNumber:       "操作数必须是数字。",
	ErrOperandsNumbers:     "两个操作数都必须是数字。",
	ErrOperandsAddable:     "操作数必须是两个数字或两个字符串。",
	ErrOperandsComparable:  "两个操作数都必须是数字或字符串。",
	ErrDivisionByZero:      "除以零",
	ErrUndefinedVariable:   "未定义的变量 '%s'。",
	ErrNotCallable:         "只能调用函数和类方法",
	ErrArityMismatch:       "期望 %d 个参数，实际得到 %d 个。",
	ErrOnlyInstancesProps:  "只有类实例才有属性。",
	ErrOnlyInstancesFields: "只有类实例才有字段。",
	ErrUndefinedProperty:   "未定义的属性 '%s'。",
	ErrSuperclassNotClass:  "父类必须是一个类。",
}
