package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "Unexpected character.",
	ErrUnterminatedString:  "Unterminated string.",
	ErrUnterminatedComment: "Unterminated block comment.",

	// ========== Parser ==========
	ErrExpectVarName:       "Expect variable name.",
	ErrExpectSemiVar:       "Expect ';' after variable declaration.",
	ErrExpectSemiExpr:      "Expect ';' after expression.",
	ErrExpectSemiValue:     "Expect ';' after value.",
	ErrExpectSemiReturn:    "Expect ';' after return value.",
	ErrExpectSemiBreak:     "Expect ';' after 'break'.",
	ErrExpectSemiContinue:  "Expect ';' after 'continue'.",
	ErrExpectSemiLoopCond:  "Expect ';' after loop condition.",
	ErrExpectRBraceBlock:   "Expect '}' after block.",
	ErrExpectLParenIf:      "Expect '(' after 'if'.",
	ErrExpectRParenIf:      "Expect ')' after if condition.",
	ErrExpectLParenWhile:   "Expect '(' after 'while'.",
	ErrExpectRParenCond:    "Expect ')' after condition.",
	ErrExpectLParenFor:     "Expect '(' after 'for'.",
	ErrExpectRParenFor:     "Expect ')' after for clauses.",
	ErrExpectRParenExpr:    "Expect ')' after expression.",
	ErrExpectRParenArgs:    "Expect ')' after arguments.",
	ErrExpectRParenParams:  "Expect ')' after parameters.",
	ErrExpectColonTernary:  "Expect ':' after then branch of ternary expression.",
	ErrExpectExpression:    "Expect expression.",
	ErrInvalidAssignTarget: "Invalid assignment target.",
	ErrExpectFunName:       "Expect function name.",
	ErrExpectMethodName:    "Expect method name.",
	ErrExpectParamName:     "Expect parameter name.",
	ErrExpectLParenFun:     "Expect '(' after 'fun'.",
	ErrExpectLBraceBody:    "Expect '{' before function body.",
	ErrExpectClassName:     "Expect class name.",
	ErrExpectSuperName:     "Expect superclass name.",
	ErrExpectLBraceClass:   "Expect '{' before class body.",
	ErrExpectRBraceClass:   "Expect '}' after class body.",
	ErrExpectDotSuper:      "Expect '.' after 'super'.",
	ErrExpectSuperMethod:   "Expect superclass method name.",
	ErrExpectPropertyName:  "Expect property name after '.'.",
	ErrTooManyArguments:    "Can't have more than 255 arguments.",
	ErrTooManyParameters:   "Can't have more than 255 parameters.",
	ErrBreakOutsideLoop:    "Can't use 'break' outside of a loop.",
	ErrContinueOutsideLoop: "Can't use 'continue' outside of a loop.",

	// ========== Resolver ==========
	ErrReadInInitializer: "Can't read local variable in its own initializer.",
	ErrAlreadyDeclared:   "Already a variable with this name in this scope.",
	ErrReturnTopLevel:    "Can't return from top-level code.",
	ErrReturnFromInit:    "Can't return a value from an initializer.",
	ErrInheritSelf:       "A class can't inherit from itself.",
	ErrThisOutsideClass:  "Can't use 'this' outside of a class.",
	ErrSuperOutsideClass: "Can't use 'super' outside of a class.",
	ErrSuperNoSuperclass: "Can't use 'super' in a class with no superclass.",
	WarnUnusedVariable:   "Unused variable.",

	// ========== Runtime ==========
	ErrOperandNumber:       "Operand must be a number.",
	ErrOperandsNumbers:     "Operands must both be a number.",
	ErrOperandsAddable:     "Operands must be two numbers or two strings.",
	ErrOperandsComparable:  "Operands must both be a number or a string.",
	ErrDivisionByZero:      "Division by zero",
	ErrUndefinedVariable:   "Undefined variable '%s'.",
	ErrNotCallable:         "Can only call functions and class methods",
	ErrArityMismatch:       "Expected %d arguments but got %d.",
	ErrOnlyInstancesProps:  "Only class instances have properties.",
	ErrOnlyInstancesFields: "Only class instances have fields.",
	ErrUndefinedProperty:   "Undefined property '%s'.",
	ErrSuperclassNotClass:  "Superclass must be a class.",
}
