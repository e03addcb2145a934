package i18n

import (
	"fmt"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// ============================================================================
// 诊断消息 ID
// ============================================================================
//
// 英文消息是输出的原文：CLI 以 "[line N] ERROR..." 格式原样打印它们，
// 测试基准文件也以英文消息为准。
//
// ============================================================================

const (
	// ========== Lexer ==========
	ErrUnexpectedChar      = "lex.unexpected_char"
	ErrUnterminatedString  = "lex.unterminated_string"
	ErrUnterminatedComment = "lex.unterminated_comment"

	// ========== Parser ==========
	ErrExpectVarName        = "parse.expect_var_name"
	ErrExpectSemiVar        = "parse.expect_semi_var"
	ErrExpectSemiExpr       = "parse.expect_semi_expr"
	ErrExpectSemiValue      = "parse.expect_semi_value"
	ErrExpectSemiReturn     = "parse.expect_semi_return"
	ErrExpectSemiBreak      = "parse.expect_semi_break"
	ErrExpectSemiContinue   = "parse.expect_semi_continue"
	ErrExpectSemiLoopCond   = "parse.expect_semi_loop_cond"
	ErrExpectRBraceBlock    = "parse.expect_rbrace_block"
	ErrExpectLParenIf       = "parse.expect_lparen_if"
	ErrExpectRParenIf       = "parse.expect_rparen_if"
	ErrExpectLParenWhile    = "parse.expect_lparen_while"
	ErrExpectRParenCond     = "parse.expect_rparen_cond"
	ErrExpectLParenFor      = "parse.expect_lparen_for"
	ErrExpectRParenFor      = "parse.expect_rparen_for"
	ErrExpectRParenExpr     = "parse.expect_rparen_expr"
	ErrExpectRParenArgs     = "parse.expect_rparen_args"
	ErrExpectRParenParams   = "parse.expect_rparen_params"
	ErrExpectColonTernary   = "parse.expect_colon_ternary"
	ErrExpectExpression     = "parse.expect_expression"
	ErrInvalidAssignTarget  = "parse.invalid_assign_target"
	ErrExpectFunName        = "parse.expect_fun_name"
	ErrExpectMethodName     = "parse.expect_method_name"
	ErrExpectParamName      = "parse.expect_param_name"
	ErrExpectLParenFun      = "parse.expect_lparen_fun"
	ErrExpectLBraceBody     = "parse.expect_lbrace_body"
	ErrExpectClassName      = "parse.expect_class_name"
	ErrExpectSuperName      = "parse.expect_super_name"
	ErrExpectLBraceClass    = "parse.expect_lbrace_class"
	ErrExpectRBraceClass    = "parse.expect_rbrace_class"
	ErrExpectDotSuper       = "parse.expect_dot_super"
	ErrExpectSuperMethod    = "parse.expect_super_method"
	ErrExpectPropertyName   = "parse.expect_property_name"
	ErrTooManyArguments     = "parse.too_many_arguments"
	ErrTooManyParameters    = "parse.too_many_parameters"
	ErrBreakOutsideLoop     = "parse.break_outside_loop"
	ErrContinueOutsideLoop  = "parse.continue_outside_loop"

	// ========== Resolver ==========
	ErrReadInInitializer    = "resolve.read_in_initializer"
	ErrAlreadyDeclared      = "resolve.already_declared"
	ErrReturnTopLevel       = "resolve.return_top_level"
	ErrReturnFromInit       = "resolve.return_from_init"
	ErrInheritSelf          = "resolve.inherit_self"
	ErrThisOutsideClass     = "resolve.this_outside_class"
	ErrSuperOutsideClass    = "resolve.super_outside_class"
	ErrSuperNoSuperclass    = "resolve.super_no_superclass"
	WarnUnusedVariable      = "resolve.unused_variable"

	// ========== Runtime ==========
	ErrOperandNumber        = "run.operand_number"
	ErrOperandsNumbers      = "run.operands_numbers"
	ErrOperandsAddable      = "run.operands_addable"
	ErrOperandsComparable   = "run.operands_comparable"
	ErrDivisionByZero       = "run.division_by_zero"
	ErrUndefinedVariable    = "run.undefined_variable"
	ErrNotCallable          = "run.not_callable"
	ErrArityMismatch        = "run.arity_mismatch"
	ErrOnlyInstancesProps   = "run.only_instances_props"
	ErrOnlyInstancesFields  = "run.only_instances_fields"
	ErrUndefinedProperty    = "run.undefined_property"
	ErrSuperclassNotClass   = "run.superclass_not_class"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// SetLanguageFromString 从字符串设置语言
func SetLanguageFromString(lang string) {
	switch lang {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		SetLanguage(LangChinese)
	default:
		SetLanguage(LangEnglish)
	}
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	var messages map[string]string
	switch lang {
	case LangChinese:
		messages = messagesZH
	default:
		messages = messagesEN
	}

	if msg, ok := messages[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 回退到英文
	if msg, ok := messagesEN[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 找不到翻译则返回原始 ID
	return msgID
}
