// repl.go - Riva REPL (Read-Eval-Print Loop)
//
// 提供交互式命令行界面，支持：
// - 多行输入（检测未闭合的括号和字符串）
// - 历史记录
// - 特殊命令（:help, :quit, :reset, :load）
// - 单表达式模式：行尾的表达式无需 ';'
// - 每行输入前重置诊断标志；全局环境跨行保持存活

package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tangzhangming/riva/internal/config"
	"github.com/tangzhangming/riva/internal/runtime"
)

// REPL 交互式解释器
type REPL struct {
	runtime *runtime.Runtime
	reader  *bufio.Reader
	writer  io.Writer
	history []string

	multiline bool
	buffer    strings.Builder

	promptPrimary  string
	promptContinue string
}

// New 创建 REPL
//
// out 同时接收程序输出和提示符；errOut 接收诊断。
func New(cfg *config.Config, in io.Reader, out, errOut io.Writer) *REPL {
	return &REPL{
		runtime:        runtime.New(out, errOut, cfg.Diagnostics.WarnUnused),
		reader:         bufio.NewReader(in),
		writer:         out,
		promptPrimary:  cfg.REPL.Prompt,
		promptContinue: cfg.REPL.PromptContinue,
	}
}

// Run 运行 REPL，输入 EOF 时返回
func (r *REPL) Run() {
	r.printWelcome()

	for {
		prompt := r.promptPrimary
		if r.multiline {
			prompt = r.promptContinue
		}
		fmt.Fprint(r.writer, prompt)

		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(r.writer)
				return
			}
			fmt.Fprintf(r.writer, "Error reading input: %v\n", err)
			continue
		}

		line = strings.TrimRight(line, "\r\n")

		// 处理特殊命令
		if !r.multiline && strings.HasPrefix(line, ":") {
			if r.handleCommand(line) {
				continue
			}
		}

		if r.multiline {
			r.buffer.WriteString("\n")
		}
		r.buffer.WriteString(line)

		// 括号或字符串未闭合时继续读取下一行
		if needsMoreInput(r.buffer.String()) {
			r.multiline = true
			continue
		}

		input := r.buffer.String()
		r.buffer.Reset()
		r.multiline = false

		if strings.TrimSpace(input) == "" {
			continue
		}

		r.addHistory(input)
		r.execute(input)
	}
}

// printWelcome 打印欢迎信息
func (r *REPL) printWelcome() {
	fmt.Fprintln(r.writer, "Riva REPL")
	fmt.Fprintln(r.writer, "Type :help for help, :quit to exit")
	fmt.Fprintln(r.writer)
}

// handleCommand 处理特殊命令
func (r *REPL) handleCommand(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case ":help", ":h", ":?":
		r.printHelp()
		return true

	case ":quit", ":q", ":exit":
		fmt.Fprintln(r.writer, "Bye!")
		os.Exit(0)
		return true

	case ":reset", ":clear":
		r.reset()
		fmt.Fprintln(r.writer, "Environment reset.")
		return true

	case ":load", ":l":
		if len(args) < 1 {
			fmt.Fprintln(r.writer, "Usage: :load <filename>")
			return true
		}
		r.loadFile(args[0])
		return true

	case ":history", ":hist":
		r.printHistory()
		return true

	default:
		fmt.Fprintf(r.writer, "Unknown command: %s\n", cmd)
		fmt.Fprintln(r.writer, "Type :help for available commands.")
		return true
	}
}

// printHelp 打印帮助信息
func (r *REPL) printHelp() {
	fmt.Fprintln(r.writer, "Available commands:")
	fmt.Fprintln(r.writer, "  :help, :h, :?     Show this help message")
	fmt.Fprintln(r.writer, "  :quit, :q, :exit  Exit the REPL")
	fmt.Fprintln(r.writer, "  :reset, :clear    Reset the environment")
	fmt.Fprintln(r.writer, "  :load <file>      Load and execute a file")
	fmt.Fprintln(r.writer, "  :history, :hist   Show command history")
	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, "A trailing expression without ';' is accepted:")
	fmt.Fprintln(r.writer, "  > print \"hi\";")
	fmt.Fprintln(r.writer, "  > 1 + 2 * 3")
	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, "Unfinished input (open brackets or strings)")
	fmt.Fprintln(r.writer, "continues on the next line.")
}

// reset 重置环境
func (r *REPL) reset() {
	r.runtime.Reset()
	r.buffer.Reset()
	r.multiline = false
}

// loadFile 加载并执行文件
func (r *REPL) loadFile(filename string) {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(r.writer, "Error loading file: %v\n", err)
		return
	}

	r.runtime.Reporter().Reset()
	r.runtime.Run(string(source), filename)
	if !r.runtime.Reporter().HadError() && !r.runtime.Reporter().HadRuntimeError() {
		fmt.Fprintf(r.writer, "Loaded: %s\n", filename)
	}
}

// printHistory 打印历史记录
func (r *REPL) printHistory() {
	for i, cmd := range r.history {
		fmt.Fprintf(r.writer, "%4d  %s\n", i+1, cmd)
	}
}

// addHistory 添加到历史记录
func (r *REPL) addHistory(input string) {
	// 与上一条相同的输入不重复添加
	if len(r.history) > 0 && r.history[len(r.history)-1] == input {
		return
	}
	r.history = append(r.history, input)
	// 限制历史记录大小
	if len(r.history) > 1000 {
		r.history = r.history[len(r.history)-1000:]
	}
}

// execute 执行一段输入
//
// 每次提交前重置诊断标志；退出码语义对交互模式不适用，
// 错误只是打印出来，循环继续。
func (r *REPL) execute(input string) {
	r.runtime.Reporter().Reset()
	r.runtime.RunSingleExpression(input, "<repl>")
}

// needsMoreInput 检查输入是否还未完整
//
// 统计括号深度和字符串状态；未闭合时要求继续输入。
// 行注释里的括号不计入。
func needsMoreInput(input string) bool {
	braceDepth := 0
	parenDepth := 0
	inString := false
	inLineComment := false
	inBlockComment := false

	for i := 0; i < len(input); i++ {
		c := input[i]

		if inLineComment {
			if c == '\n' {
				inLineComment = false
			}
			continue
		}

		if inBlockComment {
			if c == '*' && i+1 < len(input) && input[i+1] == '/' {
				inBlockComment = false
				i++
			}
			continue
		}

		if inString {
			if c == '"' {
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '/':
			if i+1 < len(input) {
				switch input[i+1] {
				case '/':
					inLineComment = true
					i++
				case '*':
					inBlockComment = true
					i++
				}
			}
		case '{':
			braceDepth++
		case '}':
			braceDepth--
		case '(':
			parenDepth++
		case ')':
			parenDepth--
		}
	}

	return braceDepth > 0 || parenDepth > 0 || inString || inBlockComment
}
