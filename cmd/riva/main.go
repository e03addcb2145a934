package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tangzhangming/riva/internal/config"
	"github.com/tangzhangming/riva/internal/i18n"
	"github.com/tangzhangming/riva/internal/repl"
	"github.com/tangzhangming/riva/internal/runtime"
)

const Version = "0.1.0"

// 退出码（sysexits 约定）
const (
	exitOK      = 0
	exitUsage   = 64 // 用法错误
	exitData    = 65 // 编译期错误（扫描/解析/静态解析诊断）
	exitNoInput = 66 // 脚本文件不可读
	exitRuntime = 70 // 运行时错误
)

// 全局语言参数
var globalLang string

// 调试选项
var (
	dumpTokens bool
	dumpAST    bool
)

func main() {
	args := preprocessArgs(os.Args[1:])

	i18n.SetLanguageFromString(globalLang)

	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "Usage: riva [script]")
		os.Exit(exitUsage)
	}

	if len(args) == 1 {
		runFile(args[0])
		return
	}

	runPrompt()
}

// preprocessArgs 提取全局选项，返回余下的位置参数
//
// 支持 --lang <en|zh>（及 -lang、--lang=）、-tokens、-ast；
// -h/--help/help 打印用法、-v/--version/version 打印版本，二者都以 0 退出；
// 其余带 - 前缀的参数视为用法错误。
func preprocessArgs(args []string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--lang" || arg == "-lang":
			if i+1 < len(args) {
				globalLang = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "--lang="):
			globalLang = strings.TrimPrefix(arg, "--lang=")
		case arg == "-tokens" || arg == "--tokens":
			dumpTokens = true
		case arg == "-ast" || arg == "--ast":
			dumpAST = true
		case arg == "-h" || arg == "--help" || arg == "help":
			printUsage()
			os.Exit(exitOK)
		case arg == "-v" || arg == "--version" || arg == "version":
			fmt.Printf("riva %s\n", Version)
			os.Exit(exitOK)
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
			fmt.Fprintln(os.Stderr, "Usage: riva [script]")
			os.Exit(exitUsage)
		default:
			result = append(result, arg)
		}
	}
	return result
}

func printUsage() {
	fmt.Printf("Riva %s\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  riva [options] [script]")
	fmt.Println()
	fmt.Println("Without a script, riva starts an interactive prompt.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -tokens         Print the token stream instead of executing")
	fmt.Println("  -ast            Print the parsed AST instead of executing")
	fmt.Println("  --lang <en|zh>  Diagnostic message language")
	fmt.Println("  -v, --version   Print version")
	fmt.Println("  -h, --help      Show this help")
}

// runFile 执行脚本文件，按诊断标志映射退出码
func runFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read script: %v\n", err)
		os.Exit(exitNoInput)
	}

	cfg := config.LoadForPath(path)
	rt := runtime.New(os.Stdout, os.Stderr, cfg.Diagnostics.WarnUnused)

	if dumpTokens {
		for _, tok := range rt.Tokens(string(data), path) {
			fmt.Println(tok.String())
		}
		exitFromFlags(rt)
		return
	}

	if dumpAST {
		for _, stmt := range rt.Parse(string(data), path) {
			fmt.Println(stmt.String())
		}
		exitFromFlags(rt)
		return
	}

	rt.Run(string(data), path)
	exitFromFlags(rt)
}

// exitFromFlags 把诊断标志映射为退出码
func exitFromFlags(rt *runtime.Runtime) {
	reporter := rt.Reporter()
	if reporter.HadError() {
		os.Exit(exitData)
	}
	if reporter.HadRuntimeError() {
		os.Exit(exitRuntime)
	}
	os.Exit(exitOK)
}

// runPrompt 启动交互模式
func runPrompt() {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg := config.LoadForPath(wd)

	r := repl.New(cfg, os.Stdin, os.Stdout, os.Stderr)
	r.Run()
}
