package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tangzhangming/riva/internal/runtime"
)

// ============================================================================
// 基准测试执行器
// ============================================================================
//
// 在进程内执行 .riva 脚本，捕获 stdout/stderr 和两个诊断标志，
// 与 testdata/expected/ 下的基准输出比对。失败时给出文本 diff。
//
// 基准文件只记录 stdout；stderr 和标志由测试直接断言。
// 设 RIVA_UPDATE_GOLDEN=1 运行测试可重新生成基准文件。
//
// ============================================================================

// Result 一次脚本执行的观测结果
type Result struct {
	Stdout          string
	Stderr          string
	HadError        bool
	HadRuntimeError bool
}

// RunSource 在进程内执行一段源代码
func RunSource(source, filename string, warnUnused bool) Result {
	var stdout, stderr bytes.Buffer

	rt := runtime.New(&stdout, &stderr, warnUnused)
	rt.Run(source, filename)

	return Result{
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		HadError:        rt.Reporter().HadError(),
		HadRuntimeError: rt.Reporter().HadRuntimeError(),
	}
}

// RunFile 执行脚本文件
func RunFile(path string, warnUnused bool) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return RunSource(string(data), path, warnUnused), nil
}

// GoldenPath 返回脚本对应的基准输出文件路径
//
// testdata/foo.riva → testdata/expected/foo.out
func GoldenPath(scriptPath string) string {
	dir := filepath.Dir(scriptPath)
	base := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	return filepath.Join(dir, "expected", base+".out")
}

// UpdateGolden 是否处于基准重新生成模式
func UpdateGolden() bool {
	v := os.Getenv("RIVA_UPDATE_GOLDEN")
	return v == "1" || v == "true"
}

// WriteGolden 写出基准输出文件
func WriteGolden(scriptPath, output string) error {
	goldenPath := GoldenPath(scriptPath)
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(goldenPath, []byte(output), 0644)
}

// ReadGolden 读取基准输出；文件不存在时返回空串
func ReadGolden(scriptPath string) string {
	data, err := os.ReadFile(GoldenPath(scriptPath))
	if err != nil {
		return ""
	}
	return string(data)
}

// Normalize 归一化输出文本：去除首尾空白，统一换行为 \n
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}

// Diff 返回 expected 与 actual 的文本差异（用于失败输出）
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	return dmp.DiffPrettyText(diffs)
}
