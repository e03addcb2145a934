package lsp

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger 创建 LSP 调试日志器
//
// 通过环境变量 RIVA_LSP_DEBUG 启用（1/true/on）。未启用时返回
// no-op 日志器。logPath 非空时写入文件，否则写到 stderr——
// stdout 被 LSP 协议占用，不能向它输出日志。
func NewLogger(logPath string) *zap.SugaredLogger {
	debug := os.Getenv("RIVA_LSP_DEBUG")
	enabled := debug == "1" || debug == "true" || debug == "on"
	if !enabled {
		return zap.NewNop().Sugar()
	}

	cfg := zap.NewDevelopmentConfig()
	if logPath != "" {
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
