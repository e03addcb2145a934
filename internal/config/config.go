// Package config 加载 riva.toml 项目配置
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName 配置文件名
const ConfigFileName = "riva.toml"

// Config 解释器配置
type Config struct {
	REPL        REPLConfig        `toml:"repl"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	LSP         LSPConfig         `toml:"lsp"`
}

// REPLConfig 交互模式配置
type REPLConfig struct {
	// Prompt 主提示符
	Prompt string `toml:"prompt"`

	// PromptContinue 多行输入的续行提示符
	PromptContinue string `toml:"prompt_continue"`
}

// DiagnosticsConfig 诊断配置
type DiagnosticsConfig struct {
	// WarnUnused 是否对从未使用的局部变量发出警告
	WarnUnused bool `toml:"warn_unused"`
}

// LSPConfig 语言服务器配置
type LSPConfig struct {
	// Log 调试日志文件路径（空则输出到 stderr）
	Log string `toml:"log"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt:         "> ",
			PromptContinue: "... ",
		},
		Diagnostics: DiagnosticsConfig{
			WarnUnused: true,
		},
	}
}

// Load 从文件加载配置
//
// 文件中出现的键覆盖默认值，未出现的键保持默认。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// FindConfigFile 从指定路径向上查找配置文件
//
// 返回配置文件的完整路径，找不到则返回空字符串。
func FindConfigFile(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	var dir string
	if info.IsDir() {
		dir = startPath
	} else {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadForPath 查找并加载 startPath 所在项目的配置
//
// 找不到配置文件或文件损坏时回退到默认配置。
func LoadForPath(startPath string) *Config {
	configPath := FindConfigFile(startPath)
	if configPath == "" {
		return Default()
	}

	config, err := Load(configPath)
	if err != nil {
		return Default()
	}
	return config
}
