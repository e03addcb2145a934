package diag

import (
	"sort"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// ============================================================================
// 修复建议生成
// ============================================================================
//
// 对未定义名字类的诊断生成 "Did you mean ...?" 建议。
// 候选名按编辑距离排序，距离超过阈值的不采纳。
// 建议只附加在 LSP 诊断上；CLI 的 stderr 输出格式保持不变。
//
// ============================================================================

// maxSuggestionDistance 采纳建议的最大编辑距离
//
// 阈值随名字长度放宽：长度 ≤4 为 1，≤8 为 2，其余为 3。
// 距离按 levenshtein.DefaultOptions 计算：插入、删除各计 1，替换计 2，
// 因此短名字只容忍一次插入或删除，不容忍替换。
func maxSuggestionDistance(name string) int {
	switch {
	case len(name) <= 4:
		return 1
	case len(name) <= 8:
		return 2
	default:
		return 3
	}
}

// Closest 返回与 name 编辑距离最近且不超过阈值的候选名
//
// 没有足够接近的候选时返回空串。
func Closest(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestionDistance(name) + 1

	// 排序保证并列时结果稳定
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	for _, candidate := range sorted {
		if candidate == name {
			continue
		}
		dist := levenshtein.DistanceForStrings(
			[]rune(name), []rune(candidate), levenshtein.DefaultOptions)
		if dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}

	return best
}

// DidYouMean 生成建议文本；没有合适候选时返回空串
func DidYouMean(name string, candidates []string) string {
	closest := Closest(name, candidates)
	if closest == "" {
		return ""
	}
	return "Did you mean '" + closest + "'?"
}
