package layout

import "unicode/utf8"

// monoTypesetter 是测试用的等宽排版器：每个字符宽 0.5 × 字号，避免测试依赖真实字体。
type monoTypesetter struct{}

func (monoTypesetter) TextWidth(text string, font Font) float64 {
	return float64(utf8.RuneCountInString(text)) * font.Size * 0.5
}
