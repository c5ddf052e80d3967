package layout

// 排版常量：与现有模板的锚点比例配套，修改会导致已有模板的字幕位置漂移。
const (
	// WrapRatio 是折行宽度占画布宽度的比例。
	WrapRatio = 0.9
	// LineHeightFactor 是行高与字号的比值。
	LineHeightFactor = 1.2
	// BoxPadding 是包围盒四周的留白（像素）。
	BoxPadding = 8.0
)

// Typesetter 负责测量单行文本在指定字体下的宽度（像素）。
// 实现必须是确定性的：相同输入总是返回相同宽度。
type Typesetter interface {
	TextWidth(text string, font Font) float64
}

// TypesetterFunc 允许用普通函数充当 Typesetter。
type TypesetterFunc func(text string, font Font) float64

// TextWidth 实现 Typesetter。
func (f TypesetterFunc) TextWidth(text string, font Font) float64 { return f(text, font) }
