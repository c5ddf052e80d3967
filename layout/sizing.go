package layout

import "math"

// DefaultMaxHeight 是画布高度上限（像素）。
const DefaultMaxHeight = 700.0

// 未加载图片时的初始画布尺寸。
const (
	DefaultSurfaceWidth  = 600
	DefaultSurfaceHeight = 500
)

// FitSurface 按图片原始宽高比计算画布尺寸：宽度不超过容器可用宽度，高度不超过 maxHeight，
// 结果四舍五入为整数像素。containerWidth <= 0 表示不限制宽度，maxHeight <= 0 使用默认上限。
func FitSurface(naturalWidth, naturalHeight int, containerWidth, maxHeight float64) (int, int) {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return 0, 0
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	ratio := float64(naturalHeight) / float64(naturalWidth)
	w := float64(naturalWidth)
	if containerWidth > 0 {
		w = math.Min(w, containerWidth)
	}
	h := w * ratio
	if h > maxHeight {
		h = maxHeight
		w = h / ratio
	}
	return int(math.Round(w)), int(math.Round(h))
}
