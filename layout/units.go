package layout

// 画布渲染器以毫米为长度单位、以点（pt）为字号单位。
// 光栅化时使用 1 像素/毫米的分辨率，因此画布上的 1 像素与渲染器中的 1 毫米一一对应。

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PxToPt 将画布像素字号转换为渲染器使用的点数。
func PxToPt(px float64) float64 { return px * MmToPt }

// PtToPx 将点数转换回画布像素。
func PtToPx(pt float64) float64 { return pt * PtToMm }

// FlipY 将左上角原点的 y 坐标转换为左下角原点（笛卡尔第一象限）坐标。
func FlipY(y, height float64) float64 { return height - y }
