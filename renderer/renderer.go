package renderer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/vincent-petithory/dataurl"

	"github.com/ByLCY/memesmith/layout"
)

// Renderer 将一帧排版结果光栅化为与画布等大的 RGBA 图像。
// 实现必须是纯函数：相同的 Frame 总是得到逐像素相同的结果。
type Renderer interface {
	Render(frame *layout.Frame) (*image.RGBA, error)
}

// DataURLPrefix 是导出 PNG 数据 URL 的前缀。
const DataURLPrefix = "data:image/png;base64,"

// EncodePNG 将图像编码为 PNG 字节。
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("没有可编码的图像")
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL 将 PNG 字节包装为可直接下载或上传的数据 URL。
func DataURL(pngBytes []byte) string {
	return dataurl.New(pngBytes, "image/png").String()
}

// ExportName 返回导出文件名，例如 meme-1770875450632.png。
func ExportName(t time.Time) string {
	return fmt.Sprintf("meme-%d.png", t.UnixMilli())
}
