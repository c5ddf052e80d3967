package surface

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrDecode 表示图片源无法读取或解码。LoadImage 返回的错误都包装了它。
var ErrDecode = errors.New("图片解码失败")

// Source 打开一个待解码的图片字节流。每次调用都应返回新的 reader。
type Source func() (io.ReadCloser, error)

// FileSource 从本地文件读取图片。
func FileSource(path string) Source {
	return func() (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("无法打开图片 %s: %w", path, err)
		}
		return f, nil
	}
}

// BytesSource 使用内存中的图片字节。
func BytesSource(data []byte) Source {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

// ReaderSource 包装一个只能读取一次的 reader。
func ReaderSource(r io.Reader) Source {
	return func() (io.ReadCloser, error) {
		if rc, ok := r.(io.ReadCloser); ok {
			return rc, nil
		}
		return io.NopCloser(r), nil
	}
}

// DataURLSource 解析 data:<mime>;base64,<payload> 形式的图片。
// 缺少 ;base64 标记时按百分号编码的原文处理。
func DataURLSource(dataURL string) Source {
	return func() (io.ReadCloser, error) {
		data, _, err := ParseDataURL(dataURL)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

// ParseDataURL 拆分 data URL，返回载荷字节与 MIME 类型，缺省 MIME 为 image/png。
func ParseDataURL(s string) ([]byte, string, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, "", fmt.Errorf("不是 data URL")
	}
	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return nil, "", fmt.Errorf("data URL 缺少逗号分隔的载荷")
	}
	du, err := dataurl.DecodeString(s)
	if err != nil && strings.HasSuffix(header, ";base64") {
		// 部分浏览器导出时省略了填充
		if pad := len(payload) % 4; pad != 0 {
			du, err = dataurl.DecodeString(s + strings.Repeat("=", 4-pad))
		}
	}
	if err != nil {
		return nil, "", fmt.Errorf("data URL 解码失败: %w", err)
	}
	mime := du.ContentType()
	if header == "data:" || header == "data:;base64" {
		mime = "image/png"
	}
	return du.Data, mime, nil
}

// decode 读取并解码图片，格式由已注册的解码器（png/jpeg/gif/webp/bmp）嗅探。
func decode(src Source) (image.Image, string, error) {
	if src == nil {
		return nil, "", fmt.Errorf("%w: 图片源为空", ErrDecode)
	}
	rc, err := src()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer rc.Close()
	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("%w: 图片尺寸为空", ErrDecode)
	}
	return img, format, nil
}
