package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/memesmith/layout"
)

// monoTypesetter 假设每个字符宽度为字号的一半。
type monoTypesetter struct{}

func (monoTypesetter) TextWidth(text string, font layout.Font) float64 {
	if font.Size <= 0 {
		return 0
	}
	return float64(utf8.RuneCountInString(text)) * font.Size * 0.5
}

// recordingRenderer 记录每一帧；输出图像的左上角像素编码了选中框数量与字幕数量。
type recordingRenderer struct {
	mu     sync.Mutex
	frames []*layout.Frame
}

func (r *recordingRenderer) Render(frame *layout.Frame) (*image.RGBA, error) {
	r.mu.Lock()
	r.frames = append(r.frames, frame)
	r.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	selected := 0
	for _, c := range frame.Captions {
		if c.Selected {
			selected++
		}
	}
	img.Set(0, 0, color.RGBA{R: uint8(selected), G: uint8(len(frame.Captions)), A: 255})
	return img, nil
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recordingRenderer) lastFrame() *layout.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func newTestEngine(opts Options) (*Engine, *recordingRenderer) {
	r := &recordingRenderer{}
	return New(monoTypesetter{}, r, opts), r
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("编码测试图片失败: %v", err)
	}
	return buf.Bytes()
}
