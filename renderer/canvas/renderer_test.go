package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/ByLCY/memesmith/fonts"
	"github.com/ByLCY/memesmith/layout"
)

func TestTextWidthUsesFallbackFont(t *testing.T) {
	r := NewRenderer(nil)
	font := layout.Font{Family: "Impact", Size: 40}

	short := r.TextWidth("Top", font)
	long := r.TextWidth("Top text here", font)
	if short <= 0 || long <= short {
		t.Fatalf("宽度应为正且随文本增长: short=%g long=%g", short, long)
	}
	if again := r.TextWidth("Top text here", font); again != long {
		t.Fatalf("测量结果不稳定: %g vs %g", long, again)
	}
	bigger := r.TextWidth("Top text here", layout.Font{Family: "Impact", Size: 80})
	if bigger <= long {
		t.Fatalf("字号翻倍后宽度应增大: %g vs %g", bigger, long)
	}
	if w := r.TextWidth("x", layout.Font{Family: "Impact", Size: 0}); w != 0 {
		t.Fatalf("字号为 0 时宽度应为 0, got %g", w)
	}
	if w := r.TextWidth("x", layout.Font{Family: "Impact", Size: -10}); w != 0 {
		t.Fatalf("负字号时宽度应为 0, got %g", w)
	}
}

func TestBoldIsWiderThanRegular(t *testing.T) {
	r := NewRenderer(fonts.NewRegistry())
	// W 在 Go Regular 与 Go Bold 中步进相同，需用窄字形与常用词混合测量
	text := "iiiillll Hello world mm"
	regular := r.TextWidth(text, layout.Font{Family: "sans-serif", Size: 30})
	bold := r.TextWidth(text, layout.Font{Family: "sans-serif", Size: 30, Bold: true})
	if bold <= regular {
		t.Fatalf("粗体宽度应大于常规: bold=%g regular=%g", bold, regular)
	}
}

func TestRenderPlaceholder(t *testing.T) {
	r := NewRenderer(nil)
	frame := &layout.Frame{Width: 120, Height: 80, Placeholder: "Select a template or upload an image"}
	img, err := r.Render(frame)
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 120, 80) {
		t.Fatalf("图像尺寸错误: %v", img.Bounds())
	}
	assertNear(t, img.RGBAAt(1, 1), color.RGBA{0x1a, 0x1a, 0x2e, 0xff})
}

func TestRenderStretchesBackground(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			bg.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	r := NewRenderer(nil)
	img, err := r.Render(&layout.Frame{Width: 60, Height: 40, Background: bg, HasImage: true})
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	for _, p := range []image.Point{{2, 2}, {30, 20}, {57, 37}} {
		assertNear(t, img.RGBAAt(p.X, p.Y), color.RGBA{200, 0, 0, 255})
	}
}

func TestRenderIsDeterministicAndDrawsCaptions(t *testing.T) {
	r := NewRenderer(nil)
	caption := layout.DefaultCaption(200, 120)
	caption.Text = "HELLO"
	caption.FontSize = 30

	plain := layout.Compose(200, 120, nil, layout.NoSelection, r)
	plain.Placeholder = "x"
	withCaption := layout.Compose(200, 120, []layout.Caption{caption}, layout.NoSelection, r)
	withCaption.Placeholder = "x"
	selected := layout.Compose(200, 120, []layout.Caption{caption}, 0, r)
	selected.Placeholder = "x"

	a := mustRender(t, r, withCaption)
	b := mustRender(t, r, withCaption)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("同一帧两次渲染结果不同")
	}
	if bytes.Equal(a.Pix, mustRender(t, r, plain).Pix) {
		t.Fatalf("字幕未被绘制")
	}
	if bytes.Equal(a.Pix, mustRender(t, r, selected).Pix) {
		t.Fatalf("选中框未被绘制")
	}
}

func TestRenderRejectsEmptyFrame(t *testing.T) {
	r := NewRenderer(nil)
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil 帧应返回错误")
	}
	if _, err := r.Render(&layout.Frame{}); err == nil {
		t.Fatalf("零尺寸帧应返回错误")
	}
}

func TestNegativeFontSizeDoesNotPanic(t *testing.T) {
	r := NewRenderer(nil)
	c := layout.DefaultCaption(100, 100)
	c.FontSize = -5
	frame := layout.Compose(100, 100, []layout.Caption{c}, 0, r)
	if _, err := r.Render(frame); err != nil {
		t.Fatalf("负字号不应导致渲染失败: %v", err)
	}
}

func mustRender(t *testing.T, r *Renderer, frame *layout.Frame) *image.RGBA {
	t.Helper()
	img, err := r.Render(frame)
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	return img
}

func assertNear(t *testing.T, got, want color.RGBA) {
	t.Helper()
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	if d(got.R, want.R) > 3 || d(got.G, want.G) > 3 || d(got.B, want.B) > 3 || d(got.A, want.A) > 3 {
		t.Fatalf("像素颜色不符: got=%v want=%v", got, want)
	}
}
