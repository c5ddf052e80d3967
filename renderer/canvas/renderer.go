package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"

	"github.com/ByLCY/memesmith/fonts"
	"github.com/ByLCY/memesmith/layout"
	"github.com/ByLCY/memesmith/renderer"
)

// 占位画面与选中框的固定样式。
var (
	placeholderFill = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	placeholderText = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	selectionStroke = color.NRGBA{R: 0, G: 123, B: 255, A: 204}
	transparent     = color.NRGBA{}
	white           = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black           = color.NRGBA{A: 255}
)

// 占位提示文字使用的字体。
var placeholderFont = layout.Font{Family: "Segoe UI", Size: 20}

const (
	selectionWidth = 2.0
	selectionDash  = 6.0
	selectionGap   = 3.0
)

// Renderer draws caption frames via github.com/tdewolff/canvas and measures text with the same faces,
// so layout widths and painted glyphs never disagree.
type Renderer struct {
	fonts *fonts.Registry

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily

	bgMu     sync.Mutex
	bgSource image.Image
	bgScaled *image.RGBA
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// NewRenderer creates a renderer resolving font families through reg. A nil registry only knows the fallback fonts.
func NewRenderer(reg *fonts.Registry) *Renderer {
	if reg == nil {
		reg = fonts.NewRegistry()
	}
	return &Renderer{
		fonts:    reg,
		families: map[string]*canvas.FontFamily{},
	}
}

// TextWidth 实现 layout.Typesetter，返回单行文本的像素宽度。字号非正时宽度为 0。
func (r *Renderer) TextWidth(text string, font layout.Font) float64 {
	if font.Size <= 0 || text == "" {
		return 0
	}
	face, err := r.fontFace(font, black)
	if err != nil {
		return 0
	}
	return face.TextWidth(text)
}

// Render 将 frame 光栅化。画布以毫米为单位，按 1 像素/毫米输出，因此图像尺寸与 frame 一致。
func (r *Renderer) Render(frame *layout.Frame) (*image.RGBA, error) {
	if frame == nil {
		return nil, fmt.Errorf("渲染帧为空")
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %dx%d", frame.Width, frame.Height)
	}
	w, h := float64(frame.Width), float64(frame.Height)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)

	if err := r.drawBackground(ctx, frame); err != nil {
		return nil, err
	}
	for _, pc := range frame.Captions {
		if pc.Selected {
			drawSelection(ctx, pc.Box, h)
		}
		if err := r.drawCaption(ctx, pc, h); err != nil {
			return nil, err
		}
	}
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}

func (r *Renderer) drawBackground(ctx *canvas.Context, frame *layout.Frame) error {
	w, h := float64(frame.Width), float64(frame.Height)
	if frame.Background != nil {
		ctx.DrawImage(0, 0, r.scaledBackground(frame.Background, frame.Width, frame.Height), canvas.DPMM(1.0))
		return nil
	}

	ctx.Push()
	defer ctx.Pop()
	ctx.SetFillColor(placeholderFill)
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	if frame.Placeholder == "" {
		return nil
	}
	face, err := r.fontFace(placeholderFont, placeholderText)
	if err != nil {
		return err
	}
	// 与浏览器 fillText 的默认基线一致：文字基线落在画布中心
	ctx.DrawText(w/2, layout.FlipY(h/2, h), canvas.NewTextLine(face, frame.Placeholder, canvas.Center))
	return nil
}

// scaledBackground 把背景拉伸到画布尺寸；拖拽时每次移动都会重绘，因此缓存最近一次的缩放结果。
func (r *Renderer) scaledBackground(src image.Image, w, h int) *image.RGBA {
	r.bgMu.Lock()
	defer r.bgMu.Unlock()
	if r.bgScaled != nil && r.bgSource == src && r.bgScaled.Bounds().Dx() == w && r.bgScaled.Bounds().Dy() == h {
		return r.bgScaled
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	r.bgSource = src
	r.bgScaled = dst
	return dst
}

func drawSelection(ctx *canvas.Context, box layout.Box, surfaceHeight float64) {
	ctx.Push()
	defer ctx.Pop()
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(selectionStroke)
	ctx.SetStrokeWidth(selectionWidth)
	ctx.SetDashes(0, selectionDash, selectionGap)
	ctx.DrawPath(box.X, layout.FlipY(box.Y+box.Height, surfaceHeight), canvas.Rectangle(box.Width, box.Height))
}

// drawCaption 逐行绘制：先描边（宽度为 outlineWidth 的两倍、圆角连接），再填充。
func (r *Renderer) drawCaption(ctx *canvas.Context, pc layout.PlacedCaption, surfaceHeight float64) error {
	c := pc.Caption
	if c.FontSize <= 0 {
		return nil
	}
	fill := layout.ColorOr(c.FontColor, white)
	outline := layout.ColorOr(c.OutlineColor, black)
	face, err := r.fontFace(c.Font(), fill)
	if err != nil {
		return err
	}
	ascent := face.Metrics().Ascent

	ctx.Push()
	defer ctx.Pop()
	for _, line := range pc.Lines {
		if line.Content == "" {
			continue
		}
		baseline := layout.FlipY(line.Y+ascent, surfaceHeight)
		glyphs, advance, err := face.ToPath(line.Content)
		if err != nil {
			// 无法取得字形轮廓时退化为仅填充
			ctx.DrawText(line.X, baseline, canvas.NewTextLine(face, line.Content, canvas.Center))
			continue
		}
		x := line.X - advance/2
		if c.OutlineWidth > 0 {
			ctx.SetFillColor(transparent)
			ctx.SetStrokeColor(outline)
			ctx.SetStrokeWidth(c.OutlineWidth * 2)
			ctx.SetStrokeJoiner(canvas.RoundJoin)
			ctx.DrawPath(x, baseline, glyphs)
		}
		ctx.SetFillColor(fill)
		ctx.SetStrokeColor(transparent)
		ctx.DrawPath(x, baseline, glyphs)
	}
	return nil
}

func (r *Renderer) fontFace(font layout.Font, col color.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.PxToPt(font.Size), col, canvas.FontRegular, canvas.FontNormal), nil
}

// ensureFontFamily 为每个（字体族, 变体）组合缓存一个只含单一字形的 FontFamily。
func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, error) {
	data, resolved, style := r.fonts.Resolve(font.Family, fonts.StyleOf(font.Bold, font.Italic))
	key := fmt.Sprintf("%s|%s", resolved, style)

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if family, ok := r.families[key]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(key)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		if resolved == fonts.FallbackFamily {
			return nil, fmt.Errorf("加载内置字体失败: %w", err)
		}
		// 用户字体损坏时回退到内置字体
		family = canvas.NewFontFamily(key)
		if err := family.LoadFont(fonts.Fallback(style), 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载内置字体失败: %w", err)
		}
	}
	r.families[key] = family
	return family, nil
}
