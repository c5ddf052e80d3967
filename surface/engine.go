package surface

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"slices"
	"sync"

	"github.com/ByLCY/memesmith/layout"
	"github.com/ByLCY/memesmith/renderer"
)

// DefaultPlaceholder 是未加载图片时画面中央的提示文字。
const DefaultPlaceholder = "Select a template or upload an image"

// Options 配置一个 Engine。零值字段使用默认值。
type Options struct {
	Width  int // 初始画布宽度，默认 600
	Height int // 初始画布高度，默认 500
	// ContainerWidth 是画布可用的最大显示宽度，<= 0 表示不限制。
	ContainerWidth float64
	MaxHeight      float64 // 默认 700
	Placeholder    string
	Logger         *slog.Logger
	// OnRender 在每次重绘后以新图像调用，调用时不持有引擎锁。
	// 回调按重绘顺序串行执行，晚于已送达帧的旧帧会被丢弃；回调内不能同步修改引擎。
	OnRender func(img *image.RGBA)
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = layout.DefaultSurfaceWidth
	}
	if o.Height <= 0 {
		o.Height = layout.DefaultSurfaceHeight
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = layout.DefaultMaxHeight
	}
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Engine 持有一块画布的全部状态：有序字幕、选中下标、背景图与画布尺寸。
// 所有操作都经由互斥锁串行执行，渲染总能看到一致的状态。
type Engine struct {
	ts       layout.Typesetter
	r        renderer.Renderer
	log      *slog.Logger
	onRender func(*image.RGBA)

	placeholder string
	maxHeight   float64

	mu             sync.Mutex
	captions       []layout.Caption
	selected       int
	background     image.Image
	naturalW       int
	naturalH       int
	width          int
	height         int
	containerWidth float64
	frame          *layout.Frame
	last           *image.RGBA
	seq            uint64 // 每成功重绘一次加一

	// emitMu 串行化 OnRender，delivered 是最近送达的帧序号
	emitMu    sync.Mutex
	delivered uint64
}

// New 创建引擎并绘制首帧（占位画面）。
func New(ts layout.Typesetter, r renderer.Renderer, opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		ts:             ts,
		r:              r,
		log:            opts.Logger,
		onRender:       opts.OnRender,
		placeholder:    opts.Placeholder,
		maxHeight:      opts.MaxHeight,
		selected:       layout.NoSelection,
		width:          opts.Width,
		height:         opts.Height,
		containerWidth: opts.ContainerWidth,
	}
	e.mutate(func() {})
	return e
}

// LoadImage 在后台解码图片。成功后替换背景、按尺寸策略重算画布大小并重绘；
// 失败时状态保持不变。已有字幕不会被清除。
// 多次调用互相竞争，最后完成的那次生效。
func (e *Engine) LoadImage(src Source) *Pending {
	p := newPending()
	go func() {
		img, format, err := decode(src)
		if err != nil {
			e.log.Warn("图片加载失败", "err", err)
			p.resolve(err)
			return
		}
		b := img.Bounds()
		e.mutate(func() {
			e.background = img
			e.naturalW, e.naturalH = b.Dx(), b.Dy()
			e.resizeLocked()
		})
		e.log.Debug("图片已加载", "format", format, "width", b.Dx(), "height", b.Dy())
		p.resolve(nil)
	}()
	return p
}

// LoadImageSync 加载图片并等待完成。
func (e *Engine) LoadImageSync(ctx context.Context, src Source) error {
	return e.LoadImage(src).Wait(ctx)
}

// AddCaption 以默认字幕为底合并 p，追加到末尾（最上层），返回新下标。
func (e *Engine) AddCaption(p layout.Patch) int {
	var idx int
	e.mutate(func() {
		c := p.Apply(layout.DefaultCaption(e.width, e.height))
		e.captions = append(e.captions, c)
		idx = len(e.captions) - 1
	})
	return idx
}

// UpdateCaption 将 p 中设置的字段合并到第 i 条字幕。下标越界时什么也不做。
func (e *Engine) UpdateCaption(i int, p layout.Patch) {
	e.mu.Lock()
	if i < 0 || i >= len(e.captions) {
		e.mu.Unlock()
		return
	}
	e.captions[i] = p.Apply(e.captions[i])
	img, seq := e.redrawLocked()
	e.mu.Unlock()
	e.emit(img, seq)
}

// RemoveCaption 删除第 i 条字幕并修正选中下标：
// 删除的正是选中项时清空选中，删除位置在选中项之前时选中下标减一。
func (e *Engine) RemoveCaption(i int) {
	e.mu.Lock()
	if i < 0 || i >= len(e.captions) {
		e.mu.Unlock()
		return
	}
	e.captions = slices.Delete(e.captions, i, i+1)
	switch {
	case e.selected == i:
		e.selected = layout.NoSelection
	case e.selected > i:
		e.selected--
	}
	img, seq := e.redrawLocked()
	e.mu.Unlock()
	e.emit(img, seq)
}

// SetSelected 按原值记录选中下标并重绘。越界下标不会绘制选中框。
func (e *Engine) SetSelected(i int) {
	e.mutate(func() { e.selected = i })
}

// Selected 返回当前选中下标，无选中时为 layout.NoSelection。
func (e *Engine) Selected() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// ClearAll 清空所有字幕与选中状态，背景保留。
func (e *Engine) ClearAll() {
	e.mutate(func() {
		e.captions = nil
		e.selected = layout.NoSelection
	})
}

// SetCaptions 整体替换字幕列表。选中下标越界时被清空。
func (e *Engine) SetCaptions(captions []layout.Caption) {
	e.mutate(func() {
		e.captions = slices.Clone(captions)
		if e.selected >= len(e.captions) {
			e.selected = layout.NoSelection
		}
	})
}

// Captions 返回字幕列表的副本，按绘制顺序排列。
func (e *Engine) Captions() []layout.Caption {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.captions)
}

// Caption 返回第 i 条字幕。
func (e *Engine) Caption(i int) (layout.Caption, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.captions) {
		return layout.Caption{}, false
	}
	return e.captions[i], true
}

// Len 返回字幕条数。
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.captions)
}

// HitTest 返回包围盒包含 (px, py) 的最上层字幕下标，未命中返回 layout.NoSelection。
func (e *Engine) HitTest(px, py float64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return layout.HitTest(e.captions, px, py, e.width, e.ts)
}

// BoundingBox 按当前画布宽度计算字幕的包围盒。
func (e *Engine) BoundingBox(c layout.Caption) layout.Box {
	e.mu.Lock()
	w := e.width
	e.mu.Unlock()
	return layout.BoundingBox(c, w, e.ts)
}

// Dimensions 返回画布像素尺寸。
func (e *Engine) Dimensions() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// HasImage 报告是否已加载背景图。
func (e *Engine) HasImage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.background != nil
}

// Frame 返回最近一次绘制所用的排版结果。
func (e *Engine) Frame() *layout.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Image 返回最近一次绘制的图像，可能为 nil。
func (e *Engine) Image() *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Render 按当前状态重绘并返回图像。
func (e *Engine) Render() (*image.RGBA, error) {
	e.mu.Lock()
	img, err := e.renderLocked(e.selected)
	var seq uint64
	if err == nil {
		e.last = img
		e.seq++
		seq = e.seq
	}
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	e.emit(img, seq)
	return img, nil
}

// ExportPNG 输出不带选中框的 PNG。选中状态在调用前后保持不变。
func (e *Engine) ExportPNG() ([]byte, error) {
	e.mu.Lock()
	img, err := e.renderLocked(layout.NoSelection)
	restored, seq := e.redrawLocked()
	e.mu.Unlock()
	e.emit(restored, seq)
	if err != nil {
		return nil, fmt.Errorf("导出渲染失败: %w", err)
	}
	return renderer.EncodePNG(img)
}

// ExportDataURL 与 ExportPNG 相同，但返回 data:image/png;base64 形式。
func (e *Engine) ExportDataURL() (string, error) {
	data, err := e.ExportPNG()
	if err != nil {
		return "", err
	}
	return renderer.DataURL(data), nil
}

// ResizeToImage 按图片原始宽高比与当前容器宽度重算画布尺寸。未加载图片时不做任何事。
func (e *Engine) ResizeToImage() {
	e.mutate(e.resizeLocked)
}

// SetSize 显式设置画布尺寸，非正值被忽略。之后加载图片时仍按尺寸策略重算。
func (e *Engine) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.mutate(func() { e.width, e.height = width, height })
}

// SetContainerWidth 更新画布可用的显示宽度，下次 ResizeToImage 或加载图片时生效。
func (e *Engine) SetContainerWidth(w float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.containerWidth = w
}

func (e *Engine) resizeLocked() {
	if e.background == nil {
		return
	}
	w, h := layout.FitSurface(e.naturalW, e.naturalH, e.containerWidth, e.maxHeight)
	if w <= 0 || h <= 0 {
		return
	}
	e.width, e.height = w, h
}

// mutate 在锁内执行 fn 并重绘，锁释放后再通知 OnRender。
func (e *Engine) mutate(fn func()) {
	e.mu.Lock()
	fn()
	img, seq := e.redrawLocked()
	e.mu.Unlock()
	e.emit(img, seq)
}

// redrawLocked 重绘当前状态并返回帧序号。渲染失败时记录日志并保留上一帧。
func (e *Engine) redrawLocked() (*image.RGBA, uint64) {
	img, err := e.renderLocked(e.selected)
	if err != nil {
		e.log.Error("重绘失败", "err", err)
		return nil, 0
	}
	e.last = img
	e.seq++
	return img, e.seq
}

func (e *Engine) renderLocked(selected int) (*image.RGBA, error) {
	frame := layout.Compose(e.width, e.height, e.captions, selected, e.ts)
	frame.Background = e.background
	frame.HasImage = e.background != nil
	if e.background == nil {
		frame.Placeholder = e.placeholder
	}
	if selected == e.selected {
		e.frame = frame
	}
	if e.r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	return e.r.Render(frame)
}

// emit 按序号送达帧。两个 goroutine 的重绘可能以相反顺序到达这里，
// 序号不大于已送达帧的旧帧直接丢弃，观察者看到的最后一帧总是最新状态。
func (e *Engine) emit(img *image.RGBA, seq uint64) {
	if img == nil || e.onRender == nil {
		return
	}
	e.emitMu.Lock()
	defer e.emitMu.Unlock()
	if seq <= e.delivered {
		e.log.Debug("丢弃过期帧", "seq", seq, "delivered", e.delivered)
		return
	}
	e.delivered = seq
	e.onRender(img)
}
