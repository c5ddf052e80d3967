// Package editor 汇集交互式编辑器的控件逻辑，供桌面与终端两种界面共用。
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ByLCY/memesmith/debounce"
	"github.com/ByLCY/memesmith/layout"
	"github.com/ByLCY/memesmith/pointer"
	"github.com/ByLCY/memesmith/renderer"
	"github.com/ByLCY/memesmith/surface"
	"github.com/ByLCY/memesmith/template"
)

// DefaultResizeDebounce 是窗口尺寸变化的默认防抖间隔。
const DefaultResizeDebounce = 200 * time.Millisecond

// NoSelectionLabel 是没有选中字幕时的提示。
const NoSelectionLabel = "No text selected"

const labelPreviewRunes = 20

// FontFamilies 是字体下拉框的候选项。
var FontFamilies = []string{"Impact", "Arial", "Comic Sans MS", "Times New Roman", "Courier New", "Georgia"}

// 样式控件的取值范围（像素）。
const (
	MinFontSize     = 16
	MaxFontSize     = 80
	MaxOutlineWidth = 8
)

// Options 配置 Session。
type Options struct {
	Catalog        template.Catalog
	AssetsDir      string
	ResizeDebounce time.Duration
	Logger         *slog.Logger
	// Now 用于生成导出文件名，测试时可替换。
	Now func() time.Time
}

// Session 将一个画布引擎与其指针控制器绑定，并提供编辑器按钮对应的操作。
type Session struct {
	Engine  *surface.Engine
	Pointer *pointer.Controller

	catalog   template.Catalog
	assetsDir string
	log       *slog.Logger
	now       func() time.Time

	resize       *debounce.Debouncer
	mu           sync.Mutex
	pendingWidth float64
}

// New 创建 Session。
func New(e *surface.Engine, opts Options) *Session {
	if opts.Catalog.Templates == nil {
		opts.Catalog = template.Builtin()
	}
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = DefaultResizeDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		Engine:    e,
		Pointer:   pointer.New(e),
		catalog:   opts.Catalog,
		assetsDir: opts.AssetsDir,
		log:       opts.Logger,
		now:       opts.Now,
	}
	s.resize = debounce.New(opts.ResizeDebounce, s.applyResize)
	return s
}

// Catalog 返回可选模板。
func (s *Session) Catalog() template.Catalog { return s.catalog }

// SelectTemplate 加载指定模板并添加其预设字幕。
func (s *Session) SelectTemplate(ctx context.Context, name string) error {
	d, err := s.catalog.Find(name)
	if err != nil {
		return err
	}
	if _, err := template.Apply(ctx, s.Engine, d, s.assetsDir); err != nil {
		return err
	}
	s.log.Info("已应用模板", "name", d.Name)
	return nil
}

// Upload 加载用户图片并添加顶部与底部字幕。
func (s *Session) Upload(ctx context.Context, src surface.Source) error {
	_, err := template.ApplyUpload(ctx, s.Engine, src)
	return err
}

// SetTopText 修改第一条字幕的文本，没有字幕时什么也不做。
func (s *Session) SetTopText(text string) {
	if s.Engine.Len() >= 1 {
		s.Engine.UpdateCaption(0, layout.Patch{Text: &text})
	}
}

// SetBottomText 修改第二条字幕的文本，不足两条时什么也不做。
func (s *Session) SetBottomText(text string) {
	if s.Engine.Len() >= 2 {
		s.Engine.UpdateCaption(1, layout.Patch{Text: &text})
	}
}

// TopBottom 返回前两条字幕的文本，缺失的为空串。
func (s *Session) TopBottom() (string, string) {
	var top, bottom string
	if c, ok := s.Engine.Caption(0); ok {
		top = c.Text
	}
	if c, ok := s.Engine.Caption(1); ok {
		bottom = c.Text
	}
	return top, bottom
}

// AddCustom 在画布中央添加一条自定义字幕并选中它。
func (s *Session) AddCustom() int {
	w, h := s.Engine.Dimensions()
	idx := s.Engine.AddCaption(template.CustomCaption(w, h))
	s.Engine.SetSelected(idx)
	return idx
}

// RemoveSelected 删除选中的字幕，没有选中时返回 false。
func (s *Session) RemoveSelected() bool {
	sel := s.Engine.Selected()
	if sel < 0 {
		return false
	}
	s.Engine.RemoveCaption(sel)
	return true
}

// ApplyToSelected 将 p 合并到选中的字幕，没有选中时返回 false。
func (s *Session) ApplyToSelected(p layout.Patch) bool {
	sel := s.Engine.Selected()
	if sel < 0 {
		return false
	}
	if _, ok := s.Engine.Caption(sel); !ok {
		return false
	}
	s.Engine.UpdateCaption(sel, p)
	return true
}

// SelectedCaption 返回选中的字幕。
func (s *Session) SelectedCaption() (layout.Caption, bool) {
	return s.Engine.Caption(s.Engine.Selected())
}

// ClearAll 清空全部字幕。
func (s *Session) ClearAll() {
	s.Engine.ClearAll()
}

// SelectionLabel 返回选中字幕的简短描述，超过 20 个字符时截断。
func (s *Session) SelectionLabel() string {
	c, ok := s.SelectedCaption()
	if !ok {
		return NoSelectionLabel
	}
	return Label(c.Text)
}

// Label 格式化选中提示，例如 Selected: "Top text"。
func Label(text string) string {
	if utf8.RuneCountInString(text) > labelPreviewRunes {
		runes := []rune(text)
		return fmt.Sprintf(`Selected: "%s..."`, string(runes[:labelPreviewRunes]))
	}
	return fmt.Sprintf(`Selected: "%s"`, text)
}

// Export 将不带选中框的 PNG 写入 dir，文件名为 meme-<毫秒时间戳>.png。
func (s *Session) Export(dir string) (string, error) {
	data, err := s.Engine.ExportPNG()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建导出目录失败: %w", err)
	}
	path := filepath.Join(dir, renderer.ExportName(s.now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入导出文件失败: %w", err)
	}
	s.log.Info("已导出", "path", path, "bytes", len(data))
	return path, nil
}

// Resize 记录新的容器宽度，静默一段时间后再重算画布尺寸并重绘。
func (s *Session) Resize(containerWidth float64) {
	s.mu.Lock()
	s.pendingWidth = containerWidth
	s.mu.Unlock()
	s.resize.Trigger()
}

// FlushResize 立即执行等待中的尺寸重算。
func (s *Session) FlushResize() {
	s.resize.Flush()
}

// Close 取消等待中的尺寸重算。
func (s *Session) Close() {
	s.resize.Stop()
}

func (s *Session) applyResize() {
	s.mu.Lock()
	w := s.pendingWidth
	s.mu.Unlock()
	s.Engine.SetContainerWidth(w)
	s.Engine.ResizeToImage()
	s.log.Debug("画布尺寸已更新", "container", w)
}
