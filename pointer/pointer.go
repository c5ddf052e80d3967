// Package pointer 将鼠标与触摸输入换算到画布坐标，并驱动字幕的选中、拖拽与释放。
//
// Controller 只持有交互过程中的临时状态（拖拽目标、指针到锚点的偏移），
// 所有持久状态都交给 Surface 维护。
package pointer

import (
	"sync"

	"github.com/ByLCY/memesmith/layout"
)

// Surface 是 Controller 操作的画布。*surface.Engine 实现了该接口。
type Surface interface {
	HitTest(px, py float64) int
	Caption(i int) (layout.Caption, bool)
	SetSelected(i int)
	UpdateCaption(i int, p layout.Patch)
	Dimensions() (int, int)
}

// Kind 是输入事件的类型。
type Kind int

const (
	Press Kind = iota
	Move
	Release
	// Leave 表示指针离开画布，按释放处理。
	Leave
	// Cancel 对应触摸被系统取消，按释放处理。
	Cancel
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	case Leave:
		return "leave"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Device 区分鼠标与触摸。
type Device int

const (
	Mouse Device = iota
	Touch
)

// Size 是画布在屏幕上的显示尺寸。
type Size struct {
	Width  float64
	Height float64
}

// Input 是一次原始指针事件。X/Y 为相对显示区域左上角的坐标。
type Input struct {
	Kind   Kind
	Device Device
	X, Y   float64
	View   Size
}

// Cursor 是悬停时建议的光标样式。
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
)

func (c Cursor) String() string {
	switch c {
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	default:
		return "default"
	}
}

// Result 告诉上层绑定如何处理这次事件。
type Result struct {
	// Consumed 为 true 时应阻止平台默认行为（触摸滚动、缩放）。
	Consumed bool
	Cursor   Cursor
}

// Controller 实现 idle → 选中/拖拽 → idle 的交互状态机。
type Controller struct {
	surface Surface

	mu       sync.Mutex
	dragging bool
	active   int
	offsetX  float64
	offsetY  float64
	cursor   Cursor

	handlers handlerRegistry
}

// New 创建绑定到 s 的控制器。
func New(s Surface) *Controller {
	return &Controller{surface: s, active: layout.NoSelection}
}

// Handle 处理一次输入事件。
func (c *Controller) Handle(in Input) Result {
	switch in.Kind {
	case Press:
		return c.press(in)
	case Move:
		return c.move(in)
	case Release, Leave, Cancel:
		return c.release(in)
	default:
		return Result{Cursor: c.Cursor()}
	}
}

// ToSurface 将显示坐标按 (画布宽/显示宽, 画布高/显示高) 换算为画布坐标。
// 显示尺寸未知（<= 0）时按 1:1 处理。
func (c *Controller) ToSurface(in Input) (float64, float64) {
	w, h := c.surface.Dimensions()
	sx, sy := 1.0, 1.0
	if in.View.Width > 0 {
		sx = float64(w) / in.View.Width
	}
	if in.View.Height > 0 {
		sy = float64(h) / in.View.Height
	}
	return in.X * sx, in.Y * sy
}

func (c *Controller) press(in Input) Result {
	px, py := c.ToSurface(in)
	hit := c.surface.HitTest(px, py)
	anchor, ok := c.surface.Caption(hit)

	c.mu.Lock()
	if hit >= 0 && ok {
		c.dragging = true
		c.active = hit
		c.offsetX = px - anchor.X
		c.offsetY = py - anchor.Y
		c.cursor = CursorGrabbing
	} else {
		hit = layout.NoSelection
		c.dragging = false
		c.active = layout.NoSelection
		c.cursor = CursorDefault
	}
	cursor := c.cursor
	c.mu.Unlock()

	c.surface.SetSelected(hit)
	c.handlers.emit(Event{Type: EventSelect, Index: hit})
	return Result{Consumed: in.Device == Touch, Cursor: cursor}
}

func (c *Controller) move(in Input) Result {
	px, py := c.ToSurface(in)

	c.mu.Lock()
	if c.dragging && c.active >= 0 {
		idx := c.active
		x, y := px-c.offsetX, py-c.offsetY
		c.mu.Unlock()
		c.surface.UpdateCaption(idx, layout.At(x, y))
		return Result{Consumed: in.Device == Touch, Cursor: CursorGrabbing}
	}
	c.mu.Unlock()

	// 触摸没有悬停态
	if in.Device == Touch {
		return Result{Cursor: c.Cursor()}
	}
	cursor := CursorDefault
	if c.surface.HitTest(px, py) >= 0 {
		cursor = CursorGrab
	}
	c.mu.Lock()
	c.cursor = cursor
	c.mu.Unlock()
	return Result{Cursor: cursor}
}

func (c *Controller) release(in Input) Result {
	c.mu.Lock()
	wasDragging, idx := c.dragging, c.active
	c.dragging = false
	c.active = layout.NoSelection
	c.offsetX, c.offsetY = 0, 0
	c.cursor = CursorDefault
	c.mu.Unlock()

	if wasDragging {
		c.handlers.emit(Event{Type: EventDragEnd, Index: idx})
	}
	return Result{Consumed: wasDragging && in.Device == Touch, Cursor: CursorDefault}
}

// Dragging 报告是否正在拖拽。
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// Active 返回当前拖拽目标，没有时为 layout.NoSelection。
func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Offset 返回按下时记录的指针到锚点的偏移。
func (c *Controller) Offset() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offsetX, c.offsetY
}

// Cursor 返回最近一次计算出的光标样式。
func (c *Controller) Cursor() Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}
