package layout

import "image"

// 该文件定义字幕（caption）数据模型与排版结果，供引擎、渲染器与调试 JSON 共用。

// NoSelection 表示当前没有选中的字幕。
const NoSelection = -1

// 默认字幕样式，与模板预设的锚点比例配套使用。
const (
	DefaultText         = "Your text"
	DefaultFontFamily   = "Impact"
	DefaultFontSize     = 40.0
	DefaultFontColor    = "#ffffff"
	DefaultOutlineColor = "#000000"
	DefaultOutlineWidth = 3.0
)

// Caption 是画面上的一条文字叠加层。X/Y 为锚点（像素），Y 指向首行的视觉顶部而非垂直中心。
type Caption struct {
	Text         string  `json:"text"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	FontFamily   string  `json:"fontFamily"`
	FontSize     float64 `json:"fontSize"`
	FontColor    string  `json:"fontColor"`
	Bold         bool    `json:"bold"`
	Italic       bool    `json:"italic"`
	OutlineColor string  `json:"outlineColor"`
	OutlineWidth float64 `json:"outlineWidth"`
}

// Font 返回测量与绘制该字幕所需的字体描述。
func (c Caption) Font() Font {
	return Font{Family: c.FontFamily, Size: c.FontSize, Bold: c.Bold, Italic: c.Italic}
}

// DefaultCaption 返回在给定画布尺寸下完整填充的默认字幕，锚点位于画布中心。
func DefaultCaption(width, height int) Caption {
	return Caption{
		Text:         DefaultText,
		X:            float64(width) / 2,
		Y:            float64(height) / 2,
		FontFamily:   DefaultFontFamily,
		FontSize:     DefaultFontSize,
		FontColor:    DefaultFontColor,
		OutlineColor: DefaultOutlineColor,
		OutlineWidth: DefaultOutlineWidth,
	}
}

// Patch 是字幕的部分更新，nil 字段表示保持原值。
type Patch struct {
	Text         *string  `json:"text,omitempty"`
	X            *float64 `json:"x,omitempty"`
	Y            *float64 `json:"y,omitempty"`
	FontFamily   *string  `json:"fontFamily,omitempty"`
	FontSize     *float64 `json:"fontSize,omitempty"`
	FontColor    *string  `json:"fontColor,omitempty"`
	Bold         *bool    `json:"bold,omitempty"`
	Italic       *bool    `json:"italic,omitempty"`
	OutlineColor *string  `json:"outlineColor,omitempty"`
	OutlineWidth *float64 `json:"outlineWidth,omitempty"`
}

// Ptr 返回 v 的指针，便于构造 Patch 字面量。
func Ptr[T any](v T) *T { return &v }

// At 构造只修改锚点的 Patch，拖拽时使用。
func At(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

// Apply 将 Patch 中已设置的字段逐个覆盖到 c 上并返回结果。
func (p Patch) Apply(c Caption) Caption {
	if p.Text != nil {
		c.Text = *p.Text
	}
	if p.X != nil {
		c.X = *p.X
	}
	if p.Y != nil {
		c.Y = *p.Y
	}
	if p.FontFamily != nil {
		c.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		c.FontSize = *p.FontSize
	}
	if p.FontColor != nil {
		c.FontColor = *p.FontColor
	}
	if p.Bold != nil {
		c.Bold = *p.Bold
	}
	if p.Italic != nil {
		c.Italic = *p.Italic
	}
	if p.OutlineColor != nil {
		c.OutlineColor = *p.OutlineColor
	}
	if p.OutlineWidth != nil {
		c.OutlineWidth = *p.OutlineWidth
	}
	return c
}

// IsEmpty 报告 Patch 是否未设置任何字段。
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Font 描述一次测量所用的字体。Size 单位为像素。
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold"`
	Italic bool    `json:"italic"`
}

// Box 是轴对齐矩形，同时用于选中框绘制与命中测试。
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains 报告点是否落在矩形内（含边界）。
func (b Box) Contains(px, py float64) bool {
	return px >= b.X && px <= b.X+b.Width &&
		py >= b.Y && py <= b.Y+b.Height
}

// Frame 是一帧完整的绘制描述：背景、占位提示与按 z 序排列的字幕。
type Frame struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Background  image.Image     `json:"-"`
	HasImage    bool            `json:"hasImage"`
	Placeholder string          `json:"placeholder,omitempty"`
	Captions    []PlacedCaption `json:"captions"`
}

// PlacedCaption 是已完成折行与定位的字幕。
type PlacedCaption struct {
	Caption  Caption      `json:"caption"`
	Lines    []PlacedLine `json:"lines"`
	Box      Box          `json:"box"`
	Selected bool         `json:"selected,omitempty"`
}

// PlacedLine 表示一行文本：X 为水平中心，Y 为行顶部。
type PlacedLine struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
}
