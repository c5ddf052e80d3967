package layout

import "strings"

// Wrap 使用贪心算法将文本按单个空格分词后折行。
// 首个单词总是占据第一行，即使它本身已经超出 maxWidth；单词内部不做拆分。
func Wrap(text string, font Font, maxWidth float64, ts Typesetter) []string {
	if text == "" {
		return []string{""}
	}
	words := strings.Split(text, " ")
	lines := make([]string, 0, 2)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if ts.TextWidth(candidate, font) > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

// WrapWidth 返回宽度为 surfaceWidth 的画布上的折行宽度。
func WrapWidth(surfaceWidth int) float64 {
	return float64(surfaceWidth) * WrapRatio
}

// LineHeight 返回给定字号下的行高。
func LineHeight(fontSize float64) float64 {
	return fontSize * LineHeightFactor
}

// Place 对字幕折行并计算每行位置与包围盒。
// 选中框绘制与命中测试都必须经由这里得到的 Box，二者不能各算各的。
func Place(c Caption, surfaceWidth int, ts Typesetter) PlacedCaption {
	font := c.Font()
	contents := Wrap(c.Text, font, WrapWidth(surfaceWidth), ts)
	lineHeight := LineHeight(c.FontSize)
	startY := c.Y - c.FontSize

	lines := make([]PlacedLine, len(contents))
	maxWidth := 0.0
	for i, content := range contents {
		w := ts.TextWidth(content, font)
		if w > maxWidth {
			maxWidth = w
		}
		lines[i] = PlacedLine{
			Content: content,
			X:       c.X,
			Y:       startY + float64(i)*lineHeight,
			Width:   w,
		}
	}

	box := Box{
		X:      c.X - maxWidth/2 - BoxPadding,
		Y:      c.Y - c.FontSize - BoxPadding,
		Width:  maxWidth + BoxPadding*2,
		Height: float64(len(lines))*lineHeight + BoxPadding*2,
	}
	return PlacedCaption{Caption: c, Lines: lines, Box: box}
}

// BoundingBox 返回字幕在宽度为 surfaceWidth 的画布上的包围盒。
func BoundingBox(c Caption, surfaceWidth int, ts Typesetter) Box {
	return Place(c, surfaceWidth, ts).Box
}

// HitTest 自顶（末尾）向下扫描字幕，返回第一个包围盒包含该点的下标；未命中返回 NoSelection。
func HitTest(captions []Caption, px, py float64, surfaceWidth int, ts Typesetter) int {
	for i := len(captions) - 1; i >= 0; i-- {
		if BoundingBox(captions[i], surfaceWidth, ts).Contains(px, py) {
			return i
		}
	}
	return NoSelection
}

// Compose 根据画布状态生成一帧绘制描述。selected 超出范围时不绘制任何选中框。
func Compose(width, height int, captions []Caption, selected int, ts Typesetter) *Frame {
	frame := &Frame{
		Width:    width,
		Height:   height,
		Captions: make([]PlacedCaption, len(captions)),
	}
	for i, c := range captions {
		placed := Place(c, width, ts)
		placed.Selected = i == selected
		frame.Captions[i] = placed
	}
	return frame
}
