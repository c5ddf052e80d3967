package layout

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor 解析字幕颜色：#rgb / #rgba / #rrggbb / #rrggbbaa、CSS 颜色名、rgb()/rgba()。
func ParseColor(value string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return color.NRGBA{}, fmt.Errorf("颜色值为空")
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v[1:])
	case strings.HasPrefix(v, "rgb"):
		return parseFuncColor(v)
	case v == "transparent":
		return color.NRGBA{}, nil
	}
	if named, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
}

// ColorOr 解析颜色，失败时返回 fallback。
func ColorOr(value string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(value)
	if err != nil {
		return fallback
	}
	return c
}

func parseHexColor(hex string) (color.NRGBA, error) {
	expand := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		return b.String()
	}
	switch len(hex) {
	case 3, 4:
		hex = expand(hex)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("颜色值 #%s 无法解析", hex)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("颜色值 #%s 无法解析: %w", hex, err)
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

func parseFuncColor(v string) (color.NRGBA, error) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析", v)
	}
	parts := strings.Split(v[open+1:len(v)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 分量个数错误", v)
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", v, err)
		}
		channels[i] = uint8(math.Max(0, math.Min(255, math.Round(f))))
	}
	alpha := uint8(255)
	if len(parts) == 4 {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", v, err)
		}
		alpha = uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}
