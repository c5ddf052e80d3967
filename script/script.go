// Package script 将解析后的 .meme 脚本应用到画布引擎上。
package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/memesmith/binding"
	"github.com/ByLCY/memesmith/dsl"
	"github.com/ByLCY/memesmith/layout"
	"github.com/ByLCY/memesmith/surface"
	"github.com/ByLCY/memesmith/template"
)

// Target 是脚本可以驱动的画布。*surface.Engine 实现了该接口。
type Target interface {
	template.Editor
	UpdateCaption(i int, p layout.Patch)
	SetSelected(i int)
	SetSize(width, height int)
	SetContainerWidth(w float64)
	ResizeToImage()
}

// Options 控制脚本的解释方式。
type Options struct {
	// Catalog 用于解析 template 语句，零值使用内置模板。
	Catalog template.Catalog
	// AssetsDir 是模板图片路径的基准目录。
	AssetsDir string
	// BaseDir 是 image 语句中相对路径的基准目录，通常为脚本所在目录。
	BaseDir string
	// Data 绑定到字幕文本中的 ${path} 占位符。
	Data any
	// Strict 为 true 时，无法解析的占位符视为错误。
	Strict bool
}

// Result 汇总一次脚本执行的结果。
type Result struct {
	Name     string
	Captions []int
}

// RunFile 读取、解析并执行脚本文件。相对图片路径以脚本所在目录为基准。
func RunFile(ctx context.Context, t Target, path string, opts Options) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开脚本文件 %s: %w", path, err)
	}
	defer file.Close()

	s, err := dsl.ParseFile(path, file)
	if err != nil {
		return nil, fmt.Errorf("解析脚本失败: %w", err)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return Apply(ctx, t, s, opts)
}

// Apply 按顺序执行脚本语句。template 与 image 会等待图片加载完成，
// 其后的字幕位置以加载后的画布尺寸计算。
func Apply(ctx context.Context, t Target, s *dsl.Script, opts Options) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("脚本为空")
	}
	if opts.Catalog.Templates == nil {
		opts.Catalog = template.Builtin()
	}
	res := &Result{Name: string(s.Name)}
	for _, st := range s.Statements {
		if err := applyStatement(ctx, t, st, opts, res); err != nil {
			return nil, fmt.Errorf("%s: %w", st.Pos, err)
		}
	}
	return res, nil
}

func applyStatement(ctx context.Context, t Target, st *dsl.Statement, opts Options, res *Result) error {
	switch {
	case st.Template != nil:
		d, err := opts.Catalog.Find(string(*st.Template))
		if err != nil {
			return err
		}
		idx, err := template.Apply(ctx, t, d, opts.AssetsDir)
		if err != nil {
			return err
		}
		res.Captions = idx
	case st.Image != nil:
		path := string(*st.Image)
		if !filepath.IsAbs(path) && opts.BaseDir != "" {
			path = filepath.Join(opts.BaseDir, path)
		}
		if err := t.LoadImage(surface.FileSource(path)).Wait(ctx); err != nil {
			return fmt.Errorf("加载图片失败: %w", err)
		}
	case st.Container != nil:
		w, _, err := dsl.ParseNumber(*st.Container)
		if err != nil {
			return err
		}
		t.SetContainerWidth(w)
		t.ResizeToImage()
	case st.Canvas != nil:
		w, err := strconv.Atoi(st.Canvas.Width)
		if err != nil {
			return fmt.Errorf("画布宽度 %q 必须是整数", st.Canvas.Width)
		}
		h, err := strconv.Atoi(st.Canvas.Height)
		if err != nil {
			return fmt.Errorf("画布高度 %q 必须是整数", st.Canvas.Height)
		}
		if w <= 0 || h <= 0 {
			return fmt.Errorf("画布尺寸必须为正: %dx%d", w, h)
		}
		t.SetSize(w, h)
	case st.Caption != nil:
		p, err := captionPatch(t, st.Caption, opts)
		if err != nil {
			return err
		}
		res.Captions = append(res.Captions, t.AddCaption(p))
	case st.Select != nil:
		idx, err := strconv.Atoi(*st.Select)
		if err != nil {
			return fmt.Errorf("select 需要整数下标: %q", *st.Select)
		}
		t.SetSelected(idx)
	default:
		return fmt.Errorf("未知语句")
	}
	return nil
}

func captionPatch(t Target, c *dsl.Caption, opts Options) (layout.Patch, error) {
	text := string(c.Text)
	if opts.Strict {
		var err error
		if text, err = binding.InterpolateStrict(text, opts.Data); err != nil {
			return layout.Patch{}, err
		}
	} else {
		text = binding.Interpolate(text, opts.Data)
	}
	p := layout.Patch{Text: &text}

	w, h := t.Dimensions()
	for _, prop := range c.Properties {
		if err := applyProperty(&p, prop, w, h); err != nil {
			return layout.Patch{}, fmt.Errorf("%s: %w", prop.Pos, err)
		}
	}
	return p, nil
}

func applyProperty(p *layout.Patch, prop *dsl.Property, width, height int) error {
	key := strings.ToLower(prop.Key)
	switch key {
	case "at":
		if len(prop.Values) != 2 {
			return fmt.Errorf("at 需要两个值 (x y)")
		}
		x, err := coordinate(prop.Values[0], width)
		if err != nil {
			return err
		}
		y, err := coordinate(prop.Values[1], height)
		if err != nil {
			return err
		}
		p.X, p.Y = &x, &y
		return nil
	case "font", "family":
		v, err := single(prop)
		if err != nil {
			return err
		}
		p.FontFamily = &v
	case "size":
		f, err := number(prop)
		if err != nil {
			return err
		}
		p.FontSize = &f
	case "outline-width":
		f, err := number(prop)
		if err != nil {
			return err
		}
		p.OutlineWidth = &f
	case "color", "outline":
		v, err := single(prop)
		if err != nil {
			return err
		}
		if _, err := layout.ParseColor(v); err != nil {
			return err
		}
		if key == "color" {
			p.FontColor = &v
		} else {
			p.OutlineColor = &v
		}
	case "bold", "italic":
		v, err := single(prop)
		if err != nil {
			return err
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s 需要 true 或 false", key)
		}
		if key == "bold" {
			p.Bold = &b
		} else {
			p.Italic = &b
		}
	default:
		return fmt.Errorf("未知属性 %s", prop.Key)
	}
	return nil
}

func single(prop *dsl.Property) (string, error) {
	if len(prop.Values) != 1 {
		return "", fmt.Errorf("%s 只接受一个值", prop.Key)
	}
	return prop.Values[0].Raw(), nil
}

func number(prop *dsl.Property) (float64, error) {
	raw, err := single(prop)
	if err != nil {
		return 0, err
	}
	f, unit, err := dsl.ParseNumber(raw)
	if err != nil {
		return 0, err
	}
	if unit == dsl.UnitPercent {
		return 0, fmt.Errorf("%s 不接受百分比", prop.Key)
	}
	return f, nil
}

// coordinate 将 "75%" 换算为 extent 的比例，其余按像素处理。
func coordinate(v *dsl.Value, extent int) (float64, error) {
	if v.Number == nil {
		return 0, fmt.Errorf("坐标必须是数值: %q", v.Raw())
	}
	f, unit, err := dsl.ParseNumber(*v.Number)
	if err != nil {
		return 0, err
	}
	if unit == dsl.UnitPercent {
		return float64(extent) * f / 100, nil
	}
	return f, nil
}
