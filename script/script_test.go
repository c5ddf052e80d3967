package script

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/memesmith/dsl"
	"github.com/ByLCY/memesmith/layout"
	"github.com/ByLCY/memesmith/surface"
	"github.com/ByLCY/memesmith/template"
)

type fixedTypesetter struct{}

func (fixedTypesetter) TextWidth(text string, font layout.Font) float64 {
	return float64(len(text)) * font.Size * 0.5
}

type blankRenderer struct{}

func (blankRenderer) Render(frame *layout.Frame) (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height)), nil
}

func newEngine() *surface.Engine {
	return surface.New(fixedTypesetter{}, blankRenderer{}, surface.Options{})
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建图片失败: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("编码图片失败: %v", err)
	}
}

func mustParse(t *testing.T, src string) *dsl.Script {
	t.Helper()
	s, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析脚本失败: %v", err)
	}
	return s
}

func TestApplyCanvasAndCaptions(t *testing.T) {
	e := newEngine()
	s := mustParse(t, `meme "plain" {
  canvas 800 400
  caption "Hi ${user.name}" {
    at: 75% 25%
    font: "Arial"
    size: 28
    color: red
    outline: #333
    outline-width: 2
    bold: true
    italic: false
  }
  caption "px" { at: 10px 20 }
  select 1
}`)
	data := map[string]any{"user": map[string]any{"name": "Ada"}}
	res, err := Apply(context.Background(), e, s, Options{Data: data})
	if err != nil {
		t.Fatalf("执行脚本失败: %v", err)
	}
	if res.Name != "plain" || len(res.Captions) != 2 {
		t.Fatalf("结果不符: %+v", res)
	}
	if w, h := e.Dimensions(); w != 800 || h != 400 {
		t.Fatalf("画布应为 800x400, got %dx%d", w, h)
	}
	first, _ := e.Caption(0)
	want := layout.Caption{
		Text: "Hi Ada", X: 600, Y: 100, FontFamily: "Arial", FontSize: 28,
		FontColor: "red", Bold: true, OutlineColor: "#333", OutlineWidth: 2,
	}
	if first != want {
		t.Fatalf("字幕不符:\n got=%+v\nwant=%+v", first, want)
	}
	second, _ := e.Caption(1)
	if second.X != 10 || second.Y != 20 || second.FontSize != layout.DefaultFontSize {
		t.Fatalf("像素坐标字幕不符: %+v", second)
	}
	if e.Selected() != 1 {
		t.Fatalf("选中应为 1, got %d", e.Selected())
	}
}

func TestApplyTemplateFromCatalog(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "img", "cat.png"), 400, 300)
	catalog := template.Catalog{Templates: []template.Descriptor{{
		Name:         "Cat",
		ImagePath:    "img/cat.png",
		DefaultTexts: []template.DefaultText{{Text: "top", XRatio: 0.5, YRatio: 0.1}},
	}}}
	e := newEngine()
	s := mustParse(t, `meme "c" { template "cat"; caption "extra" { at: 50% 50% } }`)
	res, err := Apply(context.Background(), e, s, Options{Catalog: catalog, AssetsDir: dir})
	if err != nil {
		t.Fatalf("执行脚本失败: %v", err)
	}
	if len(res.Captions) != 2 {
		t.Fatalf("应有两条字幕, got %v", res.Captions)
	}
	top, _ := e.Caption(0)
	extra, _ := e.Caption(1)
	if top.X != 200 || top.Y != 30 {
		t.Fatalf("模板字幕应位于 (200,30), got (%g,%g)", top.X, top.Y)
	}
	if extra.X != 200 || extra.Y != 150 {
		t.Fatalf("百分比应按加载后的尺寸换算, got (%g,%g)", extra.X, extra.Y)
	}
}

func TestRunFileResolvesRelativeImage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "photos", "p.png"), 1000, 500)
	path := filepath.Join(dir, "m.meme")
	src := "meme \"m\" {\n  container 500\n  image \"photos/p.png\"\n  caption \"x\"\n}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("写入脚本失败: %v", err)
	}
	e := newEngine()
	if _, err := RunFile(context.Background(), e, path, Options{}); err != nil {
		t.Fatalf("执行脚本失败: %v", err)
	}
	if w, h := e.Dimensions(); w != 500 || h != 250 {
		t.Fatalf("画布应为 500x250, got %dx%d", w, h)
	}
	if c, _ := e.Caption(0); c.X != 250 || c.Y != 125 {
		t.Fatalf("默认字幕应位于中心, got (%g,%g)", c.X, c.Y)
	}
}

func TestApplyErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{name: "未知模板", src: `meme "x" { template "nope" }`},
		{name: "未知属性", src: `meme "x" { caption "a" { wobble: 1 } }`},
		{name: "坐标个数", src: `meme "x" { caption "a" { at: 1 } }`},
		{name: "非法颜色", src: `meme "x" { caption "a" { color: "#zz" } }`},
		{name: "非法布尔", src: `meme "x" { caption "a" { bold: maybe } }`},
		{name: "字号百分比", src: `meme "x" { caption "a" { size: 50% } }`},
		{name: "非整数画布", src: `meme "x" { canvas 10.5 20 }`},
		{name: "非正画布", src: `meme "x" { canvas 0 20 }`},
		{name: "缺失图片", src: `meme "x" { image "missing.png" }`},
		{name: "多值字体", src: `meme "x" { caption "a" { font: A B } }`},
		{name: "坐标不是数值", src: `meme "x" { caption "a" { at: left top } }`},
		{name: "非整数选中", src: `meme "x" { select 1.5 }`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(context.Background(), newEngine(), mustParse(t, tc.src), Options{BaseDir: t.TempDir()})
			if err == nil {
				t.Fatalf("应返回错误")
			}
		})
	}
}

func TestApplyErrorCarriesPosition(t *testing.T) {
	s, err := dsl.ParseFile("pos.meme", strings.NewReader("meme \"x\" {\n  template \"nope\"\n}"))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	_, err = Apply(context.Background(), newEngine(), s, Options{})
	if !errors.Is(err, template.ErrNotFound) || !strings.Contains(err.Error(), "pos.meme:2") {
		t.Fatalf("错误应包含位置与 ErrNotFound, got %v", err)
	}
}

func TestStrictInterpolation(t *testing.T) {
	s := mustParse(t, `meme "x" { caption "${missing}" }`)
	if _, err := Apply(context.Background(), newEngine(), s, Options{Strict: true}); err == nil {
		t.Fatalf("严格模式下缺失数据应报错")
	}
	e := newEngine()
	if _, err := Apply(context.Background(), e, s, Options{}); err != nil {
		t.Fatalf("非严格模式不应报错: %v", err)
	}
	if c, _ := e.Caption(0); c.Text != "${missing}" {
		t.Fatalf("未解析占位符应原样保留, got %q", c.Text)
	}
}
