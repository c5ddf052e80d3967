package template

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/memesmith/layout"
	"github.com/ByLCY/memesmith/surface"
)

// ErrNotFound 表示目录中没有该名称的模板。
var ErrNotFound = errors.New("模板不存在")

// DefaultText 是模板预设的一条字幕，位置以画布宽高的比例表示。
type DefaultText struct {
	Text   string  `yaml:"text" json:"text"`
	XRatio float64 `yaml:"x" json:"xRatio"`
	YRatio float64 `yaml:"y" json:"yRatio"`
}

// Descriptor 描述一个模板：名称、图片路径与预设字幕。
type Descriptor struct {
	Name         string        `yaml:"name" json:"name"`
	ImagePath    string        `yaml:"path" json:"path"`
	DefaultTexts []DefaultText `yaml:"texts" json:"defaultTexts"`
}

// Instantiate 按画布尺寸把预设字幕换算为 Patch。
func (d Descriptor) Instantiate(width, height int) []layout.Patch {
	patches := make([]layout.Patch, 0, len(d.DefaultTexts))
	for _, dt := range d.DefaultTexts {
		p := layout.At(float64(width)*dt.XRatio, float64(height)*dt.YRatio)
		p.Text = layout.Ptr(dt.Text)
		patches = append(patches, p)
	}
	return patches
}

// Catalog 是一组模板。
type Catalog struct {
	Templates []Descriptor `yaml:"templates" json:"templates"`
}

// LoadCatalog 从 YAML 文件读取模板目录。
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("读取模板目录 %s 失败: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog 解析 YAML 模板目录，名称为空或重复的条目视为错误。
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("解析模板目录失败: %w", err)
	}
	seen := map[string]bool{}
	for i, d := range c.Templates {
		key := strings.ToLower(strings.TrimSpace(d.Name))
		if key == "" {
			return Catalog{}, fmt.Errorf("第 %d 个模板缺少名称", i+1)
		}
		if seen[key] {
			return Catalog{}, fmt.Errorf("模板名称重复: %s", d.Name)
		}
		if d.ImagePath == "" {
			return Catalog{}, fmt.Errorf("模板 %s 缺少图片路径", d.Name)
		}
		seen[key] = true
	}
	return c, nil
}

// Find 按名称查找模板，忽略大小写与首尾空白。
func (c Catalog) Find(name string) (Descriptor, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, d := range c.Templates {
		if strings.ToLower(d.Name) == key {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Names 返回全部模板名称。
func (c Catalog) Names() []string {
	names := make([]string, len(c.Templates))
	for i, d := range c.Templates {
		names[i] = d.Name
	}
	return names
}

// Editor 是模板实例化所需的画布操作，*surface.Engine 实现了该接口。
type Editor interface {
	ClearAll()
	LoadImage(src surface.Source) *surface.Pending
	AddCaption(p layout.Patch) int
	Dimensions() (int, int)
}

// Apply 清空字幕、加载模板图片，等图片加载完成后按新尺寸添加预设字幕。
// 相对图片路径以 baseDir 为基准。返回新字幕的下标。
func Apply(ctx context.Context, ed Editor, d Descriptor, baseDir string) ([]int, error) {
	path := d.ImagePath
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	ed.ClearAll()
	if err := ed.LoadImage(surface.FileSource(path)).Wait(ctx); err != nil {
		return nil, fmt.Errorf("加载模板 %s 失败: %w", d.Name, err)
	}
	w, h := ed.Dimensions()
	return addAll(ed, d.Instantiate(w, h)), nil
}

// 上传图片时添加的默认字幕。
var uploadTexts = []DefaultText{
	{Text: "Top text", XRatio: 0.5, YRatio: 0.12},
	{Text: "Bottom text", XRatio: 0.5, YRatio: 0.92},
}

// ApplyUpload 清空字幕并加载用户图片，随后添加顶部与底部两条字幕。
func ApplyUpload(ctx context.Context, ed Editor, src surface.Source) ([]int, error) {
	ed.ClearAll()
	if err := ed.LoadImage(src).Wait(ctx); err != nil {
		return nil, fmt.Errorf("加载上传图片失败: %w", err)
	}
	w, h := ed.Dimensions()
	return addAll(ed, Descriptor{DefaultTexts: uploadTexts}.Instantiate(w, h)), nil
}

// CustomCaptionSize 是“添加文字”按钮使用的字号。
const CustomCaptionSize = 32.0

// CustomCaption 返回画布中央的自定义字幕 Patch。
func CustomCaption(width, height int) layout.Patch {
	p := layout.At(float64(width)/2, float64(height)/2)
	p.Text = layout.Ptr("Custom text")
	p.FontSize = layout.Ptr(CustomCaptionSize)
	return p
}

func addAll(ed Editor, patches []layout.Patch) []int {
	indexes := make([]int, 0, len(patches))
	for _, p := range patches {
		indexes = append(indexes, ed.AddCaption(p))
	}
	return indexes
}
