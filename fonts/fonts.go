// Package fonts 管理字幕可用的字体数据：用户目录中的字体文件，以及内置的 Go 字体作为通用无衬线回退。
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// FallbackFamily 是无法解析字体名时使用的字体族。
const FallbackFamily = "Go"

// Style 是字形变体，Bold 与 Italic 可以组合。
type Style int

const (
	Regular Style = 0
	Bold    Style = 1 << 0
	Italic  Style = 1 << 1

	BoldItalic = Bold | Italic
)

// StyleOf 根据粗体/斜体开关返回字形变体。
func StyleOf(bold, italic bool) Style {
	s := Regular
	if bold {
		s |= Bold
	}
	if italic {
		s |= Italic
	}
	return s
}

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// Fallback 返回内置 Go 字体中对应变体的 TTF 数据。
func Fallback(style Style) []byte {
	switch style {
	case Bold:
		return gobold.TTF
	case Italic:
		return goitalic.TTF
	case BoldItalic:
		return gobolditalic.TTF
	default:
		return goregular.TTF
	}
}

// Registry 按字体族名（不区分大小写）保存字体数据。零值不可用，请使用 NewRegistry。
type Registry struct {
	mu    sync.RWMutex
	faces map[string]map[Style][]byte
}

// NewRegistry 创建空的字体注册表；未注册的字体族全部回退到 Go 字体。
func NewRegistry() *Registry {
	return &Registry{faces: map[string]map[Style][]byte{}}
}

// Register 注册一个字体族的某个变体，后注册的覆盖先注册的。
func (r *Registry) Register(family string, style Style, data []byte) {
	key := normalize(family)
	if key == "" || len(data) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.faces[key] == nil {
		r.faces[key] = map[Style][]byte{}
	}
	r.faces[key][style] = data
}

// Families 返回已注册的字体族名（小写）。
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.faces))
	for name := range r.faces {
		out = append(out, name)
	}
	return out
}

// Resolve 查找字体数据。变体缺失时退回该族的常规字形；字体族缺失时退回 Go 字体。
// 第二个返回值为实际使用的字体族名，第三个为实际使用的变体。
func (r *Registry) Resolve(family string, style Style) ([]byte, string, Style) {
	key := normalize(family)
	r.mu.RLock()
	variants := r.faces[key]
	r.mu.RUnlock()
	if variants != nil {
		if data, ok := variants[style]; ok {
			return data, key, style
		}
		if data, ok := variants[Regular]; ok {
			return data, key, Regular
		}
	}
	return Fallback(style), FallbackFamily, style
}

// LoadDir 扫描目录中的 .ttf/.otf 文件并按文件名注册，例如 Impact.ttf、Anton-Bold.ttf、Comic Sans-BoldItalic.otf。
// 返回成功注册的文件数。
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("读取字体目录 %s 失败: %w", dir, err)
	}
	n := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return n, fmt.Errorf("读取字体 %s 失败: %w", path, err)
		}
		family, style := parseFileName(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		r.Register(family, style, data)
		n++
	}
	return n, nil
}

var styleSuffixes = []struct {
	suffix string
	style  Style
}{
	{"bolditalic", BoldItalic},
	{"boldoblique", BoldItalic},
	{"bold", Bold},
	{"italic", Italic},
	{"oblique", Italic},
	{"regular", Regular},
}

func parseFileName(name string) (string, Style) {
	i := strings.LastIndexAny(name, "-_")
	if i <= 0 {
		return name, Regular
	}
	suffix := strings.ToLower(name[i+1:])
	for _, s := range styleSuffixes {
		if suffix == s.suffix {
			return name[:i], s.style
		}
	}
	return name, Regular
}

func normalize(family string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(family, `"'`)))
}
