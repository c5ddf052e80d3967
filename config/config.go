// Package config 读取 memesmith.toml 配置。
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/memesmith/layout"
)

// Config 是全部可持久化的设置。
type Config struct {
	Surface   Surface   `toml:"surface"`
	Fonts     Fonts     `toml:"fonts"`
	Templates Templates `toml:"templates"`
	Editor    Editor    `toml:"editor"`
	Watch     Watch     `toml:"watch"`
	Log       Log       `toml:"log"`
}

// Surface 配置画布初始尺寸与尺寸策略。
type Surface struct {
	Width          int     `toml:"width"`
	Height         int     `toml:"height"`
	ContainerWidth float64 `toml:"container_width"`
	MaxHeight      float64 `toml:"max_height"`
}

// Fonts 配置额外字体目录。
type Fonts struct {
	Dir string `toml:"dir"`
}

// Templates 配置模板目录文件与素材目录。Catalog 为空时使用内置模板。
type Templates struct {
	Catalog   string `toml:"catalog"`
	AssetsDir string `toml:"assets_dir"`
}

// Editor 配置交互式编辑器。
type Editor struct {
	ResizeDebounceMS int `toml:"resize_debounce_ms"`
}

// ResizeDebounce 返回窗口尺寸变化的防抖间隔。
func (e Editor) ResizeDebounce() time.Duration {
	return time.Duration(e.ResizeDebounceMS) * time.Millisecond
}

// Watch 配置命令行 -watch 模式。
type Watch struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Debounce 返回脚本写入后到重新生成之间的静默间隔。
func (w Watch) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Log 配置日志级别与格式（text 或 json）。
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Surface: Surface{
			Width:     layout.DefaultSurfaceWidth,
			Height:    layout.DefaultSurfaceHeight,
			MaxHeight: layout.DefaultMaxHeight,
		},
		Templates: Templates{AssetsDir: "."},
		Editor:    Editor{ResizeDebounceMS: 200},
		Watch:     Watch{DebounceMS: 200},
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Load 读取 TOML 配置，未出现的字段保留默认值。path 为空或文件不存在时返回默认配置。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("配置文件 %s 含未知字段: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		return fmt.Errorf("surface 尺寸必须为正: %dx%d", c.Surface.Width, c.Surface.Height)
	}
	if c.Surface.MaxHeight < 0 {
		return fmt.Errorf("surface.max_height 不能为负")
	}
	if c.Editor.ResizeDebounceMS < 0 {
		return fmt.Errorf("editor.resize_debounce_ms 不能为负")
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms 不能为负")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("未知日志格式 %s", c.Log.Format)
	}
	return nil
}

// Logger 按 [log] 配置构造写入 w 的结构化日志。
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Write 将配置以 TOML 写入 w，用于生成示例配置。
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save 将配置写入文件。
func (c Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建配置文件 %s 失败: %w", path, err)
	}
	defer f.Close()
	if err := c.Write(f); err != nil {
		return fmt.Errorf("写入配置文件 %s 失败: %w", path, err)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("未知日志级别 %s", s)
	}
	return level, nil
}
