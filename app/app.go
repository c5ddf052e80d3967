// Package app 按配置装配字体、渲染器、模板与画布引擎，供各个命令共用。
package app

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/ByLCY/memesmith/config"
	"github.com/ByLCY/memesmith/editor"
	"github.com/ByLCY/memesmith/fonts"
	canvasrenderer "github.com/ByLCY/memesmith/renderer/canvas"
	"github.com/ByLCY/memesmith/surface"
	"github.com/ByLCY/memesmith/template"
)

// Env 是一次运行所需的共享依赖。
type Env struct {
	Config   config.Config
	Logger   *slog.Logger
	Fonts    *fonts.Registry
	Renderer *canvasrenderer.Renderer
	Catalog  template.Catalog
}

// Load 读取配置文件并装配依赖，日志写入 logOut。
func Load(configPath string, logOut io.Writer) (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, logOut)
}

// FromConfig 按给定配置装配依赖。
func FromConfig(cfg config.Config, logOut io.Writer) (*Env, error) {
	logger := cfg.Logger(logOut)

	reg := fonts.NewRegistry()
	if cfg.Fonts.Dir != "" {
		n, err := reg.LoadDir(cfg.Fonts.Dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("已加载字体", "dir", cfg.Fonts.Dir, "count", n)
	}

	catalog := template.Builtin()
	if cfg.Templates.Catalog != "" {
		c, err := template.LoadCatalog(cfg.Templates.Catalog)
		if err != nil {
			return nil, fmt.Errorf("加载模板目录失败: %w", err)
		}
		catalog = c
		logger.Debug("已加载模板目录", "path", cfg.Templates.Catalog, "count", len(c.Templates))
	}

	return &Env{
		Config:   cfg,
		Logger:   logger,
		Fonts:    reg,
		Renderer: canvasrenderer.NewRenderer(reg),
		Catalog:  catalog,
	}, nil
}

// NewEngine 创建按配置设定尺寸的画布引擎。onRender 可为 nil。
func (env *Env) NewEngine(onRender func(*image.RGBA)) *surface.Engine {
	s := env.Config.Surface
	return surface.New(env.Renderer, env.Renderer, surface.Options{
		Width:          s.Width,
		Height:         s.Height,
		ContainerWidth: s.ContainerWidth,
		MaxHeight:      s.MaxHeight,
		Logger:         env.Logger,
		OnRender:       onRender,
	})
}

// NewSession 创建绑定到 e 的编辑会话。
func (env *Env) NewSession(e *surface.Engine) *editor.Session {
	return editor.New(e, editor.Options{
		Catalog:        env.Catalog,
		AssetsDir:      env.Config.Templates.AssetsDir,
		ResizeDebounce: env.Config.Editor.ResizeDebounce(),
		Logger:         env.Logger,
	})
}
