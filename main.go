package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ByLCY/memesmith/app"
	"github.com/ByLCY/memesmith/debounce"
	"github.com/ByLCY/memesmith/layout"
	"github.com/ByLCY/memesmith/script"
)

func main() {
	input := flag.String("in", "examples/demo.meme", "脚本文件路径")
	output := flag.String("out", "output/demo.png", "PNG 输出路径")
	debug := flag.String("debug", "", "排版调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到字幕文本的 JSON 数据")
	configPath := flag.String("config", "memesmith.toml", "配置文件路径")
	strict := flag.Bool("strict", false, "无法解析的占位符视为错误")
	watch := flag.Bool("watch", false, "脚本变化时自动重新生成")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	env, err := app.Load(*configPath, os.Stderr)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	j := job{
		env:    env,
		input:  *input,
		output: *output,
		debug:  *debug,
		opts: script.Options{
			Catalog:   env.Catalog,
			AssetsDir: env.Config.Templates.AssetsDir,
			Data:      inputData,
			Strict:    *strict,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := j.run(ctx); err != nil {
		if !*watch {
			log.Fatalf("生成图片失败: %v", err)
		}
		env.Logger.Error("生成图片失败", "err", err)
	} else {
		fmt.Printf("已生成图片：%s\n", *output)
	}
	if *watch {
		if err := j.watch(ctx); err != nil {
			log.Fatalf("监听脚本失败: %v", err)
		}
	}
}

// job 描述一次从脚本到 PNG 的生成。
type job struct {
	env    *app.Env
	input  string
	output string
	debug  string
	opts   script.Options
}

// run 串联解析、排版与渲染。每次都使用新的画布，避免残留上一次的字幕。
func (j job) run(ctx context.Context) error {
	e := j.env.NewEngine(nil)
	res, err := script.RunFile(ctx, e, j.input, j.opts)
	if err != nil {
		return err
	}

	if j.debug != "" {
		if err := writeDebug(e.Frame(), j.debug); err != nil {
			return err
		}
	}

	data, err := e.ExportPNG()
	if err != nil {
		return fmt.Errorf("渲染 PNG 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(j.output, data, 0o644); err != nil {
		return fmt.Errorf("写入 PNG 文件失败: %w", err)
	}
	w, h := e.Dimensions()
	j.env.Logger.Info("已生成", "name", res.Name, "captions", len(res.Captions), "width", w, "height", h, "out", j.output)
	return nil
}

// watch 监听脚本所在目录，脚本被写入后静默一段时间再重新生成。
func (j job) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(j.input)
	if err != nil {
		return err
	}
	// 编辑器常以“写临时文件再改名”的方式保存，因此监听目录而非文件
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	rebuild := debounce.New(j.env.Config.Watch.Debounce(), func() {
		if err := j.run(ctx); err != nil {
			j.env.Logger.Error("重新生成失败", "err", err)
			return
		}
		fmt.Printf("已重新生成：%s\n", j.output)
	})
	defer rebuild.Stop()

	j.env.Logger.Info("开始监听", "script", target)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				rebuild.Trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			j.env.Logger.Warn("监听出错", "err", err)
		}
	}
}

func writeDebug(frame *layout.Frame, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(frame, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
