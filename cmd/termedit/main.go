// Command termedit 在终端中编辑图片字幕，需要支持鼠标与真彩色的终端。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/ByLCY/memesmith/app"
	"github.com/ByLCY/memesmith/surface"
	"github.com/ByLCY/memesmith/ui/term"
)

func main() {
	configPath := flag.String("config", "memesmith.toml", "配置文件路径")
	tmpl := flag.String("template", "", "启动时加载的模板名称")
	image := flag.String("image", "", "启动时上传的图片路径")
	exportDir := flag.String("export", ".", "导出目录")
	logPath := flag.String("log", "", "日志文件路径，为空时丢弃日志")
	flag.Parse()

	// 终端被界面占用，日志只能写文件
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("打开日志文件失败: %v", err)
		}
		defer f.Close()
		logOut = f
	}

	env, err := app.Load(*configPath, logOut)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("创建终端失败: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("初始化终端失败: %v", err)
	}

	t := term.New(screen, term.Options{ExportDir: *exportDir, Logger: env.Logger})
	session := env.NewSession(env.NewEngine(t.Notify))
	defer session.Close()
	t.Bind(session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 图片在后台加载，完成后引擎回调 Notify 触发重绘
	go func() {
		var err error
		switch {
		case *image != "":
			err = session.Upload(ctx, surface.FileSource(*image))
		case *tmpl != "":
			err = session.SelectTemplate(ctx, *tmpl)
		}
		if err != nil {
			env.Logger.Error("启动加载失败", "err", err)
		}
	}()

	runErr := t.Run(ctx)
	screen.Fini()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "终端编辑器异常退出: %v\n", runErr)
		os.Exit(1)
	}
}
