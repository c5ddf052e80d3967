// Command editor 是基于 fyne 的桌面编辑器。
package main

import (
	"context"
	"flag"
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/ByLCY/memesmith/app"
	"github.com/ByLCY/memesmith/surface"
	"github.com/ByLCY/memesmith/ui/desktop"
)

func main() {
	configPath := flag.String("config", "memesmith.toml", "配置文件路径")
	tmpl := flag.String("template", "", "启动时加载的模板名称")
	image := flag.String("image", "", "启动时上传的图片路径")
	flag.Parse()

	env, err := app.Load(*configPath, os.Stderr)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	view := desktop.NewSurfaceView()
	engine := env.NewEngine(view.SetImage)
	session := env.NewSession(engine)

	ctx := context.Background()
	switch {
	case *image != "":
		if err := session.Upload(ctx, surface.FileSource(*image)); err != nil {
			log.Fatalf("加载图片失败: %v", err)
		}
	case *tmpl != "":
		if err := session.SelectTemplate(ctx, *tmpl); err != nil {
			log.Fatalf("加载模板失败: %v", err)
		}
	}

	a := fyneapp.New()
	desktop.New(a, session, view).ShowAndRun()
}
