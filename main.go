package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/motionfx/pkg/app"
	"github.com/decker502/motionfx/pkg/embedded"
)

func main() {
	configPath := flag.String("config", "", "动效配置文件路径（默认使用内置 data/effects.yaml）")
	preset := flag.String("preset", "", "使用 data/presets 下的预设（会记入偏好）")
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	flag.Parse()

	// 初始化嵌入资源（必须在任何配置加载之前）
	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Preset:     *preset,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("启动失败: %v", err)
	}
	defer a.Close()

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("motionfx - cursor trail & scroll stack")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(a); err != nil && !app.IsTermination(err) {
		log.SetOutput(os.Stderr)
		log.Fatalf("运行失败: %v", err)
	}
}
