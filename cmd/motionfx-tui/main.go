// motionfx-tui 在终端中运行光标拖尾与滚动堆叠演示
//
// 鼠标移动驱动拖尾，滚轮驱动堆叠进度。
// 按 Esc 或 q 退出。配置从工作目录的 data/ 读取，需在项目根目录运行。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/motionfx/pkg/config"
	"github.com/decker502/motionfx/pkg/engine"
	"github.com/decker502/motionfx/pkg/game"
	"github.com/decker502/motionfx/pkg/render"
	"github.com/decker502/motionfx/pkg/scheduler"
)

// wheelStep 每格滚轮对应的滚动像素
const wheelStep = 40.0

func main() {
	configPath := flag.String("config", "", "动效配置文件路径（默认使用内置 data/effects.yaml）")
	preset := flag.String("preset", "", "使用 data/presets 下的预设")
	verbose := flag.Bool("verbose", false, "启用详细日志输出（写入 stderr，会干扰终端画面）")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(config.ResolveEffectsPath(*configPath, *preset)); err != nil {
		fmt.Fprintf(os.Stderr, "motionfx-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadEffectsConfig(configPath)
	if err != nil {
		return err
	}

	eng, _, _, err := engine.NewFromConfig(cfg, nil)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("创建终端屏幕失败: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("初始化终端屏幕失败: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	renderer := render.NewTerminalRenderer(screen, render.DefaultCellMetrics, render.DefaultPanelLayout)
	sampler := scheduler.NewInputSampler()
	source := scheduler.NewTickerFrameSource(cfg.Frame.FPS)
	defer source.Stop()

	sched := scheduler.New(source, sampler, eng.Step, renderer.Render, scheduler.Options{
		FallbackDT: cfg.Frame.FallbackDT,
		MaxDT:      cfg.Frame.MaxDT,
	})
	defer sched.Dispose()

	_, rows := screen.Size()
	scroll := game.NewScrollLayout(cfg.Stack.Count, float64(rows)*render.DefaultCellMetrics.Height)
	sampler.PushProgress(scroll.Progress())
	sched.Start()

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return nil
			}
		case *tcell.EventMouse:
			col, row := ev.Position()
			sampler.PushPointer(renderer.CellToPixel(col, row))
			buttons := ev.Buttons()
			if buttons&tcell.WheelDown != 0 {
				scroll.Scroll(wheelStep)
			}
			if buttons&tcell.WheelUp != 0 {
				scroll.Scroll(-wheelStep)
			}
			sampler.PushProgress(scroll.Progress())
		case *tcell.EventFocus:
			sampler.SetPointerPresent(ev.Focused)
		case *tcell.EventResize:
			_, rows := ev.Size()
			scroll.Resize(float64(rows) * render.DefaultCellMetrics.Height)
			sampler.PushProgress(scroll.Progress())
			screen.Sync()
			renderer.Redraw()
		}
	}
}
