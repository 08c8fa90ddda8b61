// Package app 提供 ebiten 演示程序的核心包装器
//
// App 实现 ebiten.Game：在 Update 中采集指针和滚轮输入并驱动帧调度，
// 在 Draw 中绘制最近一帧快照。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/motionfx/pkg/components"
	"github.com/decker502/motionfx/pkg/config"
	"github.com/decker502/motionfx/pkg/ecs"
	"github.com/decker502/motionfx/pkg/engine"
	"github.com/decker502/motionfx/pkg/game"
	"github.com/decker502/motionfx/pkg/motion"
	"github.com/decker502/motionfx/pkg/render"
	"github.com/decker502/motionfx/pkg/scheduler"
)

const (
	// WindowWidth 逻辑屏幕宽度
	WindowWidth = 960
	// WindowHeight 逻辑屏幕高度
	WindowHeight = 720
	// wheelStep 每格滚轮对应的滚动像素
	wheelStep = 60.0
	// storageAppName gdata 存储目录名
	storageAppName = "motionfx"
)

var backgroundColor = color.RGBA{R: 0x0B, G: 0x09, B: 0x14, A: 0xFF}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 动效配置文件路径，为空时使用 data/effects.yaml
	ConfigPath string
	// Preset 预设名（data/presets/<name>.yaml），非空时覆盖 ConfigPath 并记入偏好
	Preset string
}

// App 演示程序，实现 ebiten.Game 接口
type App struct {
	effects  config.EffectsConfig
	engine   *engine.Engine
	trailID  ecs.EntityID
	stackID  ecs.EntityID
	source   *scheduler.ManualFrameSource
	sampler  *scheduler.InputSampler
	sched    *scheduler.FrameScheduler[engine.Frame]
	renderer *render.EbitenRenderer
	prefs    *game.PreferencesManager
	scroll   game.ScrollLayout
}

// NewApp 创建并初始化演示程序
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	prefs := game.NewPreferencesManager(game.OpenStorage(storageAppName))
	if cfg.Preset != "" {
		prefs.SetPreset(cfg.Preset)
		if err := prefs.Save(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}

	// 显式 --config 优先于偏好中记录的预设
	preset := cfg.Preset
	if preset == "" && cfg.ConfigPath == "" {
		preset = prefs.Get().Preset
	}
	configPath := config.ResolveEffectsPath(cfg.ConfigPath, preset)
	effects, err := config.LoadEffectsConfig(configPath)
	if err != nil && preset != "" && cfg.Preset == "" {
		// 偏好中的预设已失效，回退到默认配置
		log.Printf("[App] Warning: stored preset %q unusable: %v", preset, err)
		prefs.SetPreset("")
		configPath = config.DefaultEffectsPath
		effects, err = config.LoadEffectsConfig(configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("动效配置加载失败: %w", err)
	}
	prefs.Apply(&effects)

	eng, trailID, stackID, err := engine.NewFromConfig(effects, nil)
	if err != nil {
		return nil, fmt.Errorf("动效引擎初始化失败: %w", err)
	}

	a := &App{
		effects:  effects,
		engine:   eng,
		trailID:  trailID,
		stackID:  stackID,
		source:   scheduler.NewManualFrameSource(),
		sampler:  scheduler.NewInputSampler(),
		renderer: render.NewEbitenRenderer(render.DefaultPanelLayout),
		prefs:    prefs,
		scroll:   game.NewScrollLayout(effects.Stack.Count, WindowHeight),
	}
	a.sched = scheduler.New(a.source, a.sampler, eng.Step, a.renderer.Render, scheduler.Options{
		FallbackDT: effects.Frame.FallbackDT,
		MaxDT:      effects.Frame.MaxDT,
	})
	a.sched.Start()

	log.Printf("[App] Started with %s (%d followers, %d panels)", configPath, effects.Trail.Count, effects.Stack.Count)
	return a, nil
}

// Update 采集输入并推进一帧
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		a.toggleZOrder()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		a.toggleSegmentation()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		a.toggleTrailShape()
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsFocused() && x >= 0 && y >= 0 && x < WindowWidth && y < WindowHeight {
		a.sampler.PushPointer(float64(x), float64(y))
	} else {
		a.sampler.SetPointerPresent(false)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		a.scroll.Scroll(-wy * wheelStep)
	}
	a.sampler.PushProgress(a.scroll.Progress())

	a.source.Fire(time.Now())
	return nil
}

func (a *App) toggleZOrder() {
	next := motion.ZOrderStatic
	if a.effects.Stack.ZOrderPolicy() == motion.ZOrderStatic {
		next = motion.ZOrderEmphasis
	}
	a.effects.Stack.ZOrder = next.String()
	a.prefs.SetZOrder(next)
	a.applyStackChange()
}

func (a *App) toggleSegmentation() {
	next := motion.SegmentDisjoint
	if a.effects.Stack.SegmentPolicy() == motion.SegmentDisjoint {
		next = motion.SegmentCentered
	}
	a.effects.Stack.Segmentation = next.String()
	a.prefs.SetSegmentation(next)
	a.applyStackChange()
}

func (a *App) toggleTrailShape() {
	next := components.ShapeSquare
	if components.ParseTrailShape(a.effects.Trail.Shape) == components.ShapeSquare {
		next = components.ShapeCircle
	}
	a.effects.Trail.Shape = next.String()
	if err := a.prefs.SetTrailShape(next.String()); err != nil {
		log.Printf("[App] Warning: %v", err)
		return
	}
	if err := a.engine.ReconfigureTrail(a.trailID, a.effects.Trail); err != nil {
		log.Printf("[App] Warning: %v", err)
		return
	}
	if err := a.prefs.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

func (a *App) applyStackChange() {
	if err := a.engine.ReconfigureStack(a.stackID, a.effects.Stack); err != nil {
		log.Printf("[App] Warning: %v", err)
		return
	}
	if err := a.prefs.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Draw 绘制最近一帧
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.renderer.Draw(screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"scroll: wheel  [S] segmentation=%s  [Z] z-order=%s  [T] shape=%s  [Esc] quit\nprogress %.2f  tps %.0f",
		a.effects.Stack.Segmentation, a.effects.Stack.ZOrder, a.effects.Trail.Shape, a.scroll.Progress(), ebiten.ActualTPS()))
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Close 停止帧调度
func (a *App) Close() {
	a.sched.Dispose()
}

// IsTermination 判断 RunGame 返回的是否为正常退出
func IsTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}
