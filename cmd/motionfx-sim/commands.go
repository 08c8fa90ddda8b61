package main

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/decker502/motionfx/pkg/config"
	"github.com/decker502/motionfx/pkg/engine"
	"github.com/decker502/motionfx/pkg/scheduler"
	"github.com/decker502/motionfx/pkg/types"
)

type simOptions struct {
	configPath string
	frames     int
	dt         float64
	every      int
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &simOptions{}
	root := &cobra.Command{
		Use:           "motionfx-sim",
		Short:         "Run the motion engine headless and dump frames as YAML",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !opts.verbose {
				log.SetOutput(io.Discard)
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultEffectsPath, "effect config file")
	root.PersistentFlags().IntVar(&opts.frames, "frames", 60, "number of frames to simulate")
	root.PersistentFlags().Float64Var(&opts.dt, "dt", 1.0/60, "seconds between frames")
	root.PersistentFlags().IntVar(&opts.every, "every", 10, "dump every Nth frame (the last frame is always dumped)")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable log output")

	root.AddCommand(
		newTrailCommand(opts),
		newStackCommand(opts),
		newValidateCommand(),
		newPresetsCommand(),
	)
	return root
}

func newTrailCommand(opts *simOptions) *cobra.Command {
	var from, to string
	var leaveAt int
	cmd := &cobra.Command{
		Use:   "trail",
		Short: "Move the pointer from one point to another and dump the follower chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parsePoint(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := parsePoint(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			return runSimulation(cmd.OutOrStdout(), opts, func(frame int, s *scheduler.InputSampler) {
				switch {
				case leaveAt > 0 && frame >= leaveAt:
					s.SetPointerPresent(false)
				case frame == 0:
					s.PushPointer(start.X, start.Y)
				default:
					s.PushPointer(end.X, end.Y)
				}
			}, func(f engine.Frame) any { return trailDump{Seq: f.Seq, DT: f.DT, Trails: f.Trails} })
		},
	}
	cmd.Flags().StringVar(&from, "from", "0,0", "pointer position on the first frame (x,y)")
	cmd.Flags().StringVar(&to, "to", "400,300", "pointer position afterwards (x,y)")
	cmd.Flags().IntVar(&leaveAt, "leave-at", 0, "frame at which the pointer leaves the viewport (0 = never)")
	return cmd
}

func newStackCommand(opts *simOptions) *cobra.Command {
	var from, to float64
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Sweep scroll progress linearly and dump the stacked targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.OutOrStdout(), opts, func(frame int, s *scheduler.InputSampler) {
				t := 1.0
				if opts.frames > 1 {
					t = float64(frame) / float64(opts.frames-1)
				}
				s.PushProgress(from + (to-from)*t)
			}, func(f engine.Frame) any { return stackDump{Seq: f.Seq, DT: f.DT, Stacks: f.Stacks} })
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "progress on the first frame")
	cmd.Flags().Float64Var(&to, "to", 1, "progress on the last frame")
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Parse and validate effect config files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if _, err := config.LoadEffectsConfig(path); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %v\n", err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d config files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the presets under data/presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := filepath.Glob(filepath.Join(config.PresetsDir, "*.yaml"))
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(filepath.Base(f), ".yaml"))
			}
			return nil
		},
	}
}

type trailDump struct {
	Seq    uint64              `yaml:"seq"`
	DT     float64             `yaml:"dt"`
	Trails []engine.TrailFrame `yaml:"trails"`
}

type stackDump struct {
	Seq    uint64              `yaml:"seq"`
	DT     float64             `yaml:"dt"`
	Stacks []engine.StackFrame `yaml:"stacks"`
}

// runSimulation 用手动帧源驱动真实调度器，每帧前调用 feed 写入输入
func runSimulation(w io.Writer, opts *simOptions, feed func(frame int, s *scheduler.InputSampler), view func(engine.Frame) any) error {
	if opts.frames <= 0 {
		return fmt.Errorf("--frames must be positive, got %d", opts.frames)
	}
	if opts.dt <= 0 {
		return fmt.Errorf("--dt must be positive, got %v", opts.dt)
	}
	every := opts.every
	if every <= 0 {
		every = 1
	}

	cfg, err := config.LoadEffectsConfig(opts.configPath)
	if err != nil {
		return err
	}
	eng, _, _, err := engine.NewFromConfig(cfg, nil)
	if err != nil {
		return err
	}

	var frames []engine.Frame
	source := scheduler.NewManualFrameSource()
	sampler := scheduler.NewInputSampler()
	sched := scheduler.New(source, sampler, eng.Step, func(f engine.Frame) {
		frames = append(frames, f)
	}, scheduler.Options{FallbackDT: opts.dt, MaxDT: cfg.Frame.MaxDT})
	sched.Start()
	defer sched.Dispose()

	step := time.Duration(opts.dt * float64(time.Second))
	now := time.Unix(0, 0)
	for i := 0; i < opts.frames; i++ {
		feed(i, sampler)
		source.Fire(now)
		now = now.Add(step)
	}

	var out []any
	for i, f := range frames {
		if i%every == 0 || i == len(frames)-1 {
			out = append(out, view(f))
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode frames: %w", err)
	}
	return enc.Close()
}

// parsePoint 解析 "x,y"
func parsePoint(s string) (types.Vector2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return types.Vector2{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return types.Vector2{}, fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return types.Vector2{}, fmt.Errorf("bad y in %q: %w", s, err)
	}
	return types.Vector2{X: x, Y: y}, nil
}
