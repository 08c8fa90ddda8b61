package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "effects.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTrailCommand_DumpsFrames(t *testing.T) {
	cfg := writeConfig(t, "trail:\n  count: 2\n")
	out, err := execute(t, "trail", "--config", cfg, "--frames", "20", "--every", "5", "--to", "100,50")
	if err != nil {
		t.Fatalf("trail err = %v\n%s", err, out)
	}

	var frames []map[string]any
	if err := yaml.Unmarshal([]byte(out), &frames); err != nil {
		t.Fatalf("输出不是合法 YAML: %v\n%s", err, out)
	}
	// 帧 0,5,10,15 加上最后一帧 19
	if len(frames) != 5 {
		t.Fatalf("输出 %d 帧, 期望 5", len(frames))
	}
	if !strings.Contains(out, "shape: circle") {
		t.Errorf("形状应以名称输出:\n%s", out)
	}
}

func TestStackCommand_SweepsProgress(t *testing.T) {
	cfg := writeConfig(t, "stack:\n  count: 3\n")
	out, err := execute(t, "stack", "--config", cfg, "--frames", "4", "--every", "1")
	if err != nil {
		t.Fatalf("stack err = %v\n%s", err, out)
	}

	var frames []struct {
		Stacks []struct {
			RawProgress float64 `yaml:"rawprogress"`
			Targets     []any   `yaml:"targets"`
		} `yaml:"stacks"`
	}
	if err := yaml.Unmarshal([]byte(out), &frames); err != nil {
		t.Fatalf("输出不是合法 YAML: %v\n%s", err, out)
	}
	if len(frames) != 4 {
		t.Fatalf("输出 %d 帧, 期望 4", len(frames))
	}
	last := frames[len(frames)-1].Stacks[0]
	if last.RawProgress != 1 {
		t.Errorf("最后一帧 rawprogress = %v, 期望 1", last.RawProgress)
	}
	if len(last.Targets) != 3 {
		t.Errorf("targets = %d, 期望 3", len(last.Targets))
	}
}

func TestValidateCommand(t *testing.T) {
	good := writeConfig(t, "trail:\n  count: 3\n")
	bad := writeConfig(t, "trail:\n  count: 2\n  sizes: [1, 2, 3]\n")

	out, err := execute(t, "validate", good)
	if err != nil {
		t.Fatalf("合法配置 err = %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "ok") {
		t.Errorf("输出 = %q", out)
	}

	out, err = execute(t, "validate", good, bad)
	if err == nil {
		t.Fatal("包含非法配置时应返回错误")
	}
	if !strings.Contains(out, "FAIL") || !strings.Contains(out, "trail.sizes") {
		t.Errorf("输出应指出出错字段:\n%s", out)
	}
}

func TestSimulation_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"frames 为 0", []string{"stack", "--frames", "0"}},
		{"dt 为负", []string{"stack", "--dt", "-1"}},
		{"坐标格式错误", []string{"trail", "--to", "12"}},
		{"多余参数", []string{"trail", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("%v 应返回错误", tt.args)
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" 12.5 , -3 ")
	if err != nil || p.X != 12.5 || p.Y != -3 {
		t.Errorf("parsePoint = %+v, %v", p, err)
	}
	if _, err := parsePoint("1,x"); err == nil {
		t.Error("非法 y 应返回错误")
	}
}
