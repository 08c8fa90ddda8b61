// motionfx-sim 无窗口地推进动效引擎并把逐帧快照输出为 YAML
//
// 用法：
//
//	motionfx-sim trail --frames 30 --to 400,300
//	motionfx-sim stack --frames 120 --from 0 --to 1
//	motionfx-sim validate data/effects.yaml data/presets/*.yaml
//	motionfx-sim presets
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "motionfx-sim: %v\n", err)
		os.Exit(1)
	}
}
