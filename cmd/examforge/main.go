// cmd/examforge/main.go
//
// Entry point for the examforge CLI.
//
// Flow:
// 1. Resolve the project directory and load .examforge/config.yaml
// 2. Ask which exam to build (unless --exam is given)
// 3. Draw one exercise per level and scaffold it under the output folder

package main

import (
	"os"

	"github.com/kingrea/examforge/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		tui.NewReporter(os.Stderr).Error(err)
		os.Exit(1)
	}
}
