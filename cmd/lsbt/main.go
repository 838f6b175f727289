package main

import (
	"os"

	"github.com/wonny/lsbacktest/cmd/lsbt/commands"
)

// main is the entry point for the lsbt CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/lsbt [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
