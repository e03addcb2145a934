package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tangzhangming/riva/internal/config"
	"github.com/tangzhangming/riva/internal/lsp"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	cfg := config.LoadForPath(wd)

	server := lsp.NewServer(cfg.LSP.Log, cfg.Diagnostics.WarnUnused)
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "rivals: %v\n", err)
		os.Exit(1)
	}
}
