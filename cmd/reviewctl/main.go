// Command reviewctl inspects and edits review state directly against the store.
package main

import (
	"os"

	"github.com/vytor/mistakeflash/internal/config"
	"github.com/vytor/mistakeflash/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithOutput(os.Stderr),
		logger.WithColors(false),
		logger.WithCaller(false),
	))

	if err := newRootCmd(cfg, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
