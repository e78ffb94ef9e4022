package main

import (
	"context"
	"os"
	"time"

	"github.com/bep/debounce"
	charmlog "github.com/charmbracelet/log"
)

const (
	WATCH_INTERVAL = 250 * time.Millisecond
	RELOAD_DELAY   = 300 * time.Millisecond
)

// watchConfig calls reload with the new file contents once the file has
// stopped changing. Files that do not parse are logged and skipped.
func watchConfig(ctx context.Context, path string, reload func(HostConfig)) {
	logger := charmlog.FromContext(ctx)
	debounced := debounce.New(RELOAD_DELAY)
	var last time.Time
	if stat, err := os.Stat(path); err == nil {
		last = stat.ModTime()
	}

	ticker := time.NewTicker(WATCH_INTERVAL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stat, err := os.Stat(path)
			if err != nil || !stat.ModTime().After(last) {
				continue
			}
			last = stat.ModTime()
			debounced(func() {
				c, err := LoadConfig(path)
				if err != nil {
					logger.Warn("config not reloaded", "path", path, "err", err)
					return
				}
				logger.Info("config reloaded", "path", path)
				reload(c)
			})
		}
	}
}
