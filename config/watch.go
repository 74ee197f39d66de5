package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads filePath on every write until ctx is done. Only tick_rate and
// log_level are applied live; onChange receives the merged configuration.
func Watch(ctx context.Context, filePath string, onChange func(*AppConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 编辑器保存时经常是 rename，所以监听目录
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		return err
	}
	name := filepath.Clean(filePath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if cfg, changed := reload(filePath); changed {
					onChange(cfg)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Err(err).Str("path", filePath).Msg("config watcher")
		}
	}
}

// reload reads the file and merges the live keys into the current config.
func reload(filePath string) (*AppConfig, bool) {
	next, err := ReadFile(filePath)
	if err != nil {
		log.Err(err).Msg("config reload rejected")
		return nil, false
	}
	cur := Get()
	if cur == nil {
		cur = Default()
	}
	merged, changed := Merge(cur, next)
	if changed {
		set(merged)
	}
	return merged, changed
}

// Merge copies the hot keys of next over a copy of cur. Differences in other
// keys are logged and ignored.
func Merge(cur, next *AppConfig) (*AppConfig, bool) {
	merged := *cur
	changed := false
	if next.TickRate != cur.TickRate {
		merged.TickRate = next.TickRate
		changed = true
	}
	if next.LogLevel != cur.LogLevel {
		merged.LogLevel = next.LogLevel
		changed = true
	}

	rest := *next
	rest.TickRate, rest.LogLevel = cur.TickRate, cur.LogLevel
	if rest != *cur {
		log.Warn().Msg("config keys other than tick_rate and log_level need a restart")
	}
	return &merged, changed
}
