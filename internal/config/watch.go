package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and calls onChange with the newly loaded Config each
// time a write changes a hot-reloadable limit (pins.ttl,
// pins.max_payload_bytes). Changes to startup-only fields (port, pin shape,
// shard count, intervals) are logged as requiring a restart and do not
// trigger onChange. Watch runs until ctx is cancelled.
//
// A failed reload (e.g., invalid YAML) is logged and the previous config
// remains active.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	// Baseline for change detection; the file was already loadable at
	// startup or the server would not be running.
	prev, err := Load(path)
	if err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, which surfaces as Create on a
			// fresh inode rather than Write.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Re-add in case that atomic save replaced the inode.
			_ = watcher.Add(path)

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous config",
					"path", path, "err", err)
				continue
			}

			hot, restart := reloadChanges(prev, cfg)
			prev = cfg

			if len(restart) > 0 {
				slog.Warn("config: changed fields apply on next restart", "fields", restart)
			}
			if len(hot) == 0 {
				continue
			}
			slog.Info("config: reloaded", "changed", hot)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// reloadChanges compares two configs and reports which fields changed:
// hot names the limits the running store can apply immediately, restart
// names fields read only at startup.
func reloadChanges(old, cur *Config) (hot, restart []string) {
	if old.Server.Pins.TTL != cur.Server.Pins.TTL {
		hot = append(hot, "pins.ttl")
	}
	if old.Server.Pins.MaxPayloadBytes != cur.Server.Pins.MaxPayloadBytes {
		hot = append(hot, "pins.max_payload_bytes")
	}

	if old.Server.HTTPPort != cur.Server.HTTPPort {
		restart = append(restart, "http_port")
	}
	if old.Server.Pins.ReapInterval != cur.Server.Pins.ReapInterval {
		restart = append(restart, "pins.reap_interval")
	}
	if old.Server.Pins.KeyLength != cur.Server.Pins.KeyLength {
		restart = append(restart, "pins.key_length")
	}
	if old.Server.Pins.Alphabet != cur.Server.Pins.Alphabet {
		restart = append(restart, "pins.alphabet")
	}
	if old.Server.Pins.MaxGenerateRetries != cur.Server.Pins.MaxGenerateRetries {
		restart = append(restart, "pins.max_generate_retries")
	}
	if old.Server.Pins.Shards != cur.Server.Pins.Shards {
		restart = append(restart, "pins.shards")
	}
	if old.Server.Stats.Interval != cur.Server.Stats.Interval {
		restart = append(restart, "stats.interval")
	}
	return hot, restart
}
