package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [documents...]",
		Short: "Republish documents when they change",
		Long: `Publish the documents once, then watch them and republish each one when it
is written. Bursts of events are coalesced. Stop with Ctrl-C.`,
		Example: `  # Watch the documents listed in pixi-animate.yaml
  pixi-animate watch

  # Watch one document with a longer debounce
  pixi-animate watch scenes/intro.yaml --debounce 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			docs, err := documentArgs(cmdCtx.Cfg, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("debounce") {
				debounce = cmdCtx.Cfg.WatchDebounce
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r := cmdCtx.Renderer
			publishOne := func(ctx context.Context, path string) {
				res, err := cmdCtx.Publisher.Publish(ctx, path)
				switch {
				case err != nil:
					r.StatusLine(path, "failed", err.Error())
				case res.Skipped:
					r.StatusLine(path, "skipped", "unchanged")
				default:
					r.StatusLine(path, "success", fmt.Sprintf("%s (%d bytes)", res.JSPath, res.Bytes))
				}
			}

			for _, doc := range docs {
				publishOne(ctx, doc)
			}

			fw, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
			defer func() { _ = fw.Close() }()

			r.Muted(fmt.Sprintf("Watching %d documents...", len(docs)))
			return watchDocuments(ctx, fw, docs, debounce, cmdCtx.Logger, publishOne)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Quiet period before republishing (default from config)")

	return cmd
}

// watchDocuments watches the directories holding docs and calls onChange once
// per changed document after debounce of quiet. Directories are watched
// rather than files so editors that replace files on save keep working.
// It returns when ctx is done.
func watchDocuments(ctx context.Context, fw *fsnotify.Watcher, docs []string, debounce time.Duration,
	logger *slog.Logger, onChange func(context.Context, string)) error {
	watched := make(map[string]string, len(docs)) // abs path -> path as given
	for _, doc := range docs {
		abs, err := filepath.Abs(doc)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", doc, err)
		}
		watched[abs] = doc
	}

	dirs := make(map[string]bool)
	for abs := range watched {
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			doc, ok := watched[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("document changed", "document", doc, "op", ev.Op.String())
			pending[doc] = true
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for doc := range pending {
				changed = append(changed, doc)
			}
			clear(pending)
			slices.Sort(changed)
			for _, doc := range changed {
				onChange(ctx, doc)
			}
		}
	}
}
