package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/recera/ncc/cmd/ncc/internal/build"
	"github.com/recera/ncc/cmd/ncc/internal/config"
	"github.com/recera/ncc/cmd/ncc/internal/livereload"
)

type watcher struct {
	cfg     *config.Config
	watcher *fsnotify.Watcher
	hub     *livereload.Hub
}

func newWatchCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild on change and notify browsers",
		Long: `Builds the project, then rebuilds whenever a template changes. Connected
browsers are told to reload over a websocket after each successful build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(".")
			if addr != "" {
				cfg.Watch.ReloadAddr = addr
			}
			return runWatch(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address of the live-reload endpoint")

	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	w := &watcher{cfg: cfg, watcher: fw, hub: livereload.NewHub()}
	for _, dir := range []string{cfg.ViewsDir, cfg.VendorDir, cfg.ComponentsDir} {
		if err := w.addTree(dir); err != nil {
			return err
		}
	}

	mux := http.NewServeMux()
	mux.Handle(livereload.Path, w.hub)
	mux.Handle(livereload.ScriptPath, livereload.ScriptHandler(cfg.Watch.ReloadAddr))
	srv := &http.Server{Addr: cfg.Watch.ReloadAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("⚠️  Live reload server failed: %v", err)
		}
	}()
	defer srv.Close()

	log.Printf("👀 Watching for changes (live reload on ws://%s%s)", cfg.Watch.ReloadAddr, livereload.Path)
	w.rebuild(ctx)
	w.loop(ctx)
	return nil
}

// addTree watches dir and its subdirectories. A missing directory is
// skipped.
func (w *watcher) addTree(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *watcher) loop(ctx context.Context) {
	delay := time.Duration(w.cfg.Watch.DebounceMS) * time.Millisecond
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	var pending []fsnotify.Event
	for {
		select {
		case <-ctx.Done():
			log.Println("👋 Stopping watch")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						log.Printf("⚠️  Failed to watch %s: %v", event.Name, err)
					}
				}
			}
			if !isRelevant(event.Name) {
				continue
			}
			pending = append(pending, event)
			debounce.Reset(delay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Println("Watcher error:", err)

		case <-debounce.C:
			if len(pending) == 0 {
				continue
			}
			log.Printf("🔄 %d change(s), first: %s", len(pending), pending[0].Name)
			pending = nil
			w.rebuild(ctx)
		}
	}
}

func (w *watcher) rebuild(ctx context.Context) {
	res, err := runBuild(ctx, w.cfg, "http://"+w.cfg.Watch.ReloadAddr+livereload.ScriptPath)
	if err != nil {
		log.Println(report(err))
		w.hub.Broadcast(livereload.Message{Type: livereload.TypeError, Message: err.Error()})
		return
	}
	n := w.hub.Broadcast(livereload.Message{Type: livereload.TypeReload})
	if n > 0 {
		log.Printf("🔁 Reloaded %d client(s) after %d routes", n, len(res.Routes))
	}
}

// isRelevant reports whether a change to path can affect the build.
func isRelevant(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case build.Ext, ".html", ".css", ".ts", ".js":
		return true
	}
	return false
}
