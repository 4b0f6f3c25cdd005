package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chazu/levelimport/pkg/ctxlog"
	"github.com/chazu/levelimport/pkg/importer"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Import scene files in a directory whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return watch(cmd.Context(), cmd.OutOrStdout(), importer.New(cfg), args[0], outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "imported", "Directory receiving the imported scenes")
	return cmd
}

// isSceneFile reports whether path names a scene document.
func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// watch imports every scene file written in dir until ctx is done. Import
// failures are logged and do not stop the loop.
func watch(ctx context.Context, w io.Writer, im *importer.Importer, dir, outDir string) error {
	log := ctxlog.FromContext(ctx)

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	if absDir == absOut {
		return errors.New("output directory must differ from the watched directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info("watching for scene changes", "dir", dir, "output", outDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isSceneFile(event.Name) {
				continue
			}
			log.Debug("scene changed", "path", event.Name, "op", event.Op.String())
			if err := importFile(ctx, w, im, event.Name, outDir); err != nil {
				log.Error("import failed", "path", event.Name, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}
