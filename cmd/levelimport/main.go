// Command levelimport post-processes level scenes exported from a modeling
// tool: it synthesizes collision bodies, generates lightmap UVs, applies
// render flags and swaps placeholder nodes and materials for project
// assets, all driven by attributes written into node names.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chazu/levelimport/pkg/config"
	"github.com/chazu/levelimport/pkg/ctxlog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath     string
	debug          bool
	json           bool
	sceneDir       string
	materialDir    string
	levelIndicator string
}

// run builds the command tree and executes it with args.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:           "levelimport [command]",
		Short:         "Turn exported level scenes into game-ready scenes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), newLogger(stderr, g.debug, g.json)))
			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Path to an HCL settings file")
	pf.BoolVar(&g.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&g.json, "json", false, "Log as JSON")
	pf.StringVar(&g.sceneDir, "scene-dir", "", "Packaged scene catalog directory (overrides the config file)")
	pf.StringVar(&g.materialDir, "material-dir", "", "Material catalog directory (overrides the config file)")
	pf.StringVar(&g.levelIndicator, "level-indicator", "", "Substring marking level scenes (overrides the config file)")

	rootCmd.AddCommand(
		newRunCmd(&g),
		newInspectCmd(&g),
		newWatchCmd(&g),
		newExampleCmd(),
	)
	return rootCmd
}

func newLogger(w io.Writer, debug, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadConfig reads the settings file, if any, and applies flag overrides.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return nil, err
		}
	}
	if g.sceneDir != "" {
		cfg.SceneDir = g.sceneDir
	}
	if g.materialDir != "" {
		cfg.MaterialDir = g.materialDir
	}
	if g.levelIndicator != "" {
		cfg.LevelIndicator = g.levelIndicator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
