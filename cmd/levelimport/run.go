package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/levelimport/pkg/importer"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "run <scene.yaml>...",
		Short: "Import scene files",
		Long: `Import each scene file. Level scenes are processed; other scenes are
copied to the output directory unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			im := importer.New(cfg)
			for _, in := range args {
				if err := importFile(cmd.Context(), cmd.OutOrStdout(), im, in, outDir); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "imported", "Directory receiving the imported scenes")
	return cmd
}

// importFile imports in to a file of the same name in outDir and prints a
// one-line summary.
func importFile(ctx context.Context, w io.Writer, im *importer.Importer, in, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	out := filepath.Join(outDir, filepath.Base(in))
	res, err := im.Import(ctx, in, out)
	if err != nil {
		return err
	}

	r := res.Report
	if !r.Level {
		fmt.Fprintf(w, "%s: not a level, copied to %s\n", res.Scene, out)
		return nil
	}
	fmt.Fprintf(w, "%s: %d bodies, %d unwrapped, %d hidden, %d replaced, %d materials (%d blank), %d warnings -> %s\n",
		res.Scene, r.Bodies, r.Unwrapped, r.RenderRemoved, r.Replaced, r.Materials, r.Blank, len(res.Warnings), out)
	return nil
}
