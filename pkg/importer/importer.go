// Package importer runs the level pipeline over scene files: it loads a
// scene, processes it when it is a level, checks the result and saves it.
package importer

import (
	"context"
	"fmt"

	"github.com/chazu/levelimport/pkg/catalog"
	"github.com/chazu/levelimport/pkg/config"
	"github.com/chazu/levelimport/pkg/ctxlog"
	"github.com/chazu/levelimport/pkg/kernel"
	"github.com/chazu/levelimport/pkg/kernel/sdfx"
	"github.com/chazu/levelimport/pkg/pipeline"
	"github.com/chazu/levelimport/pkg/scene"
)

// Importer holds the collaborators shared by every import.
type Importer struct {
	cfg    *config.Config
	kernel kernel.Kernel
	loader catalog.Loader
}

// Result describes one imported scene.
type Result struct {
	Scene    string
	Report   pipeline.Report
	Removed  int                     // nodes dropped by flushing the deletion queue
	Warnings []scene.ValidationError // structural findings in the output tree
}

// New returns an Importer using the sdfx kernel and file-backed assets.
func New(cfg *config.Config) *Importer {
	return &Importer{cfg: cfg, kernel: sdfx.New(), loader: catalog.FileLoader{}}
}

// WithKernel replaces the geometry kernel.
func (im *Importer) WithKernel(k kernel.Kernel) *Importer {
	im.kernel = k
	return im
}

// WithLoader replaces the asset loader.
func (im *Importer) WithLoader(l catalog.Loader) *Importer {
	im.loader = l
	return im
}

// Import processes the scene file at in and writes the result to out.
// Scenes that are not levels are written unchanged.
func (im *Importer) Import(ctx context.Context, in, out string) (*Result, error) {
	log := ctxlog.FromContext(ctx)

	// Step 1: Load the scene.
	root, err := scene.Load(in)
	if err != nil {
		return nil, err
	}

	// Step 2: Run the pipeline over the tree.
	res, err := im.Process(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", in, err)
	}

	// Step 3: Save.
	if err := scene.Save(out, root); err != nil {
		return nil, err
	}
	log.Debug("saved scene", "scene", root.Name, "path", out)
	return res, nil
}

// Process runs the pipeline over an in-memory tree, flushes the nodes it
// queued for deletion and validates the result. Catalogs are listed only
// when the scene is a level.
func (im *Importer) Process(ctx context.Context, root *scene.Node) (*Result, error) {
	log := ctxlog.FromContext(ctx)
	res := &Result{Scene: root.Name}

	if !pipeline.IsLevel(root.Name, im.cfg.LevelIndicator) {
		log.Info("scene is not a level, passing through", "scene", root.Name)
		return res, nil
	}

	scenes, err := catalog.LoadScenes(im.cfg.SceneDir)
	if err != nil {
		return nil, err
	}
	materials, err := catalog.LoadMaterials(im.cfg.MaterialDir, im.cfg.MaterialExtension)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded catalogs", "scenes", scenes.Len(), "materials", materials.Len())

	report, err := pipeline.Process(ctx, root, pipeline.Options{
		Grammar:        im.cfg.Grammar(),
		LevelIndicator: im.cfg.LevelIndicator,
		BaseTexelSize:  im.cfg.BaseTexelSize,
		Kernel:         im.kernel,
		Scenes:         scenes,
		Materials:      materials,
		Loader:         im.loader,
	})
	if err != nil {
		return nil, err
	}
	res.Report = *report
	res.Removed = scene.FlushQueued(root)

	for _, finding := range scene.Validate(root) {
		res.Warnings = append(res.Warnings, finding)
		log.Warn("output tree problem", "scene", root.Name, "path", finding.Path,
			"severity", finding.Severity.String(), "problem", finding.Message)
	}
	return res, nil
}
