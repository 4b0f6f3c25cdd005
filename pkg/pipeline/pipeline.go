// Package pipeline turns an imported level scene into a game-ready tree.
//
// The direct children of the level root are split into static and
// replaceable nodes (see Classify). Every static node and its mesh
// descendants go through the passes returned by Passes, in order; every
// replaceable node has its content swapped for an instance of the packaged
// scene its name refers to. Per-node behavior is driven by attributes
// embedded in node names (see package attr).
//
// Processing mutates the tree in place and is not idempotent: running it
// twice over the same tree adds collision bodies twice.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/levelimport/pkg/attr"
	"github.com/chazu/levelimport/pkg/catalog"
	"github.com/chazu/levelimport/pkg/ctxlog"
	"github.com/chazu/levelimport/pkg/kernel"
	"github.com/chazu/levelimport/pkg/scene"
)

// suggestions is how many near-miss catalog names are logged for a name
// that matched nothing.
const suggestions = 3

// Options configures a pipeline run.
type Options struct {
	Grammar        attr.Grammar
	LevelIndicator string
	BaseTexelSize  float64 // world units per lightmap texel before Texel{n}

	Kernel    kernel.Kernel
	Scenes    *catalog.Catalog // packaged scenes, matched against top-level node names
	Materials *catalog.Catalog // materials, matched against surface material names
	Loader    catalog.Loader
}

func (o *Options) validate() error {
	if err := o.Grammar.Validate(); err != nil {
		return err
	}
	if o.BaseTexelSize <= 0 {
		return fmt.Errorf("pipeline: base texel size must be positive, got %v", o.BaseTexelSize)
	}
	if o.Kernel == nil {
		return errors.New("pipeline: no geometry kernel")
	}
	if o.Loader == nil {
		return errors.New("pipeline: no asset loader")
	}
	return nil
}

// Report counts what a run changed.
type Report struct {
	Level         bool // false when the scene was passed through untouched
	Static        int  // top-level nodes run through the passes
	Bodies        int  // collision bodies added
	Unwrapped     int  // meshes rebuilt with lightmap UVs
	RenderRemoved int  // mesh instances that lost their mesh
	Replaced      int  // nodes swapped for packaged scenes
	Materials     int  // surfaces given a catalog material
	Blank         int  // surfaces given the blank material
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("static", r.Static),
		slog.Int("bodies", r.Bodies),
		slog.Int("unwrapped", r.Unwrapped),
		slog.Int("render_removed", r.RenderRemoved),
		slog.Int("replaced", r.Replaced),
		slog.Int("materials", r.Materials),
		slog.Int("blank_materials", r.Blank),
	)
}

// Run is the state of one pipeline invocation over one level. Catalogs and
// decoded assets are cached here and never shared between runs.
type Run struct {
	Options
	Level  *scene.Node // owner of every node the run creates
	Report Report

	log       *slog.Logger
	materials map[string]*scene.Material // by asset id
	scenes    map[string]*scene.Node     // by asset id, cloned per instance
}

// NewRun prepares a run over the tree rooted at level. The logger is taken
// from ctx.
func NewRun(ctx context.Context, level *scene.Node, opts Options) (*Run, error) {
	if level == nil {
		return nil, errors.New("pipeline: nil scene")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Run{
		Options:   opts,
		Level:     level,
		log:       ctxlog.FromContext(ctx),
		materials: make(map[string]*scene.Material),
		scenes:    make(map[string]*scene.Node),
	}, nil
}

// Process runs the pipeline over root if its name marks it as a level, and
// leaves it untouched otherwise. Nodes queued for deletion by replacement
// stay in the tree until scene.FlushQueued.
//
// An error aborts processing; mutations applied before it are kept.
func Process(ctx context.Context, root *scene.Node, opts Options) (*Report, error) {
	if root == nil {
		return nil, errors.New("pipeline: nil scene")
	}
	log := ctxlog.FromContext(ctx)
	if !IsLevel(root.Name, opts.LevelIndicator) {
		log.Debug("scene is not a level, skipping", "scene", root.Name, "indicator", opts.LevelIndicator)
		return &Report{}, nil
	}

	r, err := NewRun(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	r.Report.Level = true

	static, replaceable := Classify(root.Children(), opts.Scenes)
	log.Debug("classified level children",
		"scene", root.Name, "static", len(static), "replaceable", len(replaceable))

	for _, n := range static {
		if err := ctx.Err(); err != nil {
			return &r.Report, err
		}
		if err := r.Static(n); err != nil {
			return &r.Report, err
		}
	}
	for _, n := range replaceable {
		if err := ctx.Err(); err != nil {
			return &r.Report, err
		}
		if err := r.Replace(n); err != nil {
			return &r.Report, err
		}
	}

	log.Info("processed scene as level", "scene", root.Name, "report", &r.Report)
	return &r.Report, nil
}

// Static runs every pass over the subtree rooted at n.
func (r *Run) Static(n *scene.Node) error {
	for _, p := range Passes() {
		if err := p.Apply(r, n); err != nil {
			return fmt.Errorf("%s pass: %w", p.Name, err)
		}
	}
	r.Report.Static++
	return nil
}

// has reports whether n's name carries the attribute k.
func (r *Run) has(n *scene.Node, k attr.Kind) bool {
	return r.Grammar.Parse(n.Name).Has(k)
}

// value returns the parsed literal of attribute k on n's name.
func (r *Run) value(n *scene.Node, k attr.Kind) (float64, bool) {
	return r.Grammar.Parse(n.Name).Float(k)
}

// material returns the decoded material for a catalog entry.
func (r *Run) material(e catalog.Entry) (*scene.Material, error) {
	if m, ok := r.materials[e.AssetID]; ok {
		return m, nil
	}
	m, err := r.Loader.LoadMaterial(e.AssetID)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", e.AssetID, err)
	}
	r.materials[e.AssetID] = m
	return m, nil
}

// instance returns a fresh copy of the packaged scene for a catalog entry.
func (r *Run) instance(e catalog.Entry) (*scene.Node, error) {
	proto, ok := r.scenes[e.AssetID]
	if !ok {
		var err error
		proto, err = r.Loader.LoadScene(e.AssetID)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", e.AssetID, err)
		}
		r.scenes[e.AssetID] = proto
	}
	return proto.Clone(), nil
}

// adopt attaches child to parent and makes the level root its owner.
func (r *Run) adopt(parent, child *scene.Node) {
	parent.AddChild(child)
	child.SetOwnerRecursive(r.Level)
}
