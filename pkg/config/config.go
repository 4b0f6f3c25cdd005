// Package config loads importer settings from an HCL file.
//
// Every setting has a default; a config file only needs to name what it
// changes:
//
//	level_indicator = "Lvl"
//	base_texel_size = 0.1
//
//	grammar {
//	  indicator = "-"
//	}
//
//	keywords {
//	  no_shadow = "Unlit"
//	}
package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/chazu/levelimport/pkg/attr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds the importer settings.
type Config struct {
	LevelIndicator    string  // scene names containing this are levels
	BaseTexelSize     float64 // world units per lightmap texel before Texel{n}
	SceneDir          string  // packaged scene catalog directory
	MaterialDir       string  // material catalog directory
	MaterialExtension string  // material file extension, with the dot

	Indicator string
	Start     string
	End       string
	Keywords  map[attr.Kind]string
}

// Default returns the stock settings.
func Default() *Config {
	g := attr.DefaultGrammar()
	kw := make(map[attr.Kind]string, len(g.Keywords))
	for k, v := range g.Keywords {
		kw[k] = v
	}
	return &Config{
		LevelIndicator:    "Level",
		BaseTexelSize:     0.2,
		SceneDir:          "assets/scenes",
		MaterialDir:       "assets/materials",
		MaterialExtension: ".material",
		Indicator:         g.Indicator,
		Start:             g.Start,
		End:               g.End,
		Keywords:          kw,
	}
}

// Grammar builds the attribute grammar described by c.
func (c *Config) Grammar() attr.Grammar {
	kw := make(map[attr.Kind]string, len(c.Keywords))
	for k, v := range c.Keywords {
		kw[k] = v
	}
	return attr.Grammar{Indicator: c.Indicator, Start: c.Start, End: c.End, Keywords: kw}
}

// Validate reports the first problem with c.
func (c *Config) Validate() error {
	if c.LevelIndicator == "" {
		return fmt.Errorf("%w: level_indicator is empty", ErrInvalid)
	}
	if c.BaseTexelSize <= 0 || math.IsNaN(c.BaseTexelSize) || math.IsInf(c.BaseTexelSize, 0) {
		return fmt.Errorf("%w: base_texel_size must be positive, got %v", ErrInvalid, c.BaseTexelSize)
	}
	if c.SceneDir == "" || c.MaterialDir == "" {
		return fmt.Errorf("%w: catalog directories must be set", ErrInvalid)
	}
	if c.MaterialExtension == "" {
		return fmt.Errorf("%w: material_extension is empty", ErrInvalid)
	}
	if err := c.Grammar().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// hclFile is the decoded form of a config file. Pointers distinguish unset
// attributes from zero values.
type hclFile struct {
	LevelIndicator    *string      `hcl:"level_indicator,optional"`
	BaseTexelSize     *float64     `hcl:"base_texel_size,optional"`
	SceneDir          *string      `hcl:"scene_dir,optional"`
	MaterialDir       *string      `hcl:"material_dir,optional"`
	MaterialExtension *string      `hcl:"material_extension,optional"`
	Grammar           *hclGrammar  `hcl:"grammar,block"`
	Keywords          *hclKeywords `hcl:"keywords,block"`
}

type hclGrammar struct {
	Indicator *string `hcl:"indicator,optional"`
	Start     *string `hcl:"start,optional"`
	End       *string `hcl:"end,optional"`
}

type hclKeywords struct {
	NoCollision     *string `hcl:"no_collision,optional"`
	ConvexCollision *string `hcl:"convex_collision,optional"`
	CollisionLayer  *string `hcl:"collision_layer,optional"`
	CollisionMask   *string `hcl:"collision_mask,optional"`
	NoRender        *string `hcl:"no_render,optional"`
	CollisionOnly   *string `hcl:"collision_only,optional"`
	NoBake          *string `hcl:"no_bake,optional"`
	TexelScale      *string `hcl:"texel_scale,optional"`
	NoShadow        *string `hcl:"no_shadow,optional"`
	RenderLayer     *string `hcl:"render_layer,optional"`
}

func (k *hclKeywords) byKind() map[attr.Kind]*string {
	return map[attr.Kind]*string{
		attr.NoCollision:     k.NoCollision,
		attr.ConvexCollision: k.ConvexCollision,
		attr.CollisionLayer:  k.CollisionLayer,
		attr.CollisionMask:   k.CollisionMask,
		attr.NoRender:        k.NoRender,
		attr.CollisionOnly:   k.CollisionOnly,
		attr.NoBake:          k.NoBake,
		attr.TexelScale:      k.TexelScale,
		attr.NoShadow:        k.NoShadow,
		attr.RenderLayer:     k.RenderLayer,
	}
}

// Load reads the config file at path over the defaults and validates the
// result. Relative catalog directories are resolved against the directory
// containing the file.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(f.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	c := Default()
	c.apply(&parsed)

	base := filepath.Dir(path)
	if !filepath.IsAbs(c.SceneDir) {
		c.SceneDir = filepath.Join(base, c.SceneDir)
	}
	if !filepath.IsAbs(c.MaterialDir) {
		c.MaterialDir = filepath.Join(base, c.MaterialDir)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) apply(f *hclFile) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.LevelIndicator, f.LevelIndicator)
	set(&c.SceneDir, f.SceneDir)
	set(&c.MaterialDir, f.MaterialDir)
	set(&c.MaterialExtension, f.MaterialExtension)
	if f.BaseTexelSize != nil {
		c.BaseTexelSize = *f.BaseTexelSize
	}
	if g := f.Grammar; g != nil {
		set(&c.Indicator, g.Indicator)
		set(&c.Start, g.Start)
		set(&c.End, g.End)
	}
	if f.Keywords != nil {
		for k, v := range f.Keywords.byKind() {
			if v != nil {
				c.Keywords[k] = *v
			}
		}
	}
}
