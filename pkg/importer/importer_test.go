package importer

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/levelimport/pkg/catalog"
	"github.com/chazu/levelimport/pkg/config"
	"github.com/chazu/levelimport/pkg/ctxlog"
	"github.com/chazu/levelimport/pkg/kernel/sdfx"
	"github.com/chazu/levelimport/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doorScene = `
name: InteractableDoor
children:
  - name: Panel
    type: mesh
    mesh:
      surfaces:
        - vertices: [0, 0, 0, 1, 0, 0, 0, 2, 0]
`

const stoneMaterial = `
name: Stone
albedo: [0.4, 0.4, 0.45, 1]
roughness: 0.9
`

// project lays out catalogs in a temp dir and returns a config for it.
func project(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.SceneDir = filepath.Join(dir, "scenes")
	cfg.MaterialDir = filepath.Join(dir, "materials")
	require.NoError(t, os.MkdirAll(cfg.SceneDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.MaterialDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.SceneDir, "InteractableDoor.yaml"), []byte(doorScene), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.SceneDir, "InteractableDoor.yaml.import"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.MaterialDir, "Stone.material"), []byte(stoneMaterial), 0o644))
	return cfg
}

func levelScene(t *testing.T, name string) *scene.Node {
	t.Helper()
	m, err := sdfx.Box(2, 1, 1, 8)
	require.NoError(t, err)
	m.Surfaces[0].Material = &scene.Material{Name: "Stone"}

	root := scene.New(name)
	root.AddChild(scene.NewMeshInstance("Rock=NoBake", m))
	door := scene.New("InteractableDoor")
	door.AddChild(scene.New("Placeholder_Cube"))
	root.AddChild(door)
	root.SetOwnerRecursive(root)
	return root
}

func TestImport(t *testing.T) {
	cfg := project(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "Level_Intro.yaml")
	out := filepath.Join(dir, "out.yaml")
	require.NoError(t, scene.Save(in, levelScene(t, "Level_Intro")))

	res, err := New(cfg).Import(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, "Level_Intro", res.Scene)
	assert.True(t, res.Report.Level)
	assert.Equal(t, 1, res.Report.Bodies)
	assert.Equal(t, 1, res.Report.Replaced)
	assert.Equal(t, 1, res.Removed)
	assert.Empty(t, res.Warnings)

	back, err := scene.Load(out)
	require.NoError(t, err)
	rock := back.FindChild("Rock=NoBake")
	require.NotNil(t, rock)
	assert.Equal(t, scene.GIDynamic, rock.GIMode)
	assert.True(t, rock.Mesh.HasLightmapUV())
	mat := rock.Mesh.Surfaces[0].Material
	assert.Equal(t, "Stone", mat.Name)
	assert.Equal(t, filepath.Join(cfg.MaterialDir, "Stone.material"), mat.Path)
	assert.InDelta(t, 0.9, mat.Roughness, 1e-6)

	require.NotNil(t, back.FindChild("Rock=NoBake_col"))

	door := back.FindChild("InteractableDoor (replaced)")
	require.NotNil(t, door)
	require.Equal(t, 1, door.ChildCount())
	assert.Equal(t, "InteractableDoor", door.Child(0).Name)
	assert.NotNil(t, door.Child(0).FindChild("Panel"))
}

func TestImportPassesThroughNonLevels(t *testing.T) {
	cfg := config.Default()
	cfg.SceneDir = filepath.Join(t.TempDir(), "missing")
	dir := t.TempDir()
	in := filepath.Join(dir, "Prototype.yaml")
	out := filepath.Join(dir, "out.yaml")
	require.NoError(t, scene.Save(in, levelScene(t, "Prototype")))

	res, err := New(cfg).Import(context.Background(), in, out)
	require.NoError(t, err, "catalogs are not read for non-levels")
	assert.False(t, res.Report.Level)

	want, err := os.ReadFile(in)
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestImportMissingCatalog(t *testing.T) {
	cfg := project(t)
	cfg.MaterialDir = filepath.Join(t.TempDir(), "gone")

	_, err := New(cfg).Process(context.Background(), levelScene(t, "Level_1"))
	assert.ErrorIs(t, err, catalog.ErrCatalog)
}

func TestImportMissingInput(t *testing.T) {
	_, err := New(config.Default()).Import(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), "out.yaml")
	assert.Error(t, err)
}

// brokenLoader fails every asset load.
type brokenLoader struct{}

func (brokenLoader) LoadScene(id string) (*scene.Node, error) {
	return nil, os.ErrNotExist
}

func (brokenLoader) LoadMaterial(id string) (*scene.Material, error) {
	return nil, os.ErrNotExist
}

func TestImportAssetFailureIsFatal(t *testing.T) {
	cfg := project(t)
	_, err := New(cfg).WithLoader(brokenLoader{}).Process(context.Background(), levelScene(t, "Level_1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessLogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	cfg := project(t)
	root := levelScene(t, "Level_1")
	// A body with no shape is legal but suspicious.
	root.AddChild(scene.NewNode("Trigger", scene.StaticBody))
	root.Child(2).SetOwner(root)

	res, err := New(cfg).Process(ctx, root)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, scene.SeverityWarning, res.Warnings[0].Severity)
	assert.Contains(t, buf.String(), "output tree problem")
	assert.Contains(t, buf.String(), "processed scene as level")
}
