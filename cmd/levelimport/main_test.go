package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/levelimport/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(ctx, &stdout, &stderr, args)
	return stdout.String(), stderr.String(), err
}

func TestInspect(t *testing.T) {
	out, _, err := execute(t, context.Background(), "inspect", "Rock=NoBake=Col{4}", "Plain", "Sky=Layer{x}")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^Rock=NoBake=Col\{4\}\s+collision-layer=4 no-bake$`, lines[0])
	assert.Regexp(t, `^Plain\s+\(none\)$`, lines[1])
	assert.Regexp(t, `^Sky=Layer\{x\}\s+render-layer=1$`, lines[2])
}

func TestInspectWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levelimport.hcl")
	require.NoError(t, os.WriteFile(path, []byte("grammar {\n  indicator = \"-\"\n}\n"), 0o644))

	out, _, err := execute(t, context.Background(), "inspect", "-c", path, "Rock-NoShadow", "Rock=NoShadow")
	require.NoError(t, err)
	assert.Contains(t, out, "no-shadow")
	assert.Contains(t, out, "(none)")
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levelimport.hcl")
	require.NoError(t, os.WriteFile(path, []byte("base_texel_size = -1\n"), 0o644))

	_, _, err := execute(t, context.Background(), "inspect", "-c", path, "Rock")
	assert.Error(t, err)
}

func TestExampleAndRun(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, context.Background(), "example", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Level_Example.yaml")

	outDir := filepath.Join(dir, "imported")
	out, logs, err := execute(t, context.Background(), "run",
		"-c", filepath.Join(dir, "levelimport.hcl"),
		"-o", outDir,
		filepath.Join(dir, "Level_Example.yaml"),
		filepath.Join(dir, "assets", "scenes", "InteractableDoor.yaml"),
	)
	require.NoError(t, err, logs)
	assert.Contains(t, out, "Level_Example: 4 bodies, 4 unwrapped, 1 hidden, 1 replaced, 2 materials (2 blank)")
	assert.Contains(t, out, "InteractableDoor: not a level")
	assert.Contains(t, logs, "processed scene as level")

	level, err := scene.Load(filepath.Join(outDir, "Level_Example.yaml"))
	require.NoError(t, err)
	geometry := level.FindChild("Geometry")
	require.NotNil(t, geometry)

	pillarBody := geometry.FindChild("Pillar=ConvexCol=Col{2}=ColMask{3}_col")
	require.NotNil(t, pillarBody)
	assert.Equal(t, uint32(2), pillarBody.CollisionLayer)
	assert.Equal(t, uint32(3), pillarBody.CollisionMask)
	assert.Equal(t, scene.ConvexShape, pillarBody.Child(0).Shape.Kind)

	sky := geometry.FindChild("Skybox_Card=NoCol=NoBake=Layer{4}")
	require.NotNil(t, sky)
	assert.Equal(t, uint32(4), sky.RenderLayers)
	assert.Equal(t, scene.GIDynamic, sky.GIMode)
	assert.Nil(t, geometry.FindChild("Skybox_Card=NoCol=NoBake=Layer{4}_col"))

	wall := geometry.FindChild("Wall_North=NoShadow")
	require.NotNil(t, wall)
	assert.Equal(t, scene.ShadowOff, wall.Shadow)
	assert.True(t, wall.Mesh.Surfaces[0].Material.IsBlank(), "no Brick material in the catalog")

	door := level.FindChild("InteractableDoor_01 (replaced)")
	require.NotNil(t, door)
	assert.Equal(t, 1, door.ChildCount())
}

func TestRunDebugJSON(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, context.Background(), "example", dir)
	require.NoError(t, err)

	_, logs, err := execute(t, context.Background(), "run", "--debug", "--json",
		"-c", filepath.Join(dir, "levelimport.hcl"),
		"-o", filepath.Join(dir, "imported"),
		filepath.Join(dir, "Level_Example.yaml"),
	)
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"added collision body"`)
	assert.Contains(t, logs, `"level":"DEBUG"`)
}

func TestRunErrors(t *testing.T) {
	_, _, err := execute(t, context.Background(), "run")
	assert.Error(t, err, "run needs at least one file")

	_, _, err = execute(t, context.Background(), "run", "-o", t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// syncBuffer is a bytes.Buffer safe for use from the watch goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestWatch(t *testing.T) {
	project := t.TempDir()
	_, _, err := execute(t, context.Background(), "example", project)
	require.NoError(t, err)
	level, err := os.ReadFile(filepath.Join(project, "Level_Example.yaml"))
	require.NoError(t, err)

	watched := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "imported")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, &stdout, &stderr, []string{"watch",
			"-c", filepath.Join(project, "levelimport.hcl"), "-o", outDir, watched})
	}()

	target := filepath.Join(watched, "Level_Example.yaml")
	require.Eventually(t, func() bool {
		// Rewrite until the watcher has been registered and picked it up.
		_ = os.WriteFile(target, level, 0o644)
		_, err := os.Stat(filepath.Join(outDir, "Level_Example.yaml"))
		return err == nil
	}, 10*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchRejectsSameOutput(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, context.Background(), "watch", "-o", dir, dir)
	assert.Error(t, err)
}

func TestIsSceneFile(t *testing.T) {
	assert.True(t, isSceneFile("a/Level.yaml"))
	assert.True(t, isSceneFile("Level.YML"))
	assert.False(t, isSceneFile("Level.yaml.import"))
	assert.False(t, isSceneFile("Stone.material"))
}
