package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/levelimport/pkg/config"
	"github.com/chazu/levelimport/pkg/kernel/sdfx"
	"github.com/chazu/levelimport/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// exampleCells is the marching cubes resolution of example geometry.
const exampleCells = 32

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example <dir>",
		Short: "Write a small sample project",
		Long: `Write a sample project to dir: a settings file, a packaged door scene,
two materials and a level scene exercising most attributes. Import it with

  levelimport run -c <dir>/levelimport.hcl -o <dir>/imported <dir>/Level_Example.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeExample(cmd.OutOrStdout(), args[0])
		},
	}
}

// box is one piece of example geometry.
type box struct {
	name     string
	size     mgl32.Vec3
	at       mgl32.Vec3
	material string
}

func boxNode(b box) (*scene.Node, error) {
	m, err := sdfx.Box(float64(b.size.X()), float64(b.size.Y()), float64(b.size.Z()), exampleCells)
	if err != nil {
		return nil, fmt.Errorf("box %s: %w", b.name, err)
	}
	m.Name = b.name
	if b.material != "" {
		m.Surfaces[0].Material = &scene.Material{Name: b.material}
	}
	n := scene.NewMeshInstance(b.name, m)
	n.Transform = mgl32.Translate3D(b.at.X(), b.at.Y(), b.at.Z())
	return n, nil
}

func exampleLevel() (*scene.Node, error) {
	root := scene.New("Level_Example")

	geometry := scene.New("Geometry")
	root.AddChild(geometry)
	for _, b := range []box{
		{"Floor=Texel{2}", mgl32.Vec3{20, 1, 20}, mgl32.Vec3{-10, -1, -10}, "M_Stone_Floor"},
		{"Wall_North=NoShadow", mgl32.Vec3{20, 4, 1}, mgl32.Vec3{-10, 0, -11}, "M_Brick"},
		{"Pillar=ConvexCol=Col{2}=ColMask{3}", mgl32.Vec3{1, 4, 1}, mgl32.Vec3{2, 0, 2}, "M_Stone"},
		{"Blocker=NoRender", mgl32.Vec3{4, 4, 0.5}, mgl32.Vec3{-2, 0, 6}, ""},
		{"Skybox_Card=NoCol=NoBake=Layer{4}", mgl32.Vec3{1, 1, 0.25}, mgl32.Vec3{0, 8, 0}, "M_Sky"},
	} {
		n, err := boxNode(b)
		if err != nil {
			return nil, err
		}
		geometry.AddChild(n)
	}

	door, err := boxNode(box{"InteractableDoor_01", mgl32.Vec3{1, 2, 0.25}, mgl32.Vec3{4, 0, -9.75}, ""})
	if err != nil {
		return nil, err
	}
	root.AddChild(door)

	root.SetOwnerRecursive(root)
	return root, nil
}

func exampleDoor() (*scene.Node, error) {
	root := scene.New("InteractableDoor")
	panel, err := boxNode(box{"Panel", mgl32.Vec3{1, 2, 0.25}, mgl32.Vec3{}, "M_Wood"})
	if err != nil {
		return nil, err
	}
	root.AddChild(panel)
	root.SetOwnerRecursive(root)
	return root, nil
}

// writeExample lays out the sample project below dir.
func writeExample(w io.Writer, dir string) error {
	cfg := config.Default()
	scenes := filepath.Join(dir, cfg.SceneDir)
	materials := filepath.Join(dir, cfg.MaterialDir)
	for _, d := range []string{scenes, materials} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}

	var written []string
	write := func(path string, data []byte) error {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if err := write(filepath.Join(dir, "levelimport.hcl"), []byte(config.Sample)); err != nil {
		return err
	}

	for _, m := range []scene.Material{
		{Name: "Stone", Albedo: [4]float32{0.5, 0.5, 0.5, 1}, Roughness: 0.9},
		{Name: "Wood", Albedo: [4]float32{0.55, 0.35, 0.2, 1}, Roughness: 0.7},
	} {
		data, err := yaml.Marshal(&m)
		if err != nil {
			return err
		}
		if err := write(filepath.Join(materials, m.Name+cfg.MaterialExtension), data); err != nil {
			return err
		}
	}

	door, err := exampleDoor()
	if err != nil {
		return err
	}
	doorPath := filepath.Join(scenes, "InteractableDoor.yaml")
	if err := scene.Save(doorPath, door); err != nil {
		return err
	}
	written = append(written, doorPath)

	level, err := exampleLevel()
	if err != nil {
		return err
	}
	levelPath := filepath.Join(dir, "Level_Example.yaml")
	if err := scene.Save(levelPath, level); err != nil {
		return err
	}
	written = append(written, levelPath)

	for _, p := range written {
		fmt.Fprintf(w, "wrote %s\n", p)
	}
	return nil
}
