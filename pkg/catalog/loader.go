package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/levelimport/pkg/scene"
	"gopkg.in/yaml.v3"
)

// Loader decodes the assets named by catalog entries.
type Loader interface {
	// LoadScene returns a fresh, unparented instance of a packaged scene.
	LoadScene(id string) (*scene.Node, error)
	// LoadMaterial decodes a material resource.
	LoadMaterial(id string) (*scene.Material, error)
}

// FileLoader reads assets from YAML files; the asset id is the file path.
type FileLoader struct{}

// Compile-time interface check.
var _ Loader = FileLoader{}

// LoadScene decodes the scene document at id. The returned tree is owned
// by its own root until the caller attaches it elsewhere.
func (FileLoader) LoadScene(id string) (*scene.Node, error) {
	root, err := scene.Load(id)
	if err != nil {
		return nil, fmt.Errorf("catalog: load scene %s: %w", id, err)
	}
	if root.Source == "" {
		root.Source = id
	}
	return root, nil
}

// LoadMaterial decodes the material document at id. A material without a
// name is named after its file.
func (FileLoader) LoadMaterial(id string) (*scene.Material, error) {
	f, err := os.Open(id)
	if err != nil {
		return nil, fmt.Errorf("catalog: load material %s: %w", id, err)
	}
	defer f.Close()

	m := scene.BlankMaterial()
	if err := yaml.NewDecoder(f).Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog: decode material %s: %w", id, err)
	}
	if m.Name == "" {
		base := filepath.Base(id)
		m.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	m.Path = id
	return m, nil
}
