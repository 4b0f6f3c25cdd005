package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/levelimport/pkg/attr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "levelimport.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "Level", c.LevelIndicator)
	assert.Equal(t, 0.2, c.BaseTexelSize)
	if diff := cmp.Diff(attr.DefaultGrammar(), c.Grammar()); diff != "" {
		t.Errorf("default grammar mismatch (-want +got):\n%s", diff)
	}
}

func TestGrammarIsACopy(t *testing.T) {
	c := Default()
	g := c.Grammar()
	g.Keywords[attr.NoShadow] = "Changed"
	assert.Equal(t, "NoShadow", c.Keywords[attr.NoShadow])
}

func TestLoadSample(t *testing.T) {
	path := writeConfig(t, Sample)
	c, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.SceneDir = filepath.Join(filepath.Dir(path), "assets/scenes")
	want.MaterialDir = filepath.Join(filepath.Dir(path), "assets/materials")
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("sample config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverlay(t *testing.T) {
	abs := t.TempDir()
	path := writeConfig(t, `
level_indicator = "Lvl"
base_texel_size = 0.5
scene_dir       = "`+filepath.ToSlash(abs)+`"

grammar {
  indicator = "-"
  start     = "("
  end       = ")"
}

keywords {
  no_shadow = "Unlit"
}
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Lvl", c.LevelIndicator)
	assert.Equal(t, 0.5, c.BaseTexelSize)
	assert.Equal(t, filepath.Clean(abs), filepath.Clean(c.SceneDir), "absolute dirs are kept")
	assert.Equal(t, filepath.Join(filepath.Dir(path), "assets/materials"), c.MaterialDir)
	assert.Equal(t, ".material", c.MaterialExtension)

	g := c.Grammar()
	assert.Equal(t, "Unlit", g.Keywords[attr.NoShadow])
	assert.Equal(t, "NoCol", g.Keywords[attr.NoCollision])
	assert.True(t, g.Has("Wall-Unlit", attr.NoShadow))
	v, ok := g.Value("Wall-Layer(3)", attr.RenderLayer)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"syntax", `level_indicator = `, false},
		{"unknown attribute", `colour = "red"`, false},
		{"wrong type", `base_texel_size = "big"`, false},
		{"empty indicator", "grammar {\n  indicator = \"\"\n}\n", true},
		{"duplicate keyword", "keywords {\n  no_bake = \"NoCol\"\n}\n", true},
		{"zero texel", `base_texel_size = 0`, true},
		{"empty level indicator", `level_indicator = ""`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalid), "err = %v", err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}
