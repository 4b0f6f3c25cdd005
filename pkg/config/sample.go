package config

// Sample is a config file spelling out every setting at its default
// value.
const Sample = `# levelimport settings

level_indicator    = "Level"
base_texel_size    = 0.2
scene_dir          = "assets/scenes"
material_dir       = "assets/materials"
material_extension = ".material"

grammar {
  indicator = "="
  start     = "{"
  end       = "}"
}

keywords {
  no_collision     = "NoCol"
  convex_collision = "ConvexCol"
  collision_layer  = "Col"
  collision_mask   = "ColMask"
  no_render        = "NoRender"
  collision_only   = "ColOnly"
  no_bake          = "NoBake"
  texel_scale      = "Texel"
  no_shadow        = "NoShadow"
  render_layer     = "Layer"
}
`
