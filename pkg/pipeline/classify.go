package pipeline

import (
	"github.com/chazu/levelimport/pkg/catalog"
	"github.com/chazu/levelimport/pkg/scene"
)

// Classify partitions the direct children of a level root. A child whose
// name matches a packaged scene is replaceable; every other child is
// static. Input order is kept in both slices.
func Classify(children []*scene.Node, scenes *catalog.Catalog) (static, replaceable []*scene.Node) {
	for _, c := range children {
		if _, ok := scenes.BestMatch(c.Name); ok {
			replaceable = append(replaceable, c)
		} else {
			static = append(static, c)
		}
	}
	return static, replaceable
}
