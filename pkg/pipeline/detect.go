package pipeline

import "strings"

// IsLevel reports whether a scene with the given name should be processed.
// Any scene whose name contains indicator is a level.
func IsLevel(sceneName, indicator string) bool {
	return strings.Contains(sceneName, indicator)
}
