package taxonomy

import (
	"path"

	"github.com/parabrain/para-flow/internal/model"
)

// PathResolver computes destination folder paths per platform by joining a
// configurable per-platform base path with the static per-category sub-path.
type PathResolver struct {
	bases map[model.Platform]string
}

// DefaultBasePaths returns the base paths used when no configuration is set.
func DefaultBasePaths() map[model.Platform]string {
	return map[model.Platform]string{
		model.PlatformObsidian: "SecondBrain",
		model.PlatformNotion:   "PARA",
		model.PlatformLocalPC:  "Documents/SecondBrain",
	}
}

// NewPathResolver creates a resolver. Platforms missing from bases fall back
// to the defaults, so every destination always resolves to a non-empty path.
func NewPathResolver(bases map[model.Platform]string) *PathResolver {
	merged := DefaultBasePaths()
	for platform, base := range bases {
		if base != "" {
			merged[platform] = base
		}
	}
	return &PathResolver{bases: merged}
}

// Resolve returns the folder path for every destination platform of the
// category. Each destination is guaranteed an entry.
func (r *PathResolver) Resolve(cat *model.Category) map[model.Platform]string {
	paths := make(map[model.Platform]string, len(cat.Destinations))
	for _, platform := range cat.Destinations {
		paths[platform] = path.Join(r.bases[platform], SubPath(cat))
	}
	return paths
}
