package preload

import (
	"path"
	"strings"
)

// Resource type labels for the as attribute.
const (
	resourceFont  = "font"
	resourceImage = "image"
	resourceVideo = "video"
	resourceFetch = "fetch"
)

// preloadDirective is the resolved decision to emit one resource hint.
type preloadDirective struct {
	path        string
	as          string
	crossOrigin bool
}

// classify maps an asset path's suffix to its resource type and whether the
// hint needs the crossorigin attribute. Fonts always do: browsers fetch
// font preloads in anonymous CORS mode, and a hint without the attribute
// would be fetched twice.
func classify(assetPath string) (as string, crossOrigin bool) {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(assetPath), ".")) {
	case "woff", "woff2", "ttf", "otf":
		return resourceFont, true
	case "png", "jpg", "jpeg", "gif", "svg", "webp":
		return resourceImage, false
	case "mp4", "webm":
		return resourceVideo, false
	default:
		return resourceFetch, false
	}
}

// buildDirectives turns the used-asset paths into directives, in discovery
// order, dropping anything whose size cannot be verified or exceeds the
// ceiling. An asset of exactly maxSizeKB kilobytes is kept.
func (s *Service) buildDirectives(used []string, graph BuildGraph) []preloadDirective {
	var directives []preloadDirective
	for _, p := range used {
		asset := graph.asset(p)
		if asset == nil || asset.Data == nil {
			s.logger.Debug("asset payload unavailable, skipping", "path", p)
			continue
		}
		sizeKB := float64(len(asset.Data)) / 1024
		if sizeKB > s.cfg.maxSizeKB {
			s.logger.Debug("asset exceeds size ceiling, skipping",
				"path", p, "sizeKB", sizeKB, "maxSizeKB", s.cfg.maxSizeKB)
			continue
		}
		as, crossOrigin := classify(p)
		directives = append(directives, preloadDirective{
			path:        p,
			as:          as,
			crossOrigin: crossOrigin,
		})
	}
	return directives
}
