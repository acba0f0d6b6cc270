package preload

import (
	"regexp"
	"strings"
)

// urlRefPattern matches url(...) references in chunk or stylesheet text.
// Captures the target with optional single or double quotes already excluded.
var urlRefPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// extractURLRefs returns the candidate paths of every url(...) occurrence in
// text, in source order. Pure function; resolution happens separately.
func extractURLRefs(text string) []string {
	matches := urlRefPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// normalizeRef strips the parts of a reference that never appear in graph
// keys: query string, fragment, a single leading path separator, and any run
// of leading ./ or ../ segments.
func normalizeRef(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i != -1 {
		ref = ref[:i]
	}
	for {
		switch {
		case strings.HasPrefix(ref, "./"):
			ref = ref[2:]
		case strings.HasPrefix(ref, "../"):
			ref = ref[3:]
		default:
			return strings.TrimPrefix(ref, "/")
		}
	}
}

// resolveAsset finds the asset a normalized reference points at: exact key
// match first, then the first (sorted) path with the reference as a
// path-boundary suffix. The fallback tolerates hashed directory prefixes the
// producer added. Returns nil when nothing matches.
func resolveAsset(graph BuildGraph, ref string) *Asset {
	if ref == "" {
		return nil
	}
	if a := graph.asset(ref); a != nil {
		return a
	}
	for _, path := range graph.sortedPaths() {
		if strings.HasSuffix(path, "/"+ref) {
			if a := graph.asset(path); a != nil {
				return a
			}
		}
	}
	return nil
}

// usedAssets accumulates discovered asset paths, deduplicated, in insertion
// order. Insertion order is rendering order; nothing downstream re-sorts.
type usedAssets struct {
	order []string
	seen  map[string]bool
}

func newUsedAssets() *usedAssets {
	return &usedAssets{seen: make(map[string]bool)}
}

func (u *usedAssets) add(path string) {
	if u.seen[path] {
		return
	}
	u.seen[path] = true
	u.order = append(u.order, path)
}

// collectUsed walks every initial file and accumulates the assets it
// references. Only extension-eligible paths ever enter the accumulator.
func (s *Service) collectUsed(doc string, graph BuildGraph) []string {
	used := newUsedAssets()
	for _, file := range initialFiles(doc, graph) {
		s.logger.Debug("considering initial file", "path", file)
		s.collectFromFile(file, graph, used)
	}
	return used.order
}

// collectFromFile applies the reference channels one initial file is
// eligible for: declared imports for chunks, embedded url() references for
// chunk code and stylesheet text, and the optional raw path scan.
func (s *Service) collectFromFile(file string, graph BuildGraph, used *usedAssets) {
	switch art := graph[file].(type) {
	case *Chunk:
		for _, imp := range art.StaticImports {
			s.collectImport(imp, graph, used)
		}
		for _, imp := range art.DynamicImports {
			s.collectImport(imp, graph, used)
		}
		s.collectFromText(art.Code, graph, used)
	case *Asset:
		s.collectFromText(string(art.Data), graph, used)
	}
}

// collectImport resolves one declared import. Imports that name chunks, or
// paths absent from the graph, are not preload candidates.
func (s *Service) collectImport(path string, graph BuildGraph, used *usedAssets) {
	asset := graph.asset(path)
	if asset == nil {
		s.logger.Debug("import is not a graph asset, skipping", "path", path)
		return
	}
	if !s.cfg.extPattern.MatchString(asset.Path) {
		s.logger.Debug("import excluded by extension filter", "path", asset.Path)
		return
	}
	s.logger.Debug("collected imported asset", "path", asset.Path)
	used.add(asset.Path)
}

// collectFromText scans embedded references in source text. Resolution
// failure drops the candidate silently; a best-effort pass never errors.
func (s *Service) collectFromText(text string, graph BuildGraph, used *usedAssets) {
	refs := extractURLRefs(text)
	if s.cfg.rawScanPattern != nil {
		refs = append(refs, s.cfg.rawScanPattern.FindAllString(text, -1)...)
	}
	for _, ref := range refs {
		asset := resolveAsset(graph, normalizeRef(ref))
		if asset == nil {
			s.logger.Debug("reference did not resolve, skipping", "ref", ref)
			continue
		}
		if !s.cfg.extPattern.MatchString(asset.Path) {
			s.logger.Debug("reference excluded by extension filter", "path", asset.Path)
			continue
		}
		s.logger.Debug("collected referenced asset", "path", asset.Path)
		used.add(asset.Path)
	}
}
