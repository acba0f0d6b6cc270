package preload

import "strings"

// stylesheetSuffix marks stylesheet assets, which are initial files when the
// document references them directly.
const stylesheetSuffix = ".css"

// initialFiles returns the build outputs the document fetches on first load:
// every chunk, and every stylesheet asset, whose output path occurs in the
// document text. Substring matching is deliberate: it accepts absolute and
// root-relative references alike. A path that happens to be a substring of an
// unrelated longer path can over-match; that imprecision is accepted.
func initialFiles(doc string, graph BuildGraph) []string {
	var files []string
	for _, path := range graph.sortedPaths() {
		switch graph[path].(type) {
		case *Chunk:
			if strings.Contains(doc, path) {
				files = append(files, path)
			}
		case *Asset:
			if strings.HasSuffix(path, stylesheetSuffix) && strings.Contains(doc, path) {
				files = append(files, path)
			}
		}
	}
	return files
}
