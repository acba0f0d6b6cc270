package preload

import "sort"

// Artifact is one record in a build graph: either a *Chunk or an *Asset.
// The variant is closed; consumption sites switch exhaustively and ignore
// anything else.
type Artifact interface {
	artifact()
}

// Chunk is an executable code artifact with its source text and the output
// paths it imports.
type Chunk struct {
	Path           string
	Code           string
	StaticImports  []string
	DynamicImports []string
}

// Asset is a non-executable payload artifact (font, image, stylesheet, ...).
// A nil Data means the payload was not available to the producer; such
// assets are never preloaded because their size cannot be verified.
type Asset struct {
	Path string
	Data []byte
}

func (*Chunk) artifact() {}
func (*Asset) artifact() {}

// BuildGraph maps output paths to artifacts. It is a frozen snapshot of one
// completed build; the transform never mutates it.
type BuildGraph map[string]Artifact

// asset returns the Asset stored under path, or nil if the entry is missing
// or is not an asset.
func (g BuildGraph) asset(path string) *Asset {
	if a, ok := g[path].(*Asset); ok {
		return a
	}
	return nil
}

// sortedPaths returns the graph's output paths in sorted order. Producers
// give no iteration order guarantee, and Go randomizes map order, so sorting
// is what makes one (document, graph, config) triple yield one output.
func (g BuildGraph) sortedPaths() []string {
	paths := make([]string, 0, len(g))
	for p := range g {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
