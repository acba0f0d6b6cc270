// Package manifest loads a bundler's build manifest into a preload.BuildGraph.
//
// The manifest is a JSON object with an "outputs" map keyed by output path.
// Comments and trailing commas are tolerated so hand-annotated manifests from
// debugging sessions still load. Asset payloads come either inline (the
// "source" field, for text assets like stylesheets) or from the built files
// on disk when a dist directory is given.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	preload "github.com/alnah/go-preload"
)

// Sentinel errors for manifest operations.
var (
	ErrNotFound = errors.New("manifest file not found")
	ErrParse    = errors.New("failed to parse manifest")
)

// Artifact kinds a manifest record may declare. Records with any other kind
// are skipped rather than rejected; a graph from a newer producer should
// still load.
const (
	kindChunk = "chunk"
	kindAsset = "asset"
)

// record is one manifest output entry.
type record struct {
	Kind           string   `json:"kind"`
	Code           string   `json:"code,omitempty"`
	Source         string   `json:"source,omitempty"`
	Imports        []string `json:"imports,omitempty"`
	DynamicImports []string `json:"dynamicImports,omitempty"`
}

// file is the manifest document shape.
type file struct {
	Outputs map[string]record `json:"outputs"`
}

// Load reads a manifest from disk and builds the graph. distDir, when
// non-empty, is the directory asset payloads are read from; assets without
// an inline source and without a readable file get a nil payload, which the
// transform treats as size-unverifiable.
func Load(path, distDir string) (preload.BuildGraph, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data, distDir)
}

// Parse builds the graph from manifest bytes. Comments and trailing commas
// are stripped before decoding.
func Parse(data []byte, distDir string) (preload.BuildGraph, error) {
	var f file
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if f.Outputs == nil {
		return nil, fmt.Errorf("%w: missing outputs map", ErrParse)
	}

	graph := make(preload.BuildGraph, len(f.Outputs))
	for path, rec := range f.Outputs {
		switch rec.Kind {
		case kindChunk:
			graph[path] = &preload.Chunk{
				Path:           path,
				Code:           rec.Code,
				StaticImports:  rec.Imports,
				DynamicImports: rec.DynamicImports,
			}
		case kindAsset:
			graph[path] = &preload.Asset{
				Path: path,
				Data: assetPayload(rec, path, distDir),
			}
		}
	}
	return graph, nil
}

// assetPayload resolves an asset's bytes: inline source wins, then the built
// file under distDir. Nil when neither is available.
func assetPayload(rec record, path, distDir string) []byte {
	if rec.Source != "" {
		return []byte(rec.Source)
	}
	if distDir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(distDir, filepath.FromSlash(path))) // #nosec G304 -- dist dir is user-provided
	if err != nil {
		return nil
	}
	return data
}
