// Package preload injects <link rel="preload"> hints into a bundler's HTML
// output for the assets its initial load path references.
//
// # Quick Start
//
// Build a graph from your bundler's output, create a service, and transform
// the entry document:
//
//	graph := preload.BuildGraph{
//	    "assets/index.js":   &preload.Chunk{Path: "assets/index.js", StaticImports: []string{"assets/logo.png"}},
//	    "assets/logo.png":   &preload.Asset{Path: "assets/logo.png", Data: logoBytes},
//	}
//
//	svc := preload.New()
//	html = svc.Transform(ctx, preload.Input{HTML: html, Graph: graph})
//
// # Pipeline
//
// Each Transform call runs a single pass over the document and graph:
//
//  1. Entry discovery: chunks and stylesheets the document references
//  2. Reference extraction: declared imports and embedded url() references
//  3. Filter and classify: extension pattern, size ceiling, resource type
//  4. Rendering: link elements spliced immediately before </head>
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := preload.New(
//	    preload.WithMaxSizeKB(100),
//	    preload.WithExtensionPattern(regexp.MustCompile(`\.(woff2|png)$`)),
//	    preload.WithLogger(logger),
//	)
//
// # Error Policy
//
// Transform never returns an error. References that do not resolve, assets
// that are oversized or have no payload, and documents without a </head>
// marker all degrade to fewer (or zero) hints; the input is returned
// unchanged in the worst case. The pass is an optimization and must never
// break the build that invokes it.
package preload
