// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to
// error messages.
package hints

import "strings"

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/preload-inject) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/preload-inject") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForManifestNotFound returns hints for a missing build manifest.
func ForManifestNotFound() string {
	return format("run your bundler first, or pass --manifest /path/to/manifest.json")
}

// ForManifestParse returns hints for an unreadable build manifest.
func ForManifestParse() string {
	return format(`manifest must be a JSON object with an "outputs" map (comments allowed)`)
}

// ForNoHeadMarker returns a hint emitted when the document has no </head>
// and the transform was a no-op.
func ForNoHeadMarker() string {
	return format("document has no </head>; preload hints need one to be injected")
}

// ForOutputFile returns hints for output write errors.
func ForOutputFile() string {
	return format("check the parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
