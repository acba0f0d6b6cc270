package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	preload "github.com/alnah/go-preload"
	"github.com/alnah/go-preload/internal/hints"
	"github.com/alnah/go-preload/internal/manifest"
)

// Sentinel errors for CLI operations.
var (
	ErrNoHTML         = errors.New("no HTML document specified (--html)")
	ErrNoManifest     = errors.New("no build manifest specified (--manifest)")
	ErrReadHTML       = errors.New("failed to read HTML document")
	ErrWriteOutput    = errors.New("failed to write output")
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrInvalidMaxSize = errors.New("invalid max size")
)

// filePermissions is the mode for written documents (rw-r--r--).
const filePermissions = 0o644

// run executes one transform: read document and manifest, inject hints,
// write the result. stderr carries diagnostics only; the document goes to
// the output file (or stdout for "-").
func run(args []string, stderr io.Writer) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	if flags.version {
		fmt.Fprintln(stderr, "preload-inject", Version)
		return nil
	}
	if flags.html == "" {
		return ErrNoHTML
	}
	if flags.manifest == "" {
		return ErrNoManifest
	}

	cfg := DefaultConfig()
	if flags.config != "" {
		cfg, err = LoadConfig(flags.config)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return fmt.Errorf("%w%s", err, hints.ForConfigNotFound(searchedFromErr(err)))
			}
			return err
		}
	}

	opts, err := buildOptions(flags, cfg, stderr)
	if err != nil {
		return err
	}

	htmlData, err := os.ReadFile(flags.html) // #nosec G304 -- document path is user-provided
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadHTML, err)
	}

	dist := flags.dist
	if dist == "" {
		dist = cfg.Dist
	}
	graph, err := manifest.Load(flags.manifest, dist)
	if err != nil {
		switch {
		case errors.Is(err, manifest.ErrNotFound):
			return fmt.Errorf("%w%s", err, hints.ForManifestNotFound())
		case errors.Is(err, manifest.ErrParse):
			return fmt.Errorf("%w%s", err, hints.ForManifestParse())
		}
		return err
	}

	svc := preload.New(opts...)
	transformed := svc.Transform(context.Background(), preload.Input{
		HTML:  string(htmlData),
		Graph: graph,
	})

	if transformed == string(htmlData) && !strings.Contains(strings.ToLower(transformed), "</head>") {
		fmt.Fprintln(stderr, "warning: document unchanged"+hints.ForNoHeadMarker())
	}

	return writeOutput(flags, transformed)
}

// buildOptions merges flag and config values into library options.
// Flags win over the config file; unset values fall to library defaults.
func buildOptions(flags *cliFlags, cfg *Config, stderr io.Writer) ([]preload.Option, error) {
	var opts []preload.Option

	maxKB := cfg.MaxSizeKB
	if flags.maxSizeKB != maxSizeSentinel {
		maxKB = flags.maxSizeKB
	}
	if maxKB < 0 {
		return nil, fmt.Errorf("%w: must be positive, got %v", ErrInvalidMaxSize, maxKB)
	}
	if maxKB > 0 {
		opts = append(opts, preload.WithMaxSizeKB(maxKB))
	}

	extPattern := cfg.ExtensionPattern
	if flags.extPattern != "" {
		extPattern = flags.extPattern
	}
	if extPattern != "" {
		re, err := regexp.Compile(extPattern)
		if err != nil {
			return nil, fmt.Errorf("%w: --ext-pattern: %v", ErrInvalidPattern, err)
		}
		opts = append(opts, preload.WithExtensionPattern(re))
	}

	rawPattern := cfg.RawScanPattern
	if flags.rawPattern != "" {
		rawPattern = flags.rawPattern
	}
	if rawPattern != "" {
		re, err := regexp.Compile(rawPattern)
		if err != nil {
			return nil, fmt.Errorf("%w: --raw-scan-pattern: %v", ErrInvalidPattern, err)
		}
		opts = append(opts, preload.WithRawScanPattern(re))
	}

	if flags.preloadAll || cfg.PreloadAll {
		opts = append(opts, preload.WithPreloadAll())
	}

	if flags.verbose {
		opts = append(opts, preload.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	return opts, nil
}

// writeOutput writes the transformed document: to --output when given, to
// stdout for "-", otherwise back over the input document.
func writeOutput(flags *cliFlags, content string) error {
	if flags.output == "-" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	dest := flags.output
	if dest == "" {
		dest = flags.html
	}
	if err := os.WriteFile(dest, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputFile())
	}
	return nil
}

// searchedFromErr recovers the tried paths listed in a config-not-found
// error message for hint generation.
func searchedFromErr(err error) []string {
	msg := err.Error()
	i := strings.Index(msg, "tried ")
	if i == -1 {
		return nil
	}
	return strings.Split(msg[i+len("tried "):], ", ")
}
