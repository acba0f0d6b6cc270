package preload

import (
	"context"
	"log/slog"
)

// Input contains transform parameters.
type Input struct {
	HTML  string     // document text; empty means nothing to transform
	Graph BuildGraph // nil means this is not a build pass; HTML passes through
}

// Service runs the preload-hint pipeline. Safe for concurrent use: its
// configuration is immutable after New and each Transform call is
// independent.
type Service struct {
	cfg    serviceConfig
	logger *slog.Logger
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithMaxSizeKB).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			maxSizeKB:  DefaultMaxSizeKB,
			extPattern: defaultExtensionPattern,
		},
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Transform injects preload hints for the assets the document's initial
// files reference, immediately before its </head> marker.
//
// Never fails: missing input, a missing graph, unresolvable references,
// oversized assets, or a marker-less document all degrade to "no hints
// added". A best-effort optimization pass must never break a build, so the
// worst case is always the input returned unchanged.
func (s *Service) Transform(ctx context.Context, input Input) string {
	if input.HTML == "" {
		return ""
	}
	if input.Graph == nil {
		s.logger.Debug("no build graph supplied, passing document through")
		return input.HTML
	}
	if ctx.Err() != nil {
		return input.HTML
	}

	var used []string
	if s.cfg.preloadAll {
		used = s.allEligibleAssets(input.Graph)
	} else {
		used = s.collectUsed(input.HTML, input.Graph)
	}

	directives := s.buildDirectives(used, input.Graph)
	if len(directives) == 0 {
		s.logger.Debug("no assets survived filtering, document unchanged")
		return input.HTML
	}

	s.logger.Debug("injecting preload hints", "count", len(directives))
	return injectLinks(input.HTML, renderLinks(directives))
}

// allEligibleAssets implements the preload-all debugging mode: every asset
// matching the extension pattern counts as used, in sorted path order.
func (s *Service) allEligibleAssets(graph BuildGraph) []string {
	var used []string
	for _, path := range graph.sortedPaths() {
		if graph.asset(path) == nil {
			continue
		}
		if !s.cfg.extPattern.MatchString(path) {
			continue
		}
		used = append(used, path)
	}
	return used
}
