package preload

import (
	"log/slog"
	"regexp"
)

// DefaultMaxSizeKB is the size ceiling applied when WithMaxSizeKB is not
// given. Preloading large payloads competes with the critical path, so the
// default is deliberately conservative.
const DefaultMaxSizeKB = 200.0

// defaultExtensionPattern covers the asset types worth hinting: fonts,
// images, and short videos.
var defaultExtensionPattern = regexp.MustCompile(`\.(woff2?|ttf|otf|png|jpe?g|gif|svg|webp|mp4|webm)$`)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	maxSizeKB      float64
	extPattern     *regexp.Regexp
	rawScanPattern *regexp.Regexp
	preloadAll     bool
}

// Option configures a Service.
type Option func(*Service)

// WithMaxSizeKB sets the per-asset size ceiling in kilobytes. An asset of
// exactly kb kilobytes is still preloaded.
// Panics if kb <= 0 (programmer error, similar to time.NewTicker).
func WithMaxSizeKB(kb float64) Option {
	if kb <= 0 {
		panic("preload: WithMaxSizeKB value must be positive")
	}
	return func(s *Service) {
		s.cfg.maxSizeKB = kb
	}
}

// WithExtensionPattern replaces the default asset-suffix filter. Only assets
// whose output path matches the pattern are ever preloaded.
// Panics if re is nil (programmer error).
func WithExtensionPattern(re *regexp.Regexp) Option {
	if re == nil {
		panic("preload: WithExtensionPattern pattern must not be nil")
	}
	return func(s *Service) {
		s.cfg.extPattern = re
	}
}

// WithRawScanPattern enables the third reference channel: a raw scan of
// initial-file text for assets-directory-prefixed substrings, independent of
// quoting. Catches references built by non-standard dynamic path
// construction that the import list and url() scan miss.
// Panics if re is nil (programmer error).
func WithRawScanPattern(re *regexp.Regexp) Option {
	if re == nil {
		panic("preload: WithRawScanPattern pattern must not be nil")
	}
	return func(s *Service) {
		s.cfg.rawScanPattern = re
	}
}

// WithPreloadAll bypasses discovery and extraction: every graph asset
// matching the extension pattern is treated as used. Intended for debugging
// a graph whose reference edges are suspect, not for production builds.
func WithPreloadAll() Option {
	return func(s *Service) {
		s.cfg.preloadAll = true
	}
}

// WithLogger sets the diagnostics sink. The default discards everything;
// logging never affects the transform's output either way.
// Panics if l is nil (programmer error).
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("preload: WithLogger logger must not be nil")
	}
	return func(s *Service) {
		s.logger = l
	}
}
