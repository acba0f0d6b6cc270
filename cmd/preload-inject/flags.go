package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// maxSizeSentinel detects if --max-size-kb was explicitly set. Zero is
// invalid anyway, so it doubles as "not given, defer to config/default".
const maxSizeSentinel = 0.0

// cliFlags holds all flags for preload-inject.
type cliFlags struct {
	html       string
	manifest   string
	dist       string
	output     string
	config     string
	maxSizeKB  float64
	extPattern string
	rawPattern string
	preloadAll bool
	verbose    bool
	version    bool
}

// newFlagSet builds the pflag set bound to f.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("preload-inject", flag.ContinueOnError)

	fs.StringVar(&f.html, "html", "", "entry HTML document to transform (required)")
	fs.StringVarP(&f.manifest, "manifest", "m", "", "build manifest JSON (required)")
	fs.StringVarP(&f.dist, "dist", "d", "", "build output directory for asset payloads")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: overwrite --html in place)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.Float64Var(&f.maxSizeKB, "max-size-kb", maxSizeSentinel, "per-asset size ceiling in KB")
	fs.StringVar(&f.extPattern, "ext-pattern", "", "asset suffix pattern override (regexp)")
	fs.StringVar(&f.rawPattern, "raw-scan-pattern", "", "enable raw path scan with this pattern (regexp)")
	fs.BoolVar(&f.preloadAll, "preload-all", false, "preload every eligible graph asset (debugging)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "trace every preload decision to stderr")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	return fs
}

// parseFlags parses args (excluding the program name).
func parseFlags(args []string) (*cliFlags, error) {
	var f cliFlags
	fs := newFlagSet(&f)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if args := fs.Args(); len(args) > 0 {
		return nil, fmt.Errorf("unexpected argument: %q", args[0])
	}
	return &f, nil
}
