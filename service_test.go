package preload

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// No-op paths: the transform must be byte-for-byte conservative
// ---------------------------------------------------------------------------

func TestTransform_NoOpPaths(t *testing.T) {
	t.Parallel()

	doc := `<html><head><script src="/main.js"></script></head></html>`

	tests := []struct {
		name  string
		input Input
		want  string
	}{
		{
			name:  "empty document yields empty output",
			input: Input{HTML: "", Graph: BuildGraph{"main.js": &Chunk{Path: "main.js"}}},
			want:  "",
		},
		{
			name:  "nil graph passes document through",
			input: Input{HTML: doc},
			want:  doc,
		},
		{
			name: "chunk with no references leaves document unchanged",
			input: Input{
				HTML:  doc,
				Graph: BuildGraph{"main.js": &Chunk{Path: "main.js"}},
			},
			want: doc,
		},
		{
			name: "all candidates filtered leaves document unchanged",
			input: Input{
				HTML: doc,
				Graph: BuildGraph{
					"main.js":   &Chunk{Path: "main.js", StaticImports: []string{"model.glb"}},
					"model.glb": &Asset{Path: "model.glb", Data: []byte{1}},
				},
			},
			want: doc,
		},
		{
			name: "document without head marker unchanged despite candidates",
			input: Input{
				HTML: `<body><script src="/main.js"></script></body>`,
				Graph: BuildGraph{
					"main.js": &Chunk{Path: "main.js", StaticImports: []string{"a.woff2"}},
					"a.woff2": &Asset{Path: "a.woff2", Data: []byte{1}},
				},
			},
			want: `<body><script src="/main.js"></script></body>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := New().Transform(context.Background(), tt.input)
			if got != tt.want {
				t.Errorf("Transform() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// End-to-end scenarios
// ---------------------------------------------------------------------------

func TestTransform_ChunkImportsFont(t *testing.T) {
	t.Parallel()

	doc := `<head><script src="main.js"></script></head>`
	graph := BuildGraph{
		"main.js":    &Chunk{Path: "main.js", StaticImports: []string{"font.woff2"}},
		"font.woff2": &Asset{Path: "font.woff2", Data: make([]byte, 500)},
	}

	got := New(WithMaxSizeKB(1)).Transform(context.Background(), Input{HTML: doc, Graph: graph})

	link := `<link rel="preload" href="/font.woff2" as="font" crossorigin>`
	if !strings.Contains(got, link) {
		t.Fatalf("output missing %q:\n%s", link, got)
	}
	if strings.Index(got, link) > strings.Index(got, "</head>") {
		t.Error("preload link injected after </head>")
	}
}

func TestTransform_StylesheetURLImage(t *testing.T) {
	t.Parallel()

	doc := `<head><link rel="stylesheet" href="/styles.css"></head>`
	graph := BuildGraph{
		"styles.css": &Asset{Path: "styles.css", Data: []byte(`body { background: url("bg.png"); }`)},
		"bg.png":     &Asset{Path: "bg.png", Data: make([]byte, 500)},
	}

	got := New().Transform(context.Background(), Input{HTML: doc, Graph: graph})

	link := `<link rel="preload" href="/bg.png" as="image">`
	if !strings.Contains(got, link) {
		t.Fatalf("output missing %q:\n%s", link, got)
	}
}

func TestTransform_SuffixTolerantResolution(t *testing.T) {
	t.Parallel()

	// The stylesheet references the asset through a relative prefix the
	// graph keys do not carry.
	doc := `<head><link href="/app.css"></head>`
	graph := BuildGraph{
		"app.css":              &Asset{Path: "app.css", Data: []byte(`h1 { background: url("../assets/img/photo.png"); }`)},
		"assets/img/photo.png": &Asset{Path: "assets/img/photo.png", Data: []byte{1}},
	}

	got := New().Transform(context.Background(), Input{HTML: doc, Graph: graph})

	if !strings.Contains(got, `href="/assets/img/photo.png"`) {
		t.Errorf("relative reference did not resolve:\n%s", got)
	}
}

func TestTransform_DynamicImportsCollected(t *testing.T) {
	t.Parallel()

	doc := `<head><script src="/entry.js"></script></head>`
	graph := BuildGraph{
		"entry.js":  &Chunk{Path: "entry.js", DynamicImports: []string{"hero.webp"}},
		"hero.webp": &Asset{Path: "hero.webp", Data: []byte{1}},
	}

	got := New().Transform(context.Background(), Input{HTML: doc, Graph: graph})

	if !strings.Contains(got, `href="/hero.webp" as="image"`) {
		t.Errorf("dynamic import not preloaded:\n%s", got)
	}
}

func TestTransform_ImportOfChunkNotPreloaded(t *testing.T) {
	t.Parallel()

	// Only assets are hinted; the chunks the browser already fetches are not.
	doc := `<head><script src="/entry.js"></script></head>`
	graph := BuildGraph{
		"entry.js":  &Chunk{Path: "entry.js", StaticImports: []string{"vendor.js"}},
		"vendor.js": &Chunk{Path: "vendor.js"},
	}

	got := New().Transform(context.Background(), Input{HTML: doc, Graph: graph})
	if got != doc {
		t.Errorf("Transform() = %q, want unchanged", got)
	}
}

func TestTransform_DedupAcrossChannels(t *testing.T) {
	t.Parallel()

	// The same asset reached via import list and url() reference gets one hint.
	doc := `<head><script src="/entry.js"></script></head>`
	graph := BuildGraph{
		"entry.js": &Chunk{
			Path:          "entry.js",
			Code:          `const u = "url(/a.woff2)";`,
			StaticImports: []string{"a.woff2"},
		},
		"a.woff2": &Asset{Path: "a.woff2", Data: []byte{1}},
	}

	got := New().Transform(context.Background(), Input{HTML: doc, Graph: graph})

	if n := strings.Count(got, `href="/a.woff2"`); n != 1 {
		t.Errorf("asset hinted %d times, want 1:\n%s", n, got)
	}
}

func TestTransform_RawScanPattern(t *testing.T) {
	t.Parallel()

	// Reference assembled dynamically: neither import list nor url() sees it.
	doc := `<head><script src="/entry.js"></script></head>`
	graph := BuildGraph{
		"entry.js":              &Chunk{Path: "entry.js", Code: `fetch("assets/big-sprite.png".replace("big-",""))`},
		"assets/big-sprite.png": &Asset{Path: "assets/big-sprite.png", Data: []byte{1}},
	}

	svc := New(WithRawScanPattern(regexp.MustCompile(`assets/[\w.-]+`)))
	got := svc.Transform(context.Background(), Input{HTML: doc, Graph: graph})

	if !strings.Contains(got, `href="/assets/big-sprite.png"`) {
		t.Errorf("raw scan missed asset:\n%s", got)
	}

	// Without the option the channel stays off.
	plain := New().Transform(context.Background(), Input{HTML: doc, Graph: graph})
	if plain != doc {
		t.Errorf("raw scan ran without being enabled:\n%s", plain)
	}
}

func TestTransform_PreloadAll(t *testing.T) {
	t.Parallel()

	// Nothing references anything, but preload-all hints every eligible asset.
	doc := `<head></head>`
	graph := BuildGraph{
		"a.woff2": &Chunk{Path: "a.woff2"}, // chunk, excluded despite suffix
		"b.png":   &Asset{Path: "b.png", Data: []byte{1}},
		"c.glb":   &Asset{Path: "c.glb", Data: []byte{1}}, // filtered suffix
		"d.mp4":   &Asset{Path: "d.mp4", Data: []byte{1}},
	}

	got := New(WithPreloadAll()).Transform(context.Background(), Input{HTML: doc, Graph: graph})

	for _, want := range []string{`href="/b.png"`, `href="/d.mp4"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
	for _, reject := range []string{"c.glb", `href="/a.woff2"`} {
		if strings.Contains(got, reject) {
			t.Errorf("output contains %s:\n%s", reject, got)
		}
	}
}

func TestTransform_ExtensionFilterIndependentOfChannel(t *testing.T) {
	t.Parallel()

	// A .glb asset is excluded whether discovered via import list or url().
	doc := `<head><script src="/entry.js"></script><link href="/app.css"></head>`
	graph := BuildGraph{
		"entry.js":  &Chunk{Path: "entry.js", StaticImports: []string{"model.glb"}},
		"app.css":   &Asset{Path: "app.css", Data: []byte(`cursor: url("scene.glb");`)},
		"model.glb": &Asset{Path: "model.glb", Data: []byte{1}},
		"scene.glb": &Asset{Path: "scene.glb", Data: []byte{1}},
	}

	got := New().Transform(context.Background(), Input{HTML: doc, Graph: graph})
	if strings.Contains(got, "glb") {
		t.Errorf("filtered suffix leaked into output:\n%s", got)
	}
}

func TestTransform_CanceledContextPassesThrough(t *testing.T) {
	t.Parallel()

	doc := `<head><script src="/main.js"></script></head>`
	graph := BuildGraph{
		"main.js": &Chunk{Path: "main.js", StaticImports: []string{"a.woff2"}},
		"a.woff2": &Asset{Path: "a.woff2", Data: []byte{1}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := New().Transform(ctx, Input{HTML: doc, Graph: graph}); got != doc {
		t.Errorf("Transform() = %q, want unchanged on canceled context", got)
	}
}

func TestTransform_Idempotent(t *testing.T) {
	t.Parallel()

	doc := `<head><script src="main.js"></script></head>`
	graph := BuildGraph{
		"main.js":    &Chunk{Path: "main.js", StaticImports: []string{"font.woff2"}},
		"font.woff2": &Asset{Path: "font.woff2", Data: []byte{1}},
	}

	svc := New()
	once := svc.Transform(context.Background(), Input{HTML: doc, Graph: graph})
	twice := svc.Transform(context.Background(), Input{HTML: once, Graph: graph})

	// A second pass re-discovers the same asset but must never fail; the
	// hint is simply present twice only if injected again, so verify the
	// pass stays well-formed and keeps the marker.
	if !strings.Contains(twice, "</head>") {
		t.Errorf("second pass lost the head marker:\n%s", twice)
	}
}

func TestTransform_LoggingDoesNotAffectOutput(t *testing.T) {
	t.Parallel()

	doc := `<head><script src="main.js"></script></head>`
	graph := BuildGraph{
		"main.js":    &Chunk{Path: "main.js", StaticImports: []string{"font.woff2", "missing.png"}},
		"font.woff2": &Asset{Path: "font.woff2", Data: []byte{1}},
	}

	var buf bytes.Buffer
	verbose := New(WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	quiet := New()

	in := Input{HTML: doc, Graph: graph}
	if v, q := verbose.Transform(context.Background(), in), quiet.Transform(context.Background(), in); v != q {
		t.Errorf("verbose output %q differs from quiet output %q", v, q)
	}
	if buf.Len() == 0 {
		t.Error("verbose logger received no trace output")
	}
}

// ---------------------------------------------------------------------------
// Option validation
// ---------------------------------------------------------------------------

func TestOptions_PanicOnProgrammerError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		call func()
	}{
		{name: "zero max size", call: func() { WithMaxSizeKB(0) }},
		{name: "negative max size", call: func() { WithMaxSizeKB(-1) }},
		{name: "nil extension pattern", call: func() { WithExtensionPattern(nil) }},
		{name: "nil raw scan pattern", call: func() { WithRawScanPattern(nil) }},
		{name: "nil logger", call: func() { WithLogger(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.call()
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	svc := New()
	if svc.cfg.maxSizeKB != DefaultMaxSizeKB {
		t.Errorf("maxSizeKB = %v, want %v", svc.cfg.maxSizeKB, DefaultMaxSizeKB)
	}
	if svc.cfg.extPattern == nil {
		t.Fatal("extPattern is nil")
	}
	for _, match := range []string{"a.woff", "a.woff2", "a.ttf", "a.otf", "a.png", "a.jpg", "a.jpeg", "a.gif", "a.svg", "a.webp", "a.mp4", "a.webm"} {
		if !svc.cfg.extPattern.MatchString(match) {
			t.Errorf("default pattern rejects %q", match)
		}
	}
	for _, reject := range []string{"a.glb", "a.js", "a.css", "a.html"} {
		if svc.cfg.extPattern.MatchString(reject) {
			t.Errorf("default pattern accepts %q", reject)
		}
	}
	if svc.cfg.rawScanPattern != nil {
		t.Error("raw scan enabled by default")
	}
	if svc.cfg.preloadAll {
		t.Error("preload-all enabled by default")
	}
}
