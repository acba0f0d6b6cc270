package preload

import "strings"

// headCloseMarker is the injection point. Matched case-insensitively, like
// every HTML marker search in this package.
const headCloseMarker = "</head>"

// renderLinks builds the preload block: one link element per directive, in
// order, joined by newlines.
func renderLinks(directives []preloadDirective) string {
	var b strings.Builder
	for i, d := range directives {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(`<link rel="preload" href="`)
		b.WriteString(hrefFor(d.path))
		b.WriteString(`" as="`)
		b.WriteString(d.as)
		b.WriteByte('"')
		if d.crossOrigin {
			b.WriteString(" crossorigin")
		}
		b.WriteByte('>')
	}
	return b.String()
}

// hrefFor returns the root-relative form of an output path. Parent-relative
// paths are already resolvable by the browser and pass through untouched.
func hrefFor(path string) string {
	if strings.HasPrefix(path, "..") {
		return path
	}
	return "/" + path
}

// injectLinks splices the block immediately before the document's closing
// head marker. Without a marker there is no injection point and the document
// comes back byte-for-byte unchanged.
func injectLinks(htmlContent, block string) string {
	if block == "" {
		return htmlContent
	}
	lowerHTML := strings.ToLower(htmlContent)
	idx := strings.Index(lowerHTML, headCloseMarker)
	if idx == -1 {
		return htmlContent
	}
	return htmlContent[:idx] + block + "\n" + htmlContent[idx:]
}
