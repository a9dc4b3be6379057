package dropzone

import (
	"sort"
	"strings"
)

// Accept maps MIME types to file extensions, e.g.
//
//	Accept{"image/*": {".png", ".gif"}, "application/pdf": {".pdf"}}
//
// A file is admitted when its type matches a key or its name ends with one of
// the listed extensions. Keys may use a "type/*" wildcard. An empty Accept
// admits every file.
type Accept map[string][]string

// Matches reports whether f is admitted.
func (a Accept) Matches(f File) bool {
	if len(a) == 0 {
		return true
	}
	mimeType := strings.ToLower(strings.TrimSpace(f.Type))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	ext := f.Ext()

	for key, exts := range a {
		if matchMIME(strings.ToLower(key), mimeType) {
			return true
		}
		for _, e := range exts {
			if e = normalizeExt(e); e != "" && e == ext {
				return true
			}
		}
	}
	return false
}

// String renders the value of a file input's accept attribute: every key
// followed by its extensions, keys sorted.
func (a Accept) String() string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, k)
		for _, e := range a[k] {
			if e = normalizeExt(e); e != "" {
				parts = append(parts, e)
			}
		}
	}
	return strings.Join(parts, ",")
}

func matchMIME(pattern, mimeType string) bool {
	if mimeType == "" {
		return false
	}
	if pattern == "*/*" || pattern == "*" {
		return true
	}
	if base, ok := strings.CutSuffix(pattern, "/*"); ok {
		typ, _, _ := strings.Cut(mimeType, "/")
		return typ == base
	}
	return pattern == mimeType
}

func normalizeExt(e string) string {
	e = strings.ToLower(strings.TrimSpace(e))
	if e == "" {
		return ""
	}
	if !strings.HasPrefix(e, ".") {
		e = "." + e
	}
	return e
}
