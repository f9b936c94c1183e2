// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements from rendered Markdown. Event
// descriptions are user-supplied, so the UGC policy applies.
var htmlSanitizer = bluemonday.UGCPolicy()

// RenderMarkdown converts Markdown to sanitized HTML.
func RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		// Fall back to escaped plain text on conversion failure
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized above
}
