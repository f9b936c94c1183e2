// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("# Heading\n\nSome **bold** text."))

	if !strings.Contains(out, "<h1>") {
		t.Errorf("expected heading in output, got: %s", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected bold text in output, got: %s", out)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	out := string(RenderMarkdown("hello <script>alert(1)</script> world"))

	if strings.Contains(out, "<script>") {
		t.Errorf("script tag should be stripped, got: %s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("text content should survive, got: %s", out)
	}
}

func TestRenderMarkdownStripsEventHandlers(t *testing.T) {
	out := string(RenderMarkdown(`<a href="/x" onclick="steal()">link</a>`))

	if strings.Contains(out, "onclick") {
		t.Errorf("event handler should be stripped, got: %s", out)
	}
}
