package render

import (
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"base.html": &fstest.MapFile{Data: []byte(
			`<title>{% block title %}mod-report{% endblock %}</title>{% block body %}{% endblock %}`,
		)},
		"page.html": &fstest.MapFile{Data: []byte(
			`{% extends "base.html" %}{% block title %}{{ title }}{% endblock %}{% block body %}Hello {{ name }} ({{ app }}){% endblock %}`,
		)},
	}
}

func TestNew_RequiresFS(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected an error without a template FS")
	}
}

func TestRender_InheritanceAndGlobals(t *testing.T) {
	engine, err := New(
		WithFS(testFS()),
		WithGlobals(map[string]any{"app": "mod-report"}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := engine.Render("page", map[string]any{"title": "Dashboard", "name": "Avery"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "<title>Dashboard</title>") {
		t.Errorf("block override missing: %q", out)
	}
	if !strings.Contains(out, "Hello Avery (mod-report)") {
		t.Errorf("globals or context missing: %q", out)
	}
}

func TestRender_EscapesByDefault(t *testing.T) {
	engine, err := New(WithFS(fstest.MapFS{
		"x.html": &fstest.MapFile{Data: []byte(`{{ body }}`)},
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := engine.Render("x", map[string]any{"body": `<script>alert(1)</script>`})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("output not escaped: %q", out)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := engine.Render("missing", nil); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}

func TestRender_CachesCompiledTemplates(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := engine.Render("page", map[string]any{"name": "a"}); err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	engine.mu.RLock()
	_, cached := engine.templates["page.html"]
	engine.mu.RUnlock()
	if !cached {
		t.Fatal("expected page.html to be cached after first render")
	}
}
