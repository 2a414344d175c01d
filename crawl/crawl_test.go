package crawl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gaurav-prasanna/html22text/core"
	"github.com/gaurav-prasanna/html22text/core/fetch"
)

func TestQueue(t *testing.T) {
	q := NewQueue(0)
	q.Add("a.html")
	q.Add("b.html")
	q.Add("a.html")

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	var got []string
	for q.HasNext() {
		got = append(got, q.Next())
	}
	if !reflect.DeepEqual(got, []string{"a.html", "b.html"}) {
		t.Errorf("order = %v", got)
	}
	if q.Add("b.html") {
		t.Error("Add() accepted a path seen before")
	}
}

func TestQueueLimit(t *testing.T) {
	q := NewQueue(2)
	for _, p := range []string{"a", "b", "c"} {
		q.Add(p)
	}
	if !q.Full() || q.Len() != 2 {
		t.Errorf("Full() = %v, Len() = %d", q.Full(), q.Len())
	}
	if q.Add("d") {
		t.Error("Add() accepted a path past the limit")
	}
}

func TestResolveDocLink(t *testing.T) {
	tests := []struct {
		current string
		link    string
		want    string
		ok      bool
	}{
		{"index.html", "about.html", "about.html", true},
		{"index.html", "guide/intro.html#setup", "guide/intro.html", true},
		{"guide/intro.html", "next.htm?x=1", "guide/next.htm", true},
		{"guide/intro.html", "../index.html", "index.html", true},
		{"guide/intro.html", "./deep/../other.html", "guide/other.html", true},
		{"index.html", "my%20page.html", "my page.html", true},
		{"index.html", "../outside.html", "", false},
		{"index.html", "style.css", "", false},
		{"index.html", "http://example.com/x.html", "", false},
		{"index.html", "/abs.html", "", false},
		{"index.html", "#top", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.link, func(t *testing.T) {
			got, ok := ResolveDocLink(tt.current, tt.link)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ResolveDocLink(%q, %q) = %q, %v; want %q, %v", tt.current, tt.link, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalizeDocPath(t *testing.T) {
	tests := map[string]string{
		"index.html":        "index.html",
		"./index.html":      "index.html",
		"docs//a/../b.html": "docs/b.html",
		"/index.html":       "index.html",
	}
	for in, want := range tests {
		if got := NormalizeDocPath(in); got != want {
			t.Errorf("NormalizeDocPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestDiscoverDocs(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":       `<a href="guide/intro.html">Intro</a> <a href="about.html#team">About</a> <a href="https://example.com/x.html">Ext</a>`,
		"about.html":       `<a href="index.html">Home</a>`,
		"guide/intro.html": `<a href="../about.html">About</a> <a href="setup.htm">Setup</a> <a href="../../escape.html">Out</a>`,
		"guide/setup.htm":  `<p>Setup</p>`,
		"orphan.html":      `<p>Nobody links here</p>`,
	})
	loader := fetch.NewFileLoader(0)

	got, err := DiscoverDocs(context.Background(), root, "index.html", loader, 0)
	if err != nil {
		t.Fatalf("DiscoverDocs() error = %v", err)
	}
	want := []string{"index.html", "guide/intro.html", "about.html", "guide/setup.htm"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscoverDocs() = %v, want %v", got, want)
	}

	limited, err := DiscoverDocs(context.Background(), root, "index.html", loader, 2)
	if err != nil {
		t.Fatalf("DiscoverDocs() error = %v", err)
	}
	if !reflect.DeepEqual(limited, want[:2]) {
		t.Errorf("DiscoverDocs(limit 2) = %v, want %v", limited, want[:2])
	}
}

func TestDiscoverDocsKeepsBrokenLinks(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": `<a href="missing.html">Gone</a>`,
	})

	got, err := DiscoverDocs(context.Background(), root, "index.html", fetch.NewFileLoader(0), 0)
	if err != nil {
		t.Fatalf("DiscoverDocs() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"index.html", "missing.html"}) {
		t.Errorf("DiscoverDocs() = %v", got)
	}
}

func TestDiscoverDocsMissingEntry(t *testing.T) {
	root := t.TempDir()

	_, err := DiscoverDocs(context.Background(), root, "index.html", fetch.NewFileLoader(0), 0)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("DiscoverDocs() error = %v, want %v", err, core.ErrNotFound)
	}
}

func TestWalkDocs(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":        "x",
		"b/page.HTM":        "x",
		"a/deep/page.html":  "x",
		"style.css":         "x",
		"assets/.html":      "x",
		".git/hooks/x.html": "x",
	})

	got, err := WalkDocs(root)
	if err != nil {
		t.Fatalf("WalkDocs() error = %v", err)
	}
	want := []string{"a/deep/page.html", "b/page.HTM", "index.html"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WalkDocs() = %v, want %v", got, want)
	}
}

func TestWalkDocsMissingRoot(t *testing.T) {
	_, err := WalkDocs(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("WalkDocs() error = %v, want %v", err, core.ErrNotFound)
	}
}
