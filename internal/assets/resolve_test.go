package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolver_HTTP(t *testing.T) {
	r, err := NewResolver("https://example.com/blog/posts/webgl.html?ref=1", "")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	if got := r.Page(); got != "https://example.com/blog/posts/webgl.html?ref=1" {
		t.Errorf("Page = %q", got)
	}

	tests := []struct {
		ref      string
		relative string
		origin   string
	}{
		{"models/cat.obj", "https://example.com/blog/posts/models/cat.obj", "https://example.com/models/cat.obj"},
		{"./models/cat.obj", "https://example.com/blog/posts/models/cat.obj", "https://example.com/models/cat.obj"},
		{"../models/cat.obj", "https://example.com/blog/models/cat.obj", "https://example.com/models/cat.obj"},
		{"/models/cat.obj", "https://example.com/models/cat.obj", "https://example.com/models/cat.obj"},
		{"cat.png?v=2", "https://example.com/blog/posts/cat.png?v=2", "https://example.com/cat.png?v=2"},
		{"https://cdn.example.com/cat.obj", "https://cdn.example.com/cat.obj", "https://cdn.example.com/cat.obj"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			rel, err := r.Relative(tt.ref)
			if err != nil {
				t.Fatalf("Relative failed: %v", err)
			}
			if rel != tt.relative {
				t.Errorf("Relative = %q, want %q", rel, tt.relative)
			}
			org, err := r.Origin(tt.ref)
			if err != nil {
				t.Fatalf("Origin failed: %v", err)
			}
			if org != tt.origin {
				t.Errorf("Origin = %q, want %q", org, tt.origin)
			}
		})
	}
}

func TestResolver_FilePageWithSiteRoot(t *testing.T) {
	r, err := NewResolver("file:///srv/site/blog/post.html", "file:///srv/site/")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	rel, _ := r.Relative("models/cat.obj")
	if rel != "file:///srv/site/blog/models/cat.obj" {
		t.Errorf("Relative = %q", rel)
	}
	org, _ := r.Origin("../models/cat.obj")
	if org != "file:///srv/site/models/cat.obj" {
		t.Errorf("Origin = %q", org)
	}
}

func TestResolver_LocalDirectoryPage(t *testing.T) {
	dir := t.TempDir()
	r, err := NewResolver(dir, "")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	rel, err := r.Relative("models/cat.obj")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "models", "cat.obj")
	if got := LocalPath(rel); got != want {
		t.Errorf("LocalPath(Relative) = %q, want %q", got, want)
	}
}

func TestResolver_EmptyPageIsWorkingDirectory(t *testing.T) {
	r, err := NewResolver("", "")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	wd, _ := os.Getwd()
	rel, _ := r.Relative("a.obj")
	if got := LocalPath(rel); got != filepath.Join(wd, "a.obj") {
		t.Errorf("LocalPath = %q, want %q", got, filepath.Join(wd, "a.obj"))
	}
}

func TestLocalPath(t *testing.T) {
	if got := LocalPath("https://example.com/a.obj"); got != "" {
		t.Errorf("LocalPath(http) = %q, want empty", got)
	}
	if got := LocalPath("file:///tmp/a.obj"); got != filepath.FromSlash("/tmp/a.obj") {
		t.Errorf("LocalPath(file) = %q", got)
	}
}
