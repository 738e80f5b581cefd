package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindContainer(t *testing.T) {
	t.Parallel()

	const doc = `<html><body>
<div id="top" class="header"></div>
<section class="main results wide" id="first"></section>
<div class="results" id="second"></div>
<ul id="list"></ul>
</body></html>`

	tests := []struct {
		name     string
		selector string
		wantID   string
		wantErr  bool
	}{
		{name: "class selector picks first in document order", selector: ".results", wantID: "first"},
		{name: "class among several", selector: ".wide", wantID: "first"},
		{name: "id selector", selector: "#second", wantID: "second"},
		{name: "tag selector", selector: "ul", wantID: "list"},
		{name: "class prefix is not a match", selector: ".result", wantErr: true},
		{name: "missing", selector: ".nothing", wantErr: true},
		{name: "empty", selector: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := ParsePage(strings.NewReader(doc))
			if err != nil {
				t.Fatalf("ParsePage() error = %v", err)
			}

			n, err := page.Container(tt.selector)
			if tt.wantErr {
				if !errors.Is(err, ErrContainerNotFound) {
					t.Errorf("expected ErrContainerNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id, _ := attr(n, "id"); id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestDefaultPage(t *testing.T) {
	t.Parallel()

	page, err := DefaultPage()
	if err != nil {
		t.Fatalf("DefaultPage() error = %v", err)
	}

	container, err := page.Container(".results")
	if err != nil {
		t.Fatalf("default page has no container: %v", err)
	}
	if container.FirstChild != nil {
		t.Error("default container should be empty")
	}
}

func TestLoadPage(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses default page", func(t *testing.T) {
		t.Parallel()

		page, err := LoadPage("")
		if err != nil {
			t.Fatalf("LoadPage() error = %v", err)
		}
		if page.Document() == nil {
			t.Error("expected document")
		}
	})

	t.Run("custom page", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "index.html")
		if err := os.WriteFile(path, []byte(`<main><div class="results" id="custom"></div></main>`), 0600); err != nil {
			t.Fatal(err)
		}

		page, err := LoadPage(path)
		if err != nil {
			t.Fatalf("LoadPage() error = %v", err)
		}
		n, err := page.Container(".results")
		if err != nil {
			t.Fatalf("Container() error = %v", err)
		}
		if id, _ := attr(n, "id"); id != "custom" {
			t.Errorf("id = %q", id)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadPage(filepath.Join(t.TempDir(), "missing.html")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestNewComparisonBlock(t *testing.T) {
	t.Parallel()

	block := NewComparisonBlock("basn0g01", DefaultImageSources())

	var sb strings.Builder
	page := &Page{doc: block}
	if err := page.Render(&sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `<div class="comparison" id="basn0g01"><p>basn0g01</p><img src="./images/basn0g01-orig.png" class="orig"/><img src="./images/basn0g01-spng.png" class="spng"/></div>`
	if sb.String() != want {
		t.Errorf("got  %s\nwant %s", sb.String(), want)
	}
}
