package render

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

//go:embed templates/index.html
var defaultPage []byte

// ErrContainerNotFound is returned when no element matches the container selector.
var ErrContainerNotFound = errors.New("results container not found")

// Page is a parsed host document.
type Page struct {
	doc *html.Node
}

// DefaultPage returns the built-in host page with an empty ".results" container.
func DefaultPage() (*Page, error) {
	return ParsePage(bytes.NewReader(defaultPage))
}

// ParsePage parses a host document.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// LoadPage parses the host document at path, or the default page when path is empty.
func LoadPage(path string) (*Page, error) {
	if path == "" {
		return DefaultPage()
	}

	f, err := os.Open(path) //nolint:gosec // User-provided page path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	return ParsePage(f)
}

// Document returns the root node.
func (p *Page) Document() *html.Node {
	return p.doc
}

// Container returns the first element matching selector in document order.
func (p *Page) Container(selector string) (*html.Node, error) {
	return FindContainer(p.doc, selector)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.doc)
}

// RenderInto locates the container in page and runs r against it.
func (r *Renderer) RenderInto(ctx context.Context, page *Page, selector string) error {
	container, err := page.Container(selector)
	if err != nil {
		return err
	}
	return r.Render(ctx, container)
}

// FindContainer returns the first element under root matching selector.
//
// Supported selectors are ".class", "#id" and a bare tag name.
func FindContainer(root *html.Node, selector string) (*html.Node, error) {
	selector = strings.TrimSpace(selector)
	if root == nil || selector == "" {
		return nil, fmt.Errorf("%w: %q", ErrContainerNotFound, selector)
	}

	match := matcher(selector)
	if n := findFirst(root, match); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrContainerNotFound, selector)
}

func matcher(selector string) func(*html.Node) bool {
	switch {
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		return func(n *html.Node) bool {
			return hasClass(n, class)
		}
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		return func(n *html.Node) bool {
			v, ok := attr(n, "id")
			return ok && v == id
		}
	default:
		tag := strings.ToLower(selector)
		return func(n *html.Node) bool {
			return n.Data == tag
		}
	}
}

// findFirst walks the tree depth-first in document order.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
