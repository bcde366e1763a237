package docgraph

import (
	"sort"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"github.com/inonjs/ignite/internal/pathutil"
	"github.com/inonjs/ignite/internal/util/sets"
)

// Page is one document reached by a page graph walk.
type Page struct {
	// Path is the cleaned absolute path of the document.
	Path string
	// Content is the raw file content, frontmatter included.
	Content []byte
	Title   string
	IsIndex bool
	// OutsideRoot is set for documents reached through a root-escaping link.
	OutsideRoot bool
	// DiscoveredFrom is the path of the page whose link first reached this one.
	// It is empty for the index.
	DiscoveredFrom string
	// Links holds the resolved paths of local document links, in document order.
	Links []string
}

// PageGraph is the set of documents reachable from one index document.
// Every document appears once; the index is always a member.
type PageGraph struct {
	Root  string
	Index string
	// FirstLink is the target of the index document's first local link, or empty
	// when the index links nowhere. Renderers use it as the first page after the index.
	FirstLink string

	pages map[string]*Page
}

func newPageGraph(root, index string) *PageGraph {
	return &PageGraph{Root: root, Index: index, pages: make(map[string]*Page)}
}

// Len returns the number of documents in the graph.
func (g *PageGraph) Len() int { return len(g.pages) }

// Contains reports whether the document at path is a member of the graph.
func (g *PageGraph) Contains(path string) bool {
	_, ok := g.pages[pathutil.Key(path)]
	return ok
}

// Page returns the member at path.
func (g *PageGraph) Page(path string) (*Page, bool) {
	p, ok := g.pages[pathutil.Key(path)]
	return p, ok
}

// Paths returns the member paths sorted ascending.
func (g *PageGraph) Paths() []string {
	paths := sets.New[string]()
	for _, p := range g.pages {
		paths.Add(p.Path)
	}
	return sets.Sorted(paths)
}

// Pages returns the members sorted by path.
func (g *PageGraph) Pages() []*Page {
	out := make([]*Page, 0, len(g.pages))
	for _, p := range g.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// RelativePath returns a member path relative to the graph root with forward slashes.
func (g *PageGraph) RelativePath(path string) string {
	return pathutil.RootRelative(g.Root, path)
}

// Tree renders the graph as the spanning tree of first discovery, starting at the index.
func (g *PageGraph) Tree() string {
	children := make(map[string][]*Page)
	for _, p := range g.pages {
		if p.DiscoveredFrom != "" {
			parent := pathutil.Key(p.DiscoveredFrom)
			children[parent] = append(children[parent], p)
		}
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool { return kids[i].Path < kids[j].Path })
	}

	index, ok := g.pages[pathutil.Key(g.Index)]
	if !ok {
		return ""
	}
	tree := gotree.New(g.treeLabel(index))
	var add func(node gotree.Tree, p *Page)
	add = func(node gotree.Tree, p *Page) {
		for _, kid := range children[pathutil.Key(p.Path)] {
			add(node.Add(g.treeLabel(kid)), kid)
		}
	}
	add(tree, index)
	return strings.TrimRight(tree.Print(), "\n")
}

func (g *PageGraph) treeLabel(p *Page) string {
	label := g.RelativePath(p.Path)
	if p.Title != "" {
		label += ": " + p.Title
	}
	if p.OutsideRoot {
		label += " (outside root)"
	}
	return label
}
