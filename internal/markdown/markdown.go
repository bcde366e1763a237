// Package markdown extracts link destinations from markdown documents.
//
// It is an analysis package: nothing here renders markdown. The page graph
// resolver only needs the ordered list of local document links a page contains.
package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"github.com/inonjs/ignite/internal/pathutil"
)

// ExtractLinks parses a Markdown body (frontmatter already removed) and returns every
// link-like construct in document order. Reference definitions follow the AST links,
// sorted by label, and destinations only the permissive scanner accepts come last.
func ExtractLinks(body []byte, opts Options) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			// Reference-style usages are resolved by goldmark into Link nodes too.
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		case *gmast.HTMLBlock:
			if !opts.SkipHTML {
				links = append(links, htmlLinks(htmlBlockSource(node, body))...)
			}
		case *gmast.RawHTML:
			if !opts.SkipHTML {
				var buf bytes.Buffer
				for i := 0; i < node.Segments.Len(); i++ {
					seg := node.Segments.At(i)
					buf.Write(seg.Value(body))
				}
				links = append(links, htmlLinks(buf.Bytes())...)
			}
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	// CommonMark rejects destinations containing spaces ("./User Manual.md") but
	// hand-written docs use them; recover those with a line scanner.
	links = append(links, extractPermissiveLinks(body)...)

	return links, nil
}

// LocalDocumentLinks returns the destinations of body's links that point at local
// markdown documents, in order of first appearance and without duplicates.
// Images, external URLs, anchors and non-markdown targets are dropped.
func LocalDocumentLinks(body []byte) ([]string, error) {
	links, err := ExtractLinks(body, Options{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		if l.Kind == LinkKindImage {
			continue
		}
		dest := strings.TrimSpace(l.Destination)
		if !pathutil.IsLocalMarkdownLink(dest) {
			continue
		}
		if _, dup := seen[dest]; dup {
			continue
		}
		seen[dest] = struct{}{}
		out = append(out, dest)
	}
	return out, nil
}

func htmlBlockSource(node *gmast.HTMLBlock, body []byte) []byte {
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(body))
	}
	if node.HasClosure() {
		buf.Write(node.ClosureLine.Value(body))
	}
	return buf.Bytes()
}

// htmlLinks tokenizes an HTML fragment and returns the href of every anchor tag.
func htmlLinks(fragment []byte) []Link {
	var out []Link
	z := html.NewTokenizer(bytes.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "a" {
			continue
		}
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			if string(key) == "href" && len(val) > 0 {
				out = append(out, Link{Kind: LinkKindHTML, Destination: string(val)})
			}
		}
	}
}
