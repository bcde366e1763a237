// Package docmodel parses a markdown source file into its frontmatter and body.
package docmodel

import (
	"bytes"
	"sync"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/markdown"
)

// FrontMatter holds the fields ignite reads from a document header. Unknown keys
// are kept in Custom.
type FrontMatter struct {
	Title  string         `yaml:"title"`
	Author *Author        `yaml:"author"`
	Date   time.Time      `yaml:"date"`
	Draft  bool           `yaml:"draft"`
	Tags   []string       `yaml:"tags"`
	Custom map[string]any `yaml:",inline"`
}

// Document is a parsed markdown file. Raw is the file content exactly as read.
type Document struct {
	Path        string
	Raw         []byte
	Body        []byte
	FrontMatter FrontMatter

	linksOnce sync.Once
	links     []string
	linksErr  error
}

// Parse splits content into frontmatter and body. Documents without a header are
// valid; their Body is the whole content.
func Parse(path string, content []byte) (*Document, error) {
	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(content), &fm)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse frontmatter").
			WithContext("path", path).
			Build()
	}
	if fm.Custom == nil {
		fm.Custom = map[string]any{}
	}
	return &Document{
		Path:        path,
		Raw:         content,
		Body:        body,
		FrontMatter: fm,
	}, nil
}

// LocalLinks returns the document's local markdown link destinations in order of
// first appearance. The result is computed once.
func (d *Document) LocalLinks() ([]string, error) {
	d.linksOnce.Do(func() {
		links, err := markdown.LocalDocumentLinks(d.Body)
		if err != nil {
			d.linksErr = errors.WrapError(err, errors.CategoryValidation, "failed to extract markdown links").
				WithContext("path", d.Path).
				Build()
			return
		}
		d.links = links
	})
	if d.linksErr != nil {
		return nil, d.linksErr
	}
	return append([]string(nil), d.links...), nil
}

// Title returns the frontmatter title, falling back to the first ATX heading.
func (d *Document) Title() string {
	if d.FrontMatter.Title != "" {
		return d.FrontMatter.Title
	}
	for line := range bytes.SplitSeq(d.Body, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("# ")) {
			return string(bytes.TrimSpace(trimmed[2:]))
		}
	}
	return ""
}
