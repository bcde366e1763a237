package markdown

// Options controls how Markdown is parsed for link analysis.
type Options struct {
	// SkipHTML disables scanning raw HTML blocks and inline HTML for <a href> targets.
	SkipHTML bool
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
	LinkKindHTML                LinkKind = "html"
)

type Link struct {
	Kind        LinkKind
	Destination string
}
