package docmodel

import (
	"fmt"
	"regexp"
	"strings"
)

// Author identifies a person credited for a site or a post.
type Author struct {
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email,omitempty" json:"email,omitempty"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
}

// authorPattern matches the npm-style "Name <email> (url)" shorthand.
var authorPattern = regexp.MustCompile(`^([^<(]*?)\s*(?:<([^>]*)>)?\s*(?:\(([^)]*)\))?$`)

// ParseAuthor parses the "Name <email> (url)" shorthand. Email and URL are optional.
func ParseAuthor(s string) Author {
	m := authorPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Author{Name: strings.TrimSpace(s)}
	}
	return Author{
		Name:  strings.TrimSpace(m[1]),
		Email: strings.TrimSpace(m[2]),
		URL:   strings.TrimSpace(m[3]),
	}
}

// UnmarshalYAML accepts either the string shorthand or a {name, email, url} mapping.
// The function-style signature is understood by both yaml.v2 (used for frontmatter)
// and yaml.v3 (used for the config file).
func (a *Author) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		*a = ParseAuthor(s)
		return nil
	}
	type plain Author
	var p plain
	if err := unmarshal(&p); err != nil {
		return fmt.Errorf("author must be a string or a mapping: %w", err)
	}
	*a = Author(p)
	return nil
}

// String renders the author back into the shorthand form.
func (a Author) String() string {
	var b strings.Builder
	b.WriteString(a.Name)
	if a.Email != "" {
		fmt.Fprintf(&b, " <%s>", a.Email)
	}
	if a.URL != "" {
		fmt.Fprintf(&b, " (%s)", a.URL)
	}
	return strings.TrimSpace(b.String())
}
