package markdown

import "strings"

// extractPermissiveLinks scans body line by line for inline links, images and
// reference definitions whose destinations contain whitespace. Goldmark already
// reports every well-formed destination; this pass only adds the ones CommonMark
// rejects. Fenced blocks, indented code and inline code spans are skipped.
func extractPermissiveLinks(body []byte) []Link {
	var out []Link
	fence := ""
	for line := range strings.SplitSeq(string(body), "\n") {
		trimmed := strings.TrimSpace(line)
		if marker := fenceMarker(trimmed); marker != "" {
			switch fence {
			case "":
				fence = marker
			case marker:
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		clean := stripInlineCodeSpans(line)
		out = append(out, scanBracketLinks(clean)...)
		if l, ok := scanReferenceDefinition(clean); ok {
			out = append(out, l)
		}
	}
	return out
}

func fenceMarker(trimmed string) string {
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, m) {
			return m
		}
	}
	return ""
}

func stripInlineCodeSpans(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '`' {
			b.WriteByte(s[i])
			i++
			continue
		}
		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}
		marker := s[i : i+run]
		closeRel := strings.Index(s[i+run:], marker)
		if closeRel == -1 {
			// unclosed span: keep the backticks literally
			b.WriteString(marker)
			i += run
			continue
		}
		i += run + closeRel + run
	}
	return b.String()
}

// scanBracketLinks finds "[text](dest)" and "![alt](dest)" occurrences whose dest
// contains a space or tab.
func scanBracketLinks(line string) []Link {
	var out []Link
	for i := 0; i+1 < len(line); i++ {
		if line[i] != ']' || line[i+1] != '(' {
			continue
		}
		open := strings.LastIndex(line[:i], "[")
		if open == -1 {
			continue
		}
		end := strings.IndexByte(line[i+2:], ')')
		if end == -1 {
			continue
		}
		dest := line[i+2 : i+2+end]
		if !strings.ContainsAny(dest, " \t") {
			continue
		}
		kind := LinkKindInline
		if open > 0 && line[open-1] == '!' {
			kind = LinkKindImage
		}
		out = append(out, Link{Kind: kind, Destination: dest})
	}
	return out
}

func scanReferenceDefinition(line string) (Link, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[^") {
		return Link{}, false
	}
	_, rest, ok := strings.Cut(trimmed, "]:")
	if !ok {
		return Link{}, false
	}
	dest := strings.TrimSpace(rest)
	for _, titleStart := range []string{` "`, ` '`} {
		if before, _, found := strings.Cut(dest, titleStart); found {
			dest = strings.TrimSpace(before)
			break
		}
	}
	if dest == "" || !strings.ContainsAny(dest, " \t") {
		return Link{}, false
	}
	return Link{Kind: LinkKindReferenceDefinition, Destination: dest}, true
}
