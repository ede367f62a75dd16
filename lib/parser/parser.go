// Package parser scans HTML-like text for component tags.
//
// A component tag is any tag whose name starts with an uppercase ASCII
// letter (<Button/>, <Card>...</Card>). Everything else, ordinary HTML
// included, is passed through as text. The scan is a single left-to-right
// pass and never fails: malformed input degrades to text.
//
// Only the outermost component tags of a source are returned as tag nodes.
// Component tags inside a paired tag stay in that tag's Inner text, and the
// caller expands them by parsing Inner again. Component tags inside ordinary
// HTML elements are still found, because ordinary tags are skipped one at a
// time rather than matched to their closing tags.
package parser

import (
	"strings"
)

// Kind identifies a node type.
type Kind int

const (
	// KindText is a verbatim span of the source.
	KindText Kind = iota
	// KindTag is a component tag.
	KindTag
)

// Attr is a single attribute of a component tag.
type Attr struct {
	Name  string
	Value string
	// Bare is set for attributes written without a value (<Input required/>).
	Bare bool
}

// Node is a text span or a component tag.
type Node struct {
	Kind Kind

	// Raw is the exact source text covered by the node: the text itself for
	// text nodes, the whole tag (opening tag through closing tag) for tags.
	Raw string

	// Start and End are byte offsets of Raw in the source.
	Start, End int

	Name        string
	Attrs       []Attr
	Inner       string
	SelfClosing bool
	// Unclosed is set when a paired tag has no matching closing tag. The
	// tag is treated as empty and scanning resumes after the opening tag.
	Unclosed bool
}

// Attr returns the value of the first attribute named name.
func (n Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrMap returns the attributes as a map. Bare attributes map to true,
// valued ones to their string value. The first occurrence of a name wins.
func (n Node) AttrMap() map[string]any {
	m := make(map[string]any, len(n.Attrs))
	for _, a := range n.Attrs {
		if _, exists := m[a.Name]; exists {
			continue
		}
		if a.Bare {
			m[a.Name] = true
			continue
		}
		m[a.Name] = a.Value
	}
	return m
}

// IsComponentName reports whether a tag name denotes a component.
func IsComponentName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// HasComponentTags is a cheap check for "<Upper" (whitespace allowed after
// the bracket) used to skip parsing text that cannot contain a component.
func HasComponentTags(source string) bool {
	for i := 0; i < len(source); i++ {
		if source[i] != '<' {
			continue
		}
		j := skipSpace(source, i+1)
		if j < len(source) && source[j] >= 'A' && source[j] <= 'Z' {
			return true
		}
	}
	return false
}

// Parse splits source into text and component tag nodes. Concatenating
// the Raw fields of the result reproduces source exactly.
func Parse(source string) []Node {
	var nodes []Node
	textStart := 0
	i := 0

	flush := func(end int) {
		if end > textStart {
			nodes = append(nodes, Node{
				Kind:  KindText,
				Raw:   source[textStart:end],
				Start: textStart,
				End:   end,
			})
		}
	}

	for i < len(source) {
		rel := strings.IndexByte(source[i:], '<')
		if rel < 0 {
			break
		}
		pos := i + rel

		if end, ok := skipComment(source, pos); ok {
			i = end
			continue
		}

		t, ok := scanTag(source, pos)
		if !ok {
			i = pos + 1
			continue
		}
		if t.closing || !IsComponentName(t.name) {
			i = t.end
			continue
		}

		flush(pos)
		node := Node{
			Kind:        KindTag,
			Start:       pos,
			Name:        t.name,
			Attrs:       t.attrs,
			SelfClosing: t.selfClosing,
		}
		switch {
		case t.selfClosing:
			node.End = t.end
		default:
			closeStart, closeEnd, found := findClose(source, t.end, t.name)
			if found {
				node.Inner = source[t.end:closeStart]
				node.End = closeEnd
			} else {
				node.Unclosed = true
				node.End = t.end
			}
		}
		node.Raw = source[node.Start:node.End]
		nodes = append(nodes, node)

		i = node.End
		textStart = node.End
	}

	flush(len(source))
	return nodes
}

// findClose finds the closing tag matching an opening tag named name whose
// content starts at from. Nested open tags of the same name increase the
// depth, so <Card><Card>x</Card>y</Card> closes at the second </Card>.
func findClose(source string, from int, name string) (closeStart, closeEnd int, found bool) {
	depth := 1
	i := from
	for i < len(source) {
		rel := strings.IndexByte(source[i:], '<')
		if rel < 0 {
			return 0, 0, false
		}
		pos := i + rel

		if end, ok := skipComment(source, pos); ok {
			i = end
			continue
		}

		t, ok := scanTag(source, pos)
		if !ok {
			i = pos + 1
			continue
		}
		if t.name == name {
			switch {
			case t.closing:
				depth--
				if depth == 0 {
					return pos, t.end, true
				}
			case !t.selfClosing:
				depth++
			}
		}
		i = t.end
	}
	return 0, 0, false
}

// skipComment reports the end of an HTML comment starting at pos. An
// unterminated comment runs to the end of the source.
func skipComment(source string, pos int) (int, bool) {
	if !strings.HasPrefix(source[pos:], "<!--") {
		return 0, false
	}
	end := strings.Index(source[pos+4:], "-->")
	if end < 0 {
		return len(source), true
	}
	return pos + 4 + end + 3, true
}
