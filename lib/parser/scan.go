package parser

// rawTag is an opening or closing tag read by scanTag.
type rawTag struct {
	name        string
	attrs       []Attr
	closing     bool
	selfClosing bool
	end         int // offset just past '>'
}

// scanTag reads the tag starting at source[pos] == '<'. It fails when no
// tag name follows the bracket or when the input ends before '>'.
func scanTag(source string, pos int) (rawTag, bool) {
	var t rawTag
	i := skipSpace(source, pos+1)
	if i < len(source) && source[i] == '/' {
		t.closing = true
		i = skipSpace(source, i+1)
	}

	start := i
	for i < len(source) && isNameByte(source[i], i == start) {
		i++
	}
	if i == start {
		return t, false
	}
	t.name = source[start:i]

	for {
		i = skipSpace(source, i)
		if i >= len(source) {
			return t, false
		}
		switch c := source[i]; {
		case c == '>':
			t.end = i + 1
			return t, true
		case c == '/' && i+1 < len(source) && source[i+1] == '>':
			t.selfClosing = true
			t.end = i + 2
			return t, true
		case c == '/':
			i++
			continue
		case c == '<':
			// Another tag starts before this one closed.
			return t, false
		}

		var attr Attr
		attr, i = scanAttr(source, i)
		if attr.Name == "" {
			// Stray quote or '=': step over it.
			i++
			continue
		}
		if !t.closing {
			t.attrs = append(t.attrs, attr)
		}
	}
}

// scanAttr reads one attribute starting at source[i].
func scanAttr(source string, i int) (Attr, int) {
	start := i
	for i < len(source) && isAttrNameByte(source[i]) {
		if source[i] == '/' && i+1 < len(source) && source[i+1] == '>' {
			break
		}
		i++
	}
	attr := Attr{Name: source[start:i]}
	if attr.Name == "" {
		return attr, i
	}

	j := skipSpace(source, i)
	if j >= len(source) || source[j] != '=' {
		attr.Bare = true
		return attr, i
	}
	j = skipSpace(source, j+1)
	if j >= len(source) {
		return attr, j
	}

	if q := source[j]; q == '"' || q == '\'' {
		end := j + 1
		for end < len(source) && source[end] != q {
			end++
		}
		attr.Value = source[j+1 : end]
		if end < len(source) {
			end++
		}
		return attr, end
	}

	end := j
	for end < len(source) && !isSpace(source[end]) && source[end] != '>' {
		if source[end] == '/' && end+1 < len(source) && source[end+1] == '>' {
			break
		}
		end++
	}
	attr.Value = source[j:end]
	return attr, end
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case first:
		return false
	case c >= '0' && c <= '9', c == '_', c == '-', c == '.', c == ':':
		return true
	}
	return false
}

func isAttrNameByte(c byte) bool {
	return !isSpace(c) && c != '=' && c != '>' && c != '<' && c != '"' && c != '\''
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func skipSpace(source string, i int) int {
	for i < len(source) && isSpace(source[i]) {
		i++
	}
	return i
}
