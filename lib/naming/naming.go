// Package naming converts component type names between PascalCase and the
// snake_case / kebab-case forms used for template and asset file names.
//
// The split rule inserts a separator before an uppercase letter when the
// previous rune is lowercase (or a digit), or when the previous rune is
// uppercase and the next one is lowercase, so acronyms stay together:
//
//	ActionButton  -> action_button
//	HTTPServer    -> http_server
//	Button2Group  -> button2_group
//
// A name with no lowercase letters at all is split letter by letter
// (URL -> u_r_l). Templates are looked up by that exact spelling, so the
// rule is kept as is.
package naming

import (
	"strings"
	"unicode"
)

// DefaultExtensions lists template extensions in lookup priority order.
var DefaultExtensions = []string{".html", ".jinja", ".tmpl"}

// ToSnake converts a PascalCase identifier to snake_case.
func ToSnake(name string) string {
	return join(split(name), '_')
}

// ToKebab converts a PascalCase identifier to kebab-case.
func ToKebab(name string) string {
	return join(split(name), '-')
}

// ToPascal converts a snake_case or kebab-case identifier back to PascalCase.
func ToPascal(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// TemplateCandidates returns candidate file names for a component name:
// the snake and kebab spellings for each extension, in that order.
// Duplicates (single-word names) are removed.
func TemplateCandidates(name string, extensions []string) []string {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	snake, kebab := ToSnake(name), ToKebab(name)

	candidates := make([]string, 0, len(extensions)*2)
	seen := make(map[string]bool, len(extensions)*2)
	for _, ext := range extensions {
		if ext != "" && ext[0] != '.' {
			ext = "." + ext
		}
		for _, base := range [2]string{snake, kebab} {
			file := base + ext
			if seen[file] {
				continue
			}
			seen[file] = true
			candidates = append(candidates, file)
		}
	}
	return candidates
}

// split breaks name into lowercase words.
func split(name string) []string {
	runes := []rune(name)
	if len(runes) == 0 {
		return nil
	}

	if !hasLower(runes) {
		words := make([]string, 0, len(runes))
		for _, r := range runes {
			words = append(words, string(unicode.ToLower(r)))
		}
		return words
	}

	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		prev := runes[i-1]
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
			words = append(words, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}
	return append(words, strings.ToLower(string(runes[start:])))
}

func hasLower(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func join(words []string, sep byte) string {
	return strings.Join(words, string(sep))
}
