package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeAndKebab(t *testing.T) {
	tests := []struct {
		name  string
		snake string
		kebab string
	}{
		{"ActionButton", "action_button", "action-button"},
		{"Button", "button", "button"},
		{"Card", "card", "card"},
		{"HTTPServer", "http_server", "http-server"},
		{"ActionURLButton", "action_url_button", "action-url-button"},
		{"Button2Group", "button2_group", "button2-group"},
		{"A", "a", "a"},
		{"UnifiedComponent", "unified_component", "unified-component"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.snake, ToSnake(tt.name))
			assert.Equal(t, tt.kebab, ToKebab(tt.name))
		})
	}
}

// All-uppercase names split into one word per letter. Template files for
// such components are named that way, so this is pinned down here.
func TestAllCapsSplitsPerLetter(t *testing.T) {
	assert.Equal(t, "u_r_l", ToSnake("URL"))
	assert.Equal(t, "u-r-l", ToKebab("URL"))
	assert.Equal(t, "h_t_m_l", ToSnake("HTML"))
}

func TestPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "action_button", ToSnake("ActionButton"))
	}
}

func TestToPascal(t *testing.T) {
	assert.Equal(t, "ActionButton", ToPascal("action_button"))
	assert.Equal(t, "ActionButton", ToPascal("action-button"))
	assert.Equal(t, "Card", ToPascal("card"))
	assert.Equal(t, "ActionButton", ToPascal(ToSnake("ActionButton")))
}

func TestTemplateCandidates(t *testing.T) {
	got := TemplateCandidates("ButtonGroup", []string{".html", ".jinja"})
	assert.Equal(t, []string{
		"button_group.html",
		"button-group.html",
		"button_group.jinja",
		"button-group.jinja",
	}, got)

	t.Run("single word collapses duplicates", func(t *testing.T) {
		assert.Equal(t, []string{"card.html", "card.jinja", "card.tmpl"}, TemplateCandidates("Card", nil))
	})

	t.Run("defaults keep html then jinja first", func(t *testing.T) {
		assert.Equal(t, []string{
			"button_group.html",
			"button-group.html",
			"button_group.jinja",
			"button-group.jinja",
		}, TemplateCandidates("ButtonGroup", nil)[:4])
	})

	t.Run("extension without dot", func(t *testing.T) {
		assert.Equal(t, []string{"card.html"}, TemplateCandidates("Card", []string{"html"}))
	})
}
