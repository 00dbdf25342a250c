package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	assert.Equal(t, "Nightfox", GetTheme("Nightfox").Name)
	assert.Equal(t, "Dracula", GetTheme("Dracula").Name)

	// Unknown names fall back to the default.
	assert.Equal(t, "Dracula", GetTheme("NoSuchTheme").Name)
	assert.Equal(t, "Dracula", GetTheme("").Name)
}

func TestNextThemeCycles(t *testing.T) {
	seen := map[string]bool{}
	name := themeOrder[0]
	for range themeOrder {
		seen[name] = true
		name = NextTheme(name)
	}
	assert.Equal(t, themeOrder[0], name, "cycle should wrap around")
	assert.Len(t, seen, len(themeOrder), "cycle should visit every theme")

	// Unknown current theme restarts the cycle.
	assert.Equal(t, themeOrder[0], NextTheme("NoSuchTheme"))
}

func TestThemeNamesMatchDefinitions(t *testing.T) {
	for _, name := range ThemeNames() {
		assert.Equal(t, name, GetTheme(name).Name)
	}
}

func TestMarkColor(t *testing.T) {
	assert.Equal(t, "#e06c75", MarkColor("red"))
	assert.Equal(t, "#8be9fd", MarkColor("light blue"))

	// Raw hex values pass through unchanged.
	assert.Equal(t, "#123456", MarkColor("#123456"))
}
