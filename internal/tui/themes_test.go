package tui

import (
	"testing"
)

func TestSetThemeByName(t *testing.T) {
	orig := ActiveTheme().Name
	defer SetThemeByName(orig)

	if !SetThemeByName("Nord") {
		t.Fatal("known theme not found")
	}
	if ActiveTheme().Name != "Nord" {
		t.Errorf("active = %q", ActiveTheme().Name)
	}

	// Lookup is case-insensitive.
	if !SetThemeByName("gruvbox") {
		t.Error("case-insensitive lookup failed")
	}

	if SetThemeByName("No Such Theme") {
		t.Error("unknown theme accepted")
	}
	if SetThemeByName("") {
		t.Error("empty name accepted")
	}
}

func TestCycleThemeWrapsAround(t *testing.T) {
	orig := ActiveTheme().Name
	defer SetThemeByName(orig)

	seen := map[string]bool{}
	n := len(AvailableThemes())
	for i := 0; i < n; i++ {
		seen[CycleTheme()] = true
	}
	if len(seen) != n {
		t.Errorf("cycled through %d distinct themes, want %d", len(seen), n)
	}
	if ActiveTheme().Name != orig {
		t.Errorf("full cycle should return to %q, got %q", orig, ActiveTheme().Name)
	}
}

func TestApplyThemeUpdatesColors(t *testing.T) {
	orig := ActiveTheme().Name
	defer SetThemeByName(orig)

	SetThemeByName("Dracula")
	if colorAccent != "#BD93F9" {
		t.Errorf("accent = %q after Dracula", colorAccent)
	}
	SetThemeByName("Nord")
	if colorAccent != "#B48EAD" {
		t.Errorf("accent = %q after Nord", colorAccent)
	}
}

func TestThemeName(t *testing.T) {
	orig := ActiveTheme().Name
	defer SetThemeByName(orig)

	SetThemeByName("Nord")
	if got := ThemeName(); got != "❄ Nord" {
		t.Errorf("ThemeName() = %q", got)
	}
}
