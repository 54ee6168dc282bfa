package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ThemeConfig holds the light and dark theme names
// These are automatically parsed from static/css/input.css
type ThemeConfig struct {
	Light string
	Dark  string
}

var themesRe = regexp.MustCompile(`themes:\s*([a-zA-Z0-9-]+)\s+--default\s*,\s*([a-zA-Z0-9-]+)\s+--prefersdark`)

// GetThemes returns the theme configuration found in <staticDir>/css/input.css.
// Expected format: themes: themeName --default, themeName --prefersdark;
// Falls back to cupcake (light) and dim (dark).
func GetThemes(staticDir string) ThemeConfig {
	if content, err := os.ReadFile(filepath.Join(staticDir, "css", "input.css")); err == nil {
		if themes := parseThemesFromCSS(string(content)); themes != nil {
			return *themes
		}
	}

	return ThemeConfig{
		Light: "cupcake",
		Dark:  "dim",
	}
}

func parseThemesFromCSS(content string) *ThemeConfig {
	matches := themesRe.FindStringSubmatch(content)
	if len(matches) == 3 {
		return &ThemeConfig{
			Light: strings.TrimSpace(matches[1]),
			Dark:  strings.TrimSpace(matches[2]),
		}
	}

	return nil
}
