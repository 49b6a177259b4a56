package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// PlaceholderImage stands in for a missing cover
const PlaceholderImage = "https://via.placeholder.com/150x225/3b82f6/ffffff?text=Novel"

// Theme returns the saved theme, light by default
func Theme(s Store) string {
	if t, ok := s.Get(ThemeKey); ok && (t == ThemeLight || t == ThemeDark) {
		return t
	}
	return ThemeLight
}

// SetTheme saves theme
func SetTheme(s Store, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q (want %s or %s)", theme, ThemeLight, ThemeDark)
	}
	return s.Set(ThemeKey, theme)
}

// EnsureUserID returns the device user id, generating and saving one on
// first use
func EnsureUserID(s Store) (string, error) {
	if id, ok := s.Get(UserKey); ok {
		if _, err := uuid.Parse(id); err == nil {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := s.Set(UserKey, id); err != nil {
		return "", fmt.Errorf("save user id: %w", err)
	}
	return id, nil
}

// CleanImageURL drops the width descriptors some covers carry ("url 300w")
// and substitutes a placeholder for a missing image
func CleanImageURL(u string) string {
	fields := strings.Fields(u)
	if len(fields) == 0 {
		return PlaceholderImage
	}
	return fields[0]
}
