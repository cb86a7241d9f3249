// Package localization provides functionality for internationalization (i18n).
// It loads translation strings from JSON files and provides a simple way to get
// localized strings for different languages.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

// Localizer manages the translations for the application.
// It holds a map of languages, each with its own map of translation keys and values.
type Localizer struct {
	translations map[string]map[string]string
	fallback     string
	matcher      language.Matcher
	tags         []string
	mu           sync.RWMutex
}

// NewLocalizer loads translations from dir on disk, or the built-in set when
// dir is empty. Files are named by language code (e.g. "en.json").
func NewLocalizer(dir, fallback string) (*Localizer, error) {
	if dir == "" {
		return load(embedded, "locales", fallback)
	}
	return load(os.DirFS(dir), ".", fallback)
}

func load(fsys fs.FS, dir, fallback string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
		fallback:     fallback,
	}

	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.translations[lang] = translations
	}

	if _, ok := l.translations[fallback]; !ok {
		return nil, fmt.Errorf("no translations for fallback language %q", fallback)
	}

	// The fallback goes first so the matcher prefers it on a tie.
	l.tags = []string{fallback}
	var rest []string
	for lang := range l.translations {
		if lang != fallback {
			rest = append(rest, lang)
		}
	}
	sort.Strings(rest)
	l.tags = append(l.tags, rest...)

	supported := make([]language.Tag, 0, len(l.tags))
	for _, t := range l.tags {
		supported = append(supported, language.Make(t))
	}
	l.matcher = language.NewMatcher(supported)

	return l, nil
}

// Match picks the best supported language for an Accept-Language header.
func (l *Localizer) Match(acceptLanguage string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return l.fallback
	}
	_, idx, conf := l.matcher.Match(prefs...)
	if conf == language.No {
		return l.fallback
	}
	return l.tags[idx]
}

// GetString returns the localized string for a given key and language.
// If the language or the key is not found, it returns the key itself as a fallback.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != l.fallback {
		if value, ok := l.translations[l.fallback][key]; ok {
			return value
		}
	}

	return key
}

// Format is GetString followed by fmt.Sprintf.
func (l *Localizer) Format(lang, key string, args ...interface{}) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}
