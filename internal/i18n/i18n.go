package i18n

import (
	"net/http"

	"golang.org/x/text/language"
)

// Language is a supported UI language code.
type Language string

const (
	English  Language = "en"
	Romanian Language = "ro"
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Romanian})

func parse(value string) (Language, bool) {
	switch value {
	case "en":
		return English, true
	case "ro":
		return Romanian, true
	}
	return "", false
}

// GetLanguageFromRequest picks the language from the lang query parameter,
// then the lang cookie, then Accept-Language. English is the default.
func GetLanguageFromRequest(r *http.Request) Language {
	if lang, ok := parse(r.URL.Query().Get("lang")); ok {
		return lang
	}

	if cookie, err := r.Cookie("lang"); err == nil {
		if lang, ok := parse(cookie.Value); ok {
			return lang
		}
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		tag, _ := language.MatchStrings(matcher, accept)
		base, _ := tag.Base()
		if lang, ok := parse(base.String()); ok {
			return lang
		}
	}

	return English
}
