package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
	"github.com/AlexTLDR/venue-selector/internal/config"
	"github.com/AlexTLDR/venue-selector/internal/i18n"
	"github.com/AlexTLDR/venue-selector/internal/screen"
	"github.com/AlexTLDR/venue-selector/internal/store"
	"github.com/AlexTLDR/venue-selector/internal/validation"
	"github.com/AlexTLDR/venue-selector/templates"
)

// Server interface defines the methods needed by handlers
type Server interface {
	GetConfig() *config.Config
	GetCatalog() *catalog.Catalog
	GetStore() *store.Store
	GetValidator() *validation.Validator
	GetSession(r *http.Request) *sessions.Session
}

const screenKey = "screen"

// currentScreen restores the browser's screen from its session.
func currentScreen(s Server, session *sessions.Session) screen.Screen {
	key, _ := session.Values[screenKey].(string)
	return screen.Decode(key, s.GetCatalog())
}

// saveScreen stores next in the session and writes the cookie.
func saveScreen(w http.ResponseWriter, r *http.Request, session *sessions.Session, next screen.Screen) error {
	session.Values[screenKey] = screen.Encode(next)
	return session.Save(r, w)
}

// addFlash queues a message shown on the next page render.
func addFlash(w http.ResponseWriter, r *http.Request, session *sessions.Session, key i18n.Key) {
	session.AddFlash(string(key))
	if err := session.Save(r, w); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to save flash")
	}
}

// takeFlashes pops queued messages and translates them.
func takeFlashes(session *sessions.Session, lang i18n.Language) []string {
	var out []string
	for _, f := range session.Flashes() {
		if key, ok := f.(string); ok {
			out = append(out, i18n.T(lang, i18n.Key(key)))
		}
	}
	return out
}

// renderPage writes body inside the layout with status.
func renderPage(s Server, w http.ResponseWriter, r *http.Request, status int, lang i18n.Language, title string, flashes []string, body templ.Component) {
	themes := config.GetThemes(s.GetConfig().StaticDir)
	page := templates.Page{
		Lang:       string(lang),
		Title:      title,
		LightTheme: themes.Light,
		DarkTheme:  themes.Dark,
		Flashes:    flashes,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(page, body).Render(r.Context(), w); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to render page")
	}
}

// catalogData builds one card per venue with its current registrations.
func catalogData(s Server, lang i18n.Language) templates.CatalogData {
	cfg := s.GetConfig()
	venues := s.GetCatalog().Venues()

	cards := make([]templates.VenueCard, len(venues))
	for i, v := range venues {
		cards[i] = templates.VenueCard{
			Venue:      v,
			BannerURL:  v.Banner(cfg.ImageBaseURL, cfg.ImageExtension),
			Registered: s.GetStore().RegistrationsFor(v.Key()),
		}
	}

	return templates.CatalogData{
		Lang:        lang,
		Cards:       cards,
		RevealDelay: cfg.RevealDelay,
	}
}

// rememberLanguage keeps an explicit ?lang= choice across requests.
func rememberLanguage(w http.ResponseWriter, r *http.Request, lang i18n.Language) {
	if r.URL.Query().Get("lang") == string(lang) {
		http.SetCookie(w, &http.Cookie{Name: "lang", Value: string(lang), Path: "/", MaxAge: 86400 * 365, SameSite: http.SameSiteLaxMode})
	}
}

// HandleHome renders whichever screen the browser is on
func HandleHome(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.GetLanguageFromRequest(r)
		rememberLanguage(w, r, lang)

		session := s.GetSession(r)
		flashes := takeFlashes(session, lang)
		if len(flashes) > 0 {
			if err := session.Save(r, w); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("Failed to clear flashes")
			}
		}

		switch cur := currentScreen(s, session).(type) {
		case screen.Registration:
			renderRegistration(s, w, r, http.StatusOK, lang, flashes, cur.Venue, validation.NewDraft())
		default:
			renderPage(s, w, r, http.StatusOK, lang, i18n.T(lang, i18n.AvailableVenues), flashes, templates.Catalog(catalogData(s, lang)))
		}
	}
}
