package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
	"github.com/AlexTLDR/venue-selector/internal/i18n"
	"github.com/AlexTLDR/venue-selector/internal/screen"
	"github.com/AlexTLDR/venue-selector/internal/store"
	"github.com/AlexTLDR/venue-selector/internal/validation"
	"github.com/AlexTLDR/venue-selector/templates"
)

// maxDraftRows bounds how many people one form post may carry.
const maxDraftRows = 50

var errTooManyRows = errors.New("too many people in one registration")

// parseDraft reads the repeated name/location/phone fields into a draft.
// Short columns are padded with empty values. A post with more than
// maxDraftRows rows is refused whole.
func parseDraft(r *http.Request) (validation.Draft, error) {
	names := r.PostForm["name"]
	locations := r.PostForm["location"]
	phones := r.PostForm["phone"]

	n := max(len(names), len(locations), len(phones))
	if n > maxDraftRows {
		return validation.Draft{}, fmt.Errorf("%w: %d rows", errTooManyRows, n)
	}
	if n == 0 {
		return validation.NewDraft(), nil
	}

	at := func(vals []string, i int) string {
		if i < len(vals) {
			return vals[i]
		}
		return ""
	}

	d := validation.Draft{Rows: make([]validation.Row, n)}
	for i := range d.Rows {
		d.Rows[i] = validation.Row{
			Name:     at(names, i),
			Location: at(locations, i),
			Phone:    strings.TrimSpace(at(phones, i)),
		}
	}
	return d, nil
}

// renderRegistration validates draft against the current store and renders the form.
func renderRegistration(s Server, w http.ResponseWriter, r *http.Request, status int, lang i18n.Language, flashes []string, venue catalog.Venue, draft validation.Draft) validation.Result {
	res := s.GetValidator().Validate(draft, s.GetStore().Phones())
	renderPage(s, w, r, status, lang, i18n.T(lang, i18n.Registering), flashes, templates.Registration(templates.RegistrationData{
		Lang:   lang,
		Venue:  venue,
		Draft:  draft,
		Result: res,
	}))
	return res
}

// HandleRegister opens the registration form for a venue
func HandleRegister(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		venue, ok := s.GetCatalog().Lookup(r.PostFormValue("venue"))
		if !ok {
			http.Error(w, "Unknown venue", http.StatusNotFound)
			return
		}

		session := s.GetSession(r)
		next, err := screen.Register(currentScreen(s, session), venue)
		if err != nil {
			// Another tab already opened a form; show that one.
			logger.Info().Err(err).Str("venue", venue.Key()).Msg("Ignoring screen transition")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		if err := saveScreen(w, r, session, next); err != nil {
			logger.Error().Err(err).Msg("Failed to save session")
			http.Error(w, "Failed to save session", http.StatusInternalServerError)
			return
		}

		logger.Debug().Stringer("screen", next).Msg("Screen changed")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// HandleBack abandons the draft and returns to the catalog
func HandleBack(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r)
		session := s.GetSession(r)

		next, err := screen.Back(currentScreen(s, session))
		if err != nil {
			logger.Info().Err(err).Msg("Ignoring screen transition")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		if err := saveScreen(w, r, session, next); err != nil {
			logger.Error().Err(err).Msg("Failed to save session")
			http.Error(w, "Failed to save session", http.StatusInternalServerError)
			return
		}

		logger.Debug().Stringer("screen", next).Msg("Screen changed")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// HandleRegistrationSubmit revalidates, extends or commits the draft
func HandleRegistrationSubmit(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.GetLanguageFromRequest(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		session := s.GetSession(r)
		cur, ok := currentScreen(s, session).(screen.Registration)
		if !ok || cur.Venue.Key() != r.PostFormValue("venue") {
			// The form belongs to a screen this browser has left.
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		draft, err := parseDraft(r)
		if err != nil {
			hlog.FromRequest(r).Info().Err(err).Str("venue", cur.Venue.Key()).Msg("Rejected registration draft")
			http.Error(w, i18n.T(lang, i18n.TooManyPeople), http.StatusRequestEntityTooLarge)
			return
		}

		switch r.PostFormValue("action") {
		case "add":
			if len(draft.Rows) < maxDraftRows {
				draft.AddRow()
			}
			renderRegistration(s, w, r, http.StatusOK, lang, nil, cur.Venue, draft)
		case "commit":
			commitDraft(s, w, r, lang, cur, draft)
		default:
			renderRegistration(s, w, r, http.StatusOK, lang, nil, cur.Venue, draft)
		}
	}
}

func commitDraft(s Server, w http.ResponseWriter, r *http.Request, lang i18n.Language, cur screen.Registration, draft validation.Draft) {
	logger := hlog.FromRequest(r)
	v := s.GetValidator()

	res := v.Validate(draft, s.GetStore().Phones())
	if !res.Committable {
		logger.Info().Str("venue", cur.Venue.Key()).Int("rows", len(draft.Rows)).Msg("Rejected registration draft")
		renderRegistration(s, w, r, http.StatusUnprocessableEntity, lang, nil, cur.Venue, draft)
		return
	}

	rows := make([]store.Row, len(draft.Rows))
	for i, row := range draft.Rows {
		rows[i] = store.Row{
			Name:     strings.TrimSpace(row.Name),
			Location: strings.TrimSpace(row.Location),
			Phone:    v.Rule().Canonical(row.Phone),
		}
	}

	err := s.GetStore().Commit(r.Context(), cur.Venue.Key(), rows)
	if errors.Is(err, store.ErrPhoneTaken) {
		// Someone committed the same phone since validation ran.
		logger.Info().Err(err).Msg("Registration lost a race")
		renderRegistration(s, w, r, http.StatusConflict, lang, nil, cur.Venue, draft)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to commit registration")
		http.Error(w, "Failed to save registration", http.StatusInternalServerError)
		return
	}

	session := s.GetSession(r)
	next, err := screen.Committed(cur)
	if err != nil {
		logger.Error().Err(err).Msg("Unexpected screen state after commit")
	}
	session.AddFlash(string(i18n.RegisterSuccessful))
	if err := saveScreen(w, r, session, next); err != nil {
		logger.Error().Err(err).Msg("Failed to save session")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleUnregister removes one registration from the store
func HandleUnregister(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		index, err := strconv.Atoi(r.PostFormValue("index"))
		if err != nil {
			http.Error(w, "Invalid registration index", http.StatusBadRequest)
			return
		}

		session := s.GetSession(r)
		err = s.GetStore().RemoveExpected(r.Context(), index, r.PostFormValue("phone"))
		switch {
		case errors.Is(err, store.ErrOutOfRange), errors.Is(err, store.ErrStale):
			logger.Warn().Err(err).Int("index", index).Msg("Unregister refused")
			addFlash(w, r, session, i18n.RegistrationChanged)
		case err != nil:
			logger.Error().Err(err).Msg("Failed to remove registration")
			http.Error(w, "Failed to remove registration", http.StatusInternalServerError)
			return
		default:
			addFlash(w, r, session, i18n.UnregisterSuccessful)
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
