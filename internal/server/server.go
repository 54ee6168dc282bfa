package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
	"github.com/AlexTLDR/venue-selector/internal/config"
	"github.com/AlexTLDR/venue-selector/internal/server/handlers"
	"github.com/AlexTLDR/venue-selector/internal/store"
	"github.com/AlexTLDR/venue-selector/internal/validation"
)

const (
	uiSession   = "ui-session"
	authSession = "auth-session"
)

type Server struct {
	config       *config.Config
	catalog      *catalog.Catalog
	store        *store.Store
	validator    *validation.Validator
	sessionStore *sessions.CookieStore
	router       *http.ServeMux
}

// GetConfig implements handlers.Server interface
func (s *Server) GetConfig() *config.Config {
	return s.config
}

// GetCatalog implements handlers.Server interface
func (s *Server) GetCatalog() *catalog.Catalog {
	return s.catalog
}

// GetStore implements handlers.Server interface
func (s *Server) GetStore() *store.Store {
	return s.store
}

// GetValidator implements handlers.Server interface
func (s *Server) GetValidator() *validation.Validator {
	return s.validator
}

// GetSession implements handlers.Server interface. A cookie that no longer
// decodes yields a fresh session.
func (s *Server) GetSession(r *http.Request) *sessions.Session {
	session, err := s.sessionStore.Get(r, uiSession)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("Discarding undecodable session")
	}
	return session
}

// GetCurrentUser implements handlers.AdminServer interface
func (s *Server) GetCurrentUser(r *http.Request) (string, string) {
	session, _ := s.sessionStore.Get(r, authSession)
	email, _ := session.Values["email"].(string)
	name, _ := session.Values["name"].(string)
	return email, name
}

func New(cfg *config.Config, cat *catalog.Catalog, st *store.Store) *Server {
	cookies := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		config:       cfg,
		catalog:      cat,
		store:        st,
		validator:    validation.New(validation.NewPhoneRule(cfg.PhonePattern, cfg.PhoneRegion)),
		sessionStore: cookies,
		router:       http.NewServeMux(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	fs := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("GET /static/", http.StripPrefix("/static/", fs))

	// Public routes
	s.router.HandleFunc("GET /{$}", handlers.HandleHome(s))
	s.router.HandleFunc("POST /register", handlers.HandleRegister(s))
	s.router.HandleFunc("POST /back", handlers.HandleBack(s))
	s.router.HandleFunc("POST /registration", handlers.HandleRegistrationSubmit(s))
	s.router.HandleFunc("POST /registrations/delete", handlers.HandleUnregister(s))

	// Auth routes
	s.router.HandleFunc("GET /auth/google", s.requireOAuth(s.handleGoogleLogin))
	s.router.HandleFunc("GET /auth/google/callback", s.requireOAuth(s.handleGoogleCallback))
	s.router.HandleFunc("GET /auth/logout", s.handleLogout)

	// Admin routes (protected)
	s.router.HandleFunc("GET /admin", s.requireOAuth(s.requireAuth(handlers.HandleAdminDashboard(s))))
	s.router.HandleFunc("GET /admin/registrations/download-csv", s.requireOAuth(s.requireAuth(handlers.HandleAdminDownloadCSV(s))))
}

// Handler returns the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(log.Logger)(h)
	return h
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// requireOAuth hides the admin surface entirely when OAuth is not configured.
func (s *Server) requireOAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.config.OAuthEnabled() {
			http.NotFound(w, r)
			return
		}
		next(w, r)
	}
}

// requireAuth is a middleware that checks if user is authenticated
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.sessionStore.Get(r, authSession)

		email, ok := session.Values["email"].(string)
		if !ok || email == "" {
			http.Redirect(w, r, "/auth/google", http.StatusSeeOther)
			return
		}

		// Check if email is in whitelist
		if !s.isAdminEmail(email) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func (s *Server) isAdminEmail(email string) bool {
	for _, adminEmail := range s.config.AdminEmails {
		if strings.EqualFold(email, adminEmail) {
			return true
		}
	}
	return false
}
