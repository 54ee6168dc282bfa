package handlers

import (
	"net/http"

	"github.com/AlexTLDR/venue-selector/internal/i18n"
	"github.com/AlexTLDR/venue-selector/templates"
)

// AdminServer extends Server with admin-specific methods
type AdminServer interface {
	Server
	GetCurrentUser(r *http.Request) (string, string)
}

// adminVenues groups every registration under its venue, in catalog order.
// Registrations whose venue left the catalog are not listed.
func adminVenues(s Server) ([]templates.AdminVenue, int) {
	venues := s.GetCatalog().Venues()
	out := make([]templates.AdminVenue, len(venues))
	total := 0
	for i, v := range venues {
		entries := s.GetStore().RegistrationsFor(v.Key())
		out[i] = templates.AdminVenue{Venue: v, Entries: entries}
		total += len(entries)
	}
	return out, total
}

// HandleAdminDashboard lists registrations per venue
func HandleAdminDashboard(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, name := s.GetCurrentUser(r)
		venues, total := adminVenues(s)

		renderPage(s, w, r, http.StatusOK, i18n.English, "Admin Dashboard", nil, templates.AdminDashboard(templates.AdminData{
			UserName: name,
			Email:    email,
			Venues:   venues,
			Total:    total,
		}))
	}
}
