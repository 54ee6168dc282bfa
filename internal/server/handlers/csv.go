package handlers

import (
	"encoding/csv"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/AlexTLDR/venue-selector/internal/store"
)

var csvHeader = []string{"Venue", "Shop", "Address", "Name", "Location", "Phone"}

// writeCSVHeaders sets HTTP headers and writes the BOM Excel needs for UTF-8
func writeCSVHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=registrations.csv")
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})
}

// formatRegistrationForCSV flattens an entry, resolving its venue when known.
func formatRegistrationForCSV(s Server, e store.Entry) []string {
	row := []string{e.VenueKey, "-", "-", e.Name, e.Location, e.Phone}
	if v, ok := s.GetCatalog().Lookup(e.VenueKey); ok {
		row[0], row[1], row[2] = v.Location, v.ShopName, v.Address
	}
	return row
}

// HandleAdminDownloadCSV exports every registration, including ones whose
// venue is no longer in the catalog
func HandleAdminDownloadCSV(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := s.GetStore().All()

		writeCSVHeaders(w)

		cw := csv.NewWriter(w)
		_ = cw.Write(csvHeader)
		for _, e := range entries {
			_ = cw.Write(formatRegistrationForCSV(s, e))
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("Failed to write CSV")
		}
	}
}
