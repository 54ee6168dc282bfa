package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
	"github.com/AlexTLDR/venue-selector/internal/i18n"
	"github.com/AlexTLDR/venue-selector/internal/store"
	"github.com/AlexTLDR/venue-selector/internal/validation"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var venue = catalog.Venue{
	Date:         "Saturday",
	Time:         "10:00",
	BannerURL:    "harbor",
	Location:     "Harbor",
	ShopName:     "Fish & Chips <Co>",
	Address:      "2 Pier Rd",
	LocationLink: "https://maps.example/?q=pier&z=1",
	OpenTime:     "09:00",
}

func TestCatalogRendersCards(t *testing.T) {
	out := render(t, Catalog(CatalogData{
		Lang:        i18n.English,
		RevealDelay: 100 * time.Millisecond,
		Cards: []VenueCard{
			{Venue: venue, BannerURL: "https://img.example/harbor.png"},
			{Venue: catalog.Venue{LocationLink: "v2", Location: "Hill"}, Registered: []store.Entry{
				{Index: 3, Registration: store.Registration{VenueKey: "v2", Name: "Alice", Location: "Main St", Phone: "555-0100"}},
			}},
		},
	}))

	assert.Contains(t, out, "Fish &amp; Chips &lt;Co&gt;")
	assert.NotContains(t, out, "<Co>")
	assert.Contains(t, out, `animation-delay: 0ms`)
	assert.Contains(t, out, `animation-delay: 100ms`)
	assert.Contains(t, out, `href="https://maps.example/?q=pier&amp;z=1"`)
	assert.Contains(t, out, i18n.T(i18n.English, i18n.NoneRegistered))
	assert.Contains(t, out, `name="index" value="3"`)
	assert.Contains(t, out, `name="phone" value="555-0100"`)
}

func TestCatalogRejectsUnsafeLinks(t *testing.T) {
	v := venue
	v.LocationLink = "javascript:alert(1)"
	out := render(t, Catalog(CatalogData{Lang: i18n.English, Cards: []VenueCard{{Venue: v}}}))
	assert.NotContains(t, out, `href="javascript:`)
}

func TestRegistrationDisabledUntilCommittable(t *testing.T) {
	draft := validation.Draft{Rows: []validation.Row{
		{Name: "Bob", Location: "Elm St", Phone: "555-0200"},
		{Name: "", Location: "Oak St", Phone: "555-0200"},
	}}
	res := validation.Validate(draft, nil, validation.DefaultPhoneRule())
	require.False(t, res.Committable)

	out := render(t, Registration(RegistrationData{Lang: i18n.English, Venue: venue, Draft: draft, Result: res}))
	assert.Contains(t, out, `value="commit" disabled`)
	assert.Equal(t, 2, strings.Count(out, `data-issue="phone-repeated"`))
	assert.Equal(t, 1, strings.Count(out, `data-issue="name-required"`))
	assert.Equal(t, 2, strings.Count(out, `name="phone"`))

	draft.Rows[1].Phone = "555-0201"
	res = validation.Validate(draft, nil, validation.DefaultPhoneRule())
	out = render(t, Registration(RegistrationData{Lang: i18n.English, Venue: venue, Draft: draft, Result: res}))
	assert.NotContains(t, out, `value="commit" disabled`)
}

func TestRegistrationEscapesDraftValues(t *testing.T) {
	draft := validation.Draft{Rows: []validation.Row{{Name: `"><script>x</script>`, Location: "Elm St", Phone: "555-0200"}}}
	res := validation.Validate(draft, nil, validation.DefaultPhoneRule())

	out := render(t, Registration(RegistrationData{Lang: i18n.English, Venue: venue, Draft: draft, Result: res}))
	assert.NotContains(t, out, "<script>x")
	assert.Contains(t, out, `value="&#34;&gt;&lt;script&gt;x&lt;/script&gt;"`)
	assert.Contains(t, out, `data-row="0"`)
}

func TestAdminDashboardGroupsEntries(t *testing.T) {
	out := render(t, AdminDashboard(AdminData{
		UserName: "Ada",
		Email:    "ada@example.com",
		Total:    1,
		Venues: []AdminVenue{
			{Venue: venue, Entries: []store.Entry{
				{Index: 0, Registration: store.Registration{VenueKey: venue.Key(), Name: "Bob <b>", Location: "Elm St", Phone: "555-0300"}},
			}},
			{Venue: catalog.Venue{LocationLink: "v2", Location: "Hill", ShopName: "Bakery"}},
		},
	}))

	assert.Contains(t, out, "Total registrations: 1")
	assert.Contains(t, out, "Harbor, Fish &amp; Chips &lt;Co&gt; (1)")
	assert.Contains(t, out, "Hill, Bakery (0)")
	assert.Contains(t, out, "<td>Bob &lt;b&gt;</td>")
	assert.Equal(t, 1, strings.Count(out, "<table"))
}

func TestLayoutWrapsBody(t *testing.T) {
	out := render(t, Layout(Page{Lang: "ro", Title: "T", LightTheme: "cupcake", DarkTheme: "dim", Flashes: []string{"ok <3"}},
		Catalog(CatalogData{Lang: i18n.Romanian})))

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `data-theme="cupcake"`)
	assert.Contains(t, out, `data-dark-theme="dim"`)
	assert.Contains(t, out, "ok &lt;3")
	assert.Contains(t, out, i18n.T(i18n.Romanian, i18n.AvailableVenues))
	assert.True(t, strings.HasSuffix(out, "</html>"))
}
