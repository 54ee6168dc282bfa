package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
	"github.com/AlexTLDR/venue-selector/internal/config"
	"github.com/AlexTLDR/venue-selector/internal/store"
)

type memKV map[string]string

func (m memKV) GetValue(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) PutValues(_ context.Context, values map[string]string) error {
	for k, v := range values {
		m[k] = v
	}
	return nil
}

type testApp struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	store  *store.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		PhonePattern:   regexp.MustCompile(config.DefaultPhonePattern),
		SessionSecret:  "0123456789abcdef0123456789abcdef",
		StaticDir:      t.TempDir(),
		ImageBaseURL:   "https://img.example/",
		ImageExtension: ".png",
		RevealDelay:    100 * time.Millisecond,
	}
	cat, err := catalog.New([]catalog.Venue{
		{LocationLink: "v1", Location: "Riverside", ShopName: "Market"},
		{LocationLink: "v2", Location: "Hillside", ShopName: "Roasters"},
	})
	require.NoError(t, err)
	st, err := store.Load(context.Background(), memKV{})
	require.NoError(t, err)

	srv := httptest.NewServer(New(cfg, cat, st).Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{t: t, srv: srv, client: &http.Client{Jar: jar}, store: st}
}

func (a *testApp) get(path string) (int, string) {
	a.t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(a.t, err)
	return readBody(a.t, resp)
}

func (a *testApp) post(path string, form url.Values) (int, string) {
	a.t.Helper()
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(a.t, err)
	return readBody(a.t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestCatalogScreen(t *testing.T) {
	app := newTestApp(t)

	status, body := app.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Riverside")
	assert.Contains(t, body, "Hillside")
	assert.Contains(t, body, "https://img.example/")
	assert.Equal(t, 2, strings.Count(body, "No one has registered yet"))
}

func TestRegisterAddRowAndCommit(t *testing.T) {
	app := newTestApp(t)

	status, body := app.post("/register", url.Values{"venue": {"v1"}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `action="/registration"`)
	assert.Contains(t, body, `value="commit" disabled`)

	status, body = app.post("/registration", url.Values{
		"venue":    {"v1"},
		"action":   {"add"},
		"name":     {"Alice"},
		"location": {"Main St"},
		"phone":    {"555-0100"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, strings.Count(body, `name="phone"`))

	status, body = app.post("/registration", url.Values{
		"venue":    {"v1"},
		"action":   {"commit"},
		"name":     {"Alice", "Bob"},
		"location": {"Main St", "Elm St"},
		"phone":    {"555-0100", "555-0101"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Registration successful")
	assert.Contains(t, body, "Alice")
	assert.NotContains(t, body, `action="/registration"`)

	got := app.store.RegistrationsFor("v1")
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "555-0101", got[1].Phone)

	// The flash is shown once.
	_, body = app.get("/")
	assert.NotContains(t, body, "Registration successful")
}

func TestCommitRejectedDraftStaysOnForm(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Commit(context.Background(), "v1", []store.Row{{Name: "Alice", Location: "Main St", Phone: "555-0100"}}))

	app.post("/register", url.Values{"venue": {"v2"}})

	tests := []struct {
		name  string
		form  url.Values
		issue string
	}{
		{
			name:  "phone registered at another venue",
			form:  url.Values{"name": {"Dan"}, "location": {"Elm St"}, "phone": {"555-0100"}},
			issue: "phone-taken",
		},
		{
			name:  "phone repeated in draft",
			form:  url.Values{"name": {"Bob", "Carol"}, "location": {"Elm St", "Oak St"}, "phone": {"555-0200", "555-0200"}},
			issue: "phone-repeated",
		},
		{
			name:  "blank first name",
			form:  url.Values{"name": {" "}, "location": {"Elm St"}, "phone": {"555-0300"}},
			issue: "name-required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.form.Set("venue", "v2")
			tt.form.Set("action", "commit")
			status, body := app.post("/registration", tt.form)
			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.Contains(t, body, `data-issue="`+tt.issue+`"`)
			assert.Contains(t, body, `value="commit" disabled`)
			assert.Empty(t, app.store.RegistrationsFor("v2"))
		})
	}
}

func TestCommitRefusesOversizedDraft(t *testing.T) {
	app := newTestApp(t)
	_, _ = app.post("/register", url.Values{"venue": {"v1"}})

	form := url.Values{"venue": {"v1"}, "action": {"commit"}}
	for i := range 60 {
		form.Add("name", fmt.Sprintf("Person %d", i))
		form.Add("location", "Elm St")
		form.Add("phone", fmt.Sprintf("555-%04d", i))
	}

	status, body := app.post("/registration", form)
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Contains(t, body, "Too many people in one registration")
	assert.Zero(t, app.store.Len())

	// Still on the form; nothing was committed.
	status, body = app.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `action="/registration"`)
}

func TestBackReturnsToCatalog(t *testing.T) {
	app := newTestApp(t)

	app.post("/register", url.Values{"venue": {"v1"}})
	status, body := app.post("/back", url.Values{"venue": {"v1"}, "name": {"Half typed"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Available Venues")
	assert.NotContains(t, body, "Half typed")
}

func TestRegisterUnknownVenue(t *testing.T) {
	app := newTestApp(t)
	status, _ := app.post("/register", url.Values{"venue": {"nope"}})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStaleFormIsIgnored(t *testing.T) {
	app := newTestApp(t)

	app.post("/register", url.Values{"venue": {"v1"}})
	status, body := app.post("/registration", url.Values{
		"venue":    {"v2"},
		"action":   {"commit"},
		"name":     {"Alice"},
		"location": {"Main St"},
		"phone":    {"555-0100"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `name="venue" value="v1"`)
	assert.Equal(t, 0, app.store.Len())
}

func TestUnregister(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.store.Commit(context.Background(), "v3", []store.Row{
		{Name: "Bob", Location: "Elm St", Phone: "555-0300"},
		{Name: "Carol", Location: "Oak St", Phone: "555-0400"},
	}))

	_, body := app.post("/registrations/delete", url.Values{"index": {"0"}, "phone": {"555-0400"}})
	assert.Contains(t, body, "That registration changed")
	assert.Equal(t, 2, app.store.Len())

	_, body = app.post("/registrations/delete", url.Values{"index": {"7"}, "phone": {"555-0300"}})
	assert.Contains(t, body, "That registration changed")

	_, body = app.post("/registrations/delete", url.Values{"index": {"0"}, "phone": {"555-0300"}})
	assert.Contains(t, body, "Successfully removed registration")

	got := app.store.RegistrationsFor("v3")
	require.Len(t, got, 1)
	assert.Equal(t, "Carol", got[0].Name)

	status, _ := app.post("/registrations/delete", url.Values{"index": {"x"}})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminHiddenWithoutOAuth(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/admin", "/admin/registrations/download-csv", "/auth/google"} {
		status, _ := app.get(path)
		assert.Equal(t, http.StatusNotFound, status, path)
	}
}

func TestLanguageQuery(t *testing.T) {
	app := newTestApp(t)

	_, body := app.get("/?lang=ro")
	assert.Contains(t, body, "Locații disponibile")

	// Remembered through the cookie.
	_, body = app.get("/")
	assert.Contains(t, body, "Locații disponibile")
}
