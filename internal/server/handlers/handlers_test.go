package handlers

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexTLDR/venue-selector/internal/catalog"
	"github.com/AlexTLDR/venue-selector/internal/config"
	"github.com/AlexTLDR/venue-selector/internal/store"
	"github.com/AlexTLDR/venue-selector/internal/validation"
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

type stubServer struct {
	cfg      *config.Config
	cat      *catalog.Catalog
	st       *store.Store
	val      *validation.Validator
	sessions *sessions.CookieStore
}

func (s *stubServer) GetConfig() *config.Config           { return s.cfg }
func (s *stubServer) GetCatalog() *catalog.Catalog        { return s.cat }
func (s *stubServer) GetStore() *store.Store              { return s.st }
func (s *stubServer) GetValidator() *validation.Validator { return s.val }
func (s *stubServer) GetSession(r *http.Request) *sessions.Session {
	session, _ := s.sessions.Get(r, "ui-session")
	return session
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()
	cat, err := catalog.New([]catalog.Venue{{LocationLink: "v1", Location: "Riverside", ShopName: "Market", Address: "1 Water St"}})
	require.NoError(t, err)
	st, err := store.Load(context.Background(), memKV{})
	require.NoError(t, err)

	return &stubServer{
		cfg:      &config.Config{StaticDir: t.TempDir()},
		cat:      cat,
		st:       st,
		val:      validation.New(validation.DefaultPhoneRule()),
		sessions: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
	}
}

func postRequest(form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/registration", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_ = r.ParseForm()
	return r
}

func TestParseDraft(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want []validation.Row
	}{
		{
			name: "no fields starts one empty row",
			form: url.Values{},
			want: []validation.Row{{}},
		},
		{
			name: "aligned columns",
			form: url.Values{"name": {"Bob", "Carol"}, "location": {"Elm St", "Oak St"}, "phone": {"555-0300", " 555-0400 "}},
			want: []validation.Row{
				{Name: "Bob", Location: "Elm St", Phone: "555-0300"},
				{Name: "Carol", Location: "Oak St", Phone: "555-0400"},
			},
		},
		{
			name: "short columns are padded",
			form: url.Values{"name": {"Bob", "Carol"}, "phone": {"555-0300"}},
			want: []validation.Row{
				{Name: "Bob", Phone: "555-0300"},
				{Name: "Carol"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := parseDraft(postRequest(tt.form))
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Rows)
		})
	}
}

func TestParseDraftRowLimit(t *testing.T) {
	d, err := parseDraft(postRequest(url.Values{"name": make([]string, maxDraftRows)}))
	require.NoError(t, err)
	assert.Len(t, d.Rows, maxDraftRows)

	_, err = parseDraft(postRequest(url.Values{"phone": make([]string, maxDraftRows+1)}))
	assert.ErrorIs(t, err, errTooManyRows)
}

func TestHandleAdminDownloadCSV(t *testing.T) {
	s := newStubServer(t)
	ctx := context.Background()
	require.NoError(t, s.st.Commit(ctx, "v1", []store.Row{{Name: `Ana "A"`, Location: "Cluj, RO", Phone: "555-0100"}}))
	require.NoError(t, s.st.Commit(ctx, "gone", []store.Row{{Name: "Bob", Location: "Elm St", Phone: "555-0200"}}))

	rec := httptest.NewRecorder()
	HandleAdminDownloadCSV(s)(rec, httptest.NewRequest(http.MethodGet, "/admin/registrations/download-csv", nil))

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(body, "\xEF\xBB\xBF"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"Riverside", "Market", "1 Water St", `Ana "A"`, "Cluj, RO", "555-0100"}, records[1])
	assert.Equal(t, []string{"gone", "-", "-", "Bob", "Elm St", "555-0200"}, records[2])
}

func TestHandleHomeShowsRegistrationScreen(t *testing.T) {
	s := newStubServer(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	session := s.GetSession(r)
	session.Values[screenKey] = "v1"

	rec := httptest.NewRecorder()
	HandleHome(s)(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="venue" value="v1"`)
}
