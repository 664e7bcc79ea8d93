package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodash/db"
	"geodash/internal/apiclient"
	"geodash/internal/auth"
	"geodash/internal/config"
	"geodash/internal/dashboard"
	"geodash/internal/ipecho"
	"geodash/internal/logger"
	"geodash/internal/metrics"
	"geodash/internal/mockapi"
	"geodash/middleware"
)

var testMetrics = metrics.New()

type fixture struct {
	ts     *httptest.Server
	tokens *auth.TokenStore
	client *http.Client
}

// newFixture stands up the whole stack: the mock backend, the API
// client pointed at it, and the dashboard web server in front.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.ConnectToSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.InitializeSchema(conn))

	mockCfg := &config.MockConfig{
		Email:     "demo@example.com",
		Password:  "demo",
		JWTSecret: "test-secret",
	}
	backend := httptest.NewServer(
		mockapi.NewServer(mockCfg, db.NewSQLiteHistoryRepository(conn), logger.Nop()).Routes())
	t.Cleanup(backend.Close)

	tokens, err := auth.NewTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)

	log := logger.Nop()
	api := apiclient.New(backend.URL, tokens, log,
		apiclient.WithHTTPClient(backend.Client()))
	resolver := &ipecho.Resolver{Services: nil, Client: backend.Client(), Log: log}
	dash := dashboard.New(api, resolver, log)
	authSvc := auth.NewService(api, tokens, resolver, log)

	cfg := &config.Config{SessionSecret: "session-secret", BackendURL: backend.URL}
	handler := NewWebHandler(dash, authSvc, tokens, testMetrics, cfg, log)
	mw := middleware.NewMiddleware(tokens)

	ts := httptest.NewServer(handler.SetupRoutes(mw))
	t.Cleanup(ts.Close)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &fixture{ts: ts, tokens: tokens, client: client}
}

func (f *fixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := f.client.Get(f.ts.URL + path)
	require.NoError(t, err)
	return resp
}

func (f *fixture) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := f.client.PostForm(f.ts.URL+path, form)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestRoot_RedirectsAnonymousToLogin(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/")
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLogin_Page(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/login")
	html := body(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, html, `name="email"`)
	assert.Contains(t, html, `name="password"`)
}

func TestLogin_InvalidEmailShowsInlineError(t *testing.T) {
	f := newFixture(t)

	resp := f.postForm(t, "/login", url.Values{
		"email": {"not-an-email"}, "password": {"pw"},
	})
	html := body(t, resp)

	assert.Contains(t, html, "Enter a valid email address")
	assert.False(t, f.tokens.IsAuthenticated())
}

func TestLogin_BackendRejectionShowsBannerAndKeepsTokenUnset(t *testing.T) {
	f := newFixture(t)

	resp := f.postForm(t, "/login", url.Values{
		"email": {"demo@example.com"}, "password": {"wrong"},
	})
	html := body(t, resp)

	assert.Contains(t, html, "Invalid email or password")
	assert.False(t, f.tokens.IsAuthenticated())
}

func TestLogin_SuccessRedirectsHome(t *testing.T) {
	f := newFixture(t)

	resp := f.postForm(t, "/login", url.Values{
		"email": {"demo@example.com"}, "password": {"demo"},
	})
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.True(t, f.tokens.IsAuthenticated())
}

// login signs in and follows the redirect home, so the boot sequence
// has run before the test drives further actions.
func login(t *testing.T, f *fixture) {
	t.Helper()
	resp := f.postForm(t, "/login", url.Values{
		"email": {"demo@example.com"}, "password": {"demo"},
	})
	resp.Body.Close()
	require.True(t, f.tokens.IsAuthenticated())
	f.get(t, "/").Body.Close()
}

func TestSearch_ShowsGeolocationAndMap(t *testing.T) {
	f := newFixture(t)
	login(t, f)

	resp := f.postForm(t, "/search", url.Values{"ip": {"8.8.8.8"}})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	html := body(t, f.get(t, "/"))
	assert.Contains(t, html, "Mountain View")
	assert.Contains(t, html, "US")
	assert.Contains(t, html, "Google LLC")
	// Map recentered to the mock coordinates.
	assert.Contains(t, html, "37.3861")
	assert.Contains(t, html, "-122.0839")
}

func TestSearch_InvalidInputShowsInlineError(t *testing.T) {
	f := newFixture(t)
	login(t, f)

	resp := f.postForm(t, "/search", url.Values{"ip": {"999.1.1.1"}})
	resp.Body.Close()

	html := body(t, f.get(t, "/"))
	assert.Contains(t, html, "Enter a valid IPv4 or IPv6 address")
}

func TestHistory_SelectAndBulkDelete(t *testing.T) {
	f := newFixture(t)
	login(t, f)

	f.postForm(t, "/search", url.Values{"ip": {"8.8.8.8"}}).Body.Close()
	f.postForm(t, "/search", url.Values{"ip": {"1.1.1.1"}}).Body.Close()

	html := body(t, f.get(t, "/"))
	assert.Contains(t, html, "8.8.8.8")
	assert.Contains(t, html, "1.1.1.1")

	// Both rows toggled into the selection via their checkbox forms.
	ids := extractToggleIDs(html)
	require.Len(t, ids, 2)
	for _, id := range ids {
		f.postForm(t, "/history/toggle", url.Values{"id": {id}}).Body.Close()
	}

	resp := f.postForm(t, "/history/delete", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	html = body(t, f.get(t, "/"))
	assert.Contains(t, html, "No searches yet.")
}

func TestLogout_ClearsSessionAndRedirects(t *testing.T) {
	f := newFixture(t)
	login(t, f)

	resp := f.postForm(t, "/logout", nil)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, f.tokens.IsAuthenticated())
}

// extractToggleIDs pulls the hidden id values out of the history
// toggle forms in the rendered page.
func extractToggleIDs(html string) []string {
	var ids []string
	rest := html
	const marker = `name="id" value="`
	for {
		idx := strings.Index(rest, marker)
		if idx < 0 {
			return ids
		}
		rest = rest[idx+len(marker):]
		end := strings.Index(rest, `"`)
		if end < 0 {
			return ids
		}
		ids = append(ids, rest[:end])
	}
}
