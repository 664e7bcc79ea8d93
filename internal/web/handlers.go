package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"

	"geodash/internal/auth"
	"geodash/internal/config"
	"geodash/internal/dashboard"
	"geodash/internal/geo"
	"geodash/internal/logger"
	"geodash/internal/metrics"
	"geodash/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionName = "geodash-session"

type WebHandler struct {
	dashboard    *dashboard.Dashboard
	authService  *auth.Service
	tokens       *auth.TokenStore
	templates    *template.Template
	sessionStore *sessions.CookieStore
	validate     *validator.Validate
	metrics      *metrics.Metrics
	log          *logger.Logger
	config       *config.Config
}

// PageData feeds the page templates.
type PageData struct {
	Page       string
	Error      string
	Notice     string
	InputError string
	InputIP    string
	Email      string
	CurrentIP  string
	Geo        geo.Record
	GeoIP      string
	HasMap     bool
	Lat        float64
	Lng        float64
	History    []models.HistoryItem
	Selected   map[string]bool
	Loading    bool
}

func NewWebHandler(
	dash *dashboard.Dashboard,
	authService *auth.Service,
	tokens *auth.TokenStore,
	m *metrics.Metrics,
	cfg *config.Config,
	log *logger.Logger,
) *WebHandler {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}

	return &WebHandler{
		dashboard:    dash,
		authService:  authService,
		tokens:       tokens,
		templates:    tmpl,
		sessionStore: store,
		validate:     validator.New(),
		metrics:      m,
		log:          log.WithComponent("web"),
		config:       cfg,
	}
}

// Home renders the dashboard. The first authenticated visit runs the
// boot sequence (own geolocation + history); later visits render
// whatever state the form posts left behind.
func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	if !h.dashboard.Booted() {
		h.metrics.LookupsTotal.WithLabelValues("home").Inc()
		h.dashboard.Boot(r.Context())
	}

	h.renderDashboard(w, r)
}

func (h *WebHandler) renderDashboard(w http.ResponseWriter, r *http.Request) {
	st := h.dashboard.Snapshot()

	data := PageData{
		Page:       "home",
		Error:      st.Error,
		Notice:     h.popNotice(w, r),
		InputError: st.InputError,
		InputIP:    st.InputIP,
		CurrentIP:  st.CurrentIP,
		Geo:        st.Geo,
		History:    st.History,
		Selected:   st.Selected,
		Loading:    st.Loading,
	}
	if st.Geo != nil {
		data.GeoIP = st.Geo.IP()
		if lat, lng, ok := geo.ExtractLatLng(st.Geo); ok {
			data.HasMap = true
			data.Lat = lat
			data.Lng = lng
		}
	}

	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.log.Error().Err(err).Msg("rendering dashboard")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Login serves the login form and handles its submission.
func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if h.tokens.IsAuthenticated() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.renderLogin(w, PageData{Page: "login"})
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if err := h.validate.Var(email, "required,email"); err != nil {
		h.renderLogin(w, PageData{Page: "login", Email: email, Error: "Enter a valid email address"})
		return
	}
	if password == "" {
		h.renderLogin(w, PageData{Page: "login", Email: email, Error: "Enter your password"})
		return
	}

	res, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		h.renderLogin(w, PageData{Page: "login", Email: email, Error: err.Error()})
		return
	}
	if !res.TokenAcquired {
		h.renderLogin(w, PageData{Page: "login", Email: email,
			Error: "Login did not return a session token"})
		return
	}

	h.setNotice(w, r, "Signed in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *WebHandler) renderLogin(w http.ResponseWriter, data PageData) {
	if err := h.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		h.log.Error().Err(err).Msg("rendering login")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Logout ends the session. The local token is cleared even when the
// backend call fails.
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		h.log.Warn().Err(err).Msg("clearing session")
	}
	h.setNotice(w, r, "Signed out")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Search looks up the submitted address and returns to the dashboard.
func (h *WebHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.metrics.LookupsTotal.WithLabelValues("search").Inc()
	h.dashboard.Search(r.Context(), r.FormValue("ip"))
	if st := h.dashboard.Snapshot(); st.Error != "" {
		h.metrics.LookupsFailed.Inc()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SelectHistory shows the stored record for one history row.
func (h *WebHandler) SelectHistory(w http.ResponseWriter, r *http.Request, id string) {
	h.metrics.LookupsTotal.WithLabelValues("history").Inc()
	h.dashboard.SelectHistory(r.Context(), id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ToggleHistory flips a row's selection checkbox.
func (h *WebHandler) ToggleHistory(w http.ResponseWriter, r *http.Request) {
	h.dashboard.ToggleSelect(r.FormValue("id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteHistory bulk-deletes the selected rows.
func (h *WebHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	h.dashboard.DeleteSelected(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ClearSearch returns the view to the caller's own geolocation.
func (h *WebHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	h.metrics.LookupsTotal.WithLabelValues("clear").Inc()
	h.dashboard.Clear(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *WebHandler) setNotice(w http.ResponseWriter, r *http.Request, msg string) {
	session, _ := h.sessionStore.Get(r, sessionName)
	session.AddFlash(msg)
	_ = session.Save(r, w)
}

func (h *WebHandler) popNotice(w http.ResponseWriter, r *http.Request) string {
	session, _ := h.sessionStore.Get(r, sessionName)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	_ = session.Save(r, w)
	notice, _ := flashes[0].(string)
	return notice
}
