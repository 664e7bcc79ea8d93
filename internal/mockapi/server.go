// Package mockapi is a local stand-in for the remote geolocation
// backend. It implements the same HTTP contract the dashboard
// consumes: JWT-authenticated sessions, provider-shaped geolocation
// payloads, and a SQLite-backed search history.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"geodash/db"
	"geodash/internal/config"
	"geodash/internal/geo"
	"geodash/internal/logger"
)

type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

type Server struct {
	config  *config.MockConfig
	history *db.SQLiteHistoryRepository
	log     *logger.Logger
}

func NewServer(cfg *config.MockConfig, history *db.SQLiteHistoryRepository, log *logger.Logger) *Server {
	return &Server{config: cfg, history: history, log: log.WithComponent("mockapi")}
}

func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/login", s.LoginHandler).Methods("POST")
	r.HandleFunc("/api/logout", s.requireToken(s.LogoutHandler)).Methods("POST")
	r.HandleFunc("/api/me", s.requireToken(s.MeHandler)).Methods("GET")
	r.HandleFunc("/api/home", s.requireToken(s.HomeHandler)).Methods("POST")
	r.HandleFunc("/api/search-ip", s.requireToken(s.SearchHandler)).Methods("POST")
	r.HandleFunc("/api/clear-search", s.requireToken(s.ClearSearchHandler)).Methods("GET")
	r.HandleFunc("/api/history", s.requireToken(s.HistoryHandler)).Methods("GET")
	r.HandleFunc("/api/history/{id}", s.requireToken(s.HistoryItemHandler)).Methods("GET")
	r.HandleFunc("/api/history-delete", s.requireToken(s.HistoryDeleteHandler)).Methods("POST")

	return r
}

func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		IP       string `json:"ip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid request format"})
		return
	}

	if creds.Email != s.config.Email || creds.Password != s.config.Password {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
		return
	}

	token, err := s.generateJWT(creds.Email)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "Failed to generate token"})
		return
	}

	if creds.IP != "" {
		s.log.Info().Str("ip", creds.IP).Str("email", creds.Email).Msg("login")
	}
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (s *Server) generateJWT(email string) (string, error) {
	claims := &Claims{
		Email: email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// requireToken rejects requests without a valid bearer token.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(authHeader, "Bearer "), claims,
			func(token *jwt.Token) (interface{}, error) {
				return []byte(s.config.JWTSecret), nil
			})
		if err != nil || !token.Valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) MeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":    1,
		"email": s.config.Email,
		"name":  "Demo User",
	})
}

func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IP string `json:"ip"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(providerPayload(body.IP))
}

func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IP == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "ip is required"})
		return
	}

	rec := geo.Mock(body.IP)
	entry := &db.HistoryEntry{
		ID:         uuid.New().String(),
		IP:         body.IP,
		City:       rec.City(),
		Region:     rec.Region(),
		Country:    rec.Country(),
		ISP:        rec.ISP(),
		SearchedAt: time.Now(),
	}
	if lat, lng, ok := geo.ExtractLatLng(rec); ok {
		entry.Lat.Float64, entry.Lat.Valid = lat, true
		entry.Lng.Float64, entry.Lng.Valid = lng, true
	}
	if err := s.history.Create(r.Context(), entry); err != nil {
		s.log.Error().Err(err).Msg("storing history entry")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "failed to store history"})
		return
	}

	json.NewEncoder(w).Encode(providerPayload(body.IP))
}

func (s *Server) ClearSearchHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(providerPayload(""))
}

// HistoryHandler answers with the list wrapped in the data.history
// envelope some backend versions use.
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entries, err := s.history.FindAll(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "failed to load history"})
		return
	}

	items := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, map[string]any{
			"id":          e.ID,
			"ip":          e.IP,
			"city":        e.City,
			"country":     e.Country,
			"searched_at": e.SearchedAt.Format(time.RFC3339),
		})
	}

	json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{"history": items},
	})
}

func (s *Server) HistoryItemHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	entry, err := s.history.FindByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "history entry not found"})
		return
	}

	json.NewEncoder(w).Encode(providerPayload(entry.IP))
}

func (s *Server) HistoryDeleteHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid request format"})
		return
	}

	if err := s.history.DeleteByIDs(r.Context(), body.IDs); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "failed to delete history"})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"deleted": len(body.IDs)})
}

// providerPayload wraps canned data in the provider wire shape: a
// nested geo object using regionName/lon/query spellings.
func providerPayload(ip string) map[string]any {
	rec := geo.Mock(ip)
	lat, lng, _ := geo.ExtractLatLng(rec)

	return map[string]any{
		"ip": rec.IP(),
		"geo": map[string]any{
			"status":     "success",
			"query":      rec.IP(),
			"city":       rec.City(),
			"regionName": rec.Region(),
			"country":    rec.Country(),
			"isp":        rec.ISP(),
			"lat":        lat,
			"lon":        lng,
		},
	}
}
