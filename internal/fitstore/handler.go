package fitstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/middleware"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/internal/tracker"
	"github.com/2beens/fitlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=fitstore

type authenticator interface {
	Login(ctx context.Context, creds auth.Credentials, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type tokenForgetter interface {
	Forget(token string)
}

type Handler struct {
	service        *Service
	authService    authenticator
	loginChecker   tokenForgetter
	metricsManager *metrics.Manager
}

func NewHandler(
	service *Service,
	authService authenticator,
	loginChecker tokenForgetter,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		service:        service,
		authService:    authService,
		loginChecker:   loginChecker,
		metricsManager: metricsManager,
	}
}

type RateLimits struct {
	Limiter      middleware.RequestRateLimiter
	LoginPerMin  int
	WritesPerMin int
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router, limits RateLimits) {
	apiRouter := mainRouter.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/fitness-data", handler.handleGetFitnessData).Methods("GET", "OPTIONS").Name("get-fitness-data")
	apiRouter.HandleFunc("/settings", handler.handleGetSettings).Methods("GET", "OPTIONS").Name("get-settings")

	writesRouter := apiRouter.Methods("POST", "PUT").Subrouter()
	writesRouter.HandleFunc("/fitness-data", handler.handleSaveFitnessData).Methods("POST").Name("save-fitness-data")
	writesRouter.HandleFunc("/settings", handler.handleSaveSettings).Methods("PUT").Name("save-settings")
	writesRouter.Use(middleware.RateLimit(limits.Limiter, handler.metricsManager, "writes", limits.WritesPerMin))

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")

	// rate limit the /login and /logout endpoints to prevent abuse
	loginSubrouter.Use(middleware.RateLimit(limits.Limiter, handler.metricsManager, "login", limits.LoginPerMin))
}

func handleOptions(w http.ResponseWriter, r *http.Request, allow string) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	w.Header().Add("Allow", allow)
	w.WriteHeader(http.StatusOK)
	return true
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
	}
	return id, ok
}

func (handler *Handler) handleGetFitnessData(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET, POST, OPTIONS") {
		return
	}
	id, ok := userID(w, r)
	if !ok {
		return
	}

	data, err := handler.service.LoadDocument(r.Context(), id)
	if err != nil {
		log.Errorf("get fitness data of user %d: %s", id, err)
		http.Error(w, "failed to get fitness data", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, data)
}

func (handler *Handler) handleSaveFitnessData(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Errorf("save fitness data of user %d, read body: %s", id, err)
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	savedAt, err := handler.service.SaveDocument(r.Context(), id, body)
	if err != nil {
		if errors.Is(err, ErrInvalidDocument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("save fitness data of user %d: %s", id, err)
		http.Error(w, "failed to save fitness data", http.StatusInternalServerError)
		return
	}

	log.Tracef("fitness data of user %d saved [%d bytes]", id, len(body))
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"savedAt":"%s"}`, savedAt.Format(time.RFC3339Nano)))
}

func (handler *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if handleOptions(w, r, "GET, PUT, OPTIONS") {
		return
	}
	id, ok := userID(w, r)
	if !ok {
		return
	}

	settings, err := handler.service.LoadSettings(r.Context(), id)
	if err != nil {
		log.Errorf("get settings of user %d: %s", id, err)
		http.Error(w, "failed to get settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, settings)
}

func (handler *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var update tracker.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid settings json", http.StatusBadRequest)
		return
	}

	settings, err := handler.service.SaveSettings(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("save settings of user %d: %s", id, err)
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, settings)
}

func writeJSON(w http.ResponseWriter, v any) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		http.Error(w, "marshal response error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fitstoreHandler.login")
	defer span.End()

	if handleOptions(w, r, "POST, OPTIONS") {
		return
	}

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == pkg.ContentType.JSON {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = loginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, auth.Credentials{
		Username: loginReq.Username,
		Password: loginReq.Password,
	}, time.Now())
	if err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			log.Tracef("failed login attempt for user: %s", loginReq.Username)
			handler.metricsManager.CounterLogins.WithLabelValues("failure").Inc()
			http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed for user %s: %s", loginReq.Username, err)
		handler.metricsManager.CounterLogins.WithLabelValues("error").Inc()
		http.Error(w, "login error", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterLogins.WithLabelValues("success").Inc()
	log.Tracef("new login success: %s", loginReq.Username)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token":"%s"}`, token))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "fitstoreHandler.logout")
	defer span.End()

	if handleOptions(w, r, "GET, OPTIONS") {
		return
	}

	authToken := r.Header.Get(middleware.TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("logout failed: %s", err)
		http.Error(w, "logout error", http.StatusInternalServerError)
		return
	}
	handler.loginChecker.Forget(authToken)
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	log.Trace("logout success")
	pkg.WriteTextResponseOK(w, "logged-out")
}
