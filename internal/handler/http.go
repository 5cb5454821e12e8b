package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gamehub-backend/internal/auth"
	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
	"github.com/gamehub-backend/internal/service"
	"github.com/gamehub-backend/internal/websocket"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Handler provides HTTP handlers for the aggregation API
type Handler struct {
	users       *service.UserService
	aggregation *service.AggregationService
	catalog     *service.CatalogService
	tokens      *auth.JWTManager
	hub         *websocket.Hub
	aggCfg      *config.AggregationConfig
	corsOrigin  string
	logger      *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	users *service.UserService,
	aggregation *service.AggregationService,
	catalog *service.CatalogService,
	tokens *auth.JWTManager,
	hub *websocket.Hub,
	aggCfg *config.AggregationConfig,
	corsOrigin string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		users:       users,
		aggregation: aggregation,
		catalog:     catalog,
		tokens:      tokens,
		hub:         hub,
		aggCfg:      aggCfg,
		corsOrigin:  corsOrigin,
		logger:      logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(h.corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)
	r.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint
	r.Get("/ws", h.HandleWebSocket)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAuth)
				r.Get("/me", h.Me)
				r.Put("/me/platforms", h.LinkPlatforms)
				r.Post("/me/stats/refresh", h.RefreshStats)
			})
		})

		r.Route("/steam", func(r chi.Router) {
			r.Get("/profile/{steamID}", h.SteamProfile)
			r.Get("/resolve/{vanity}", h.SteamResolve)
			r.Get("/games/{steamID}", h.SteamGames)
			r.Get("/achievements/{steamID}", h.SteamAchievements)
			r.Get("/achievements/{steamID}/rare", h.SteamRareAchievements)
			r.Get("/stats/{steamID}", h.SteamStats)
		})

		r.Route("/xbox", func(r chi.Router) {
			r.Get("/profile/{gamertag}", h.XboxProfile)
			r.Get("/achievements/{xuid}", h.XboxAchievements)
		})

		r.Get("/psn/profile/{onlineID}", h.PSNProfile)

		r.Route("/igdb", func(r chi.Router) {
			r.Get("/trending", h.IGDBTrending)
			r.Get("/upcoming", h.IGDBUpcoming)
			r.Get("/anticipated", h.IGDBAnticipated)
			r.Get("/games/{gameID}", h.IGDBGame)
		})

		// WebSocket info endpoint
		r.Get("/ws/stats", h.GetWebSocketStats)
	})

	return r
}

// corsMiddleware adds CORS headers for the configured origin
func (h *Handler) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuth validates the bearer token and stores the user ID in the
// request context
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.writeError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials)
			return
		}

		userID, err := h.tokens.VerifyToken(token)
		if err != nil {
			h.writeError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// handleServiceError maps service errors to HTTP status codes
func (h *Handler) handleServiceError(w http.ResponseWriter, operation string, err error) {
	switch {
	case domain.IsNotFound(err):
		h.writeError(w, http.StatusNotFound, err)
	case domain.IsInvalidInput(err):
		h.writeError(w, http.StatusBadRequest, err)
	case domain.IsUpstreamUnavailable(err):
		h.writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrPlatformIDTaken):
		h.writeError(w, http.StatusConflict, err)
	case errors.Is(err, domain.ErrPlatformNotLinked):
		h.writeError(w, http.StatusBadRequest, err)
	default:
		h.logger.Error("failed to "+operation, "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// parsePagination reads page and limit query parameters, falling back to
// the configured defaults. Range validation happens in the service.
func (h *Handler) parsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = h.aggCfg.DefaultPageSize

	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			page = v
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}
	return page, limit
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, h.logger, w, r)
}

// GetWebSocketStats returns WebSocket connection statistics
func (h *Handler) GetWebSocketStats(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]interface{}{
		"total_connections": h.hub.GetTotalConnections(),
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}

// Register handles account creation
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, "register user", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    user,
	})
}

// Login exchanges credentials for an access token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	token, err := h.users.Login(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, "log in user", err)
		return
	}

	h.writeSuccess(w, token)
}

// Me returns the authenticated account with its aggregate stats
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(r.Context(), userIDFrom(r))
	if err != nil {
		h.handleServiceError(w, "get profile", err)
		return
	}

	h.writeSuccess(w, user)
}

// LinkPlatforms updates the authenticated account's platform IDs
func (h *Handler) LinkPlatforms(w http.ResponseWriter, r *http.Request) {
	var req domain.LinkPlatformsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	user, err := h.users.LinkPlatforms(r.Context(), userIDFrom(r), req)
	if err != nil {
		h.handleServiceError(w, "link platforms", err)
		return
	}

	h.writeSuccess(w, user)
}

// RefreshStats recomputes the authenticated account's aggregate stats
// from the platform given in the query string
func (h *Handler) RefreshStats(w http.ResponseWriter, r *http.Request) {
	platform := domain.Platform(r.URL.Query().Get("platform"))
	if !platform.Valid() {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	stats, err := h.aggregation.RefreshStats(r.Context(), userIDFrom(r), platform, "http")
	if err != nil {
		h.handleServiceError(w, "refresh stats", err)
		return
	}

	h.writeSuccess(w, stats)
}

// SteamProfile returns a Steam player summary
func (h *Handler) SteamProfile(w http.ResponseWriter, r *http.Request) {
	h.profile(w, r, domain.PlatformSteam, chi.URLParam(r, "steamID"))
}

// SteamResolve resolves a vanity URL name to a SteamID64
func (h *Handler) SteamResolve(w http.ResponseWriter, r *http.Request) {
	vanity := chi.URLParam(r, "vanity")
	id, err := h.aggregation.ResolveIdentity(r.Context(), domain.PlatformSteam, vanity)
	if err != nil {
		h.handleServiceError(w, "resolve vanity", err)
		return
	}

	h.writeSuccess(w, map[string]string{"steam_id": id})
}

// SteamGames returns the player's owned games
func (h *Handler) SteamGames(w http.ResponseWriter, r *http.Request) {
	identity := domain.PlayerIdentity{Platform: domain.PlatformSteam, ID: chi.URLParam(r, "steamID")}
	games, err := h.aggregation.Library(r.Context(), identity)
	if err != nil {
		h.handleServiceError(w, "list games", err)
		return
	}

	h.writeSuccess(w, games)
}

// SteamAchievements returns one page of enriched achievement summaries
func (h *Handler) SteamAchievements(w http.ResponseWriter, r *http.Request) {
	h.achievements(w, r, domain.PlatformSteam, chi.URLParam(r, "steamID"))
}

// SteamRareAchievements returns unlocked achievements below the rarity
// threshold across the player's library
func (h *Handler) SteamRareAchievements(w http.ResponseWriter, r *http.Request) {
	identity := domain.PlayerIdentity{Platform: domain.PlatformSteam, ID: chi.URLParam(r, "steamID")}

	threshold := h.aggCfg.RarityThreshold
	if s := r.URL.Query().Get("threshold"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 || v > 100 {
			h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
			return
		}
		threshold = v
	}

	rare, err := h.aggregation.RareAchievements(r.Context(), identity, threshold)
	if err != nil {
		h.handleServiceError(w, "get rare achievements", err)
		return
	}

	h.writeSuccess(w, rare)
}

// SteamStats computes aggregate stats for a SteamID without persisting
func (h *Handler) SteamStats(w http.ResponseWriter, r *http.Request) {
	identity := domain.PlayerIdentity{Platform: domain.PlatformSteam, ID: chi.URLParam(r, "steamID")}
	stats, err := h.aggregation.ComputeStats(r.Context(), identity)
	if err != nil {
		h.handleServiceError(w, "compute stats", err)
		return
	}

	h.writeSuccess(w, stats)
}

// XboxProfile returns an Xbox Live profile by gamertag
func (h *Handler) XboxProfile(w http.ResponseWriter, r *http.Request) {
	h.profile(w, r, domain.PlatformXbox, chi.URLParam(r, "gamertag"))
}

// XboxAchievements returns one page of enriched achievement summaries
// for an XUID
func (h *Handler) XboxAchievements(w http.ResponseWriter, r *http.Request) {
	h.achievements(w, r, domain.PlatformXbox, chi.URLParam(r, "xuid"))
}

// PSNProfile returns a PSN profile by online ID
func (h *Handler) PSNProfile(w http.ResponseWriter, r *http.Request) {
	h.profile(w, r, domain.PlatformPSN, chi.URLParam(r, "onlineID"))
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request, p domain.Platform, id string) {
	if id == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	profile, err := h.aggregation.Profile(r.Context(), domain.PlayerIdentity{Platform: p, ID: id})
	if err != nil {
		h.handleServiceError(w, "get profile", err)
		return
	}

	h.writeSuccess(w, profile)
}

func (h *Handler) achievements(w http.ResponseWriter, r *http.Request, p domain.Platform, id string) {
	if id == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	page, limit := h.parsePagination(r)
	identity := domain.PlayerIdentity{Platform: p, ID: id}

	summaries, err := h.aggregation.Achievements(r.Context(), identity, page, limit)
	if err != nil {
		h.handleServiceError(w, "get achievements", err)
		return
	}

	h.writeSuccess(w, summaries)
}

// IGDBTrending returns recently released games with the most coverage
func (h *Handler) IGDBTrending(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.Trending(r.Context())
	if err != nil {
		h.handleServiceError(w, "get trending games", err)
		return
	}

	h.writeSuccess(w, games)
}

// IGDBUpcoming returns releases scheduled in the near future
func (h *Handler) IGDBUpcoming(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.Upcoming(r.Context())
	if err != nil {
		h.handleServiceError(w, "get upcoming games", err)
		return
	}

	h.writeSuccess(w, games)
}

// IGDBAnticipated returns unreleased games ranked by hype
func (h *Handler) IGDBAnticipated(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.Anticipated(r.Context())
	if err != nil {
		h.handleServiceError(w, "get anticipated games", err)
		return
	}

	h.writeSuccess(w, games)
}

// IGDBGame returns the full detail record for one game
func (h *Handler) IGDBGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	detail, err := h.catalog.GameByID(r.Context(), gameID)
	if err != nil {
		h.handleServiceError(w, "get game detail", err)
		return
	}

	h.writeSuccess(w, detail)
}
