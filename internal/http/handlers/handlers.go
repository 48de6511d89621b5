package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/crewscheduler/backend/internal/auth"
	"github.com/crewscheduler/backend/internal/http/middleware"
	"github.com/crewscheduler/backend/internal/metrics"
	"github.com/crewscheduler/backend/internal/models"
	"github.com/crewscheduler/backend/internal/service"
)

// Data is the live snapshot holder behind every endpoint.
type Data interface {
	Snapshot() *models.Snapshot
	Reload(ctx context.Context) (*models.Snapshot, error)
}

type Handler struct {
	Data         Data
	Source       service.SourceInfo
	Chat         *service.ChatService
	Auth         *auth.Authenticator
	Tokens       auth.TokenConfig
	SecureCookie bool
	AIProvider   string
	Location     *time.Location
	Metrics      *metrics.Chat
	Validator    *validator.Validate
	Logger       zerolog.Logger
	Now          func() time.Time
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=256"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

type ReloadResponse struct {
	Status      string         `json:"status"`
	DataSummary map[string]int `json:"data_summary"`
	LoadedAt    time.Time      `json:"loaded_at"`
}

// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data_loaded": h.Data.Snapshot().Loaded()})
}

// @Summary Data and chatbot status
// @Tags health
// @Produce json
// @Success 200 {object} service.Status
// @Router /api/status [get]
func (h *Handler) Status(c *gin.Context) {
	snap := h.Data.Snapshot()
	c.JSON(http.StatusOK, service.BuildStatus(h.source(), snap, h.Chat != nil, h.aiProvider(), h.now()))
}

// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Router /api/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.Auth.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return
	case errors.Is(err, auth.ErrDataUnavailable):
		writeError(c, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "User data is not loaded", h.Data.Snapshot().LoadError)
		return
	case err != nil:
		h.Logger.Error().Err(err).Str("user", req.Username).Msg("login failed")
		writeError(c, http.StatusInternalServerError, "LOGIN_ERROR", "Login failed", nil)
		return
	}

	token, expires, err := auth.Mint(h.Tokens, h.now(), user)
	if err != nil {
		h.Logger.Error().Err(err).Msg("mint session token")
		writeError(c, http.StatusInternalServerError, "LOGIN_ERROR", "Login failed", nil)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.Tokens.TTL.Seconds()), "/", "", h.SecureCookie, true)
	h.Logger.Info().Str("user", user.Username).Str("role", user.Role).Msg("signed in")
	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires, User: user})
}

// @Summary Sign out
// @Tags auth
// @Success 204
// @Router /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookie, true)
	c.Status(http.StatusNoContent)
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Router /api/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, user)
}

// @Summary Dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.Dashboard
// @Router /api/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, service.BuildDashboard(h.Data.Snapshot(), user, h.now(), h.location()))
}

// @Summary Chat with the crew assistant
// @Tags chat
// @Accept json
// @Produce json
// @Param body body ChatRequest true "message"
// @Success 200 {object} service.Reply
// @Failure 400 {object} map[string]any
// @Router /api/chat [post]
func (h *Handler) ChatMessage(c *gin.Context) {
	var req ChatRequest
	if !h.bind(c, &req) {
		return
	}
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, h.Chat.Chat(c.Request.Context(), req.Message, user))
}

// @Summary Reload the data snapshot
// @Tags admin
// @Produce json
// @Param X-Admin-Key header string false "admin key"
// @Success 200 {object} ReloadResponse
// @Failure 500 {object} map[string]any
// @Router /api/admin/reload [post]
func (h *Handler) Reload(c *gin.Context) {
	snap, err := h.Data.Reload(c.Request.Context())
	h.Metrics.IncReload(err == nil)
	if err != nil {
		h.Logger.Error().Err(err).Msg("manual reload failed")
		writeError(c, http.StatusInternalServerError, "RELOAD_FAILED", "Data reload failed", err.Error())
		return
	}
	h.Logger.Info().Interface("counts", snap.Counts()).Msg("data reloaded")
	c.JSON(http.StatusOK, ReloadResponse{Status: "reloaded", DataSummary: snap.Counts(), LoadedAt: snap.LoadedAt})
}

func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", err.Error())
		return false
	}
	if h.Validator != nil {
		if err := h.Validator.Struct(dst); err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", validationDetails(err))
			return false
		}
	}
	return true
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field()+": "+fe.Tag())
	}
	return out
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) location() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.Local
}

func (h *Handler) aiProvider() string {
	if h.AIProvider == "" {
		return "none"
	}
	return h.AIProvider
}

type staticSource struct{}

func (staticSource) Kind() string { return "static" }
func (staticSource) Path() string { return "" }

func (h *Handler) source() service.SourceInfo {
	if h.Source == nil {
		return staticSource{}
	}
	return h.Source
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
