package handlers

import (
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/dto"
	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	authService  portssvc.AuthSvcFacade
	cookieName   string
	secureCookie bool
	maxAge       int
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AuthSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:  as,
		cookieName:   cfg.SessionCookieName,
		secureCookie: cfg.IsProduction,
		maxAge:       int(cfg.JWTExpiryDuration.Seconds()),
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, authService portssvc.AuthSvcFacade) {
	h := NewAuthHandler(authService, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/telegram", loginRateLimit(cfg), h.TelegramLogin)
		auth.GET("/check", middleware.OptionalAuthMiddleware(cfg.JWTSecret, cfg.SessionCookieName), h.Check)
		auth.POST("/logout", h.Logout)
	}
}

// TelegramLogin godoc
// @Summary Telegram login
// @Description Verifies Telegram Web App init data, registers the user and opens a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.TelegramAuthRequest true "Raw Telegram init data"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/telegram [post]
func (h *AuthHandler) TelegramLogin(c *gin.Context) {
	var req dto.TelegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.InitData) == "" {
		respondBadRequest(c, "No init data provided")
		return
	}

	session, err := h.authService.Authenticate(c.Request.Context(), req.InitData)
	if err != nil {
		respondError(c, err, "Telegram login failed")
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookieName, session.Token, h.maxAge, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, dto.ToAuthResponse(session))
}

// Check godoc
// @Summary Check session
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AuthCheckResponse
// @Router /auth/check [get]
func (h *AuthHandler) Check(c *gin.Context) {
	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, dto.AuthCheckResponse{Authenticated: false})
		return
	}
	info := dto.ToUserInfo(identity)
	c.JSON(http.StatusOK, dto.AuthCheckResponse{Authenticated: true, User: &info})
}

// Logout godoc
// @Summary Logout
// @Description Clears the session cookie. Bearer tokens stay valid until they expire.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
