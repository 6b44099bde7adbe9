package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/dto"
	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

var translations = map[string]map[string]string{
	"en": {
		"welcome":  "Welcome",
		"login":    "Login",
		"logout":   "Logout",
		"register": "Register",
		"balance":  "Balance",
		"transfer": "Transfer",
		"history":  "History",
		"settings": "Settings",
		"admin":    "Admin",
		"users":    "Users",
		"success":  "Success",
		"error":    "Error",
	},
	"ru": {
		"welcome":  "Добро пожаловать",
		"login":    "Вход",
		"logout":   "Выход",
		"register": "Регистрация",
		"balance":  "Баланс",
		"transfer": "Перевод",
		"history":  "История",
		"settings": "Настройки",
		"admin":    "Администратор",
		"users":    "Пользователи",
		"success":  "Успешно",
		"error":    "Ошибка",
	},
}

type homeHandler struct {
	cfg   *config.Config
	store portsrepo.VersionedDocumentStore
	seed  portssvc.SeedSvc
}

func registerHomeRoutes(rg *gin.RouterGroup, cfg *config.Config, store portsrepo.VersionedDocumentStore, seed portssvc.SeedSvc) {
	h := &homeHandler{cfg: cfg, store: store, seed: seed}

	rg.GET("/health", h.health)
	rg.GET("/translations/:lang", getTranslations)
	rg.POST("/init", middleware.AdminTokenAuth(cfg.AdminTokenHash), h.initStorage)
}

// health godoc
// @Summary Show the status of server.
// @Description Reports the storage backend in use and whether Telegram login is configured.
// @Tags root
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *homeHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Backend:       h.store.Name(),
		Versioned:     h.store.EnforcesVersions(),
		BotConfigured: h.cfg.BotToken != "",
	})
}

// getTranslations godoc
// @Summary Get UI translations
// @Description Unknown languages fall back to English.
// @Tags root
// @Produce json
// @Param lang path string true "Language code (en, ru)"
// @Success 200 {object} map[string]string
// @Router /translations/{lang} [get]
func getTranslations(c *gin.Context) {
	table, ok := translations[c.Param("lang")]
	if !ok {
		table = translations["en"]
	}
	c.JSON(http.StatusOK, table)
}

// initStorage godoc
// @Summary Initialize storage
// @Description Creates every missing document with its default content. Existing documents are left untouched.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.SeedResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /init [post]
func (h *homeHandler) initStorage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.seed.Seed(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to initialize storage")
		return
	}

	logger.Info("Storage initialized", slog.Int("created", len(report.Created)), slog.Int("skipped", len(report.Skipped)))
	c.JSON(http.StatusOK, dto.SeedResponse{
		Success: true,
		Message: "Storage initialized",
		Created: documentNames(report.Created),
		Skipped: documentNames(report.Skipped),
	})
}

func documentNames(keys []domain.DocumentKey) []string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	return names
}
