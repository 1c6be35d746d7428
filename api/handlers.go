package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/config"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/export"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/readiness"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/reconciler"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/source"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/viewer"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type HttpEndpoints struct {
	viewer    *viewer.Viewer
	readiness *readiness.Readiness
}

func NewHTTPHandler(v *viewer.Viewer, ready *readiness.Readiness) *HttpEndpoints {
	return &HttpEndpoints{
		viewer:    v,
		readiness: ready,
	}
}

// NewRouter builds the gin engine with CORS for the configured front end origins.
func NewRouter(cfg *config.Configuration, h *HttpEndpoints) *gin.Engine {
	if !cfg.GinDebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))
	router.GET("/", HealthCheckHandle)
	h.AddRoutes(router.Group(""))
	return router
}

// corsConfig allows every origin, without credentials, when none are configured.
func corsConfig(allowOrigins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"POST", "GET", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length"},
		ExposeHeaders: []string{"Content-Type", "Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range allowOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			corsCfg.AllowOrigins = append(corsCfg.AllowOrigins, origin)
		}
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowCredentials = true
	return corsCfg
}

func (h *HttpEndpoints) AddRoutes(rg *gin.RouterGroup) {
	rg.GET("/ready", h.readyHandle)
	rg.GET("/dashboard", h.dashboardHandle)

	formsGroup := rg.Group("/forms")
	{
		formsGroup.GET("", h.listFormsHandle)
		formsGroup.POST("", h.createFormHandle)
		formsGroup.GET("/:formId", h.getFormHandle)
		formsGroup.DELETE("/:formId", h.deleteFormHandle)
		formsGroup.GET("/:formId/responses", h.listResponsesHandle)
		formsGroup.GET("/:formId/responses/export", h.exportResponsesHandle)
	}
}

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HttpEndpoints) readyHandle(c *gin.Context) {
	if !h.readiness.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Logger.Debugw("Handled request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var malformedErr *models.MalformedInputError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, source.ErrFormNotFound):
		return http.StatusNotFound
	case errors.Is(err, export.ErrNoResponses):
		return http.StatusNotFound
	case errors.As(err, &malformedErr),
		errors.As(err, &validationErrs),
		errors.Is(err, reconciler.ErrUnknownFilter),
		errors.Is(err, viewer.ErrUnknownSort),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Logger.Errorw("Request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
