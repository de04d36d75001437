package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"url-shortener/internal/models"
	"url-shortener/internal/service"
	"url-shortener/pkg/logger"
)

type ShortenerController struct {
	linkService service.LinkService
	baseURL     string
}

// NewShortenerController creates the link handlers. An empty baseURL makes
// short URLs use the scheme and host of the incoming request.
func NewShortenerController(linkService service.LinkService, baseURL string) *ShortenerController {
	return &ShortenerController{
		linkService: linkService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
	}
}

// CreateShortURL handles POST /api/shorten
func (sc *ShortenerController) CreateShortURL(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: bindErrorMessage(err)})
		return
	}
	// A blank form ttl means no expiry, not 0
	if c.ContentType() != binding.MIMEJSON && c.PostForm("ttl") == "" {
		req.TTL = nil
	}

	link, err := sc.linkService.CreateWithTTL(c.Request.Context(), service.CreateLinkInput{
		URL:        req.TargetURL,
		TTLSeconds: req.TTL,
		Code:       req.Code,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateLinkResponse{
		ShortID:   link.Code,
		ShortURL:  shortURL(c, sc.baseURL, link.Code),
		TargetURL: link.TargetURL,
		CreatedAt: link.CreatedAt,
		ExpiresAt: link.ExpiresAt,
	})
}

// ResolveURL handles GET /api/resolve/:code - returns the target as JSON without counting a hit
func (sc *ShortenerController) ResolveURL(c *gin.Context) {
	link, err := sc.linkService.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ResolveResponse{
		URL:     link.TargetURL,
		ShortID: link.Code,
	})
}

// RedirectToURL handles GET /r/:code - redirects to the target and counts a hit
func (sc *ShortenerController) RedirectToURL(c *gin.Context) {
	link, err := sc.linkService.Redirect(c.Request.Context(), c.Param("code"))
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, link.TargetURL)
	case errors.Is(err, service.ErrNotFound):
		c.String(http.StatusNotFound, "Not Found")
	case errors.Is(err, service.ErrExpired):
		c.String(http.StatusGone, "Expired")
	default:
		logger.Error().Err(err).Str("code", c.Param("code")).Msg("redirect failed")
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}

// GetURLStats handles GET /stats/:code - expired links still report stats
func (sc *ShortenerController) GetURLStats(c *gin.Context) {
	stats, err := sc.linkService.Stats(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LinkStatsResponse{
		ShortID:             stats.Link.Code,
		TargetURL:           stats.Link.TargetURL,
		HitCount:            stats.Link.HitCount,
		CreatedAt:           stats.Link.CreatedAt,
		ExpiresAt:           stats.Link.ExpiresAt,
		Expired:             stats.Expired,
		TTLSecondsRemaining: stats.TTLSecondsRemaining,
	})
}

// writeError maps service errors to a status and a single error message
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrInvalidTTL),
		errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrCodeInUse):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Code already in use"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Short URL not found"})
	case errors.Is(err, service.ErrExpired):
		c.JSON(http.StatusGone, models.ErrorResponse{Error: "Short URL expired"})
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

// bindErrorMessage flattens a binding error into one message
func bindErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		if fe.Tag() == "required" {
			return "target_url: This field is required."
		}
		return fe.Field() + ": invalid value"
	}
	return "Invalid request body"
}

// shortURL builds the public redirect URL for code
func shortURL(c *gin.Context, baseURL, code string) string {
	if baseURL != "" {
		return baseURL + "/r/" + code
	}

	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/r/" + code
}
