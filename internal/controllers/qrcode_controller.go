package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"url-shortener/internal/models"
	"url-shortener/internal/service"
	"url-shortener/pkg/logger"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

type QRCodeController struct {
	linkService service.LinkService
	baseURL     string
}

func NewQRCodeController(linkService service.LinkService, baseURL string) *QRCodeController {
	return &QRCodeController{
		linkService: linkService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
	}
}

// GenerateQRCode handles GET /api/qrcode/:code - PNG QR code of the short URL.
// Only active links get a code; resolving does not count a hit.
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	code := c.Param("code")

	if _, err := qc.linkService.Resolve(c.Request.Context(), code); err != nil {
		writeError(c, err)
		return
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minQRSize || parsed > maxQRSize {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "size must be an integer between 64 and 1024",
			})
			return
		}
		size = parsed
	}

	qrCode, err := qrcode.New(shortURL(c, qc.baseURL, code), qrcode.Medium)
	if err != nil {
		logger.Error().Err(err).Str("code", code).Msg("failed to generate QR code")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate QR code"})
		return
	}

	pngData, err := qrCode.PNG(size)
	if err != nil {
		logger.Error().Err(err).Str("code", code).Msg("failed to encode QR code")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate QR code image"})
		return
	}

	c.Header("Content-Disposition", "inline; filename=qrcode.png")
	c.Data(http.StatusOK, "image/png", pngData)
}
