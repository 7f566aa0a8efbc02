package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"coparent-api/internal/domain/upload"
	"coparent-api/internal/infrastructure/metrics"
	"coparent-api/internal/interfaces/httpserver/responses"
	"coparent-api/internal/utils/platformerrors"
)

const (
	uploadFormField   = "file"
	// multipartOverhead covers boundaries and part headers around the file itself.
	multipartOverhead = 1 << 20
)

// UploadLimit is the largest accepted file in bytes. Zero disables the request body cap.
type UploadLimit int64

// UploadHandler accepts screenshot uploads.
type UploadHandler struct {
	service upload.Service
	limit   UploadLimit
	log     zerolog.Logger
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(service upload.Service, limit UploadLimit, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		limit:   limit,
		log:     log.With().Str("handler", "upload").Logger(),
	}
}

// bodyCap is the most the request body may carry before multipart parsing gives up.
func (h *UploadHandler) bodyCap() int64 {
	if h.limit <= 0 {
		return 0
	}
	return int64(h.limit) + multipartOverhead
}

// Upload handles POST /upload
// @Summary Upload a screenshot
// @Description Stores an image and returns its URL together with any text recognized in it
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} responses.UploadResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	if bodyCap := h.bodyCap(); bodyCap > 0 {
		if c.Request.ContentLength > bodyCap {
			h.rejectTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyCap)
	}

	header, err := c.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectTooLarge(c)
			return
		}
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "No file uploaded", "upload-route-001")
		return
	}

	file, err := header.Open()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "failed to read uploaded file", "upload-route-002")
		return
	}
	defer file.Close()

	result, err := h.service.Upload(c.Request.Context(), u.ID, header.Filename, file)
	if err != nil {
		metrics.RecordUpload(header.Header.Get("Content-Type"), header.Size, err)
		responses.HandleError(c, err, "failed to upload file")
		return
	}
	metrics.RecordUpload(result.MimeType, result.Size, nil)

	h.log.Info().
		Str("file_url", result.FileURL).
		Str("mime_type", result.MimeType).
		Int64("size", result.Size).
		Bool("text_extracted", result.ExtractedText != "").
		Msg("file uploaded")

	c.JSON(http.StatusOK, responses.MapUploadToResponse(result))
}

func (h *UploadHandler) rejectTooLarge(c *gin.Context) {
	metrics.RecordUpload("", 0, errors.New("request body too large"))
	responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
		fmt.Sprintf("file exceeds the %d byte limit", h.limit), "upload-route-003")
}
