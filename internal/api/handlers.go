package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RishiKendai/verbatim/internal/config"
	"github.com/RishiKendai/verbatim/internal/models"
	"github.com/RishiKendai/verbatim/internal/plagiarism"
	"github.com/RishiKendai/verbatim/internal/report"
	"github.com/RishiKendai/verbatim/internal/source"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportFinder reads persisted comparison reports.
type ReportFinder interface {
	GetReportByComparisonID(ctx context.Context, comparisonID string) (*models.ComparisonReport, error)
}

// DocumentStore saves documents addressable as mongo://<id>.
type DocumentStore interface {
	InsertDocument(ctx context.Context, document *models.StoredDocument) error
}

// StatusReader reads comparison steps.
type StatusReader interface {
	GetStatus(ctx context.Context, comparisonID string) (models.Step, error)
}

// Handler holds dependencies for handlers
type Handler struct {
	service        *plagiarism.Service
	inline         *source.MemorySource
	reports        ReportFinder
	documents      DocumentStore
	status         StatusReader
	computeSem     chan struct{} // Semaphore for bounded concurrency
	computeTimeout time.Duration
}

// NewHandler creates a new handler. inline must be reachable through the
// service's document source under the mem:// scheme.
func NewHandler(
	cfg *config.Config,
	service *plagiarism.Service,
	inline *source.MemorySource,
	reports ReportFinder,
	documents DocumentStore,
	status StatusReader,
) *Handler {
	// Create semaphore for bounded concurrency
	sem := make(chan struct{}, cfg.MaxConcurrentCompute)

	return &Handler{
		service:        service,
		inline:         inline,
		reports:        reports,
		documents:      documents,
		status:         status,
		computeSem:     sem,
		computeTimeout: cfg.ComputationTimeout,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Compare runs a comparison synchronously and returns the report.
func (h *Handler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := validateCompareRequest(req, true); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	ctx := c.Request.Context()

	// Acquire semaphore (bounded concurrency)
	select {
	case h.computeSem <- struct{}{}:
		defer func() { <-h.computeSem }()
	case <-ctx.Done():
		c.JSON(http.StatusRequestTimeout, ErrorResponse{
			Error: "Request cancelled",
			Code:  "REQUEST_TIMEOUT",
		})
		return
	}

	if h.computeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.computeTimeout)
		defer cancel()
	}

	msg := models.ComparisonMessage{
		ComparisonID:   uuid.New().String(),
		DocumentA:      req.DocumentA,
		DocumentB:      req.DocumentB,
		MinWindowWords: req.MinWindowWords,
	}
	if req.TextA != "" {
		msg.DocumentA = h.inline.Put(msg.ComparisonID+"/a", req.TextA)
		defer h.inline.Delete(msg.ComparisonID + "/a")
	}
	if req.TextB != "" {
		msg.DocumentB = h.inline.Put(msg.ComparisonID+"/b", req.TextB)
		defer h.inline.Delete(msg.ComparisonID + "/b")
	}

	r, err := h.service.Compare(ctx, msg)
	if err != nil {
		log.Error().Err(err).Str("comparisonId", msg.ComparisonID).Msg("Comparison failed")
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, report.NewComparisonReport(msg.ComparisonID, msg.DocumentA, msg.DocumentB, r))
}

// Enqueue queues a comparison of stored documents and returns immediately.
func (h *Handler) Enqueue(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	if err := validateCompareRequest(req, false); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	msg := models.ComparisonMessage{
		ComparisonID:   uuid.New().String(),
		DocumentA:      req.DocumentA,
		DocumentB:      req.DocumentB,
		MinWindowWords: req.MinWindowWords,
	}
	if err := h.service.Enqueue(msg, nil); err != nil {
		log.Error().Err(err).Str("comparisonId", msg.ComparisonID).Msg("Failed to enqueue comparison")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "Comparison queue unavailable",
			Code:  "QUEUE_UNAVAILABLE",
		})
		return
	}

	// Return 202 Accepted immediately
	c.JSON(http.StatusAccepted, models.ComparisonAccepted{
		ComparisonID: msg.ComparisonID,
		Step:         models.StepQueued,
	})
}

// GetReport returns a stored comparison report.
func (h *Handler) GetReport(c *gin.Context) {
	id := c.Param("id")
	r, err := h.reports.GetReportByComparisonID(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("comparisonId", id).Msg("Failed to get report")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to get report",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "No report found for comparisonId",
			Code:  "COMPARISON_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetStatus returns the last recorded step of a comparison.
func (h *Handler) GetStatus(c *gin.Context) {
	id := c.Param("id")
	step, err := h.status.GetStatus(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("comparisonId", id).Msg("Failed to get status")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to get status",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	c.JSON(http.StatusOK, models.ComparisonStatus{ComparisonID: id, Step: step})
}

// StoreDocument saves a document so comparisons can refer to it as mongo://<id>.
func (h *Handler) StoreDocument(c *gin.Context) {
	var doc models.StoredDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if strings.TrimSpace(doc.Text) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "text is required",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	if err := h.documents.InsertDocument(c.Request.Context(), &doc); err != nil {
		log.Error().Err(err).Str("documentId", doc.ID).Msg("Failed to store document")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to store document",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusCreated, models.DocumentStored{
		DocumentID: doc.ID,
		URI:        source.SchemeMongo + doc.ID,
	})
}

func validateCompareRequest(req models.CompareRequest, allowInline bool) error {
	if req.MinWindowWords < 0 {
		return fmt.Errorf("minWindowWords must not be negative")
	}
	if !allowInline {
		if req.TextA != "" || req.TextB != "" {
			return fmt.Errorf("inline texts are only accepted by /compare")
		}
		if req.DocumentA == "" || req.DocumentB == "" {
			return fmt.Errorf("documentA and documentB are required")
		}
	} else {
		if req.DocumentA == "" && req.TextA == "" {
			return fmt.Errorf("documentA or textA is required")
		}
		if req.DocumentB == "" && req.TextB == "" {
			return fmt.Errorf("documentB or textB is required")
		}
	}
	if err := validateDocumentRef("documentA", req.DocumentA); err != nil {
		return err
	}
	return validateDocumentRef("documentB", req.DocumentB)
}

// validateDocumentRef accepts only stored documents. Local paths and mem://
// names of other requests' inline texts are rejected.
func validateDocumentRef(field, id string) error {
	if id == "" {
		return nil
	}
	for _, scheme := range []string{source.SchemeMongo, source.SchemeS3} {
		if strings.HasPrefix(id, scheme) && len(id) > len(scheme) {
			return nil
		}
	}
	return fmt.Errorf("%s must be a %s or %s identifier", field, source.SchemeMongo, source.SchemeS3)
}

// errorResponse maps a comparison error to a status code and body.
func errorResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, plagiarism.ErrIO):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "DOCUMENT_UNREADABLE"}
	case errors.Is(err, plagiarism.ErrInvalidConfig):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"}
	case errors.Is(err, plagiarism.ErrCancelled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, ErrorResponse{Error: "Comparison timed out", Code: "REQUEST_TIMEOUT"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "Comparison failed", Code: "INTERNAL_ERROR"}
	}
}
