package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macrolens/shelflife/internal/domain"
	"github.com/macrolens/shelflife/internal/usecase"
)

// ShelfLifeSearcher resolves product names against the loaded FoodKeeper dataset
type ShelfLifeSearcher interface {
	Lookup(ctx context.Context, primary string, variants ...string) (domain.Match, error)
	RecordCount() int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service      ShelfLifeSearcher
	preprocessor *usecase.QueryPreprocessor
	version      string
	logger       *zap.Logger
}

// SearchRequest is the body of a shelf-life search
type SearchRequest struct {
	ProductName string   `json:"productName" binding:"required"`
	Variants    []string `json:"variants"`
}

// NewHandler creates a new HTTP handler. A nil service makes the search
// endpoint answer 501.
func NewHandler(service ShelfLifeSearcher, version string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if version == "" {
		version = "dev"
	}
	return &Handler{
		service:      service,
		preprocessor: usecase.NewQueryPreprocessor(logger),
		version:      version,
		logger:       logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	records := 0
	if h.service != nil {
		records = h.service.RecordCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelflife",
		"version": h.version,
		"records": records,
	})
}

// SearchShelfLife handles shelf-life search requests.
// The cleaned product name is tried first, then the raw name, then any caller variants.
func (h *Handler) SearchShelfLife(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Shelf-life search not configured",
		})
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   domain.ErrInvalidRequest.Error(),
			"details": err.Error(),
		})
		return
	}

	query := h.preprocessor.Clean(req.ProductName)
	variants := append([]string{req.ProductName}, req.Variants...)

	match, err := h.service.Lookup(c.Request.Context(), query, variants...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
			return
		}
		h.logger.Error("shelf-life lookup failed", zap.String("product", req.ProductName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if !match.Found() {
		c.JSON(http.StatusNotFound, gin.H{
			"error": domain.ErrProductNotFound.Error(),
			"query": query,
		})
		return
	}

	c.JSON(http.StatusOK, domain.NewMatchOutcome(domain.TestItem{Name: req.ProductName}, match))
}
