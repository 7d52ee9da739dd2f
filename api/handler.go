package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_sales/internal/catalog"
	"pos_sales/internal/sales"
)

// catalogHandler implements HTTP handlers for catalog management.
type catalogHandler struct {
	catalogService *catalog.Service
	logger         *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService *catalog.Service, logger *zap.Logger) *catalogHandler {
	return &catalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

type productRequest struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price" binding:"required"`
}

// handleListProducts handles GET /products.
func (h *catalogHandler) handleListProducts(ctx *gin.Context) {
	entries, err := h.catalogService.List()
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": entries})
}

// handleAddProduct handles POST /products.
func (h *catalogHandler) handleAddProduct(ctx *gin.Context) {
	var req productRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	product, err := h.catalogService.Add(req.Name, *req.Price)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

// handleUpdateProduct handles PUT /products/:name.
func (h *catalogHandler) handleUpdateProduct(ctx *gin.Context) {
	var req productRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	product, err := h.catalogService.Update(ctx.Param("name"), req.Name, *req.Price)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

// salesHandler holds the sales service and implements HTTP handlers for
// recording, reporting and resetting sales.
type salesHandler struct {
	salesService *sales.Service
	sessions     *sessionRegistry
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler. Sessions idle for longer
// than sessionIdleTTL are abandoned.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger, sessionIdleTTL time.Duration) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		sessions:     newSessionRegistry(sessionIdleTTL),
		logger:       logger,
	}
}

// handleStartSession handles POST /sessions.
func (h *salesHandler) handleStartSession(ctx *gin.Context) {
	builder, err := h.salesService.StartSession()
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	next, err := h.salesService.NextSequenceNumber()
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	id := h.sessions.add(builder)
	ctx.JSON(http.StatusCreated, gin.H{
		"id":                   id,
		"next_sequence_number": next,
		"session":              builder.View(),
	})
}

// handleGetSession handles GET /sessions/:id.
func (h *salesHandler) handleGetSession(ctx *gin.Context) {
	builder, err := h.sessions.get(ctx.Param("id"))
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, builder.View())
}

// handleSetQuantity handles PUT /sessions/:id/quantities.
func (h *salesHandler) handleSetQuantity(ctx *gin.Context) {
	builder, err := h.sessions.get(ctx.Param("id"))
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	var req struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := builder.SetQuantity(req.Name, req.Quantity); err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, builder.View())
}

// handleSetAmounts handles PUT /sessions/:id/amounts.
// The amounts are kept as typed; unparseable text counts as zero.
func (h *salesHandler) handleSetAmounts(ctx *gin.Context) {
	builder, err := h.sessions.get(ctx.Param("id"))
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	var req struct {
		Drinks string `json:"drinks"`
		Extras string `json:"extras"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := builder.SetAmounts(req.Drinks, req.Extras); err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, builder.View())
}

// handleCalculate handles POST /sessions/:id/calculate.
func (h *salesHandler) handleCalculate(ctx *gin.Context) {
	builder, err := h.sessions.get(ctx.Param("id"))
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	candidate, err := builder.Calculate()
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"candidate": candidate})
}

// handleCommit handles POST /sessions/:id/commit.
func (h *salesHandler) handleCommit(ctx *gin.Context) {
	id := ctx.Param("id")
	builder, err := h.sessions.get(id)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	result, err := h.salesService.Commit(ctx.Request.Context(), builder)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	h.sessions.remove(id)

	ctx.JSON(http.StatusCreated, result)
}

// handleAbandon handles DELETE /sessions/:id.
func (h *salesHandler) handleAbandon(ctx *gin.Context) {
	id := ctx.Param("id")
	builder, err := h.sessions.get(id)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	builder.Abandon()
	h.sessions.remove(id)
	ctx.Status(http.StatusNoContent)
}

// handleReport handles GET /sales.
func (h *salesHandler) handleReport(ctx *gin.Context) {
	filter, err := sales.ParseFilter(ctx.Query("filter"))
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	report, err := h.salesService.Report(filter)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// handleRequestReset handles POST /sales/reset, the first step of a ledger reset.
func (h *salesHandler) handleRequestReset(ctx *gin.Context) {
	challenge := h.salesService.RequestReset()
	ctx.JSON(http.StatusAccepted, gin.H{
		"warning":    "this deletes every sale and restarts numbering at 1; confirm with the token",
		"token":      challenge.Token,
		"expires_at": challenge.ExpiresAt,
	})
}

// handleConfirmReset handles POST /sales/reset/confirm.
func (h *salesHandler) handleConfirmReset(ctx *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	if err := h.salesService.ConfirmReset(req.Token); err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "sales and counter reset"})
}

// writeError maps domain errors to HTTP responses.
func writeError(ctx *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrValidation),
		errors.Is(err, sales.ErrInvalidQuantity),
		errors.Is(err, sales.ErrInvalidFilter):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, sales.ErrNotFound),
		errors.Is(err, sales.ErrUnknownProduct),
		errors.Is(err, errSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicateName),
		errors.Is(err, sales.ErrSessionClosed),
		errors.Is(err, sales.ErrNoCandidate),
		errors.Is(err, sales.ErrResetNotRequested),
		errors.Is(err, sales.ErrResetTokenInvalid):
		status = http.StatusConflict
	case errors.Is(err, sales.ErrNoProducts):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		_ = ctx.Error(err)
		logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
