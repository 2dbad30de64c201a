package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orrn/labelserver/internal/api/middleware"
	"github.com/orrn/labelserver/internal/core"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// PrinterLister is satisfied by *core.Directory.
type PrinterLister interface {
	ListPrinters(ctx context.Context) ([]string, error)
}

type PrinterHandler struct {
	directory PrinterLister
}

func NewPrinterHandler(directory PrinterLister) *PrinterHandler {
	return &PrinterHandler{directory: directory}
}

// ListPrinters responds with the gateway's printer names as a JSON array.
func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers, err := h.directory.ListPrinters(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		middleware.GetLogger(c).Error("failed to list printers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   core.KindOf(err).String(),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, printers)
}
