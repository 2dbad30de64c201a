package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orrn/labelserver/internal/api/middleware"
	"github.com/orrn/labelserver/internal/core"
)

type PrintRequest struct {
	Line1       string `json:"line1"`
	Line2       string `json:"line2"`
	Line3       string `json:"line3"`
	Line4       string `json:"line4"`
	PrinterName string `json:"printer_name"`
	LabelSize   string `json:"label_size"`
}

type PrintResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	JobID   *string `json:"job_id"`
}

// LabelPrinter is satisfied by *core.PrintService.
type LabelPrinter interface {
	Submit(ctx context.Context, req core.LabelRequest) (string, error)
}

type PrintHandler struct {
	service LabelPrinter
}

func NewPrintHandler(service LabelPrinter) *PrintHandler {
	return &PrintHandler{service: service}
}

// Print submits a label. Every business outcome is a 200 and clients must
// check Success; only undecodable bodies get a 400.
func (h *PrintHandler) Print(c *gin.Context) {
	var req PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: err.Error(),
		})
		return
	}

	// A client hanging up must not abort a job lp may already have spooled.
	ctx := context.WithoutCancel(c.Request.Context())

	jobID, err := h.service.Submit(ctx, core.LabelRequest{
		Line1:       req.Line1,
		Line2:       req.Line2,
		Line3:       req.Line3,
		Line4:       req.Line4,
		PrinterName: req.PrinterName,
		LabelSize:   req.LabelSize,
	})
	if err != nil {
		middleware.GetLogger(c).Warn("print error",
			zap.String("kind", core.KindOf(err).String()),
			zap.Error(err))
		c.JSON(http.StatusOK, PrintResponse{
			Success: false,
			Message: "Print failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, PrintResponse{
		Success: true,
		Message: "Print job submitted successfully",
		JobID:   &jobID,
	})
}
