package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orrn/labelserver/internal/api/middleware"
	"github.com/orrn/labelserver/internal/db"
)

const defaultHistoryLimit = 50

type ListHistoryQuery struct {
	Limit int `form:"limit" binding:"min=0,max=500"`
}

// HistoryReader is satisfied by *db.History.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]*db.PrintRecord, error)
}

type HistoryHandler struct {
	history HistoryReader
}

func NewHistoryHandler(history HistoryReader) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// ListHistory responds with the most recent submissions, newest first.
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	var query ListHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultHistoryLimit
	}

	records, err := h.history.Recent(c.Request.Context(), query.Limit)
	if err != nil {
		middleware.GetLogger(c).Error("failed to read print history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "history_error",
			Message: err.Error(),
		})
		return
	}

	if records == nil {
		records = []*db.PrintRecord{}
	}
	c.JSON(http.StatusOK, records)
}
