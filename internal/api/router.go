// Package api wires the HTTP surface: health, print submission, printer
// listing, print history and the static file fallback.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orrn/labelserver/internal/api/handlers"
	"github.com/orrn/labelserver/internal/api/middleware"
)

type RouterConfig struct {
	Version     string
	StaticDir   string
	CORSOrigins []string
	// History enables GET /history when set.
	History handlers.HistoryReader
}

func NewRouter(cfg RouterConfig, printer handlers.LabelPrinter, directory handlers.PrinterLister, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	cors := middleware.PermissiveCORSConfig()
	if len(cfg.CORSOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSOrigins
	}

	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cors),
	)

	health := handlers.NewHealthHandler(cfg.Version)
	printHandler := handlers.NewPrintHandler(printer)
	printerHandler := handlers.NewPrinterHandler(directory)

	router.GET("/health", health.Health)
	router.POST("/print", printHandler.Print)
	router.GET("/printers", printerHandler.ListPrinters)

	if cfg.History != nil {
		router.GET("/history", handlers.NewHistoryHandler(cfg.History).ListHistory)
	}

	if cfg.StaticDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(gin.Dir(cfg.StaticDir, false))))
	}

	return router
}
