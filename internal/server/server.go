// Package server exposes the invoice lifecycle engine over a local HTTP API.
// It owns request decoding and response encoding only; all semantics live in
// the engine. Confirmation prompts stay with the client.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicify/invoicify/internal/config"
	"github.com/invoicify/invoicify/internal/invoice"
	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
	obsmiddleware "github.com/invoicify/invoicify/internal/observability/logger"
	"github.com/invoicify/invoicify/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	invoice.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	invoiceSvc invoicedomain.Service
	renderer   pdf.Renderer
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	InvoiceSvc invoicedomain.Service
	Renderer   pdf.Renderer
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		invoiceSvc: p.InvoiceSvc,
		renderer:   p.Renderer,
	}

	s.registerAPIRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	invoices := api.Group("/invoices")
	{
		invoices.GET("", s.ListInvoices)
		invoices.POST("", s.CreateInvoice)
		invoices.GET("/:id", s.GetInvoice)
		invoices.PUT("/:id", s.UpdateInvoice)
		invoices.DELETE("/:id", s.SoftDeleteInvoice)
		invoices.POST("/:id/status", s.ToggleInvoiceStatus)
		invoices.POST("/bin", s.SoftDeleteInvoices)
		invoices.GET("/:id/pdf", s.ExportInvoice)
		invoices.POST("/export", s.ExportInvoices)
	}

	bin := api.Group("/bin")
	{
		bin.GET("", s.ListBin)
		bin.POST("/:id/restore", s.RestoreInvoice)
		bin.DELETE("/:id", s.PermanentDeleteInvoice)
		bin.POST("/purge", s.PurgeBin)
	}

	selection := api.Group("/selection")
	{
		selection.GET("", s.GetSelection)
		selection.POST("/toggle", s.ToggleSelection)
		selection.POST("/all", s.SelectAll)
		selection.DELETE("", s.ClearSelection)
	}
}
