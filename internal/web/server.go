// Package web serves the rendered site: cached pages, the folder tree
// for destination picking, and the move endpoint.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drivewiki/drivewiki/internal/drive"
	"github.com/drivewiki/drivewiki/internal/index"
	"github.com/drivewiki/drivewiki/internal/metrics"
	"github.com/drivewiki/drivewiki/internal/pagecache"
)

// Renderer exports a document's HTML from the remote store.
type Renderer interface {
	ExportHTML(ctx context.Context, fileID string) (string, error)
}

// FileMover is the slice of the mover the web layer consumes.
type FileMover interface {
	MoveFile(ctx context.Context, fileID, destinationID string, mode drive.Mode) (string, error)
}

// Server wires the HTTP surface over the index, cache, renderer and mover.
type Server struct {
	echo    *echo.Echo
	logger  *slog.Logger
	idx     *index.Index
	tree    *index.TreeBuilder
	cache   pagecache.Store
	render  Renderer
	mover   FileMover
	metrics *metrics.Metrics
}

// New creates a Server with its routes registered. logger may be nil.
func New(
	idx *index.Index,
	tree *index.TreeBuilder,
	cache pagecache.Store,
	render Renderer,
	mover FileMover,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		logger:  logger,
		idx:     idx,
		tree:    tree,
		cache:   cache,
		render:  render,
		mover:   mover,
		metrics: m,
	}

	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		m.Registry(), promhttp.HandlerOpts{})))
	e.GET("/folders", s.handleFolders)
	e.POST("/move-file", s.handleMove)
	e.GET("/*", s.handlePage)

	return s
}

// Handler exposes the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server starting", "addr", addr)

	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
