package timeedit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/skillsenselab/pivotkit/errors"
	"github.com/skillsenselab/pivotkit/logger"
	"github.com/skillsenselab/pivotkit/timespan"
)

// Editor is an HTTP server exposing the shared query window for inspection
// and modification.
type Editor struct {
	httpServer *http.Server
	engine     *gin.Engine
	window     *timespan.QueryWindow
	log        *logger.Logger
}

// WindowView is the wire representation of the current window state.
type WindowView struct {
	Rolling bool      `json:"rolling"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// SpanRequest sets an explicit span.
type SpanRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// RollingRequest resets the window to a rolling range.
type RollingRequest struct {
	Unit   string `json:"unit" binding:"required"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

// New creates an editor bound to addr serving the given window.
func New(addr string, window *timespan.QueryWindow) *Editor {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	e := &Editor{
		engine: engine,
		window: window,
		log:    logger.WithComponent("timeedit"),
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
	e.registerRoutes()
	return e
}

func (e *Editor) registerRoutes() {
	e.engine.GET("/window", e.getWindow)
	e.engine.PUT("/window", e.putWindow)
	e.engine.POST("/window/rolling", e.postRolling)
}

func (e *Editor) getWindow(c *gin.Context) {
	ts := e.window.Timespan()
	c.JSON(http.StatusOK, WindowView{
		Rolling: e.window.IsRolling(),
		Start:   ts.Start,
		End:     ts.End,
	})
}

func (e *Editor) putWindow(c *gin.Context) {
	var req SpanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}

	ts, err := timespan.New(req.Start, req.End)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := e.window.SetTimespan(ts); err != nil {
		respondError(c, err)
		return
	}

	e.log.Info("query window set", logger.Fields(
		"start", ts.Start.Format(time.RFC3339),
		"end", ts.End.Format(time.RFC3339),
	))
	e.getWindow(c)
}

func (e *Editor) postRolling(c *gin.Context) {
	var req RollingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}

	unit, err := timespan.ParseUnit(req.Unit)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := e.window.SetRolling(unit, req.Before, req.After); err != nil {
		respondError(c, err)
		return
	}

	e.log.Info("query window set to rolling", logger.Fields(
		"unit", req.Unit,
		"before", req.Before,
		"after", req.After,
	))
	e.getWindow(c)
}

// respondError derives status and body from an AppError, falling back to a
// generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// Handler returns the underlying HTTP handler for tests and embedding.
func (e *Editor) Handler() http.Handler {
	return e.engine
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (e *Editor) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", e.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("editor failed to bind %s: %w", e.httpServer.Addr, err)
	}

	go func() {
		if err := e.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			e.log.Error("editor server error", logger.Fields("error", err.Error()))
		}
	}()

	e.log.Info("window editor started", logger.Fields("addr", e.httpServer.Addr))
	return nil
}

// Stop gracefully shuts down the editor with a 5-second deadline.
func (e *Editor) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return e.httpServer.Shutdown(shutdownCtx)
}
