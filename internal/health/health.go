// Package health reports whether the Bot API is reachable and the cursor file
// is readable, on the command line or over HTTP.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/tgdiary/internal/state"
)

// Prober asks the Bot API who the bot is.
type Prober interface {
	Username(ctx context.Context) (string, error)
}

// StateReader reads the primary cursor file without falling back to the
// backup.
type StateReader interface {
	ReadPrimary() (state.State, error)
}

// Report is the result of one check.
type Report struct {
	API          bool   `json:"api"`
	State        bool   `json:"state"`
	OK           bool   `json:"ok"`
	BotUsername  string `json:"bot_username,omitempty"`
	LastUpdateID *int64 `json:"last_update_id"`
}

// Checker runs health checks.
type Checker struct {
	prober  Prober
	state   StateReader
	timeout time.Duration
	logger  *slog.Logger
}

// NewChecker creates a Checker. Each API probe is bounded by timeout.
func NewChecker(prober Prober, st StateReader, timeout time.Duration, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Checker{prober: prober, state: st, timeout: timeout, logger: logger.With("component", "health")}
}

// Check probes the API and the cursor file. OK is true only when both pass.
func (c *Checker) Check(ctx context.Context) Report {
	var r Report

	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if name, err := c.prober.Username(probeCtx); err != nil {
		c.logger.WarnContext(ctx, "Bot API probe failed", "error", err)
	} else {
		r.API = true
		r.BotUsername = name
	}

	if st, err := c.state.ReadPrimary(); err != nil {
		c.logger.WarnContext(ctx, "State file check failed", "error", err)
	} else {
		r.State = true
		id := st.LastUpdateID
		r.LastUpdateID = &id
	}

	r.OK = r.API && r.State
	return r
}

// Handler returns a gin engine serving GET /healthz: 200 when healthy, 503
// otherwise, with the report as the body.
func (c *Checker) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(ctx *gin.Context) {
		report := c.Check(ctx.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		ctx.JSON(status, report)
	})
	return router
}

// Serve runs the HTTP endpoint on addr until ctx is cancelled.
func (c *Checker) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.InfoContext(ctx, "Health endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("health server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health server shutdown: %w", err)
	}
	c.logger.Info("Health endpoint stopped")
	return nil
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
