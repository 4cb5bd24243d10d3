// Package server exposes the aggregated token data over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"solana-token-scanner/internal/analysis"
	"solana-token-scanner/internal/cache"
	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/refresh"
)

// SnapshotSource is the published batch result the list view reads.
type SnapshotSource interface {
	Snapshot() *refresh.Snapshot
	LastError() error
	RefreshIn() time.Duration
}

// Analyzer runs the per-token deep dive.
type Analyzer interface {
	Analyze(ctx context.Context, mint string, progress analysis.ProgressFunc) (*domain.TokenAnalysis, error)
}

// Profiler builds holder profiles on demand.
type Profiler interface {
	Profile(ctx context.Context, holder, mint string) (*domain.HolderProfile, error)
}

// SearchSource forwards a pair search and returns the verbatim upstream
// response.
type SearchSource interface {
	Search(ctx context.Context, query string) ([]byte, int, error)
}

// CandleSource forwards a candle request and returns the verbatim
// upstream response.
type CandleSource interface {
	Candles(ctx context.Context, address, interval string) ([]byte, int, error)
}

// Options wires the HTTP surface.
type Options struct {
	Snapshots SnapshotSource
	Analyzer  Analyzer
	Profiler  Profiler
	Search    SearchSource
	Candles   CandleSource
	Cache     cache.Store    // readiness probe
	Redis     *redis.Client  // optional; enables the rate limiter
	RateRPS   int
	RateBurst int
	Logger    *log.Logger
}

// Server is the Fiber application serving the API.
type Server struct {
	*fiber.App
}

// New builds the Fiber app and registers all routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[server] ", log.LstdFlags)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	if opts.Redis != nil {
		app.Use(RateLimit(opts.Redis, opts.RateRPS, opts.RateBurst))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/readyz", func(c *fiber.Ctx) error {
		if opts.Cache != nil {
			if err := opts.Cache.Ping(c.Context()); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "cache not ready")
			}
		}
		return c.SendString("ready")
	})

	app.Get("/api/tokens", func(c *fiber.Ctx) error {
		snap := opts.Snapshots.Snapshot()
		if snap == nil {
			body := fiber.Map{"error": "token snapshot not ready", "retryable": true}
			if err := opts.Snapshots.LastError(); err != nil {
				body["details"] = err.Error()
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		return c.JSON(fiber.Map{
			"tokens":      snap.Tokens,
			"lastUpdated": snap.LastUpdated,
			"refreshIn":   int(opts.Snapshots.RefreshIn().Seconds()),
		})
	})

	app.Get("/api/tokens/:mint/analysis", func(c *fiber.Ctx) error {
		mint := c.Params("mint")
		result, err := opts.Analyzer.Analyze(c.Context(), mint, nil)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNoAddress):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mint address required"})
			case errors.Is(err, domain.ErrNoSupply):
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": domain.ErrNoSupply.Error()})
			default:
				opts.Logger.Printf("analysis failed for %s: %v", mint, err)
				return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "analysis failed", "details": err.Error()})
			}
		}
		return c.JSON(result)
	})

	app.Get("/api/holders/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")
		profile, err := opts.Profiler.Profile(c.Context(), address, c.Query("mint"))
		if err != nil {
			if errors.Is(err, domain.ErrNoAddress) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "holder address required"})
			}
			opts.Logger.Printf("holder profile failed for %s: %v", address, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "holder profile failed", "details": err.Error()})
		}
		return c.JSON(profile)
	})

	app.Get("/api/search", func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "The 'q' query parameter is required."})
		}
		body, status, err := opts.Search.Search(c.Context(), q)
		return proxyResponse(c, body, status, err, "search upstream unavailable")
	})

	app.Get("/api/candles", func(c *fiber.Ctx) error {
		address := c.Query("address")
		if address == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing 'address' query parameter"})
		}
		body, status, err := opts.Candles.Candles(c.Context(), address, c.Query("type", "1h"))
		return proxyResponse(c, body, status, err, "candle upstream unavailable")
	})

	return &Server{app}
}

// proxyResponse relays a thin-proxy result: verbatim body on upstream
// success, {error, details} with the upstream status otherwise, 502 on
// network failure.
func proxyResponse(c *fiber.Ctx, body []byte, status int, err error, unavailable string) error {
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": unavailable})
	}
	if status != http.StatusOK {
		return c.Status(status).JSON(fiber.Map{"error": unavailable, "details": string(body)})
	}
	return c.Type("json").Send(body)
}
