// Package main runs the token scanner service: the interval-driven
// enrichment loop, the deep-dive and holder-profile endpoints, and the
// Prometheus metrics listener.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"solana-token-scanner/internal/analysis"
	"solana-token-scanner/internal/cache"
	"solana-token-scanner/internal/enrich"
	"solana-token-scanner/internal/observability"
	"solana-token-scanner/internal/refresh"
	"solana-token-scanner/internal/server"
	"solana-token-scanner/internal/solana"
	"solana-token-scanner/internal/sources"
)

const defaultCacheTTL = 5 * time.Minute

func main() {
	// .env is optional; flags and real env vars win.
	_ = godotenv.Load()

	rpcEndpoint := flag.String("rpc-endpoint", envOr("SOLANA_RPC_ENDPOINT", "https://api.mainnet-beta.solana.com"), "Solana RPC HTTP endpoint")
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":4000"), "API listen address")
	metricsAddr := flag.String("metrics-addr", envOr("METRICS_ADDR", ":9090"), "Prometheus metrics HTTP address")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address (optional; in-memory cache when empty)")
	birdeyeKey := flag.String("birdeye-api-key", os.Getenv("BIRDEYE_API_KEY"), "Birdeye API key for the candle proxy")
	refreshInterval := flag.Duration("refresh-interval", envDuration("REFRESH_INTERVAL", refresh.DefaultInterval), "Snapshot refresh interval")
	rateRPS := flag.Int("rate-limit-rps", envInt("RATE_LIMIT_RPS", 10), "Per-IP requests per second (Redis only)")
	rateBurst := flag.Int("rate-limit-burst", envInt("RATE_LIMIT_BURST", 20), "Per-IP burst size (Redis only)")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store cache.Store
		rdb   *redis.Client
	)
	if *redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: *redisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("redis unreachable at %s: %v", *redisAddr, err)
		}
		store = cache.NewRedis(rdb, defaultCacheTTL)
		logger.Printf("using redis cache at %s", *redisAddr)
	} else {
		store = cache.NewMemory(defaultCacheTTL)
		logger.Println("using in-memory cache")
	}

	rpc := solana.NewHTTPClient(*rpcEndpoint)

	dex := sources.NewDexScreener(sources.DexScreenerOptions{Cache: store})
	metadata := sources.NewMetadata(rpc, nil)
	tokenList := sources.NewTokenList(sources.TokenListOptions{Cache: store})
	jupiter := sources.NewJupiterPrice(sources.JupiterPriceOptions{})
	coingecko := sources.NewCoinGecko(sources.CoinGeckoOptions{})
	chart := sources.NewChart(sources.ChartOptions{Dex: dex})
	social := sources.NewSocial(sources.SocialOptions{})
	birdeye := sources.NewBirdeye(sources.BirdeyeOptions{APIKey: *birdeyeKey})

	pipeline := enrich.NewPipeline(enrich.Options{
		Metadata: metadata,
		Pairs:    dex,
		History:  chart,
		Fallback: tokenList,
	})
	refresher := refresh.New(refresh.Options{
		Seeds:    dex,
		Batch:    enrich.NewBatch(pipeline, nil),
		Interval: *refreshInterval,
	})

	analyzer := analysis.NewAnalyzer(analysis.AnalyzerOptions{
		RPC:      rpc,
		Metadata: metadata,
		Price:    jupiter,
		Pairs:    dex,
		Backup:   coingecko,
		Chart:    chart,
	})
	profiler := analysis.NewProfiler(analysis.ProfilerOptions{
		RPC:     rpc,
		Domains: social,
		Social:  social,
		Price:   jupiter,
	})

	srv := server.New(server.Options{
		Snapshots: refresher,
		Analyzer:  analyzer,
		Profiler:  profiler,
		Search:    dex,
		Candles:   birdeye,
		Cache:     store,
		Redis:     rdb,
		RateRPS:   *rateRPS,
		RateBurst: *rateBurst,
	})

	go refresher.Run(ctx)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		logger.Printf("metrics listening on %s", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			logger.Printf("metrics server stopped: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Println("shutting down...")
		if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Printf("shutdown error: %v", err)
		}
	}()

	logger.Printf("api listening on %s", *listenAddr)
	if err := srv.Listen(*listenAddr); err != nil {
		logger.Fatalf("server error: %v", err)
	}
	logger.Println("shutdown complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
