package sources

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"solana-token-scanner/internal/observability"
)

const defaultBirdeyeBaseURL = "https://public-api.birdeye.so"

// BirdeyeOptions configures the candle client.
type BirdeyeOptions struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Birdeye fetches OHLCV candles. Used by the candle proxy route only;
// the response body is passed through verbatim.
type Birdeye struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *log.Logger
}

// NewBirdeye creates a Birdeye candle client.
func NewBirdeye(opts BirdeyeOptions) *Birdeye {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBirdeyeBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[birdeye] ", log.LstdFlags)
	}
	return &Birdeye{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		httpc:   opts.HTTPClient,
		logger:  opts.Logger,
	}
}

// Candles returns the verbatim candle response and status for a mint.
// Valid interval types: 1m, 5m, 15m, 1h, 4h, 1d.
func (b *Birdeye) Candles(ctx context.Context, address, interval string) ([]byte, int, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("type", interval)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/defi/candles?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if b.apiKey != "" {
		req.Header.Set("X-API-KEY", b.apiKey)
	}

	start := time.Now()
	resp, err := b.httpc.Do(req)
	if err != nil {
		observability.RecordSourceRequest("birdeye_candles", err, time.Since(start).Seconds())
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	observability.RecordSourceRequest("birdeye_candles", err, time.Since(start).Seconds())
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
