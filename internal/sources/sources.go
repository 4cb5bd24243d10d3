// Package sources contains one adapter per upstream API family. Each
// adapter normalizes its upstream's response into a partial fragment or
// an explicit "no data" result. Optional-data adapters never let a
// transport error escape; required-data adapters (profiles feed, chain
// lookups) surface errors for the caller to decide.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 10 * time.Second

func getJSON(ctx context.Context, httpc *http.Client, url string, out interface{}) error {
	body, status, err := getBody(ctx, httpc, url)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("http %d: %s", status, strings.TrimSpace(string(truncate(body, 256))))
	}
	return json.Unmarshal(body, out)
}

// getBody performs a GET and returns the raw body and status. A non-200
// status is not an error here; callers needing the verbatim upstream
// response (proxy routes, cache fallback) decide what to do with it.
func getBody(ctx context.Context, httpc *http.Client, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
