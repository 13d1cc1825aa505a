package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// HTTPRail calls an external payment rail's transfer endpoint.
// It never retries: a retried transfer could move money twice.
type HTTPRail struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// HTTPRailConfig configures HTTPRail.
type HTTPRailConfig struct {
	BaseURL string
	Client  *http.Client
	// RatePerSecond caps outgoing transfers; 0 disables the cap.
	RatePerSecond float64
	Burst         int
	Logger        zerolog.Logger
}

// NewHTTPRail creates a new HTTPRail.
func NewHTTPRail(cfg HTTPRailConfig) *HTTPRail {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &HTTPRail{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		limiter: limiter,
		logger:  cfg.Logger,
	}
}

type transferRequest struct {
	Credential string `json:"credential"`
	Amount     string `json:"amount"`
	Reference  string `json:"reference"`
}

type transferError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Transfer posts one transfer. Any non-2xx answer is a failure.
func (r *HTTPRail) Transfer(ctx context.Context, credential string, amount decimal.Decimal, reference string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rail rate limit: %w", err)
	}

	body, err := json.Marshal(transferRequest{
		Credential: credential,
		Amount:     amount.StringFixed(2),
		Reference:  reference,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/transfers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build rail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", reference)

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("rail request: %w", err)
	}
	defer resp.Body.Close()

	r.logger.Debug().
		Str("reference", reference).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("rail transfer")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var railErr transferError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &railErr) == nil && railErr.Message != "" {
		return fmt.Errorf("rail rejected transfer (%d %s): %s", resp.StatusCode, railErr.Error, railErr.Message)
	}

	return fmt.Errorf("rail rejected transfer: status %d", resp.StatusCode)
}
