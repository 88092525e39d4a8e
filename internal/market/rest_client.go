package market

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"crypto-trading-assistant-go/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client fetches public market data. Only read endpoints are used; the
// assistant suggests trades, it never places orders.
type Client interface {
	GetServerTime(ctx context.Context) (int64, error)
	GetTickerPrices(ctx context.Context) (map[string]float64, error)
}

// RestClient is a rate-limited REST client for a Binance-style public
// market data API. It implements Client.
type RestClient struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

var _ Client = (*RestClient)(nil)

// NewRestClient creates a market data client from the market config.
func NewRestClient(cfg *config.Market, logger *zap.Logger) *RestClient {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &RestClient{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// doRequest executes a request with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.SetContext(ctx).Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		// Decide whether the failure is worth retrying.
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests || statusCode == 418 {
				shouldRetry = true
				if seconds, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		} else {
			// Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("request failed, retrying",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

// GetServerTime fetches the exchange server time. Used as a
// connectivity check at startup.
func (c *RestClient) GetServerTime(ctx context.Context) (int64, error) {
	type serverTimeResponse struct {
		ServerTime int64 `json:"serverTime"`
	}

	req := c.client.R().SetResult(&serverTimeResponse{})
	resp, err := c.doRequest(ctx, "GET", "/time", req)
	if err != nil {
		return 0, fmt.Errorf("failed to get server time: %w", err)
	}

	return resp.Result().(*serverTimeResponse).ServerTime, nil
}

// tickerPrice is the wire shape of one entry in the /ticker/price response.
type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// GetTickerPrices fetches the latest price for every symbol. Entries
// with unparseable prices are skipped with a warning.
func (c *RestClient) GetTickerPrices(ctx context.Context) (map[string]float64, error) {
	var prices []*tickerPrice

	req := c.client.R().
		SetResult(&prices).
		SetHeader("Content-Type", "application/json")

	resp, err := c.doRequest(ctx, "GET", "/ticker/price", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticker prices: %w", err)
	}

	result := resp.Result().(*[]*tickerPrice)
	priceMap := make(map[string]float64, len(*result))
	for _, p := range *result {
		price, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			c.logger.Warn("skipping unparseable ticker price",
				zap.String("symbol", p.Symbol), zap.String("price", p.Price))
			continue
		}
		priceMap[p.Symbol] = price
	}

	return priceMap, nil
}
