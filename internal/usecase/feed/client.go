package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/errors"
	"github.com/quantfold/matching-engine/pkg/logger"
)

// Client fetches order book snapshots from a Binance-compatible REST depth
// endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Interface
}

// NewClient creates a depth endpoint client.
func NewClient(cfg config.FeedConfig, log logger.Interface) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		logger:     log,
	}
}

// FetchSnapshot requests the current depth for a symbol and converts it into
// a snapshot event.
func (c *Client) FetchSnapshot(ctx context.Context, symbol string, levels int) (*marketdatav1.SnapshotEvent, error) {
	url := fmt.Sprintf("%s/api/v3/depth?symbol=%s&limit=%d", c.baseURL, symbol, levels)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error(err, logger.Field{Key: "symbol", Value: symbol})
		return nil, errors.NewTracer("failed to build depth request").Wrap(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(err, logger.Field{Key: "symbol", Value: symbol})
		return nil, errors.NewTracer("depth request failed").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("depth endpoint returned %s", resp.Status)
		c.logger.Error(err, logger.Field{Key: "symbol", Value: symbol})
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error(err, logger.Field{Key: "symbol", Value: symbol})
		return nil, errors.NewTracer("failed to read depth response").Wrap(err)
	}

	snapshot, err := ParseDepth(body, time.Now())
	if err != nil {
		c.logger.Error(err, logger.Field{Key: "symbol", Value: symbol})
		return nil, err
	}

	return snapshot, nil
}
