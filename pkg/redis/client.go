package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/hagateway/twilio-dispatch/environments"
	"github.com/hagateway/twilio-dispatch/internal/domain"
	"github.com/hagateway/twilio-dispatch/pkg/logger"
)

type Client struct {
	client valkey.Client
}

const (
	dispatchKeyPrefix = "dispatch_summary:"
	dispatchTTL       = 24 * time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return &Client{client: client}, nil
}

func (c *Client) CacheDispatchSummary(ctx context.Context, dispatchID string, summary *domain.DispatchSummaryCache) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	key := dispatchKeyPrefix + dispatchID

	err = c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Ex(dispatchTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache dispatch summary: %w", err)
	}

	logger.Debugf("Cached dispatch %s summary in Redis", dispatchID)

	return nil
}

func (c *Client) GetCachedSummary(ctx context.Context, dispatchID string) (*domain.DispatchSummaryCache, error) {
	key := dispatchKeyPrefix + dispatchID

	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached summary: %w", result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached summary: %w", err)
	}

	var summary domain.DispatchSummaryCache
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &summary, nil
}

func (c *Client) GetAllCachedSummaries(ctx context.Context) (map[string]*domain.DispatchSummaryCache, error) {
	pattern := dispatchKeyPrefix + "*"

	var keys []string
	var cursor uint64
	for {
		result := c.client.Do(ctx, c.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build())
		if result.Error() != nil {
			return nil, fmt.Errorf("failed to scan cache keys: %w", result.Error())
		}

		scanResult, err := result.AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan result: %w", err)
		}

		keys = append(keys, scanResult.Elements...)
		cursor = scanResult.Cursor

		if cursor == 0 {
			break
		}
	}

	summaries := make(map[string]*domain.DispatchSummaryCache)

	for _, key := range keys {
		getResult := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
		if getResult.Error() != nil {
			continue
		}

		data, err := getResult.ToString()
		if err != nil {
			continue
		}

		var summary domain.DispatchSummaryCache
		if err := json.Unmarshal([]byte(data), &summary); err != nil {
			continue
		}

		dispatchID := strings.TrimPrefix(key, dispatchKeyPrefix)
		summaries[dispatchID] = &summary
	}

	return summaries, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
