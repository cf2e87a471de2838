package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Catalog operations

func (s *Storage) SaveCatalog(ctx context.Context, catalog *model.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, catalogKey(), data, 0).Err()
}

func (s *Storage) GetCatalog(ctx context.Context) (*model.Catalog, error) {
	data, err := s.client.Get(ctx, catalogKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCatalogNotFound
		}
		return nil, err
	}

	var catalog model.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Sale ledger operations

func (s *Storage) AppendSale(ctx context.Context, sale *model.SaleRecord) error {
	data, err := json.Marshal(sale)
	if err != nil {
		return err
	}

	// Use pipeline so the ledger TTL is refreshed with every sale
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, salesKey(), data)
	if s.cfg.LedgerTTL > 0 {
		pipe.Expire(ctx, salesKey(), s.cfg.LedgerTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListSales(ctx context.Context) ([]model.SaleRecord, error) {
	items, err := s.client.LRange(ctx, salesKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	sales := make([]model.SaleRecord, 0, len(items))
	for _, item := range items {
		var sale model.SaleRecord
		if err := json.Unmarshal([]byte(item), &sale); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

func (s *Storage) ClearSales(ctx context.Context) error {
	return s.client.Del(ctx, salesKey()).Err()
}
