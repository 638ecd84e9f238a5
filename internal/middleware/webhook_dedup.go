package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// DeliveryDeduper tracks accepted webhook deliveries. Seen is a read-only
// lookup; a delivery is only recorded via Mark, after the handler has
// authenticated and accepted it. Recording on sight would let an unsigned
// request with a guessed body poison the cache and suppress the processor's
// legitimate signed delivery.
type DeliveryDeduper interface {
	Seen(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

type redisDeliveryDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (d *redisDeliveryDeduper) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+":"+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *redisDeliveryDeduper) Mark(ctx context.Context, key string) error {
	return d.client.SetNX(ctx, d.prefix+":"+key, "1", d.ttl).Err()
}

type memoryDeliveryDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemoryDeliveryDeduper(ttl time.Duration) *memoryDeliveryDeduper {
	now := time.Now()
	return &memoryDeliveryDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (d *memoryDeliveryDeduper) Seen(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.seen[key]
	return ok && exp.After(time.Now()), nil
}

func (d *memoryDeliveryDeduper) Mark(_ context.Context, key string) error {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[key] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for k, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, k)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}
	return nil
}

// NewDeliveryDeduper builds a Redis deduper and falls back to in-memory on
// failure.
func NewDeliveryDeduper(addr, pass string, db int, ttl time.Duration) (DeliveryDeduper, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if addr == "" {
		return newMemoryDeliveryDeduper(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryDeliveryDeduper(ttl), err
	}

	return &redisDeliveryDeduper{
		client: client,
		prefix: "inpay:delivery",
		ttl:    ttl,
	}, nil
}

// WebhookDeliveryDedup short-circuits duplicate webhook deliveries by
// event+reference. A delivery is recorded only after the handler has ACKed it
// (signature and timestamp gates passed); rejected deliveries leave no trace.
// This is a fast path only; the ledger's unique transaction reference remains
// the authoritative idempotency guard. Synchronous verification requests
// (X-Verify-Payment) are never deduplicated.
func WebhookDeliveryDedup(deduper DeliveryDeduper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}

			req := c.Request()
			if req.Method != http.MethodPost || req.Header.Get("X-Verify-Payment") != "" {
				return next(c)
			}
			if req.Body == nil {
				return next(c)
			}

			rawBody, err := io.ReadAll(req.Body)
			if err != nil {
				return next(c)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(rawBody))
			if len(rawBody) == 0 {
				return next(c)
			}

			var payload struct {
				Event string `json:"event"`
				Data  struct {
					Reference string `json:"reference"`
				} `json:"data"`
			}
			if err := json.Unmarshal(rawBody, &payload); err != nil || payload.Event == "" || payload.Data.Reference == "" {
				return next(c)
			}
			key := payload.Event + ":" + payload.Data.Reference

			isDuplicate, err := deduper.Seen(req.Context(), key)
			if err != nil {
				return next(c)
			}
			if isDuplicate {
				// The processor only needs a 2xx response to stop retries.
				return c.String(http.StatusOK, "OK")
			}

			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status < http.StatusMultipleChoices {
				_ = deduper.Mark(req.Context(), key)
			}
			return nil
		}
	}
}
