package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// ContactDedup remembers recently stored contact messages so a repeated
// submission resolves to the first message id.
// Key format: dedup:contact:<sha256 of the length-prefixed email, subject and message>
type ContactDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContactDedup creates a ContactDedup wrapping the given Redis client.
func NewContactDedup(client *redis.Client) *ContactDedup {
	return &ContactDedup{client: client, ttl: dedupTTL}
}

// Seen reports whether an identical message was stored inside the window and,
// if so, its id.
func (d *ContactDedup) Seen(ctx context.Context, email, subject, message string) (int64, bool, error) {
	v, err := d.client.Get(ctx, d.key(email, subject, message)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("dedup check: %w", err)
	}

	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("dedup value %q: %w", v, err)
	}
	return id, true, nil
}

// Mark records the stored message id (expires after the dedup window).
func (d *ContactDedup) Mark(ctx context.Context, email, subject, message string, id int64) error {
	return d.client.Set(ctx, d.key(email, subject, message), id, d.ttl).Err()
}

func (d *ContactDedup) key(email, subject, message string) string {
	h := sha256.New()
	for _, field := range []string{email, subject, message} {
		// Length prefixes keep field boundaries unambiguous.
		h.Write([]byte(strconv.Itoa(len(field)) + ":" + field))
	}
	return "dedup:contact:" + hex.EncodeToString(h.Sum(nil))
}
