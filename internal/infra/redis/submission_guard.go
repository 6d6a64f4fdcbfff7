package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionGuard claims run ids with SETNX so a run is submitted once across instances.
// Claims live for ttl; zero keeps them forever.
type SubmissionGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSubmissionGuard(client *redis.Client, ttl time.Duration) *SubmissionGuard {
	return &SubmissionGuard{client: client, ttl: ttl}
}

func (g *SubmissionGuard) Claim(ctx context.Context, sessionID string) (bool, error) {
	return g.client.SetNX(ctx, "result:claim:"+sessionID, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}
