package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	submissionTTL = 24 * time.Hour
	// pendingMarker holds a claimed key until its task id is recorded.
	pendingMarker = "pending"
)

// SubmissionGuard provides idempotency checks for feedback submissions.
// Key format: feedback:idem:<idempotency key>
type SubmissionGuard struct {
	client redis.Cmdable
}

// NewSubmissionGuard creates a SubmissionGuard wrapping the given Redis client.
func NewSubmissionGuard(client redis.Cmdable) *SubmissionGuard {
	return &SubmissionGuard{client: client}
}

// Claim reserves key with SETNX so only one submission can own it.
func (g *SubmissionGuard) Claim(ctx context.Context, key string) (string, bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(key), pendingMarker, submissionTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("submission claim: %w", err)
	}
	if ok {
		return "", true, nil
	}

	id, err := g.client.Get(ctx, g.key(key)).Result()
	switch {
	case errors.Is(err, redis.Nil), id == pendingMarker:
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("submission lookup: %w", err)
	}
	return id, false, nil
}

// Complete replaces the pending marker with taskID for another
// submissionTTL.
func (g *SubmissionGuard) Complete(ctx context.Context, key, taskID string) error {
	if err := g.client.Set(ctx, g.key(key), taskID, submissionTTL).Err(); err != nil {
		return fmt.Errorf("submission complete: %w", err)
	}
	return nil
}

// Release frees key so the client can retry a failed submission.
func (g *SubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.key(key)).Err(); err != nil {
		return fmt.Errorf("submission release: %w", err)
	}
	return nil
}

func (g *SubmissionGuard) key(key string) string {
	return fmt.Sprintf("feedback:idem:%s", key)
}
