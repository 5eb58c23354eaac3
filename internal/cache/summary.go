package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/periodize/internal/telemetry/tracing"
	"github.com/2beens/periodize/internal/training/volume"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	summaryKeyPrefix    = "volume-summary::"
	summaryGenKeyPrefix = "volume-summary-gen::"
)

// setIfGenUnchanged writes the summary only while the user's generation is the
// one read before the summary was computed. Invalidate bumps the generation, so
// a summary computed before a write can never land after it.
const setIfGenUnchanged = `
if (redis.call('GET', KEYS[2]) or '0') == ARGV[1] then
	return redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return false`

type summarySource interface {
	Summary(ctx context.Context, userID string) ([]volume.Summary, error)
}

// SummaryCache is a read-through redis cache of per user volume summaries.
// Every write to a user's landmarks must be followed by Invalidate.
// Each user has a generation counter next to the cached summary; a reader only
// stores what it computed if no Invalidate ran in the meantime.
type SummaryCache struct {
	redisClient *redis.Client
	source      summarySource
	ttl         time.Duration
}

func NewSummaryCache(redisClient *redis.Client, source summarySource, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SummaryCache{
		redisClient: redisClient,
		source:      source,
		ttl:         ttl,
	}
}

func SummaryKey(userID string) string {
	return summaryKeyPrefix + userID
}

func SummaryGenKey(userID string) string {
	return summaryGenKeyPrefix + userID
}

// Summary serves from redis when possible. Redis failures are logged and the
// summary is computed from the source instead.
func (c *SummaryCache) Summary(ctx context.Context, userID string) (_ []volume.Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.volume.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := SummaryKey(userID)
	cached, err := c.redisClient.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var summaries []volume.Summary
		if err := json.Unmarshal(cached, &summaries); err == nil {
			span.SetAttributes(attribute.Bool("from-cache", true))
			return summaries, nil
		} else {
			log.Errorf("unmarshal cached summary for [%s]: %s", userID, err)
		}
	case errors.Is(err, redis.Nil):
		log.Tracef("summary for [%s] not cached", userID)
	default:
		log.Errorf("get cached summary for [%s]: %s", userID, err)
	}
	span.SetAttributes(attribute.Bool("from-cache", false))

	// read before the source so a concurrent Invalidate is noticed
	cacheable := true
	gen, err := c.redisClient.Get(ctx, SummaryGenKey(userID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		log.Errorf("get summary generation for [%s]: %s", userID, err)
		cacheable = false
	}

	summaries, err := c.source.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cacheable {
		return summaries, nil
	}

	summaryBytes, err := json.Marshal(summaries)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	err = c.redisClient.Eval(
		ctx,
		setIfGenUnchanged,
		[]string{key, SummaryGenKey(userID)},
		gen, summaryBytes, c.ttl.Milliseconds(),
	).Err()
	switch {
	case errors.Is(err, redis.Nil):
		log.Tracef("summary for [%s] invalidated while computed, not caching", userID)
	case err != nil:
		log.Errorf("failed to cache summary for [%s]: %s", userID, err)
	}

	return summaries, nil
}

// Invalidate bumps the user's generation before dropping the cached summary, so
// readers that computed a summary before the write skip storing it.
func (c *SummaryCache) Invalidate(ctx context.Context, userID string) {
	if err := c.redisClient.Incr(ctx, SummaryGenKey(userID)).Err(); err != nil {
		log.Errorf("bump summary generation for [%s]: %s", userID, err)
	}
	if err := c.redisClient.Del(ctx, SummaryKey(userID)).Err(); err != nil {
		log.Errorf("invalidate cached summary for [%s]: %s", userID, err)
	}
}

// UncachedSummary serves summaries straight from the source. Used when redis is not configured.
type UncachedSummary struct {
	source summarySource
}

func NewUncachedSummary(source summarySource) *UncachedSummary {
	return &UncachedSummary{source: source}
}

func (u *UncachedSummary) Summary(ctx context.Context, userID string) ([]volume.Summary, error) {
	return u.source.Summary(ctx, userID)
}

func (u *UncachedSummary) Invalidate(context.Context, string) {}
