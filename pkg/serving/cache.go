package serving

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recovera-ai/platform/pkg/common/logger"
	"github.com/recovera-ai/platform/pkg/common/models"
)

// ScoreCache is a best-effort Redis cache of prediction responses keyed by
// a digest of the canonical record. A cache outage degrades to scoring
// every request; it never fails one.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	return &ScoreCache{client: client, ttl: ttl}
}

// RecordKey digests the record with sorted field order so identical
// records always map to the same key.
func RecordKey(record map[string]string) string {
	fields := make([]string, 0, len(record))
	for name := range record {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var builder strings.Builder
	for _, name := range fields {
		builder.WriteString(name)
		builder.WriteByte('=')
		builder.WriteString(record[name])
		builder.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(builder.String()))
	return "score:" + hex.EncodeToString(sum[:])
}

func (c *ScoreCache) Get(ctx context.Context, record map[string]string) (models.PredictionResponse, bool) {
	raw, err := c.client.Get(ctx, RecordKey(record)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Debug("score cache read failed")
		}
		return models.PredictionResponse{}, false
	}
	var resp models.PredictionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		logger.Log.WithError(err).Debug("score cache entry unreadable")
		return models.PredictionResponse{}, false
	}
	return resp, true
}

func (c *ScoreCache) Set(ctx context.Context, record map[string]string, resp models.PredictionResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		logger.Log.WithError(err).Debug("score cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, RecordKey(record), payload, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Debug("score cache write failed")
	}
}
