// util/cache_service.go

package util

import (
	"context"

	"github.com/MZain-ul-Abideen/MAS-Explainability/db"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

// CacheService caches query-time results so repeated questions over the
// same run skip retrieval and the external model. All methods are no-ops
// returning zero values when Redis is not configured.
type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetEvidencePacket(ctx context.Context, query string) (*model.EvidencePacket, error) {
	if db.RedisClient == nil {
		return nil, nil
	}
	return db.GetCachedEvidencePacket(ctx, query)
}

func (c *CacheService) SetEvidencePacket(ctx context.Context, packet *model.EvidencePacket) error {
	if db.RedisClient == nil {
		return nil
	}
	return db.CacheEvidencePacket(ctx, packet)
}

func (c *CacheService) GetExplanation(ctx context.Context, query string) (*model.Explanation, error) {
	if db.RedisClient == nil {
		return nil, nil
	}
	return db.GetCachedExplanation(ctx, query)
}

func (c *CacheService) SetExplanation(ctx context.Context, explanation *model.Explanation) error {
	if db.RedisClient == nil {
		return nil
	}
	return db.CacheExplanation(ctx, explanation)
}

// InvalidateQueries drops all cached packets and explanations. Called after
// a new pipeline run makes prior answers stale.
func (c *CacheService) InvalidateQueries(ctx context.Context) error {
	if db.RedisClient == nil {
		return nil
	}
	return db.InvalidateQueryCaches(ctx)
}
